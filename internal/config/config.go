// Package config handles configuration loading for attest. It supports
// XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for attest.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Verify    VerifyConfig    `mapstructure:"verify"`
	Paths     PathsConfig     `mapstructure:"paths"`
}

// AnthropicConfig holds Anthropic API settings for the visual judge.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// VerifyConfig holds iteration-loop settings.
type VerifyConfig struct {
	// IterationLimit bounds the verification loop.
	IterationLimit int `mapstructure:"iteration_limit"`
	// Scope is the default analysis scope (cursory or thorough).
	Scope string `mapstructure:"scope"`
}

// PathsConfig holds default artifact locations, relative to the project.
type PathsConfig struct {
	// TestOutput is the test-run output directory.
	TestOutput string `mapstructure:"test_output"`
	// Manifest is the manifest path within the project.
	Manifest string `mapstructure:"manifest"`
	// DebugLog is the loop debug log path; empty disables logging.
	DebugLog string `mapstructure:"debug_log"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{},
		Verify: VerifyConfig{
			IterationLimit: 5,
			Scope:          "thorough",
		},
		Paths: PathsConfig{
			TestOutput: "test_output",
			Manifest:   filepath.Join("test_output", "manifest.json"),
			DebugLog:   filepath.Join(".attest", "debug.log"),
		},
	}
}

// ConfigDir returns the XDG config directory for attest.
func ConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "attest")
}

// Load reads configuration from the XDG config path, then applies the
// project-local override (.attest/config.yaml) and ATTEST_* environment
// variables. Missing files fall back to defaults.
func Load(projectRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	projectConfig := filepath.Join(projectRoot, ".attest", "config.yaml")
	if _, err := os.Stat(projectConfig); err == nil {
		v.SetConfigFile(projectConfig)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merge project config: %w", err)
		}
	}

	v.SetEnvPrefix("ATTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return unmarshal(v)
}

// LoadFromPath reads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return unmarshal(v)
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("verify.iteration_limit", def.Verify.IterationLimit)
	v.SetDefault("verify.scope", def.Verify.Scope)
	v.SetDefault("paths.test_output", def.Paths.TestOutput)
	v.SetDefault("paths.manifest", def.Paths.Manifest)
	v.SetDefault("paths.debug_log", def.Paths.DebugLog)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Verify.IterationLimit < 1 {
		return fmt.Errorf("verify.iteration_limit must be at least 1, got %d", c.Verify.IterationLimit)
	}
	if c.Verify.Scope != "cursory" && c.Verify.Scope != "thorough" {
		return fmt.Errorf("verify.scope must be 'cursory' or 'thorough', got %q", c.Verify.Scope)
	}
	return nil
}
