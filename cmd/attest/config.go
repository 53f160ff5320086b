package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/attest/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the effective configuration after merging the XDG config file,
the project-local override (.attest/config.yaml), and ATTEST_*
environment variables. API keys are redacted.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return err
	}

	redacted := *cfg
	if redacted.Anthropic.APIKey != "" {
		redacted.Anthropic.APIKey = "****"
	}

	out, err := yaml.Marshal(map[string]interface{}{
		"anthropic": map[string]interface{}{
			"api_key":     redacted.Anthropic.APIKey,
			"model":       redacted.Anthropic.Model,
			"use_bedrock": redacted.Anthropic.UseBedrock,
			"aws_region":  redacted.Anthropic.AWSRegion,
			"aws_profile": redacted.Anthropic.AWSProfile,
		},
		"verify": map[string]interface{}{
			"iteration_limit": redacted.Verify.IterationLimit,
			"scope":           redacted.Verify.Scope,
		},
		"paths": map[string]interface{}{
			"test_output": redacted.Paths.TestOutput,
			"manifest":    redacted.Paths.Manifest,
			"debug_log":   redacted.Paths.DebugLog,
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("# global config: %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Printf("# project override: %s\n", filepath.Join(projectRoot, ".attest", "config.yaml"))
	fmt.Print(string(out))
	return nil
}
