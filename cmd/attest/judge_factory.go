package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/attest/internal/analysis"
	"github.com/ShayCichocki/attest/internal/api"
	"github.com/ShayCichocki/attest/internal/config"
)

// createEvaluator builds the evaluator with a Claude-backed visual judge
// from configuration.
func createEvaluator(cfg *config.Config) (*analysis.Evaluator, *api.Client, error) {
	client, err := api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create API client: %w", err)
	}

	return analysis.NewEvaluator(api.NewJudge(client)), client, nil
}
