package main

import (
	"os"

	"github.com/spf13/cobra"
)

var projectRoot string

var rootCmd = &cobra.Command{
	Use:   "attest",
	Short: "Milestone artifact verification",
	Long: `Attest verifies completed milestones against their acceptance criteria
by inspecting test-run artifacts (screenshots, state dumps) against an
independently authored claim brief.

Verification runs a bounded iteration loop: every severity blocks at
first, and the blocking set narrows progressively (MUST,SHOULD,COULD ->
MUST,SHOULD -> MUST) so a milestone converges to a decision instead of
looping indefinitely.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectRoot, "project", ".", "Project root directory")

	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
