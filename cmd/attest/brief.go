package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/attest/internal/brief"
	"github.com/ShayCichocki/attest/internal/config"
	"github.com/ShayCichocki/attest/internal/manifest"
)

var (
	briefPlanFile     string
	briefManifestPath string
	briefForce        bool
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Author the claim brief for a milestone",
	Long: `Author the claim brief from plan acceptance criteria and the test-run
manifest. Authoring reads plan criteria and manifest structure only —
never implementation sources — so the claims stay independent of the
code they judge.

If the manifest is absent, every criterion becomes a conservative
unresolved claim (step "unknown", no artifact, MUST severity) so that
untested criteria block rather than vanish.

A brief is authored once per milestone. Re-authoring happens only when
the manifest step structure changed, or with --force.`,
	RunE: runBrief,
}

func init() {
	briefCmd.Flags().StringVar(&briefPlanFile, "plan", "", "Plan criteria file (YAML, required)")
	briefCmd.Flags().StringVar(&briefManifestPath, "manifest", "", "Manifest path (default from config)")
	briefCmd.Flags().BoolVar(&briefForce, "force", false, "Re-author even if the manifest structure is unchanged")
	briefCmd.MarkFlagRequired("plan")
}

func runBrief(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return err
	}

	manifestPath := briefManifestPath
	if manifestPath == "" {
		manifestPath = cfg.Paths.Manifest
	}

	milestone, criteria, err := brief.LoadCriteria(briefPlanFile)
	if err != nil {
		return err
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	if m == nil {
		color.Yellow("manifest %s not found; authoring conservative unresolved claims", manifestPath)
	}

	storage := brief.NewStorage(projectRoot)
	if storage.Exists(milestone) && !briefForce {
		stored, err := storage.Load(milestone)
		if err != nil {
			return err
		}
		var labels []string
		if m != nil {
			labels = m.Labels()
		}
		if !manifest.StructureChanged(&manifest.Manifest{Steps: stepsFromLabels(stored.StepLabels)}, &manifest.Manifest{Steps: stepsFromLabels(labels)}) {
			fmt.Printf("brief for %s already authored (%d claims); manifest structure unchanged, reusing\n",
				milestone, len(stored.Brief.Claims))
			return nil
		}
		color.Yellow("manifest structure changed; re-authoring brief for %s", milestone)
	}

	b := brief.Author(milestone, criteria, m)
	var labels []string
	if m != nil {
		labels = m.Labels()
	}
	if err := storage.Save(b, labels); err != nil {
		return err
	}

	resolved := 0
	for i := range b.Claims {
		if b.Claims[i].Resolved() {
			resolved++
		}
	}
	color.Green("authored brief for %s: %d claims (%d resolved to artifacts)", milestone, len(b.Claims), resolved)
	return nil
}

func stepsFromLabels(labels []string) []manifest.Step {
	steps := make([]manifest.Step, len(labels))
	for i, l := range labels {
		steps[i] = manifest.Step{Label: l}
	}
	return steps
}
