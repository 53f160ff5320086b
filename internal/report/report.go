// Package report renders per-claim outcome tables and the session
// verdict for the CLI.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ShayCichocki/attest/internal/loop"
	"github.com/ShayCichocki/attest/pkg/models"
)

var (
	passStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")).Padding(0, 1)
	issuesStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")).Padding(0, 1)
	exhaustedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")).Padding(0, 1)
)

// WriteIteration renders one iteration's per-claim table: step, type,
// severity, outcome, and reason when skipped.
func WriteIteration(w io.Writer, rec loop.IterationRecord) {
	fmt.Fprintf(w, "Iteration %d (blocking: %s)\n", rec.N, severityList(rec.Blocking))

	if rec.AuthoringError != "" {
		fmt.Fprintf(w, "  verification skipped: brief authoring failed: %s\n", rec.AuthoringError)
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Step", "Type", "Severity", "Outcome", "Reason"})
	for i, o := range rec.Outcomes {
		reason := string(o.Reason)
		tw.AppendRow(table.Row{i + 1, o.Claim.Step, o.Claim.Type, o.Claim.Severity, outcomeCell(o), reason})
	}
	tw.Render()

	fmt.Fprintf(w, "OVERALL: %s\n", verdictToken(rec.Verdict))
}

// WriteResult renders the terminal session result: the last iteration's
// detail plus the session verdict banner.
func WriteResult(w io.Writer, result *loop.Result) {
	if last := result.Last(); last != nil {
		WriteIteration(w, *last)
	}

	var banner string
	switch result.State {
	case loop.StateAccepted:
		banner = passStyle.Render("ACCEPTED")
	case loop.StateExhausted:
		banner = exhaustedStyle.Render("EXHAUSTED: iteration limit reached with outstanding issues")
	case loop.StateDegraded:
		banner = issuesStyle.Render("DEGRADED: no verification performed; brief authoring never succeeded")
	default:
		banner = string(result.State)
	}
	fmt.Fprintf(w, "\n%s  (%d iteration(s))\n", banner, len(result.Iterations))
}

func outcomeCell(o models.Outcome) string {
	switch o.Status {
	case models.OutcomePass:
		return color.GreenString(string(o.Status))
	case models.OutcomeIssues:
		return color.RedString(string(o.Status))
	default:
		return color.YellowString(string(o.Status))
	}
}

func verdictToken(v models.Verdict) string {
	switch v {
	case models.VerdictPass:
		return color.New(color.FgGreen, color.Bold).Sprint(string(v))
	case models.VerdictIssues, models.VerdictExhausted:
		return color.New(color.FgRed, color.Bold).Sprint(string(v))
	default:
		return string(v)
	}
}

func severityList(severities []models.Severity) string {
	out := ""
	for i, s := range severities {
		if i > 0 {
			out += ","
		}
		out += string(s)
	}
	return out
}
