package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/attest/internal/loop"
	"github.com/ShayCichocki/attest/internal/state"
)

var (
	statusMilestone string
	statusLimit     int
	statusSession   string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show verification session history",
	Long: `List recent verification sessions, newest first. With --session,
show the per-iteration detail of one session instead.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusMilestone, "milestone", "", "Filter sessions by milestone")
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "Maximum sessions to list")
	statusCmd.Flags().StringVar(&statusSession, "session", "", "Show iteration detail for one session id")
}

func runStatus(cmd *cobra.Command, args []string) error {
	dbPath := state.ProjectDBPath(projectRoot)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("no verification sessions recorded yet")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if statusSession != "" {
		return showSession(db, statusSession)
	}

	sessions, err := db.ListSessions(statusMilestone, statusLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no verification sessions recorded yet")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Session", "Milestone", "Tier", "State", "Verdict", "Started", "Finished"})
	for _, s := range sessions {
		finished := "-"
		if s.FinishedAt != nil {
			finished = s.FinishedAt.Local().Format("2006-01-02 15:04:05")
		}
		t.AppendRow(table.Row{
			shortID(s.ID),
			s.Milestone,
			s.Scope,
			string(s.State),
			string(s.Verdict),
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			finished,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func showSession(db *state.DB, id string) error {
	records, err := db.Iterations(id)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no iterations recorded for session %s", id)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"N", "Blocking", "Verdict", "Outcomes", "Authoring error"})
	for _, rec := range records {
		t.AppendRow(table.Row{
			rec.N,
			blockingString(rec),
			string(rec.Verdict),
			len(rec.Outcomes),
			rec.AuthoringError,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func blockingString(rec loop.IterationRecord) string {
	out := ""
	for i, s := range rec.Blocking {
		if i > 0 {
			out += ","
		}
		out += string(s)
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
