package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/openings/internal/srs"
	"github.com/at-ishikawa/openings/internal/trainer"
)

// StatusFilter limits drill status output to one status. Empty means all.
type StatusFilter string

func (f StatusFilter) String() string {
	return string(f)
}

func (f *StatusFilter) Set(value string) error {
	switch srs.Status(value) {
	case srs.StatusLearning, srs.StatusDue, srs.StatusMastered:
		*f = StatusFilter(value)
		return nil
	}
	return fmt.Errorf("must be one of %s, %s or %s", srs.StatusLearning, srs.StatusDue, srs.StatusMastered)
}

func (f *StatusFilter) Type() string {
	return "status"
}

var _ pflag.Value = (*StatusFilter)(nil)

func (f StatusFilter) match(status srs.Status) bool {
	return f == "" || srs.Status(f) == status
}

func newDrillCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Opening drill commands",
	}
	cmd.AddCommand(newDrillStatusCommand())
	return cmd
}

func newDrillStatusCommand() *cobra.Command {
	var userID int64
	var groupID string
	var filter StatusFilter

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the drill schedule of an opening for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			entries, err := a.Trainer().GetDrillStatus(ctx, userID, groupID)
			if err != nil {
				return fmt.Errorf("GetDrillStatus() > %w", err)
			}
			printDrillStatus(cmd.OutOrStdout(), entries, filter)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	cmd.Flags().StringVar(&groupID, "opening", "", "Opening ID")
	cmd.Flags().Var(&filter, "status", "Only show lines with this status (learning, due, mastered)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("opening")
	return cmd
}

func printDrillStatus(w io.Writer, entries []trainer.DrillStatusEntry, filter StatusFilter) {
	for _, e := range entries {
		if !filter.match(e.Status) {
			continue
		}
		due := "-"
		if e.DueDate != nil {
			due = e.DueDate.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%3d  %-40s %s  interval=%.1fd ease=%.2f streak=%d due=%s\n",
			e.LineNumber, e.ItemID, statusColor(e.Status).Sprintf("%-8s", strings.ToUpper(string(e.Status))),
			e.IntervalDays, e.EaseFactor, e.Streak, due)
	}
}

func statusColor(status srs.Status) *color.Color {
	switch status {
	case srs.StatusMastered:
		return color.New(color.FgGreen)
	case srs.StatusDue:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
