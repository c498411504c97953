package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/openings/internal/stats"
)

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Statistics commands",
	}
	cmd.AddCommand(newStatsThemesCommand())
	return cmd
}

func newStatsThemesCommand() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "Show accuracy per theme, weakest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			themes, err := a.Trainer().ThemeStats(ctx, userID)
			if err != nil {
				return fmt.Errorf("ThemeStats() > %w", err)
			}
			printThemeStats(cmd.OutOrStdout(), themes)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printThemeStats(w io.Writer, themes []stats.ThemeStat) {
	if len(themes) == 0 {
		fmt.Fprintln(w, "No attempts yet.")
		return
	}
	weak := color.New(color.FgRed)
	for _, t := range themes {
		line := fmt.Sprintf("%-24s %5.1f%%  (%d/%d)", t.Name, t.Accuracy*100, t.Successes, t.Attempts)
		if t.Accuracy < 0.5 {
			line = weak.Sprint(line)
		}
		fmt.Fprintln(w, line)
	}
}
