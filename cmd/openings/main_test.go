package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/openings/internal/srs"
	"github.com/at-ishikawa/openings/internal/stats"
	"github.com/at-ishikawa/openings/internal/trainer"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "openings", cmd.Use)
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "catalog", "drill", "stats"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

func TestNewMigrateCommand(t *testing.T) {
	cmd := newMigrateCommand()

	assert.Equal(t, "migrate", cmd.Use)
	assert.Equal(t, "Migration commands", cmd.Short)
	assert.True(t, cmd.HasSubCommands())
}

func TestNewCatalogImportCommand(t *testing.T) {
	cmd := newCatalogImportCommand()

	assert.Equal(t, "import", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("dry-run"))
	assert.NotNil(t, cmd.Flags().Lookup("update-existing"))
	assert.NotNil(t, cmd.RunE)
}

func TestCatalogValidateCommand(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.yml")
	require.NoError(t, os.WriteFile(valid, []byte(`categories:
  - name: White
    openings:
      - id: italian
        name: Italian Game
        variations:
          - id: italian-main
            name: Main Line
            moves:
              - {san: e4}
              - {san: e5}
`), 0o644))
	invalid := filepath.Join(dir, "invalid.yml")
	require.NoError(t, os.WriteFile(invalid, []byte("categories: [\n"), 0o644))

	tests := []struct {
		name    string
		file    string
		want    string
		wantErr bool
	}{
		{
			name: "valid catalog",
			file: valid,
			want: valid + ": 1 openings, 1 variations\n",
		},
		{
			name:    "malformed catalog",
			file:    invalid,
			wantErr: true,
		},
		{
			name:    "missing file",
			file:    filepath.Join(dir, "missing.yml"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := newCatalogValidateCommand()
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs([]string{tt.file})

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestStatusFilter_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    StatusFilter
		wantErr bool
	}{
		{name: "learning", value: "learning", want: "learning"},
		{name: "due", value: "due", want: "due"},
		{name: "mastered", value: "mastered", want: "mastered"},
		{name: "unknown", value: "forgotten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f StatusFilter
			err := f.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, StatusFilter(""), f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
			assert.Equal(t, "status", f.Type())
		})
	}
}

func TestPrintDrillStatus(t *testing.T) {
	color.NoColor = true
	due := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	entries := []trainer.DrillStatusEntry{
		{ItemID: "italian-main", LineNumber: 1, Status: srs.StatusLearning, EaseFactor: 2.5},
		{ItemID: "italian-evans", LineNumber: 2, Status: srs.StatusDue, IntervalDays: 1, EaseFactor: 2.5, Streak: 1, DueDate: &due},
	}

	tests := []struct {
		name   string
		filter StatusFilter
		want   []string
		absent []string
	}{
		{
			name: "no filter",
			want: []string{"italian-main", "LEARNING", "italian-evans", "DUE", "due=2026-01-02 03:04"},
		},
		{
			name:   "due only",
			filter: StatusFilter(srs.StatusDue),
			want:   []string{"italian-evans"},
			absent: []string{"italian-main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printDrillStatus(&out, entries, tt.filter)
			for _, s := range tt.want {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestPrintThemeStats(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	printThemeStats(&out, nil)
	assert.Equal(t, "No attempts yet.\n", out.String())

	out.Reset()
	printThemeStats(&out, []stats.ThemeStat{
		{Name: "center", Attempts: 4, Successes: 1, Accuracy: 0.25},
	})
	assert.Contains(t, out.String(), "center")
	assert.Contains(t, out.String(), "25.0%")
	assert.Contains(t, out.String(), "(1/4)")
}
