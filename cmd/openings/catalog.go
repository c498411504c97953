package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/database"
	"github.com/at-ishikawa/openings/internal/datasync"
)

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog commands",
	}
	cmd.AddCommand(newCatalogImportCommand())
	cmd.AddCommand(newCatalogValidateCommand())
	return cmd
}

func newCatalogImportCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the catalog file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			if cfg.Catalog.File == "" {
				return fmt.Errorf("catalog.file is not configured")
			}

			groups, items, err := catalog.NewYAMLRepository(cfg.Catalog.File).Load()
			if err != nil {
				return fmt.Errorf("catalog.Load() > %w", err)
			}

			db, err := database.Connect(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Connect() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(catalog.NewDBRepository(db), out)
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := importer.ImportCatalog(ctx, groups, items, opts)
			if err != nil {
				return fmt.Errorf("importer.ImportCatalog() > %w", err)
			}
			printImportSummary(out, result, opts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Update existing records with new data")
	return cmd
}

func printImportSummary(w io.Writer, result *datasync.ImportResult, opts datasync.ImportOptions) {
	fmt.Fprintln(w, "\nImport Summary:")
	if opts.DryRun {
		fmt.Fprintln(w, "  (dry-run mode, no changes made)")
	}
	fmt.Fprintf(w, "  Openings:   %d new, %d skipped, %d updated\n", result.GroupsNew, result.GroupsSkipped, result.GroupsUpdated)
	fmt.Fprintf(w, "  Variations: %d new, %d skipped, %d updated\n", result.ItemsNew, result.ItemsSkipped, result.ItemsUpdated)
}

func newCatalogValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a catalog file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := loadConfig()
				if err != nil {
					return fmt.Errorf("loadConfig() > %w", err)
				}
				path = cfg.Catalog.File
			}
			if path == "" {
				return fmt.Errorf("no catalog file given")
			}

			groups, items, err := catalog.NewYAMLRepository(path).Load()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d openings, %d variations\n", path, len(groups), len(items))
			return nil
		},
	}
}
