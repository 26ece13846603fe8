// ABOUTME: CLI command for the JSON-blob to relational migration.
// ABOUTME: One-shot migration with dry-run preview and colored report.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/coach/internal/storage"
	"github.com/spf13/cobra"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy JSON-blob tables to relational storage",
	Long: `Migrate data from the legacy JSON-blob schema to relational tables.

Older versions stored each plan and log as one JSON blob per date in
workout_plans and workout_logs. This command decomposes every blob into
the relational schema, then renames the legacy tables to *_legacy.

IMPORTANT:

  - The legacy workout_plans table must exist in the target database
  - The relational tables must be empty (fresh database)
  - Post-migration validation compares row counts; any mismatch rolls
    everything back and restores the legacy table names
  - Run with --dry-run first to see what would be migrated

USAGE:

  coach migrate --db old.db --dry-run   # Preview
  coach migrate --db old.db             # Migrate in place

AFTER MIGRATION:

  The originals are kept as workout_plans_legacy and
  workout_logs_legacy. Drop them once you have verified the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
		}

		report, err := storage.MigrateFromLegacy(store, migrateDryRun)
		if errors.Is(err, storage.ErrMigrationValidation) {
			color.Red("✗ Migration validation failed - all changes rolled back")
			for _, issue := range report.Issues {
				color.Red("  %s", issue)
			}
			return err
		}
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Printf("Plans:  %d total (%d block-based, %d flat)\n",
			report.PlansTotal, report.PlansWithBlocks, report.PlansFlat)
		fmt.Printf("        %d planned exercises\n", report.PlannedExercises)
		fmt.Printf("Logs:   %d total\n", report.LogsTotal)
		fmt.Printf("        %d exercise logs, %d set logs\n", report.ExerciseLogs, report.SetLogs)

		for _, w := range report.Warnings {
			color.Yellow("⚠ %s", w)
		}

		fmt.Println()
		if migrateDryRun {
			color.Yellow("Dry run complete - nothing was written")
		} else {
			color.Green("✓ Migration complete")
			fmt.Println("  Legacy tables kept as workout_plans_legacy / workout_logs_legacy")
		}

		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
