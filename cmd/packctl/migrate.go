package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/database"
	"github.com/codyseavey/packtracker/internal/models"
)

func newMigrateLogsCmd() *cobra.Command {
	var (
		execute bool
		kinds   []string
	)
	cmd := &cobra.Command{
		Use:   "migrate-logs",
		Short: "Rename change logs to time-sortable IDs",
		Long: "Rename every change log whose ID does not already sort by time.\n" +
			"Without --execute the command only reports what it would change.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()
			return runMigrateLogs(cmd.Context(), db, kinds, execute, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&execute, "execute", false, "Write the changes (default is a dry run)")
	cmd.Flags().StringSliceVar(&kinds, "kind", []string{string(models.CardLog), string(models.SealedLog)}, "Log kinds to migrate")
	return cmd
}

func runMigrateLogs(ctx context.Context, db *gorm.DB, kinds []string, execute bool, out io.Writer) error {
	var results []database.LogIDResult
	for _, k := range kinds {
		kind, err := models.ParseLogKind(k)
		if err != nil {
			return err
		}
		res, err := database.MigrateLogIDs(ctx, db, kind, database.LogIDOptions{Execute: execute})
		results = append(results, res)
		if err != nil {
			printMigrationSummary(out, results)
			return fmt.Errorf("migrate %s logs: %w", kind, err)
		}
	}
	printMigrationSummary(out, results)
	return nil
}

func printMigrationSummary(out io.Writer, results []database.LogIDResult) {
	fmt.Fprintln(out, "=== Log ID Migration Summary ===")
	for _, r := range results {
		if r.DryRun {
			fmt.Fprintf(out, "%s (DRY RUN - no changes made)\n", r.Kind)
		} else {
			fmt.Fprintf(out, "%s\n", r.Kind)
		}
		fmt.Fprintf(out, "  Processed: %d\n", r.Processed)
		fmt.Fprintf(out, "  Migrated:  %d\n", r.Migrated)
		fmt.Fprintf(out, "  Skipped:   %d\n", r.Skipped)
		fmt.Fprintf(out, "  Batches:   %d\n", r.Batches)
	}
}
