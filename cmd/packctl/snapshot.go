package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/codyseavey/packtracker/internal/models"
	"github.com/codyseavey/packtracker/internal/services"
)

func newSnapshotCmd() *cobra.Command {
	var history string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record today's collection value, or list recorded values with --history",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, st, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()
			svc := services.NewSnapshotService(db, st, cfg.SnapshotHour)
			return runSnapshot(cmd.Context(), svc, history, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&history, "history", "", "List snapshots for week, month, 3month, year or all instead of recording")
	return cmd
}

func runSnapshot(ctx context.Context, svc *services.SnapshotService, history string, out io.Writer) error {
	if history != "" {
		snapshots, err := svc.GetHistory(ctx, history)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Fprintln(out, "No snapshots recorded")
			return nil
		}
		for _, s := range snapshots {
			printSnapshot(out, s)
		}
		return nil
	}

	s, err := svc.TakeSnapshot(ctx)
	if err != nil {
		return err
	}
	printSnapshot(out, s)
	return nil
}

func printSnapshot(out io.Writer, s models.CollectionValueSnapshot) {
	fmt.Fprintf(out, "%s  %12s  cards %-12s sealed %-12s (%d cards, %d sealed, %d unique)\n",
		s.SnapshotDate.Format("2006-01-02"),
		models.FormatMoney(s.TotalValue, cfg.Currency),
		models.FormatMoney(s.CardsValue, cfg.Currency),
		models.FormatMoney(s.SealedValue, cfg.Currency),
		s.TotalCards, s.TotalSealed, s.UniqueItems)
}
