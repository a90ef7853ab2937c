package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/codyseavey/packtracker/internal/models"
	"github.com/codyseavey/packtracker/internal/stats"
)

// reportRows bounds the table; longer series are sampled evenly
const reportRows = 24

func newStatsCmd() *cobra.Command {
	var (
		rangeFlag string
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the reconstructed collection value for a range",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := models.ParseRange(rangeFlag)
			if err != nil {
				return err
			}
			_, st, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()
			return runStats(cmd.Context(), stats.NewService(st, st), r, plain, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&rangeFlag, "range", "r", string(models.RangeMonth), "1H, 1D, 7D, 1M, 6M, 1Y or ALL")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print markdown without terminal styling")
	return cmd
}

func runStats(ctx context.Context, svc *stats.Service, r models.RangeSelector, plain bool, out io.Writer) error {
	series, err := svc.Series(ctx, "packctl", r)
	if err != nil {
		return err
	}

	md := statsReport(series, cfg.Currency)
	if plain {
		_, err = io.WriteString(out, md)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// statsReport formats a series as a markdown summary and value table
func statsReport(s *models.Series, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Collection value (%s)\n\n", s.Range)
	fmt.Fprintf(&b, "- **Now:** %s\n", models.FormatMoney(s.TotalNow, currency))
	fmt.Fprintf(&b, "- **Start of range:** %s\n", models.FormatMoney(s.Baseline, currency))
	fmt.Fprintf(&b, "- **Change:** %s\n", models.FormatMoney(s.TotalNow.Sub(s.Baseline), currency))
	fmt.Fprintf(&b, "- **Events:** %d\n", s.Events)
	if s.Malformed > 0 {
		fmt.Fprintf(&b, "- **Events with unreadable times:** %d\n", s.Malformed)
	}
	fmt.Fprintf(&b, "- **Bucket width:** %s\n\n", s.BucketWidth)

	b.WriteString("| Time | Value |\n|---|---:|\n")
	for _, p := range samplePoints(s.Points, reportRows) {
		fmt.Fprintf(&b, "| %s | %s |\n",
			time.UnixMilli(p.X).UTC().Format("2006-01-02 15:04"),
			models.FormatMoney(p.Y, currency))
	}
	return b.String()
}

// samplePoints keeps n points spread evenly over pts, always including the
// first and last.
func samplePoints(pts []models.TimeSeriesPoint, n int) []models.TimeSeriesPoint {
	if len(pts) <= n || n < 2 {
		return pts
	}
	out := make([]models.TimeSeriesPoint, 0, n)
	step := float64(len(pts)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, pts[int(float64(i)*step+0.5)])
	}
	return out
}
