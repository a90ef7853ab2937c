// Package importer turns bulk import feeds into item writes.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/codyseavey/packtracker/internal/metrics"
	"github.com/codyseavey/packtracker/internal/models"
)

// Writer persists one imported record
type Writer interface {
	UpsertImported(ctx context.Context, ref models.SetRef, kind models.ItemKind, rec models.ImportRecord, mode models.ImportMode) (created bool, err error)
}

// Importer applies parsed records to a set, pacing writes so large feeds
// do not monopolize the store.
type Importer struct {
	writer  Writer
	limiter *rate.Limiter
}

// New returns an Importer allowing writesPerSecond sustained writes with
// bursts of the same size.
func New(w Writer, writesPerSecond float64) *Importer {
	burst := int(writesPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Importer{
		writer:  w,
		limiter: rate.NewLimiter(rate.Limit(writesPerSecond), burst),
	}
}

// Result summarizes one Apply call
type Result struct {
	Kind     models.ItemKind   `json:"kind"`
	Mode     models.ImportMode `json:"mode"`
	Imported int               `json:"imported"`
	Created  int               `json:"created"`
	Failed   []string          `json:"failed"`
}

// Apply writes every record into the set. A failing record is logged and
// reported in Failed; the import carries on with the rest. Cancelling ctx
// stops the import and returns what was written so far.
func (im *Importer) Apply(ctx context.Context, ref models.SetRef, kind models.ItemKind, recs []models.ImportRecord, mode models.ImportMode) (Result, error) {
	started := time.Now()
	res := Result{Kind: kind, Mode: mode, Failed: []string{}}
	defer func() {
		metrics.ImportDuration.Observe(time.Since(started).Seconds())
	}()

	for _, rec := range recs {
		if err := im.limiter.Wait(ctx); err != nil {
			return res, fmt.Errorf("import into %s interrupted after %d items: %w", ref.Label(), res.Imported, err)
		}

		created, err := im.writer.UpsertImported(ctx, ref, kind, rec, mode)
		if err != nil {
			log.Warn().Err(err).Str("set", ref.Label()).Str("name", rec.Name).Msg("Import: item failed")
			metrics.ImportItemsTotal.WithLabelValues(string(kind), string(mode), "failed").Inc()
			res.Failed = append(res.Failed, rec.Name)
			continue
		}
		metrics.ImportItemsTotal.WithLabelValues(string(kind), string(mode), "written").Inc()
		res.Imported++
		if created {
			res.Created++
		}
	}

	log.Info().Str("set", ref.Label()).Str("kind", string(kind)).Str("mode", string(mode)).
		Int("imported", res.Imported).Int("created", res.Created).Int("failed", len(res.Failed)).
		Dur("took", time.Since(started)).Msg("Import finished")
	return res, nil
}
