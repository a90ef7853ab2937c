package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/codyseavey/packtracker/internal/metrics"
	"github.com/codyseavey/packtracker/internal/models"
)

var (
	// ErrSuperseded is returned to a caller whose request was replaced by a
	// newer one with the same caller key before it finished.
	ErrSuperseded = errors.New("stats request superseded")

	// ErrStoreUnavailable means every store read failed
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ItemReader lists every item of one kind across the whole hierarchy
type ItemReader interface {
	ListItems(ctx context.Context, kind models.ItemKind) ([]models.Item, error)
}

// EventReader returns change events ascending by time. A nil bound is open.
type EventReader interface {
	QueryEvents(ctx context.Context, kind models.LogKind, from, to *time.Time) ([]models.ChangeEvent, error)
}

// Service serves value series for the Statistics view
type Service struct {
	items  ItemReader
	events EventReader
	now    func() time.Time
	loc    *time.Location

	cache   *expirable.LRU[models.RangeSelector, *models.Series]
	version atomic.Uint64
	group   singleflight.Group

	mu     sync.Mutex
	seq    uint64
	latest map[string]*invocation
}

type invocation struct {
	id     uint64
	cancel context.CancelCauseFunc
}

type Option func(*Service)

// WithClock overrides time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone used for calendar alignment and day boundaries
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithCache keeps up to size computed series for ttl. Store writes should
// call Invalidate.
func WithCache(size int, ttl time.Duration) Option {
	return func(s *Service) {
		if size > 0 && ttl > 0 {
			s.cache = expirable.NewLRU[models.RangeSelector, *models.Series](size, nil, ttl)
		} else {
			s.cache = nil
		}
	}
}

func NewService(items ItemReader, events EventReader, opts ...Option) *Service {
	s := &Service{
		items:  items,
		events: events,
		now:    time.Now,
		loc:    time.Local,
		latest: make(map[string]*invocation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invalidate drops cached series. Computations already in flight will not
// populate the cache.
func (s *Service) Invalidate() {
	s.version.Add(1)
	if s.cache != nil {
		s.cache.Purge()
	}
}

// Series returns the reconstructed value history for r.
//
// Requests with the same non-empty caller key supersede each other: when a
// newer one arrives the older returns ErrSuperseded, whatever state its
// computation is in. Identical concurrent ranges share one computation.
func (s *Service) Series(ctx context.Context, caller string, r models.RangeSelector) (*models.Series, error) {
	ctx, id, done := s.begin(ctx, caller)
	defer done()

	if s.cache != nil {
		if cached, ok := s.cache.Get(r); ok {
			metrics.StatsCacheResults.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.StatsCacheResults.WithLabelValues("miss").Inc()
	}

	version := s.version.Load()
	ch := s.group.DoChan(string(r), func() (any, error) {
		series, err := s.compute(context.WithoutCancel(ctx), r)
		if err == nil && s.cache != nil && s.version.Load() == version {
			s.cache.Add(r, series)
		}
		return series, err
	})

	select {
	case <-ctx.Done():
		if errors.Is(context.Cause(ctx), ErrSuperseded) {
			metrics.StatsSuperseded.Inc()
			return nil, ErrSuperseded
		}
		return nil, ctx.Err()
	case res := <-ch:
		if !s.isLatest(caller, id) {
			metrics.StatsSuperseded.Inc()
			return nil, ErrSuperseded
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Series), nil
	}
}

func (s *Service) begin(ctx context.Context, caller string) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	if caller == "" {
		return ctx, 0, func() { cancel(nil) }
	}

	s.mu.Lock()
	s.seq++
	inv := &invocation{id: s.seq, cancel: cancel}
	if prev := s.latest[caller]; prev != nil {
		prev.cancel(ErrSuperseded)
	}
	s.latest[caller] = inv
	s.mu.Unlock()

	return ctx, inv.id, func() {
		s.mu.Lock()
		if s.latest[caller] == inv {
			delete(s.latest, caller)
		}
		s.mu.Unlock()
		cancel(nil)
	}
}

func (s *Service) isLatest(caller string, id uint64) bool {
	if caller == "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inv := s.latest[caller]
	return inv != nil && inv.id == id
}

func (s *Service) compute(ctx context.Context, r models.RangeSelector) (*models.Series, error) {
	started := time.Now()
	now := s.now().In(s.loc)

	var from *time.Time
	if !r.IsAllTime() {
		f := AlignStart(r, now)
		from = &f
	}

	var (
		cards, sealed        []models.Item
		cardLogs, sealedLogs []models.ChangeEvent
		failed               atomic.Int32
	)
	record := func(source string, err error) {
		if err == nil {
			return
		}
		failed.Add(1)
		metrics.StatsReadFailures.WithLabelValues(source).Inc()
		log.Warn().Err(err).Str("source", source).Str("range", string(r)).
			Msg("Stats: read failed, continuing without it")
	}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		cards, err = s.items.ListItems(ctx, models.ItemCards)
		record("cards", err)
		return nil
	})
	g.Go(func() error {
		var err error
		sealed, err = s.items.ListItems(ctx, models.ItemSealed)
		record("sealed", err)
		return nil
	})
	g.Go(func() error {
		var err error
		cardLogs, err = s.events.QueryEvents(ctx, models.CardLog, from, nil)
		record("card_logs", err)
		return nil
	})
	g.Go(func() error {
		var err error
		sealedLogs, err = s.events.QueryEvents(ctx, models.SealedLog, from, nil)
		record("sealed_logs", err)
		return nil
	})
	_ = g.Wait()

	if failed.Load() == 4 {
		return nil, fmt.Errorf("compute %s series: %w", r, ErrStoreUnavailable)
	}

	events := make([]models.ChangeEvent, 0, len(cardLogs)+len(sealedLogs))
	events = append(events, cardLogs...)
	events = append(events, sealedLogs...)

	series := Compute(Input{
		Range:    r,
		Now:      now,
		Snapshot: LoadSnapshot(cards, sealed),
		Events:   events,
	})

	metrics.StatsComputeDuration.WithLabelValues(string(r)).Observe(time.Since(started).Seconds())
	metrics.CollectionValue.Set(series.TotalNow.InexactFloat64())
	if series.Malformed > 0 {
		metrics.StatsMalformedTimestamps.Add(float64(series.Malformed))
		log.Warn().Int("events", series.Malformed).Str("range", string(r)).
			Msg("Stats: events with unparseable time placed at the epoch")
	}
	log.Debug().Str("range", string(r)).Int("points", len(series.Points)).
		Int("events", series.Events).Dur("bucket", series.BucketWidth).
		Msg("Stats: series computed")

	return series, nil
}
