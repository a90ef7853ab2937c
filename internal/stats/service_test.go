package stats

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/packtracker/internal/models"
)

type fakeStore struct {
	items  map[models.ItemKind][]models.Item
	events map[models.LogKind][]models.ChangeEvent
	fail   map[string]error

	gate    chan struct{}
	started chan struct{}
	reads   atomic.Int32

	mu    sync.Mutex
	froms []*time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:  map[models.ItemKind][]models.Item{},
		events: map[models.LogKind][]models.ChangeEvent{},
		fail:   map[string]error{},
	}
}

func (f *fakeStore) enter() {
	f.reads.Add(1)
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeStore) ListItems(_ context.Context, kind models.ItemKind) ([]models.Item, error) {
	f.enter()
	if err := f.fail[string(kind)]; err != nil {
		return nil, err
	}
	return f.items[kind], nil
}

func (f *fakeStore) QueryEvents(_ context.Context, kind models.LogKind, from, _ *time.Time) ([]models.ChangeEvent, error) {
	f.enter()
	f.mu.Lock()
	f.froms = append(f.froms, from)
	f.mu.Unlock()
	if err := f.fail[string(kind)+"_logs"]; err != nil {
		return nil, err
	}
	return f.events[kind], nil
}

func newTestService(store *fakeStore, opts ...Option) *Service {
	base := []Option{WithClock(func() time.Time { return testNow }), WithLocation(time.UTC)}
	return NewService(store, store, append(base, opts...)...)
}

func seededStore() *fakeStore {
	store := newFakeStore()
	store.items[models.ItemCards] = []models.Item{card("Base / Jungle", 60, "Normal", 3, "10")}
	store.items[models.ItemSealed] = []models.Item{sealedItem("Booster Box", 1, "100")}
	store.events[models.CardLog] = []models.ChangeEvent{
		cardEvent(testNow.Add(-time.Hour), models.LogEntry{Set: "Base / Jungle", Number: 60, Print: "Normal", Amount: 1}),
	}
	store.events[models.SealedLog] = []models.ChangeEvent{
		sealedEvent(testNow.Add(-2*time.Hour), models.LogEntry{SealedName: "Booster Box", Amount: 1}),
	}
	return store
}

func TestServiceSeries(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	series, err := svc.Series(context.Background(), "", models.RangeWeek)
	require.NoError(t, err)

	assertDecimal(t, "130", series.TotalNow)
	assertDecimal(t, "20", series.Baseline)
	assert.Equal(t, 2, series.Events)
	assert.EqualValues(t, 4, store.reads.Load())

	weekStart := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	require.Len(t, store.froms, 2)
	for _, from := range store.froms {
		require.NotNil(t, from)
		assert.True(t, weekStart.Equal(*from))
	}
}

func TestServiceAllTimeQueriesWithoutLowerBound(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	_, err := svc.Series(context.Background(), "", models.RangeAll)
	require.NoError(t, err)
	for _, from := range store.froms {
		assert.Nil(t, from)
	}
}

func TestServicePartialFailures(t *testing.T) {
	tests := []struct {
		name      string
		fail      []string
		wantTotal string
		wantBase  string
	}{
		{name: "card logs", fail: []string{"card_logs"}, wantTotal: "130", wantBase: "30"},
		{name: "sealed items", fail: []string{"sealed"}, wantTotal: "30", wantBase: "20"},
		{name: "both logs", fail: []string{"card_logs", "sealed_logs"}, wantTotal: "130", wantBase: "130"},
		{name: "three of four", fail: []string{"cards", "sealed", "card_logs"}, wantTotal: "0", wantBase: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			for _, src := range tt.fail {
				store.fail[src] = errors.New("read timeout")
			}

			series, err := newTestService(store).Series(context.Background(), "", models.RangeWeek)
			require.NoError(t, err)
			assertDecimal(t, tt.wantTotal, series.TotalNow)
			assertDecimal(t, tt.wantBase, series.Baseline)
		})
	}
}

func TestServiceAllReadsFail(t *testing.T) {
	store := seededStore()
	for _, src := range []string{"cards", "sealed", "card_logs", "sealed_logs"} {
		store.fail[src] = errors.New("connection refused")
	}

	series, err := newTestService(store).Series(context.Background(), "", models.RangeDay)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Nil(t, series)
}

func TestServiceCacheAndInvalidate(t *testing.T) {
	store := seededStore()
	svc := newTestService(store, WithCache(8, time.Minute))
	ctx := context.Background()

	first, err := svc.Series(ctx, "", models.RangeMonth)
	require.NoError(t, err)
	assert.EqualValues(t, 4, store.reads.Load())

	second, err := svc.Series(ctx, "", models.RangeMonth)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 4, store.reads.Load())

	svc.Invalidate()
	third, err := svc.Series(ctx, "", models.RangeMonth)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.EqualValues(t, 8, store.reads.Load())
}

func TestServiceNewerRequestSupersedesOlder(t *testing.T) {
	store := seededStore()
	store.gate = make(chan struct{})
	store.started = make(chan struct{}, 1)
	svc := newTestService(store)
	ctx := context.Background()

	older := make(chan error, 1)
	go func() {
		_, err := svc.Series(ctx, "client-a", models.RangeWeek)
		older <- err
	}()
	<-store.started

	type result struct {
		series *models.Series
		err    error
	}
	newer := make(chan result, 1)
	go func() {
		s, err := svc.Series(ctx, "client-a", models.RangeWeek)
		newer <- result{s, err}
	}()

	select {
	case err := <-older:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("older request was not superseded")
	}

	close(store.gate)
	res := <-newer
	require.NoError(t, res.err)
	assertDecimal(t, "130", res.series.TotalNow)
}

func TestServiceDistinctCallersDoNotSupersede(t *testing.T) {
	store := seededStore()
	store.gate = make(chan struct{})
	store.started = make(chan struct{}, 1)
	svc := newTestService(store)
	ctx := context.Background()

	errs := make(chan error, 2)
	go func() {
		_, err := svc.Series(ctx, "client-a", models.RangeDay)
		errs <- err
	}()
	<-store.started
	go func() {
		_, err := svc.Series(ctx, "client-b", models.RangeDay)
		errs <- err
	}()

	close(store.gate)
	assert.NoError(t, <-errs)
	assert.NoError(t, <-errs)
}

func TestServiceCallerCancellation(t *testing.T) {
	store := seededStore()
	store.gate = make(chan struct{})
	store.started = make(chan struct{}, 1)
	svc := newTestService(store)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := svc.Series(ctx, "client-a", models.RangeHour)
		errs <- err
	}()
	<-store.started
	cancel()

	assert.ErrorIs(t, <-errs, context.Canceled)
	close(store.gate)
}
