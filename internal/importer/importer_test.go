package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/packtracker/internal/models"
)

type fakeWriter struct {
	got    []models.ImportRecord
	exists map[string]bool
	fail   map[string]bool
}

func (f *fakeWriter) UpsertImported(_ context.Context, _ models.SetRef, _ models.ItemKind, rec models.ImportRecord, _ models.ImportMode) (bool, error) {
	if f.fail[rec.Name] {
		return false, errors.New("disk full")
	}
	f.got = append(f.got, rec)
	created := !f.exists[rec.Name]
	f.exists[rec.Name] = true
	return created, nil
}

var jungle = models.SetRef{Language: "English", Category: "Base", Set: "Jungle"}

func TestApply(t *testing.T) {
	w := &fakeWriter{exists: map[string]bool{"Pikachu": true}, fail: map[string]bool{"Bad": true}}
	im := New(w, 1000)

	recs := ParseLines("Pikachu,60,1\nSnorlax,27,40\nBad,1,1\nEevee,51,2", models.ItemCards)
	res, err := im.Apply(context.Background(), jungle, models.ItemCards, recs, models.ImportPrices)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, []string{"Bad"}, res.Failed)
	assert.Equal(t, models.ImportPrices, res.Mode)
	assert.Len(t, w.got, 3)
}

func TestApplyStopsWhenCancelled(t *testing.T) {
	w := &fakeWriter{exists: map[string]bool{}}
	im := New(w, 0.001)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := im.Apply(ctx, jungle, models.ItemSealed, []models.ImportRecord{{Name: "A"}, {Name: "B"}}, models.ImportAll)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Imported)
	assert.Empty(t, w.got)
}
