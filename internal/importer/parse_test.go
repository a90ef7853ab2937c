package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/packtracker/internal/models"
)

func rec(name string, number int, cost, image string) models.ImportRecord {
	return models.ImportRecord{Name: name, Number: number, Cost: decimal.RequireFromString(cost), Image: image}
}

// assertRecords compares decimals by value
func assertRecords(t *testing.T, want, got []models.ImportRecord) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name, "row %d", i)
		assert.Equal(t, want[i].Number, got[i].Number, "row %d", i)
		assert.True(t, want[i].Cost.Equal(got[i].Cost), "row %d cost want %s got %s", i, want[i].Cost, got[i].Cost)
		assert.Equal(t, want[i].Image, got[i].Image, "row %d", i)
	}
}

func TestParseLinesCards(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []models.ImportRecord
	}{
		{
			name:  "name number price image",
			input: "Pikachu, 60, 1.50, https://img/pika.png",
			want:  []models.ImportRecord{rec("Pikachu", 60, "1.5", "https://img/pika.png")},
		},
		{
			name:  "name and number only",
			input: "Pikachu,60",
			want:  []models.ImportRecord{rec("Pikachu", 60, "0", "")},
		},
		{
			name:  "number first",
			input: "60,Pikachu,$2.25",
			want:  []models.ImportRecord{rec("Pikachu", 60, "2.25", "")},
		},
		{
			name:  "no number column",
			input: "Pikachu,$0.75,pika.png",
			want:  []models.ImportRecord{rec("Pikachu", 0, "0.75", "pika.png")},
		},
		{
			name:  "integer price with image",
			input: "Snorlax,40,snorlax.png",
			want:  []models.ImportRecord{rec("Snorlax", 0, "40", "snorlax.png")},
		},
		{
			name:  "unrecognized falls back to positional",
			input: "Eevee,51a,3.5x",
			want:  []models.ImportRecord{rec("Eevee", 51, "3.5", "")},
		},
		{
			name:  "blank and short lines dropped",
			input: "\r\n  \nonlyname\n,60,1\nPikachu,60,1\r\n",
			want:  []models.ImportRecord{rec("Pikachu", 60, "1", "")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRecords(t, tt.want, ParseLines(tt.input, models.ItemCards))
		})
	}
}

func TestParseLinesSealed(t *testing.T) {
	got := ParseLines("Booster Box,$143.99,box.png\n36.5,Elite Trainer Box\nTheme Deck,free", models.ItemSealed)
	assertRecords(t, []models.ImportRecord{
		rec("Booster Box", 0, "143.99", "box.png"),
		rec("Elite Trainer Box", 0, "36.5", ""),
		rec("Theme Deck", 0, "0", ""),
	}, got)
}

func TestParseJSON(t *testing.T) {
	feed := []byte(`[
		{"name": "Pikachu", "number": 60, "price": 1.5, "photo": "pika.png"},
		{"cardName": "Snorlax", "no": "27", "cost": "$40", "img": "snor.png"},
		{"title": "Eevee", "number": 0, "no": 51, "cost": 0, "price": 2},
		{"number": 99},
		"not an object"
	]`)

	got, err := Parse("feed.JSON", feed, models.ItemCards, "")
	require.NoError(t, err)
	assertRecords(t, []models.ImportRecord{
		rec("Pikachu", 60, "1.5", "pika.png"),
		rec("Snorlax", 27, "40", "snor.png"),
		rec("Eevee", 51, "2", ""),
	}, got)
}

func TestParseJSONSealedIgnoresCardFields(t *testing.T) {
	got, err := Parse("sealed.json", []byte(`[{"cardName":"x","title":"ETB","number":4,"price":50}]`), models.ItemSealed, "")
	require.NoError(t, err)
	assertRecords(t, []models.ImportRecord{rec("ETB", 0, "50", "")}, got)
}

func TestParseJSONRoot(t *testing.T) {
	feed := []byte(`{"data": {"set": "Jungle", "cards": [{"name": "Pikachu", "number": 60, "price": 1}]}}`)

	got, err := Parse("export.json", feed, models.ItemCards, "$.data.cards")
	require.NoError(t, err)
	assertRecords(t, []models.ImportRecord{rec("Pikachu", 60, "1", "")}, got)

	_, err = Parse("export.json", feed, models.ItemCards, "")
	assert.ErrorIs(t, err, ErrNoItems, "object without root is not a feed")

	_, err = Parse("export.json", feed, models.ItemCards, "$.data.missing")
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("cards.json", []byte(`{broken`), models.ItemCards, "")
	assert.Error(t, err)

	_, err = Parse("cards.json", []byte(`[]`), models.ItemCards, "")
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = Parse("cards.txt", []byte("just one column\n"), models.ItemCards, "")
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestLooseNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.50", "12.5"},
		{"$3", "3"},
		{"+4.", "4"},
		{"-1.25", "-1.25"},
		{".5", "0.5"},
		{"7abc", "7"},
		{"abc", "0"},
		{"", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.want).Equal(looseDecimal(tt.in)), looseDecimal(tt.in).String())
		})
	}
	assert.Equal(t, 3, looseInt("3.9"))
}
