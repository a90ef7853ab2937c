package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "./packtracker.db", cfg.DBPath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, 23, cfg.SnapshotHour)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Empty(t, cfg.EditorTokens)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestNewEnvOverride(t *testing.T) {
	t.Setenv("PACKTRACKER_PORT", "9000")
	t.Setenv("PACKTRACKER_EDITOR_TOKENS", "alpha, ,beta")
	t.Setenv("PACKTRACKER_STATS_CACHE_TTL", "2m")
	t.Setenv("PACKTRACKER_CURRENCY", " eur ")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.EditorTokens)
	assert.Equal(t, 2*time.Minute, cfg.StatsCacheTTL)
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "port", key: "PACKTRACKER_PORT", val: "0"},
		{name: "snapshot hour", key: "PACKTRACKER_SNAPSHOT_HOUR", val: "24"},
		{name: "log format", key: "PACKTRACKER_LOG_FORMAT", val: "xml"},
		{name: "write rate", key: "PACKTRACKER_IMPORT_WRITES_PER_SECOND", val: "0"},
		{name: "unparseable", key: "PACKTRACKER_STATS_CACHE_SIZE", val: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := New()
			assert.Error(t, err)
		})
	}
}
