package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Geocoder.Debounce)
	assert.Equal(t, 3, cfg.Comments.InlinePageSize)
	assert.Equal(t, 10, cfg.Comments.DetailPageSize)
	assert.Equal(t, "engage.outcome", cfg.Nats.SubjectPrefix)
	assert.False(t, cfg.Postgres.Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENGAGE_API_BASE_URL", "https://api.example.com")
	t.Setenv("ENGAGE_GEOCODER_DEBOUNCE", "250ms")
	t.Setenv("ENGAGE_COMMENTS_DETAIL_PAGE_SIZE", "25")
	t.Setenv("ENGAGE_POSTGRES_HOST", "db")
	t.Setenv("ENGAGE_POSTGRES_DB", "engage")
	t.Setenv("ENGAGE_POSTGRES_USER", "app")
	t.Setenv("ENGAGE_POSTGRES_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Geocoder.Debounce)
	assert.Equal(t, 25, cfg.Comments.DetailPageSize)
	assert.True(t, cfg.Postgres.Enabled())
	assert.Equal(t, "postgres://app:pw@db:5432/engage?sslmode=disable", cfg.Postgres.ConnString())
}

func TestLoadRejectsBadPageSize(t *testing.T) {
	t.Setenv("ENGAGE_COMMENTS_INLINE_PAGE_SIZE", "0")
	_, err := Load()
	assert.Error(t, err)
}
