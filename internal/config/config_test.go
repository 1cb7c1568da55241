package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load("api")
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.RunMode)
	assert.Equal(t, "5050", cfg.ApiPort)
	assert.Equal(t, "invoices", cfg.MongoDbName)
	assert.Equal(t, []string{"*"}, cfg.CorsAllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.CartTTL)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL)
	assert.False(t, cfg.EnforceDiscountCap)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("ENFORCE_DISCOUNT_CAP", "true")
	t.Setenv("CART_TTL_SECONDS", "60")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, http://pos.local")
	t.Setenv("AWS_S3_BUCKET", "invoices-archive")

	cfg, err := Load("all")
	require.NoError(t, err)

	assert.True(t, cfg.EnforceDiscountCap)
	assert.Equal(t, time.Minute, cfg.CartTTL)
	assert.Equal(t, []string{"http://localhost:5173", "http://pos.local"}, cfg.CorsAllowedOrigins)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_DB", "zero")

	_, err := Load("api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid REDIS_DB")
}

func TestLoad_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CART_TTL_SECONDS", "0"},
		{"CART_TTL_SECONDS", "-30"},
		{"RATE_LIMIT_BUCKET_SIZE", "0"},
		{"RATE_LIMIT_REFILL_RATE", "0"},
		{"RATE_LIMIT_REFILL_RATE", "-1"},
		{"CORS_ALLOWED_ORIGINS", "localhost:5173"},
		{"CORS_ALLOWED_ORIGINS", "*, http://pos.local"},
		{"CORS_ALLOWED_ORIGINS", "ftp://pos.local"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("MONGO_URI", "mongodb://localhost:27017")
			t.Setenv(tt.key, tt.value)

			_, err := Load("api")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid "+tt.key)
		})
	}
}
