package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 100, cfg.Search.ResultLimit)
		assert.Equal(t, 5*time.Minute, cfg.Search.BranchCacheTTL)
		assert.Equal(t, 16, cfg.Cart.MaxWorkers)
		assert.Equal(t, 3*time.Second, cfg.Cart.BranchTimeout)
		assert.Equal(t, 10, cfg.Cart.TopBranches)
		assert.False(t, cfg.Auth.Enabled)
		assert.True(t, cfg.Database.Enabled)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("RATE_LIMIT", "50")
		_ = os.Setenv("RATE_WINDOW", "30s")
		_ = os.Setenv("SEARCH_RESULT_LIMIT", "40")
		_ = os.Setenv("BRANCH_CACHE_TTL", "10m")
		_ = os.Setenv("CART_MAX_WORKERS", "8")
		_ = os.Setenv("CART_BRANCH_TIMEOUT", "500ms")
		_ = os.Setenv("AUTH_ENABLED", "true")
		_ = os.Setenv("API_KEYS", "key1,key2")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, 40, cfg.Search.ResultLimit)
		assert.Equal(t, 10*time.Minute, cfg.Search.BranchCacheTTL)
		assert.Equal(t, 8, cfg.Cart.MaxWorkers)
		assert.Equal(t, 500*time.Millisecond, cfg.Cart.BranchTimeout)
		assert.True(t, cfg.Auth.Enabled)
		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("RATE_LIMIT", "invalid")
		_ = os.Setenv("AUTH_ENABLED", "invalid")
		_ = os.Setenv("CART_BRANCH_TIMEOUT", "invalid")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, 3*time.Second, cfg.Cart.BranchTimeout)
	})

	t.Run("parses API keys with whitespace", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("API_KEYS", " key1 , key2 ,")
		defer os.Clearenv()

		cfg := Load()

		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
		assert.Len(t, cfg.Auth.APIKeys, 2)
	})

	t.Run("appends custom CORS origins to defaults", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("CORS_ORIGINS", "https://app.example.com")
		defer os.Clearenv()

		cfg := Load()

		assert.Contains(t, cfg.Server.CORSOrigins, "http://localhost:3000")
		assert.Contains(t, cfg.Server.CORSOrigins, "https://app.example.com")
	})
}
