package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "storefront-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend, "no URI falls back to the in-memory store")
	assert.Equal(t, "storefront", cfg.Store.Database)
	assert.Equal(t, 10*time.Second, cfg.Store.ConnectTimeout)
	assert.Equal(t, CartStoreMemory, cfg.Cart.Store)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins, "CORS origins must be opt-in")
}

func TestApplyDefaults_URIImpliesMongo(t *testing.T) {
	cfg := &Config{}
	cfg.Store.URI = "mongodb://localhost:27017"
	applyDefaults(cfg)

	assert.Equal(t, StoreBackendMongo, cfg.Store.Backend)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, valid().validate())
	})

	t.Run("mongo backend requires uri", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Backend = StoreBackendMongo
		cfg.Store.URI = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Backend = "cassandra"
		assert.Error(t, cfg.validate())
	})

	t.Run("unknown cart store rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Cart.Store = "memcached"
		assert.Error(t, cfg.validate())
	})

	t.Run("memory store forbidden in production", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		assert.Error(t, cfg.validate())
	})

	t.Run("wildcard cors forbidden in production", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.Store.Backend = StoreBackendMongo
		cfg.Store.URI = "mongodb://db:27017"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
