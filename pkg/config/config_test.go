package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
	assert.Equal(t, 300, cfg.Cache.ListingTTLSeconds)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://smartrentsystem.netlify.app ,")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, []string{"http://localhost:3000", "https://smartrentsystem.netlify.app"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost:6380", cfg.Redis.RedisAddr())
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_InvalidNumberFallsBackToDefault(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DatabaseDSN())
}
