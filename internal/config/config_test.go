package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "12345", cfg.App.DefaultPassword)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiration)
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, "DD Healthcare HRMS", cfg.SMTP.FromName)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSOrigins)
	assert.False(t, cfg.OAuth2Google.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "MongoDB")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("APP_CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMongoDB, cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("OTP_TTL", "ten minutes")

		_, err := Load()
		assert.ErrorContains(t, err, "OTP_TTL")
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("postgres without password", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DB_PASSWORD", "")
		t.Setenv("JWT_SECRET", "test-secret")

		_, err := Load()
		assert.ErrorContains(t, err, "DB_PASSWORD")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("JWT_SECRET", "test-secret")

		_, err := Load()
		assert.ErrorContains(t, err, "unsupported DB_DRIVER")
	})
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "hr", Password: "pw", Name: "hrms", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://hr:pw@db:5433/hrms?sslmode=disable", cfg.DatabaseURL())
}
