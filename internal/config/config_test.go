package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:        "5000",
		SecretKey:   "secure-secret-at-least-32-chars-long",
		DBPassword:  "secure-password",
		DBSSLMode:   "require",
		TokenTTL:    time.Hour,
		DatabaseURL: "",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Valid development config", func(c *Config) { c.Env = "development" }, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing secret", func(c *Config) { c.SecretKey = "" }, true},
		{"Zero token TTL", func(c *Config) { c.TokenTTL = 0 }, true},
		{"Short secret in development only warns", func(c *Config) { c.SecretKey = "short" }, false},
		{"Production with default secret", func(c *Config) {
			c.Env = "production"
			c.SecretKey = defaultSecretKey
		}, true},
		{"Production with short secret", func(c *Config) {
			c.Env = "prod"
			c.SecretKey = "short"
		}, true},
		{"Production with default DB password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"Production with disabled SSL", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "disable"
		}, true},
		{"Production with DATABASE_URL skips discrete DB checks", func(c *Config) {
			c.Env = "production"
			c.DatabaseURL = "postgres://app:secret@db:5432/postboard?sslmode=require"
			c.DBPassword = ""
			c.DBSSLMode = ""
		}, false},
		{"Production with strong settings", func(c *Config) { c.Env = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	c := &Config{
		DBHost:     "db",
		DBPort:     "5433",
		DBUser:     "app",
		DBPassword: "pw",
		DBName:     "posts",
	}
	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=posts sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://app:pw@db:5433/posts"
	assert.Equal(t, "postgres://app:pw@db:5433/posts", c.DSN())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "alias-secret-that-is-long-enough-123")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/postboard")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("TOKEN_TTL", "2h")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "alias-secret-that-is-long-enough-123", c.SecretKey)
	assert.Equal(t, "postgres://u:p@localhost:5432/postboard", c.DSN())
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 2*time.Hour, c.TokenTTL)
	assert.Equal(t, "5000", c.Port)
}

func TestLoadConfig_DevelopmentFallsBackToDefaultSecret(t *testing.T) {
	defer viper.Reset()
	t.Setenv("SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultSecretKey, c.SecretKey)
}
