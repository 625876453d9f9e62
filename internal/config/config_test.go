package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadFrom_DefaultsAndEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "42")
	t.Setenv("PASSPHRASE_HASH", "$2a$10$abc")
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if c.AppPort != "9090" {
		t.Fatalf("AppPort = %q", c.AppPort)
	}
	if c.Database.Driver != "sqlite" || c.Database.DSN != "file::memory:" {
		t.Fatalf("database = %+v", c.Database)
	}
	if c.Redis.DB != 3 {
		t.Fatalf("Redis.DB = %d, want 3", c.Redis.DB)
	}
	if c.IdempotencyTTL() != 42*time.Second {
		t.Fatalf("IdempotencyTTL = %s", c.IdempotencyTTL())
	}
	if c.Quality.InternalSource != "사내" {
		t.Fatalf("InternalSource = %q", c.Quality.InternalSource)
	}
	if len(c.Quality.Customers) != 7 {
		t.Fatalf("Customers = %v", c.Quality.Customers)
	}
	if c.Auth.TokenTTL != 12*time.Hour {
		t.Fatalf("TokenTTL = %s", c.Auth.TokenTTL)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort:      "8080",
			Database:     DatabaseConfig{Driver: "postgres", DSN: "host=db"},
			Auth:         AuthConfig{PassphraseHash: "$2a$10$x", JWTSecret: "s"},
			IdempTTLSecs: 300,
		}
	}

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing port", func(c *Config) { c.AppPort = "" }},
		{"bad driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"missing passphrase hash", func(c *Config) { c.Auth.PassphraseHash = "" }},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"minio without creds", func(c *Config) { c.MinIO.Endpoint = "minio:9000" }},
		{"zero idempotency ttl", func(c *Config) { c.IdempTTLSecs = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatal("want error")
			}
		})
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	open := base()
	open.Auth = AuthConfig{Disabled: true}
	if err := open.Validate(); err != nil {
		t.Fatalf("explicitly open config rejected: %v", err)
	}
}

func TestLoadFrom_GateRequiredByDefault(t *testing.T) {
	t.Setenv("DB_DSN", "host=db")
	t.Setenv("PASSPHRASE_HASH", "")
	t.Setenv("AUTH_DISABLED", "")

	c, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if c.Auth.Disabled {
		t.Fatal("gate must not be disabled by default")
	}
	if err := c.Validate(); err == nil {
		t.Fatal("config without passphrase hash passed Validate")
	}

	t.Setenv("AUTH_DISABLED", "true")
	c, err = LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !c.Auth.Disabled {
		t.Fatal("AUTH_DISABLED not read")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
