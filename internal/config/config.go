package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"app_port"`

	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	GenAI    GenAIConfig    `mapstructure:"genai"`
	Render   RenderConfig   `mapstructure:"render"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Quality  QualityConfig  `mapstructure:"quality"`

	IdempTTLSecs int `mapstructure:"idempotency_ttl_seconds"`
}

type DatabaseConfig struct {
	// Driver is one of postgres, mysql, sqlite.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	// Addr empty means the list cache stays in process.
	Addr         string `mapstructure:"addr"`
	DB           int    `mapstructure:"db"`
	ListCacheTTL int    `mapstructure:"list_cache_ttl_seconds"`
}

type GenAIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
}

type RenderConfig struct {
	// ControlURL attaches to a running browser; otherwise BrowserBin (or a managed download) is launched.
	ControlURL string  `mapstructure:"control_url"`
	BrowserBin string  `mapstructure:"browser_bin"`
	Scale      float64 `mapstructure:"scale"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type AuthConfig struct {
	// PassphraseHash is a bcrypt hash. It and JWTSecret are required unless Disabled.
	PassphraseHash string        `mapstructure:"passphrase_hash"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	// Disabled opens /api to everyone. Local use only.
	Disabled bool `mapstructure:"disabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type QualityConfig struct {
	InternalSource string   `mapstructure:"internal_source"`
	Customers      []string `mapstructure:"customers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.list_cache_ttl_seconds", 60)
	v.SetDefault("genai.model", "gemini-2.5-flash")
	v.SetDefault("genai.language", "Korean")
	v.SetDefault("render.scale", 2.0)
	v.SetDefault("minio.bucket", "ncr-reports")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("quality.internal_source", "사내")
	v.SetDefault("quality.customers", []string{
		"LGE", "MTX", "동국실업", "동아전기", "모베이스", "하이게인 안테나", "한빛 T&I",
	})
	v.SetDefault("idempotency_ttl_seconds", 300)
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("app_port", "APP_PORT")
	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.dsn", "DB_DSN")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("redis.list_cache_ttl_seconds", "LIST_CACHE_TTL_SECONDS")
	_ = v.BindEnv("genai.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("genai.model", "GEMINI_MODEL")
	_ = v.BindEnv("genai.language", "GEMINI_LANGUAGE")
	_ = v.BindEnv("render.control_url", "BROWSER_CONTROL_URL")
	_ = v.BindEnv("render.browser_bin", "BROWSER_BIN")
	_ = v.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	_ = v.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	_ = v.BindEnv("minio.bucket", "MINIO_BUCKET")
	_ = v.BindEnv("minio.use_ssl", "MINIO_USE_SSL")
	_ = v.BindEnv("auth.passphrase_hash", "PASSPHRASE_HASH")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("auth.token_ttl", "TOKEN_TTL")
	_ = v.BindEnv("auth.disabled", "AUTH_DISABLED")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
	_ = v.BindEnv("quality.internal_source", "INTERNAL_SOURCE")
	_ = v.BindEnv("quality.customers", "CUSTOMERS")
	_ = v.BindEnv("idempotency_ttl_seconds", "IDEMPOTENCY_TTL_SECONDS")
}

// Load reads config.yaml (optional), then .env (optional), then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(viper.New())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("missing DB_DSN")
	}
	if !c.Auth.Disabled {
		if c.Auth.PassphraseHash == "" {
			return errors.New("missing PASSPHRASE_HASH (or set AUTH_DISABLED=true)")
		}
		if c.Auth.JWTSecret == "" {
			return errors.New("missing JWT_SECRET")
		}
	}
	if c.MinIO.Endpoint != "" && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "") {
		return errors.New("missing MinIO credentials (MINIO_ACCESS_KEY/SECRET_KEY)")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) ListCacheTTL() time.Duration {
	return time.Duration(c.Redis.ListCacheTTL) * time.Second
}
