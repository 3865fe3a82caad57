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
	Env      string         `mapstructure:"env"`
	LogLevel string         `mapstructure:"log_level"`
	API      APIConfig      `mapstructure:"api"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Nats     NatsConfig     `mapstructure:"nats"`
	Comments CommentConfig  `mapstructure:"comments"`
	Sync     SyncConfig     `mapstructure:"sync"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type GeocoderConfig struct {
	URL      string        `mapstructure:"url"`
	Debounce time.Duration `mapstructure:"debounce"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// Enabled reports whether snapshots should be stored at all.
func (p PostgresConfig) Enabled() bool {
	return p.Host != "" && p.DB != ""
}

func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type NatsConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type CommentConfig struct {
	InlinePageSize int `mapstructure:"inline_page_size"`
	DetailPageSize int `mapstructure:"detail_page_size"`
}

type SyncConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Load reads .env (if present), then config.yaml (if present), then
// ENGAGE_* environment variables, in increasing priority.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvPrefix("ENGAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("geocoder.url", "http://localhost:8000/api/geocode")
	v.SetDefault("geocoder.debounce", time.Second)
	v.SetDefault("geocoder.cache_ttl", 7*24*time.Hour)
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("postgres.host", "")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "engage.outcome")
	v.SetDefault("comments.inline_page_size", 3)
	v.SetDefault("comments.detail_page_size", 10)
	v.SetDefault("sync.concurrency", 4)
	v.SetDefault("sync.timeout", 5*time.Minute)
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.Comments.InlinePageSize < 1 || c.Comments.DetailPageSize < 1 {
		return errors.New("comment page sizes must be positive")
	}
	if c.Geocoder.Debounce <= 0 {
		return errors.New("geocoder.debounce must be positive")
	}
	return nil
}
