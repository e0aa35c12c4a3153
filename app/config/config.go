package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "ZETTABOARD"

type Config struct {
	Env       string    `yaml:"env" validate:"oneof=dev test prod"`
	Server    Server    `yaml:"server"`
	API       API       `yaml:"api"`
	Storage   Storage   `yaml:"storage"`
	Cache     Cache     `yaml:"cache"`
	Redis     Redis     `yaml:"redis"`
	Auth      Auth      `yaml:"auth"`
	Metrics   Metrics   `yaml:"metrics"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

type Server struct {
	Address         string        `yaml:"address"`
	Port            int           `yaml:"port" validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// API describes the upstream mock REST API.
type API struct {
	BaseURL  string        `yaml:"base_url" validate:"required,url"`
	Timeout  time.Duration `yaml:"timeout"`
	PageSize int           `yaml:"page_size" validate:"gte=1,lte=100"`
	// Totals assumed when x-total-count is absent.
	PostsFallbackTotal int `yaml:"posts_fallback_total" validate:"gte=0"`
	UsersFallbackTotal int `yaml:"users_fallback_total" validate:"gte=0"`
	// Bound used when the users total is zero or unreadable.
	UsersZeroBound int `yaml:"users_zero_bound" validate:"gte=0"`
}

type Storage struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

type Cache struct {
	Driver string        `yaml:"driver" validate:"oneof=none badger redis"`
	TTL    time.Duration `yaml:"ttl"`
}

type Redis struct {
	Address  string `yaml:"address"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type Auth struct {
	GoogleClientID     string        `yaml:"google_client_id"`
	GoogleClientSecret string        `yaml:"google_client_secret"`
	RedirectURL        string        `yaml:"redirect_url" validate:"omitempty,url"`
	SessionSecret      string        `yaml:"session_secret"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	SecureCookies      bool          `yaml:"secure_cookies"`
}

// Enabled reports whether Google sign-in is configured.
func (a Auth) Enabled() bool {
	return a.GoogleClientID != "" && a.GoogleClientSecret != ""
}

type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps" validate:"gte=0"`
	Burst int     `yaml:"burst" validate:"gte=0"`
}

// Addr returns the listen address of the HTTP server.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("api.base_url", "https://jsonplaceholder.typicode.com")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.page_size", 12)
	v.SetDefault("api.posts_fallback_total", 100)
	v.SetDefault("api.users_fallback_total", 10)
	v.SetDefault("api.users_zero_bound", 200)

	v.SetDefault("storage.path", "data/badger")
	v.SetDefault("storage.in_memory", false)

	v.SetDefault("cache.driver", "badger")
	v.SetDefault("cache.ttl", time.Minute)

	v.SetDefault("redis.address", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("auth.google_client_id", "")
	v.SetDefault("auth.google_client_secret", "")
	v.SetDefault("auth.redirect_url", "http://localhost:8080/api/auth/callback/google")
	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.session_ttl", 30*24*time.Hour)
	v.SetDefault("auth.secure_cookies", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("rate_limit.rps", 20.0)
	v.SetDefault("rate_limit.burst", 40)
}

// Load reads config.yaml from dir (when present), applies ZETTABOARD_*
// environment overrides on top of the defaults and validates the result.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		Server: Server{
			Address:         v.GetString("server.address"),
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		API: API{
			BaseURL:            strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout:            v.GetDuration("api.timeout"),
			PageSize:           v.GetInt("api.page_size"),
			PostsFallbackTotal: v.GetInt("api.posts_fallback_total"),
			UsersFallbackTotal: v.GetInt("api.users_fallback_total"),
			UsersZeroBound:     v.GetInt("api.users_zero_bound"),
		},
		Storage: Storage{
			Path:     v.GetString("storage.path"),
			InMemory: v.GetBool("storage.in_memory"),
		},
		Cache: Cache{
			Driver: v.GetString("cache.driver"),
			TTL:    v.GetDuration("cache.ttl"),
		},
		Redis: Redis{
			Address:  v.GetString("redis.address"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
		},
		Auth: Auth{
			GoogleClientID:     v.GetString("auth.google_client_id"),
			GoogleClientSecret: v.GetString("auth.google_client_secret"),
			RedirectURL:        v.GetString("auth.redirect_url"),
			SessionSecret:      v.GetString("auth.session_secret"),
			SessionTTL:         v.GetDuration("auth.session_ttl"),
			SecureCookies:      v.GetBool("auth.secure_cookies"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
		RateLimit: RateLimit{
			RPS:   v.GetFloat64("rate_limit.rps"),
			Burst: v.GetInt("rate_limit.burst"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad loads the configuration from ./config and exits on failure.
func MustLoad() *Config {
	cfg, err := Load("./config")
	if err != nil {
		log.Printf("Error loading config: %s", err)
		os.Exit(1)
	}
	return cfg
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Auth.Enabled() && c.Auth.SessionSecret == "" {
		return errors.New("invalid config: auth.session_secret is required when google sign-in is enabled")
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	const mask = "********"
	if c.Auth.GoogleClientSecret != "" {
		c.Auth.GoogleClientSecret = mask
	}
	if c.Auth.SessionSecret != "" {
		c.Auth.SessionSecret = mask
	}
	if c.Redis.Password != "" {
		c.Redis.Password = mask
	}
	return c
}
