package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Session   SessionConfig   `mapstructure:"session"`
	Services  ServicesConfig  `mapstructure:"services"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	OTel      OTelConfig      `mapstructure:"otel"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	Version     string `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SessionConfig holds session and navigation settings
type SessionConfig struct {
	// TokenCookie is the cookie holding the bearer token (persisted storage key)
	TokenCookie string `mapstructure:"token_cookie"`
	// VisitCookie identifies a browser visit for pending-destination tracking
	VisitCookie string `mapstructure:"visit_cookie"`
	// LoginPath is where denied navigations are redirected
	LoginPath string `mapstructure:"login_path"`
	// LandingPath is the default destination after login when nothing is pending
	LandingPath string `mapstructure:"landing_path"`
	// PendingTTL bounds how long a recorded destination stays consumable
	PendingTTL time.Duration `mapstructure:"pending_ttl"`
	// CookieMaxAge is the token cookie lifetime
	CookieMaxAge time.Duration `mapstructure:"cookie_max_age"`
	// CookieSecure marks cookies Secure (HTTPS only)
	CookieSecure bool `mapstructure:"cookie_secure"`
}

// ServiceConfig holds settings for one external backend service
type ServiceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServicesConfig holds the external services the client delegates to
type ServicesConfig struct {
	Auth        ServiceConfig `mapstructure:"auth"`
	Recommender ServiceConfig `mapstructure:"recommender"`
	Chat        ServiceConfig `mapstructure:"chat"`
	Images      ServiceConfig `mapstructure:"images"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	BurstSize         int  `mapstructure:"burst_size"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	CollectorAddr string `mapstructure:"collector_addr"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	return LoadWithPath(".env")
}

// LoadWithPath loads configuration from a specific env file path
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	// The file is optional, environment variables may carry everything
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "ayuryoga-web")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 3000)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Session defaults
	v.SetDefault("SESSION_TOKEN_COOKIE", "token")
	v.SetDefault("SESSION_VISIT_COOKIE", "visit_id")
	v.SetDefault("SESSION_LOGIN_PATH", "/login")
	v.SetDefault("SESSION_LANDING_PATH", "/")
	v.SetDefault("SESSION_PENDING_TTL", "30m")
	v.SetDefault("SESSION_COOKIE_MAX_AGE", "720h")
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	// External services (auth, recommender and image search share a backend
	// by default, the chat service runs separately)
	v.SetDefault("SERVICES_AUTH_BASE_URL", "http://localhost:8000")
	v.SetDefault("SERVICES_AUTH_TIMEOUT", "10s")
	v.SetDefault("SERVICES_RECOMMENDER_BASE_URL", "http://localhost:8000")
	v.SetDefault("SERVICES_RECOMMENDER_TIMEOUT", "15s")
	v.SetDefault("SERVICES_CHAT_BASE_URL", "http://localhost:5000")
	v.SetDefault("SERVICES_CHAT_TIMEOUT", "60s")
	v.SetDefault("SERVICES_IMAGES_BASE_URL", "http://localhost:8000")
	v.SetDefault("SERVICES_IMAGES_TIMEOUT", "30s")

	// Redis defaults
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Rate limit defaults
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 100)
	v.SetDefault("RATE_LIMIT_BURST_SIZE", 50)

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
}

func bindConfig(v *viper.Viper, cfg *Config) {
	cfg.App = AppConfig{
		Name:        v.GetString("APP_NAME"),
		Environment: v.GetString("APP_ENVIRONMENT"),
		Debug:       v.GetBool("APP_DEBUG"),
		Version:     v.GetString("APP_VERSION"),
	}
	cfg.Server = ServerConfig{
		Host:         v.GetString("SERVER_HOST"),
		Port:         v.GetInt("SERVER_PORT"),
		ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
	}
	cfg.Session = SessionConfig{
		TokenCookie:  v.GetString("SESSION_TOKEN_COOKIE"),
		VisitCookie:  v.GetString("SESSION_VISIT_COOKIE"),
		LoginPath:    v.GetString("SESSION_LOGIN_PATH"),
		LandingPath:  v.GetString("SESSION_LANDING_PATH"),
		PendingTTL:   v.GetDuration("SESSION_PENDING_TTL"),
		CookieMaxAge: v.GetDuration("SESSION_COOKIE_MAX_AGE"),
		CookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
	}
	cfg.Services = ServicesConfig{
		Auth: ServiceConfig{
			BaseURL: v.GetString("SERVICES_AUTH_BASE_URL"),
			Timeout: v.GetDuration("SERVICES_AUTH_TIMEOUT"),
		},
		Recommender: ServiceConfig{
			BaseURL: v.GetString("SERVICES_RECOMMENDER_BASE_URL"),
			Timeout: v.GetDuration("SERVICES_RECOMMENDER_TIMEOUT"),
		},
		Chat: ServiceConfig{
			BaseURL: v.GetString("SERVICES_CHAT_BASE_URL"),
			Timeout: v.GetDuration("SERVICES_CHAT_TIMEOUT"),
		},
		Images: ServiceConfig{
			BaseURL: v.GetString("SERVICES_IMAGES_BASE_URL"),
			Timeout: v.GetDuration("SERVICES_IMAGES_TIMEOUT"),
		},
	}
	cfg.Redis = RedisConfig{
		Enabled:      v.GetBool("REDIS_ENABLED"),
		Host:         v.GetString("REDIS_HOST"),
		Port:         v.GetInt("REDIS_PORT"),
		Password:     v.GetString("REDIS_PASSWORD"),
		DB:           v.GetInt("REDIS_DB"),
		PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
		DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
		ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
	}
	cfg.RateLimit = RateLimitConfig{
		Enabled:           v.GetBool("RATE_LIMIT_ENABLED"),
		RequestsPerSecond: v.GetInt("RATE_LIMIT_REQUESTS_PER_SECOND"),
		BurstSize:         v.GetInt("RATE_LIMIT_BURST_SIZE"),
	}
	cfg.OTel = OTelConfig{
		Enabled:       v.GetBool("OTEL_ENABLED"),
		CollectorAddr: v.GetString("OTEL_COLLECTOR_ADDR"),
	}
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Session.TokenCookie == "" {
		return fmt.Errorf("session token cookie name must not be empty")
	}
	if !strings.HasPrefix(c.Session.LoginPath, "/") {
		return fmt.Errorf("invalid login path: %q", c.Session.LoginPath)
	}
	if !strings.HasPrefix(c.Session.LandingPath, "/") {
		return fmt.Errorf("invalid landing path: %q", c.Session.LandingPath)
	}
	for name, svc := range map[string]ServiceConfig{
		"auth":        c.Services.Auth,
		"recommender": c.Services.Recommender,
		"chat":        c.Services.Chat,
		"images":      c.Services.Images,
	} {
		if svc.BaseURL == "" {
			return fmt.Errorf("missing base URL for %s service", name)
		}
	}
	return nil
}

// IsDevelopment returns true in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
