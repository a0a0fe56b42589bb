package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	S3       S3Config
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	StaticDir      string
	TLSCert        string
	TLSKey         string
	RateLimitRPS   float64
	RateLimitBurst int
}

// DatabaseConfig holds database configuration. An empty URL disables
// accounts and presets.
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	TokenKey string
}

// S3Config holds the report archive configuration. An empty bucket disables
// archiving.
type S3Config struct {
	Region   string
	Bucket   string
	Endpoint string
}

var keys = []string{
	"PORT", "ENVIRONMENT", "ALLOWED_ORIGINS", "STATIC_DIR", "TLS_CERT", "TLS_KEY",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "DATABASE_URL", "TOKEN_KEY",
	"AWS_REGION", "S3_BUCKET", "S3_ENDPOINT",
}

// Load reads .env files (if present) and the environment.
func Load(envFiles ...string) (*Config, error) {
	// Missing .env files are fine; real environment variables win.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("STATIC_DIR", "./static")
	v.SetDefault("TLS_CERT", "")
	v.SetDefault("TLS_KEY", "")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("TOKEN_KEY", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ENDPOINT", "")

	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	cfg.Server.Port = v.GetString("PORT")
	cfg.Server.Env = v.GetString("ENVIRONMENT")
	cfg.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	cfg.Server.StaticDir = v.GetString("STATIC_DIR")
	cfg.Server.TLSCert = v.GetString("TLS_CERT")
	cfg.Server.TLSKey = v.GetString("TLS_KEY")
	cfg.Server.RateLimitRPS = v.GetFloat64("RATE_LIMIT_RPS")
	cfg.Server.RateLimitBurst = v.GetInt("RATE_LIMIT_BURST")
	cfg.Database.URL = v.GetString("DATABASE_URL")
	cfg.Auth.TokenKey = v.GetString("TOKEN_KEY")
	cfg.S3.Region = v.GetString("AWS_REGION")
	cfg.S3.Bucket = v.GetString("S3_BUCKET")
	cfg.S3.Endpoint = v.GetString("S3_ENDPOINT")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL != "" && c.Auth.TokenKey == "" {
		return fmt.Errorf("TOKEN_KEY is required when DATABASE_URL is set")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

// IsDev reports whether the server runs in the local development profile.
func (c *Config) IsDev() bool {
	return c.Server.Env == "dev"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
