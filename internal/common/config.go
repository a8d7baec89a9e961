// Package common provides shared utilities for Brief
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Brief
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Mail        MailConfig    `toml:"mail"`
	Schedule    ScheduleConfig `toml:"schedule"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	NaverFin  NaverFinConfig  `toml:"naverfin"`
	Dart      DartConfig      `toml:"dart"`
	NaverNews NaverNewsConfig `toml:"navernews"`
	AI        AIConfig        `toml:"ai"`
}

// NaverFinConfig holds quote provider configuration
type NaverFinConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NaverFinConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// DartConfig holds filing registry configuration
type DartConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *DartConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// NaverNewsConfig holds news search provider configuration
type NaverNewsConfig struct {
	BaseURL      string `toml:"base_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RateLimit    int    `toml:"rate_limit"`
	Timeout      string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NaverNewsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// AIConfig selects and configures the generative-text backend.
// Provider is "claude" or "gemini".
type AIConfig struct {
	Provider        string `toml:"provider"`
	AnthropicAPIKey string `toml:"anthropic_api_key"`
	ClaudeModel     string `toml:"claude_model"`
	GeminiAPIKey    string `toml:"gemini_api_key"`
	GeminiModel     string `toml:"gemini_model"`
}

// MailConfig holds SMTP submission configuration
type MailConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
	Workers  int    `toml:"workers"`
}

// ScheduleConfig holds the daily pipeline trigger configuration
type ScheduleConfig struct {
	Cron     string `toml:"cron"`     // cron expression, default weekday 07:00
	Timezone string `toml:"timezone"` // IANA name, default Asia/Seoul
	Enabled  bool   `toml:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000",
			Username:  "root",
			Password:  "root",
			Namespace: "brief",
			Database:  "brief",
		},
		Clients: ClientsConfig{
			NaverFin: NaverFinConfig{
				BaseURL:   "https://m.stock.naver.com/api",
				RateLimit: 10,
				Timeout:   "15s",
			},
			Dart: DartConfig{
				BaseURL:   "https://opendart.fss.or.kr/api",
				RateLimit: 5,
				Timeout:   "15s",
			},
			NaverNews: NaverNewsConfig{
				BaseURL:   "https://openapi.naver.com/v1/search",
				RateLimit: 5,
				Timeout:   "10s",
			},
			AI: AIConfig{
				Provider:    "claude",
				ClaudeModel: "claude-sonnet-4-5-20250929",
				GeminiModel: "gemini-2.0-flash",
			},
		},
		Mail: MailConfig{
			Host:     "smtp.gmail.com",
			Port:     587,
			FromName: "Brief",
			Workers:  4,
		},
		Schedule: ScheduleConfig{
			Cron:     "0 7 * * 1-5",
			Timezone: "Asia/Seoul",
			Enabled:  true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			FilePath: "",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BRIEF_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("BRIEF_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("BRIEF_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("BRIEF_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("BRIEF_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if v := os.Getenv("BRIEF_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("BRIEF_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	// API keys: plain env names take priority so deployments can avoid
	// writing secrets into brief.toml.
	if v := firstEnv("DART_API_KEY", "BRIEF_DART_API_KEY"); v != "" {
		config.Clients.Dart.APIKey = v
	}
	if v := firstEnv("NAVER_CLIENT_ID", "BRIEF_NAVER_CLIENT_ID"); v != "" {
		config.Clients.NaverNews.ClientID = v
	}
	if v := firstEnv("NAVER_CLIENT_SECRET", "BRIEF_NAVER_CLIENT_SECRET"); v != "" {
		config.Clients.NaverNews.ClientSecret = v
	}
	if v := firstEnv("ANTHROPIC_API_KEY", "BRIEF_ANTHROPIC_API_KEY"); v != "" {
		config.Clients.AI.AnthropicAPIKey = v
	}
	if v := firstEnv("GEMINI_API_KEY", "BRIEF_GEMINI_API_KEY", "GOOGLE_API_KEY"); v != "" {
		config.Clients.AI.GeminiAPIKey = v
	}
	if v := os.Getenv("BRIEF_AI_PROVIDER"); v != "" {
		config.Clients.AI.Provider = v
	}

	if v := os.Getenv("BRIEF_SMTP_HOST"); v != "" {
		config.Mail.Host = v
	}
	if v := os.Getenv("BRIEF_SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Mail.Port = p
		}
	}
	if v := os.Getenv("BRIEF_SMTP_USER"); v != "" {
		config.Mail.Username = v
		if config.Mail.From == "" {
			config.Mail.From = v
		}
	}
	if v := os.Getenv("BRIEF_SMTP_PASSWORD"); v != "" {
		config.Mail.Password = v
	}
}

// firstEnv returns the first non-empty value among the named env vars.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
