package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the service reads at startup
type Config struct {
	Environment string           `yaml:"environment"`
	LogLevel    string           `yaml:"log_level"`
	HTTP        HTTPConfig       `yaml:"http"`
	GRPC        GRPCConfig       `yaml:"grpc"`
	Backend     BackendConfig    `yaml:"backend"`
	Database    DatabaseConfig   `yaml:"database"`
	Redis       RedisConfig      `yaml:"redis"`
	NATS        NATSConfig       `yaml:"nats"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
	Session     SessionConfig    `yaml:"session"`
	Roster      RosterConfig     `yaml:"roster"`
}

// HTTPConfig configures the public HTTP listener
type HTTPConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// GRPCConfig configures the gRPC listener
type GRPCConfig struct {
	Port string `yaml:"port"`
}

// BackendConfig points at the Spirit11 REST backend
type BackendConfig struct {
	URL     string        `yaml:"url"`
	WSURL   string        `yaml:"ws_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DatabaseConfig selects the chat transcript store
type DatabaseConfig struct {
	Driver     string `yaml:"driver"` // memory|sqlite|postgres
	SQLiteFile string `yaml:"sqlite_file"`
	DSN        string `yaml:"dsn"`
}

// RedisConfig configures the optional Redis session store
type RedisConfig struct {
	URL string `yaml:"url"`
}

// NATSConfig configures the event bus
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	Stream  string `yaml:"stream"`
}

// ClickHouseConfig configures the standings history store
type ClickHouseConfig struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SessionConfig controls session lifetime and cookies
type SessionConfig struct {
	TTL          time.Duration `yaml:"ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// RosterConfig holds contest rules that the backend does not report
type RosterConfig struct {
	DefaultBudget int `yaml:"default_budget"`
}

// Default returns the development configuration
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		HTTP: HTTPConfig{
			Port:        "3000",
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		GRPC: GRPCConfig{Port: "50051"},
		Backend: BackendConfig{
			URL:     "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:     "memory",
			SQLiteFile: "dev.sqlite",
		},
		NATS: NATSConfig{
			URL:     "nats://localhost:4222",
			Subject: "spirit11.events",
			Stream:  "SPIRIT11_EVENTS",
		},
		ClickHouse: ClickHouseConfig{
			Addr:     "localhost:9000",
			Database: "default",
			Username: "default",
		},
		Session: SessionConfig{TTL: 24 * time.Hour},
		Roster:  RosterConfig{DefaultBudget: 9_000_000},
	}
}

// IsDevelopment reports whether in-process stand-ins should replace external infrastructure
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

// Load reads an optional .env file, then an optional YAML file, then applies
// environment overrides on top of the defaults.
func Load(filename string) (*Config, error) {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend url is required")
	}
	switch c.Database.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q (valid: memory, sqlite, postgres)", c.Database.Driver)
	}
	if c.Roster.DefaultBudget <= 0 {
		return fmt.Errorf("default budget must be positive, got %d", c.Roster.DefaultBudget)
	}
	return nil
}

// BackendWSURL returns the push channel address, deriving it from the REST URL when unset
func (c *Config) BackendWSURL() string {
	if c.Backend.WSURL != "" {
		return c.Backend.WSURL
	}
	u := strings.TrimSuffix(c.Backend.URL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/socket/players"
}

func applyEnv(cfg *Config) error {
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTP.Port = getEnv("PORT", cfg.HTTP.Port)
	cfg.GRPC.Port = getEnv("GRPC_PORT", cfg.GRPC.Port)
	cfg.Backend.URL = getEnv("BACKEND_URL", cfg.Backend.URL)
	cfg.Backend.WSURL = getEnv("BACKEND_WS_URL", cfg.Backend.WSURL)
	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.SQLiteFile = getEnv("SQLITE_FILE", cfg.Database.SQLiteFile)
	cfg.Database.DSN = getEnv("DATABASE_URL", cfg.Database.DSN)
	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	cfg.NATS.URL = getEnv("NATS_URL", cfg.NATS.URL)
	cfg.NATS.Subject = getEnv("NATS_SUBJECT", cfg.NATS.Subject)
	cfg.ClickHouse.Addr = getEnv("CLICKHOUSE_ADDR", cfg.ClickHouse.Addr)
	cfg.ClickHouse.Database = getEnv("CLICKHOUSE_DB", cfg.ClickHouse.Database)
	cfg.ClickHouse.Username = getEnv("CLICKHOUSE_USER", cfg.ClickHouse.Username)
	cfg.ClickHouse.Password = getEnv("CLICKHOUSE_PASSWORD", cfg.ClickHouse.Password)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("BACKEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
		}
		cfg.Backend.Timeout = d
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		cfg.Session.TTL = d
	}
	if v := os.Getenv("SECURE_COOKIE"); v != "" {
		cfg.Session.SecureCookie = v == "true"
	}
	if v := os.Getenv("DEFAULT_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DEFAULT_BUDGET: %w", err)
		}
		cfg.Roster.DefaultBudget = n
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
