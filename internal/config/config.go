// Package config loads server configuration from flags, the environment, a .env file and defaults.
package config

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	Metrics MetricsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name               string
	Port               string        // default 8080
	ReadTimeout        time.Duration // default 15s
	WriteTimeout       time.Duration // default 15s
	IdleTimeout        time.Duration // default 60s
	CORSAllowedOrigins []string      // default ["*"]
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	// DataPath holds the database and the token key unless overridden.
	DataPath string
	// DBPath is the SQLite file. Defaults to {DataPath}/notes.db.
	DBPath string
}

// AuthConfig holds token configuration.
type AuthConfig struct {
	// TokenKey is the 32-byte PASETO v4.local key. Nil means load or generate {DataPath}/auth.key.
	TokenKey      []byte
	TokenDuration time.Duration // default 96h
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// source resolves a key with precedence flag > environment > .env file > default.
type source struct {
	flags  map[string]*string
	dotenv map[string]string
}

func (s source) get(flagName, envKey, def string) string {
	if p, ok := s.flags[flagName]; ok && *p != "" {
		return *p
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if v := s.dotenv[envKey]; v != "" {
		return v
	}
	return def
}

func (s source) getBool(flagName, envKey string, def bool) bool {
	v := s.get(flagName, envKey, "")
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func (s source) getDuration(flagName, envKey, def string) (time.Duration, error) {
	v := s.get(flagName, envKey, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return d, nil
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load parses args and resolves every setting with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. The .env file named by -env-file.
// 4. Defaults.
func Load(args []string) (*Config, error) {
	fset := flag.NewFlagSet("notes-server", flag.ContinueOnError)

	flags := map[string]*string{
		"env":            fset.String("env", "", "Environment (development, staging, production)"),
		"log-level":      fset.String("log-level", "", "Log level (debug, info, warn, error)"),
		"server-name":    fset.String("server-name", "", "Name reported by the health endpoint"),
		"port":           fset.String("port", "", "Server port (default: 8080)"),
		"read-timeout":   fset.String("read-timeout", "", "HTTP read timeout (default: 15s)"),
		"write-timeout":  fset.String("write-timeout", "", "HTTP write timeout (default: 15s)"),
		"idle-timeout":   fset.String("idle-timeout", "", "HTTP idle timeout (default: 60s)"),
		"cors-origins":   fset.String("cors-origins", "", "Comma separated allowed CORS origins (default: *)"),
		"data-path":      fset.String("data-path", "", "Directory for the database and token key"),
		"db-path":        fset.String("db-path", "", "SQLite database file (default: {data-path}/notes.db)"),
		"token-duration": fset.String("token-duration", "", "Session token lifetime (default: 96h)"),
		"metrics":        fset.String("metrics", "", "Expose /metrics (default: true)"),
	}
	envFile := fset.String("env-file", ".env", "Path to .env file")

	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	dotenv, err := godotenv.Read(*envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read env file %s: %w", *envFile, err)
	}

	src := source{flags: flags, dotenv: dotenv}

	cfg := &Config{
		App: AppConfig{
			Environment: src.get("env", "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: src.get("log-level", "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:               src.get("server-name", "SERVER_NAME", "Notes Server"),
			Port:               src.get("port", "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(src.get("cors-origins", "CORS_ALLOWED_ORIGINS", "*")),
		},
		Storage: StorageConfig{
			DataPath: src.get("data-path", "DATA_PATH", ""),
			DBPath:   src.get("db-path", "DB_PATH", ""),
		},
		Metrics: MetricsConfig{
			Enabled: src.getBool("metrics", "METRICS_ENABLED", true),
		},
	}

	if cfg.Server.ReadTimeout, err = src.getDuration("read-timeout", "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = src.getDuration("write-timeout", "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = src.getDuration("idle-timeout", "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Auth.TokenDuration, err = src.getDuration("token-duration", "TOKEN_DURATION", "96h"); err != nil {
		return nil, err
	}

	if keyHex := src.get("", "TOKEN_KEY", ""); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_KEY: %w", err)
		}
		cfg.Auth.TokenKey = key
	}

	if err := cfg.expandStoragePaths(); err != nil {
		return nil, fmt.Errorf("invalid storage path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Auth.TokenDuration <= 0 {
		return errors.New("token duration must be positive")
	}

	if c.Auth.TokenKey != nil && len(c.Auth.TokenKey) != 32 {
		return fmt.Errorf("token key must be 32 bytes, got %d", len(c.Auth.TokenKey))
	}

	for name, d := range map[string]time.Duration{
		"read timeout":  c.Server.ReadTimeout,
		"write timeout": c.Server.WriteTimeout,
		"idle timeout":  c.Server.IdleTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if _, err := strconv.ParseUint(c.Server.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) expandStoragePaths() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home directory: %w", err)
	}

	dataPath, err := expandPath(c.Storage.DataPath, filepath.Join(home, ".notes"))
	if err != nil {
		return err
	}
	c.Storage.DataPath = dataPath

	dbPath, err := expandPath(c.Storage.DBPath, filepath.Join(dataPath, "notes.db"))
	if err != nil {
		return err
	}
	c.Storage.DBPath = dbPath

	return nil
}

// expandPath expands a leading ~ and makes path absolute. Empty path yields def.
func expandPath(path, def string) (string, error) {
	if path == "" {
		return def, nil
	}

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, rest)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path for %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
