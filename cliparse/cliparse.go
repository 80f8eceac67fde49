// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseBolt     = "bolt"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	SessionSecret  string
	SessionTTL     time.Duration // idle timeout, extended on every request
	SessionMaxLife time.Duration // hard cap since creation
	SweepInterval  time.Duration
	RequestTimeout time.Duration
	SecureCookies  bool
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file in the working directory is loaded first when present.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Missing .env is fine; real environment variables win over it
	_ = godotenv.Load()

	fs := flag.NewFlagSet("quiz-maker", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (file path for sqlite and bolt)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or bolt)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session token HMAC secret (prefer env)")

	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session idle timeout")
	fs.DurationVar(&cfg.SessionMaxLife, "session-max-life", 0, "Session maximum lifetime")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", 0, "How often expired sessions are deleted")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", 0, "Per-request timeout")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", false, "Mark session cookies Secure (HTTPS only)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabaseBolt:
	default:
		return Config{}, fmt.Errorf("unknown database type %q (use sqlite, postgres or bolt)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	var err error
	if cfg.SessionTTL, err = durationFromEnv(cfg.SessionTTL, "SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SessionMaxLife, err = durationFromEnv(cfg.SessionMaxLife, "SESSION_MAX_LIFE", 30*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationFromEnv(cfg.SweepInterval, "SWEEP_INTERVAL", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = durationFromEnv(cfg.RequestTimeout, "REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionMaxLife < cfg.SessionTTL {
		return Config{}, errors.New("session max life must not be shorter than session ttl")
	}

	if !cfg.SecureCookies {
		if v := os.Getenv("SECURE_COOKIES"); v != "" {
			secure, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid SECURE_COOKIES env variable")
			}
			cfg.SecureCookies = secure
		}
	}

	return cfg, nil
}

// durationFromEnv keeps a flag value when set, otherwise reads key, otherwise uses def
func durationFromEnv(current time.Duration, key string, def time.Duration) (time.Duration, error) {
	if current != 0 {
		if current < 0 {
			return 0, fmt.Errorf("%s must be positive", key)
		}
		return current, nil
	}

	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
