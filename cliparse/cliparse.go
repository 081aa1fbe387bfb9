package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort          = 8787
	DefaultStoreType     = "sqlite"
	DefaultSweepSchedule = "0 3 * * *"
	DefaultRateLimit     = 5.0
	DefaultRateBurst     = 10
)

type Config struct {
	Port          int
	StoreType     string
	StoreURL      string
	RedisPrefix   string
	AdminPIN      string
	SweepSchedule string
	RateLimit     float64
	RateBurst     int
	TrustProxy    bool
	LogFormat     string
}

// LoadDotEnv loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("miles-for-meals", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StoreType, "t", "", "Store type (memory, sqlite, postgres or redis)")
	fs.StringVar(&cfg.StoreURL, "d", "", "Store URL (sqlite file, postgres DSN or redis address)")
	fs.StringVar(&cfg.RedisPrefix, "redis-prefix", "", "Key prefix for the redis store")

	// Secret (prefer env variable, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPIN, "admin-pin", "", "Admin PIN (prefer env)")

	fs.StringVar(&cfg.SweepSchedule, "sweep", "", "Cron schedule for backup sweeps, or 'off'")
	fs.Float64Var(&cfg.RateLimit, "rate", -1, "PIN endpoint requests per second per client (0 disables)")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "Rate limit by X-Forwarded-For (only behind a proxy that sets it)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")

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
			cfg.Port = DefaultPort
		}
	}

	if cfg.StoreType == "" {
		cfg.StoreType = os.Getenv("STORE_TYPE")
		if cfg.StoreType == "" {
			cfg.StoreType = DefaultStoreType
		}
	}
	switch cfg.StoreType {
	case "memory", "sqlite", "postgres", "redis":
	default:
		return Config{}, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}

	if cfg.StoreURL == "" {
		cfg.StoreURL = os.Getenv("STORE_URL")
	}
	if cfg.StoreURL == "" && cfg.StoreType != "memory" {
		return Config{}, errors.New("store URL required (use -d or STORE_URL env)")
	}

	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = os.Getenv("REDIS_PREFIX")
	}

	// Secret - MUST be provided
	if cfg.AdminPIN == "" {
		cfg.AdminPIN = os.Getenv("ADMIN_PIN")
	}
	if cfg.AdminPIN == "" {
		return Config{}, errors.New("ADMIN_PIN required")
	}

	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = os.Getenv("SWEEP_SCHEDULE")
		if cfg.SweepSchedule == "" {
			cfg.SweepSchedule = DefaultSweepSchedule
		}
	}

	if cfg.RateLimit < 0 {
		if rateStr := os.Getenv("RATE_LIMIT"); rateStr != "" {
			r, err := strconv.ParseFloat(rateStr, 64)
			if err != nil || r < 0 {
				return Config{}, errors.New("invalid RATE_LIMIT env variable")
			}
			cfg.RateLimit = r
		} else {
			cfg.RateLimit = DefaultRateLimit
		}
	}
	cfg.RateBurst = DefaultRateBurst

	if !cfg.TrustProxy {
		if trustStr := os.Getenv("TRUST_PROXY"); trustStr != "" {
			trust, err := strconv.ParseBool(trustStr)
			if err != nil {
				return Config{}, errors.New("invalid TRUST_PROXY env variable")
			}
			cfg.TrustProxy = trust
		}
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = os.Getenv("LOG_FORMAT")
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return Config{}, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	return cfg, nil
}
