package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	TaxRate              float64
	PointsPerUnit        float64
	DefaultPrepMinutes   int
	EscalationInterval   time.Duration
	EscalationBatch      int
	EscalationWorkers    int
	DerivationRetryLimit int
	ShutdownTimeout      time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultTaxRate            = 0.15
	defaultPointsPerUnit      = 0.1
	defaultPrepMinutes        = 15
	defaultEscalationInterval = 30 * time.Second
	defaultEscalationBatch    = 64
	defaultEscalationWorkers  = 4
	defaultDerivationRetries  = 3
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from an optional .env file, environment variables
// and flags, in increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		TaxRate:              getFloat(lookup, "TAX_RATE", defaultTaxRate),
		PointsPerUnit:        getFloat(lookup, "LOYALTY_POINTS_PER_UNIT", defaultPointsPerUnit),
		DefaultPrepMinutes:   getInt(lookup, "DEFAULT_PREP_MINUTES", defaultPrepMinutes),
		EscalationInterval:   getDuration(lookup, "ESCALATION_INTERVAL", defaultEscalationInterval),
		EscalationBatch:      getInt(lookup, "ESCALATION_BATCH_SIZE", defaultEscalationBatch),
		EscalationWorkers:    getInt(lookup, "ESCALATION_WORKERS", defaultEscalationWorkers),
		DerivationRetryLimit: getInt(lookup, "DERIVATION_RETRY_LIMIT", defaultDerivationRetries),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("fulfillmentd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		escalationIntervalStr = cfg.EscalationInterval.String()
		shutdownTimeoutStr    = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.Float64Var(&cfg.TaxRate, "tax-rate", cfg.TaxRate, "Fixed tax rate applied to order subtotals")
	fs.Float64Var(&cfg.PointsPerUnit, "points-per-unit", cfg.PointsPerUnit, "Loyalty points accrued per currency unit")
	fs.IntVar(&cfg.DefaultPrepMinutes, "default-prep-minutes", cfg.DefaultPrepMinutes, "Fallback preparation threshold in minutes")
	fs.StringVar(&escalationIntervalStr, "escalation-interval", escalationIntervalStr, "Interval between overdue-ticket sweeps")
	fs.IntVar(&cfg.EscalationBatch, "escalation-batch", cfg.EscalationBatch, "Maximum tickets per escalation sweep")
	fs.IntVar(&cfg.EscalationWorkers, "escalation-workers", cfg.EscalationWorkers, "Number of concurrent escalation workers")
	fs.IntVar(&cfg.DerivationRetryLimit, "derivation-retries", cfg.DerivationRetryLimit, "Retries for conflicting status derivations")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.EscalationInterval, err = time.ParseDuration(escalationIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid escalation interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return nil, fmt.Errorf("tax rate must be in [0, 1)")
	}

	if cfg.PointsPerUnit < 0 {
		return nil, fmt.Errorf("points per unit must not be negative")
	}

	if cfg.DefaultPrepMinutes <= 0 {
		cfg.DefaultPrepMinutes = defaultPrepMinutes
	}

	if cfg.EscalationInterval <= 0 {
		cfg.EscalationInterval = defaultEscalationInterval
	}

	if cfg.EscalationBatch <= 0 {
		cfg.EscalationBatch = defaultEscalationBatch
	}

	if cfg.EscalationWorkers <= 0 {
		cfg.EscalationWorkers = defaultEscalationWorkers
	}

	if cfg.DerivationRetryLimit <= 0 {
		cfg.DerivationRetryLimit = defaultDerivationRetries
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
