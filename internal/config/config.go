package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted by StorageDriver.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string
	StorageDriver         string
	DatabaseURI           string
	LockTimeout           time.Duration
	ProcessingDelay       time.Duration
	ConcurrentAttempts    int
	MaxConcurrentAttempts int
	ShutdownTimeout       time.Duration
	LogLevel              slog.Level
}

const (
	defaultRunAddress            = ":8080"
	defaultStorageDriver         = DriverPostgres
	defaultLockTimeout           = 5 * time.Second
	defaultProcessingDelay       = 100 * time.Millisecond
	defaultConcurrentAttempts    = 2
	defaultMaxConcurrentAttempts = 50
	defaultShutdownTimeout       = 10 * time.Second
	defaultLogLevel              = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StorageDriver:         getString(lookup, "STORAGE_DRIVER", defaultStorageDriver),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		LockTimeout:           getDuration(lookup, "LOCK_TIMEOUT", defaultLockTimeout),
		ProcessingDelay:       getDuration(lookup, "PAYMENT_PROCESSING_DELAY", defaultProcessingDelay),
		ConcurrentAttempts:    getInt(lookup, "CONCURRENT_ATTEMPTS", defaultConcurrentAttempts),
		MaxConcurrentAttempts: getInt(lookup, "MAX_CONCURRENT_ATTEMPTS", defaultMaxConcurrentAttempts),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("marketplace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		lockTimeoutStr     = cfg.LockTimeout.String()
		processingDelayStr = cfg.ProcessingDelay.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "Storage driver: postgres or memory")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&lockTimeoutStr, "lock-timeout", lockTimeoutStr, "Maximum wait for an order hold")
	fs.StringVar(&processingDelayStr, "processing-delay", processingDelayStr, "Simulated work between status read and write")
	fs.IntVar(&cfg.ConcurrentAttempts, "attempts", cfg.ConcurrentAttempts, "Default number of concurrent payment attempts")
	fs.IntVar(&cfg.MaxConcurrentAttempts, "max-attempts", cfg.MaxConcurrentAttempts, "Upper bound for concurrent payment attempts")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.LockTimeout, err = time.ParseDuration(lockTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid lock timeout: %w", err)
	}

	if cfg.ProcessingDelay, err = time.ParseDuration(processingDelayStr); err != nil {
		return nil, fmt.Errorf("invalid processing delay: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if dsnFile, ok := lookup("DATABASE_URI_FILE"); ok && dsnFile != "" {
		content, err := os.ReadFile(dsnFile)
		if err != nil {
			return nil, fmt.Errorf("read database uri file: %w", err)
		}
		cfg.DatabaseURI = strings.TrimSpace(string(content))
	}

	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = defaultLockTimeout
	}

	if cfg.ProcessingDelay < 0 {
		cfg.ProcessingDelay = defaultProcessingDelay
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.MaxConcurrentAttempts <= 0 {
		cfg.MaxConcurrentAttempts = defaultMaxConcurrentAttempts
	}

	if cfg.ConcurrentAttempts <= 0 {
		cfg.ConcurrentAttempts = defaultConcurrentAttempts
	}

	if cfg.ConcurrentAttempts > cfg.MaxConcurrentAttempts {
		cfg.ConcurrentAttempts = cfg.MaxConcurrentAttempts
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI must be provided")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
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

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
