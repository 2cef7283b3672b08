package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Feed modes.
const (
	FeedSimulated = "simulated"
	FeedLive      = "live"
)

// Config holds all runtime configuration for the paper-trading
// service.
type Config struct {
	Port            int
	LogLevel        string
	DataDir         string
	FeedMode        string
	QuoteURL        string
	QuoteTimeout    time.Duration
	TickInterval    time.Duration
	HistoryLimit    int
	PIN             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies
// defaults, and validates values. It returns an error for any invalid
// value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	dataDir := getStr("DATA_DIR", "data")

	feedMode := getStr("FEED_MODE", FeedSimulated)
	if feedMode != FeedSimulated && feedMode != FeedLive {
		return nil, fmt.Errorf("invalid FEED_MODE: %q, must be one of: %s, %s", feedMode, FeedSimulated, FeedLive)
	}

	quoteURL := getStr("QUOTE_URL", "https://stooq.com/q/l/")

	quoteTimeout, err := getDuration("QUOTE_TIMEOUT", 4*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTE_TIMEOUT: %w", err)
	}

	tickInterval, err := getDuration("TICK_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_INTERVAL: %w", err)
	}
	if tickInterval < time.Second {
		return nil, fmt.Errorf("invalid TICK_INTERVAL: must be at least 1s")
	}

	historyLimit, err := getInt("HISTORY_LIMIT", 10000)
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_LIMIT: %w", err)
	}
	if historyLimit < 1 {
		return nil, fmt.Errorf("invalid HISTORY_LIMIT: must be >= 1")
	}

	pin := getStr("AUTH_PIN", "1234")

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		DataDir:         dataDir,
		FeedMode:        feedMode,
		QuoteURL:        quoteURL,
		QuoteTimeout:    quoteTimeout,
		TickInterval:    tickInterval,
		HistoryLimit:    historyLimit,
		PIN:             pin,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
