package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	OutputDir string
	APIKey    string
	Symbols   []string
	Sources   []string
	Timeout   time.Duration
	MinDelay  time.Duration
	MaxDelay  time.Duration
}

// Ten large-cap tickers; a caller convention, not a constraint.
var defaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA", "NVDA", "JPM", "JNJ", "V"}

func Load() Config {
	return Config{
		OutputDir: getEnv("OUTPUT_DIR", "data"),
		APIKey:    getEnv("ALPHAVANTAGE_API_KEY", ""),
		Symbols:   getEnvList("SYMBOLS", defaultSymbols),
		Sources:   getEnvList("SOURCES", []string{"scrape"}),
		Timeout:   getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		MinDelay:  getEnvDuration("MIN_DELAY", time.Second),
		MaxDelay:  getEnvDuration("MAX_DELAY", 3*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
