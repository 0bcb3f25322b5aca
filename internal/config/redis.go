package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedis wraps ErrNotConfigured when REDIS_ADDR is not set; the plan cache
// is optional.
func NewRedis() (*Redis, error) {
	addr, ok := os.LookupEnv("REDIS_ADDR")
	if !ok || addr == "" {
		return nil, fmt.Errorf("redis %w: no REDIS_ADDR env variable set", ErrNotConfigured)
	}

	cfg := &Redis{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		TTL:      24 * time.Hour,
	}

	if s, ok := os.LookupEnv("REDIS_DB"); ok {
		db, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("unable to parse REDIS_DB: %w", err)
		}
		cfg.DB = db
	}

	if s, ok := os.LookupEnv("REDIS_TTL"); ok {
		ttl, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("unable to parse REDIS_TTL: %w", err)
		}
		cfg.TTL = ttl
	}

	return cfg, nil
}
