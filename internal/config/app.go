package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured is returned for optional services whose env variables
// are absent.
var ErrNotConfigured = errors.New("not configured")

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	return port
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// AllowedOrigins lists the CORS origins from CORS_ALLOWED_ORIGINS
// (comma separated). Nil means any origin.
func AllowedOrigins() []string {
	s, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS")
	if !ok {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

type Planner struct {
	MaxExpanded int
	Timeout     time.Duration
}

// NewPlanner reads the per-request search limits. Unset variables leave the
// defaults in place.
func NewPlanner() (*Planner, error) {
	p := &Planner{
		MaxExpanded: 5_000_000,
		Timeout:     30 * time.Second,
	}

	if s, ok := os.LookupEnv("PLANNER_MAX_EXPANDED"); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("unable to parse PLANNER_MAX_EXPANDED: %w", err)
		}
		p.MaxExpanded = n
	}

	if s, ok := os.LookupEnv("PLANNER_TIMEOUT"); ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("unable to parse PLANNER_TIMEOUT: %w", err)
		}
		p.Timeout = d
	}

	return p, nil
}
