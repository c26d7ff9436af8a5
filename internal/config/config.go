// Package config loads the server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const (
	defaultPort         = 8080
	defaultMaxBodyBytes = 1 << 20
	defaultDrainTimeout = 5 * time.Second
)

// Config holds the settings read at startup.
type Config struct {
	Port         int    `validate:"min=1,max=65535"`
	Env          string `validate:"oneof=development production test"`
	Timezone     string `validate:"omitempty,timezone"`
	ProjectID    string
	MaxBodyBytes int64    `validate:"gt=0"`
	CORSOrigins  []string `validate:"dive,required"`

	LogDrainURL     string        `validate:"omitempty,url"`
	LogDrainToken   string
	LogDrainTimeout time.Duration `validate:"gt=0"`

	// Location is resolved from Timezone; empty means the process's local zone.
	Location *time.Location `validate:"-"`
}

// IsDevelopment reports whether failure details may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse(os.LookupEnv)
}

// Parse builds a Config from lookup and validates it.
func Parse(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	var errs []error
	port, err := strconv.Atoi(get("PORT", strconv.Itoa(defaultPort)))
	if err != nil {
		errs = append(errs, fmt.Errorf("PORT: %w", err))
	}
	maxBody, err := strconv.ParseInt(get("MAX_BODY_BYTES", strconv.Itoa(defaultMaxBodyBytes)), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES: %w", err))
	}
	drainTimeout, err := time.ParseDuration(get("LOG_DRAIN_TIMEOUT", defaultDrainTimeout.String()))
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_DRAIN_TIMEOUT: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg := &Config{
		Port:            port,
		Env:             strings.ToLower(get("APP_ENV", EnvProduction)),
		Timezone:        get("APP_TIMEZONE", ""),
		ProjectID:       get("GOOGLE_CLOUD_PROJECT", ""),
		MaxBodyBytes:    maxBody,
		CORSOrigins:     splitList(get("CORS_ALLOWED_ORIGINS", "")),
		LogDrainURL:     get("LOG_DRAIN_URL", ""),
		LogDrainToken:   get("LOG_DRAIN_TOKEN", ""),
		LogDrainTimeout: drainTimeout,
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	cfg.Location = time.Local
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and reports every violation by field name.
func Validate(cfg *Config) error {
	var msgs []string
	err := validate.Struct(cfg)
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
	case err != nil:
		return err
	}
	if cfg.LogDrainToken != "" && cfg.LogDrainURL == "" {
		msgs = append(msgs, "Config.LogDrainToken set without LOG_DRAIN_URL")
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
