// Package config loads server settings from EVENTLOG_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name below.
const Prefix = "EVENTLOG_"

// ProfileProduction is the deployment profile in which impersonated actions
// are not logged.
const ProfileProduction = "production"

type Config struct {
	// DatabaseURL is required: postgres://... or sqlite://path.
	DatabaseURL string `env:"DATABASE_URL"`
	// Env is the deployment profile.
	Env      string `env:"ENV" envDefault:"development"`
	GRPCAddr string `env:"GRPC_ADDR" envDefault:":9090"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	// NATSURL is optional; empty means no events are published.
	NATSURL string `env:"NATS_URL"`
	// AuthSecret is the HS256 token secret; empty disables auth.
	AuthSecret string `env:"AUTH_SECRET"`
	// ModulePaths lists module directories in load order.
	ModulePaths []string `env:"MODULE_PATHS" envSeparator:","`
	// AppConfig is the application event types file.
	AppConfig string     `env:"APP_CONFIG"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	// OTelEndpoint is the OTLP/HTTP collector; empty disables export.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`

	// Archive settings. A zero interval disables the scheduler; S3 is
	// enabled by a bucket and git by a clone path.
	ArchiveInterval   time.Duration `env:"ARCHIVE_INTERVAL" envDefault:"0s"`
	ArchiveS3Bucket   string        `env:"ARCHIVE_S3_BUCKET"`
	ArchiveS3Endpoint string        `env:"ARCHIVE_S3_ENDPOINT"`
	ArchiveS3Region   string        `env:"ARCHIVE_S3_REGION" envDefault:"us-east-1"`
	ArchiveS3Prefix   string        `env:"ARCHIVE_S3_PREFIX" envDefault:"eventlog/"`
	ArchiveGitRepo    string        `env:"ARCHIVE_GIT_REPO"`
	ArchiveGitFile    string        `env:"ARCHIVE_GIT_FILE" envDefault:"events.jsonl"`
	ArchiveGitBranch  string        `env:"ARCHIVE_GIT_BRANCH" envDefault:"main"`
}

func Load() (*Config, error) {
	c := &Config{}
	if err := env.ParseWithOptions(c, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("%sDATABASE_URL is required", Prefix)
	}
	if !strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") &&
		!strings.HasPrefix(c.DatabaseURL, "sqlite://") {
		return nil, fmt.Errorf("%sDATABASE_URL: unsupported scheme in %q", Prefix, c.DatabaseURL)
	}
	if c.ArchiveInterval < 0 {
		return nil, fmt.Errorf("%sARCHIVE_INTERVAL must not be negative", Prefix)
	}
	c.ModulePaths = compact(c.ModulePaths)
	return c, nil
}

// Production reports whether the deployment profile is production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, ProfileProduction)
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
