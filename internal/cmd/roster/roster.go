// Package roster parses roster admin service flags and launches the service.
package roster

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	entrypoint "github.com/louisbranch/gamekeeper/internal/platform/cmd"
	"github.com/louisbranch/gamekeeper/internal/platform/config"
	server "github.com/louisbranch/gamekeeper/internal/services/roster/app"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/grant"
)

// Config holds roster command configuration.
type Config struct {
	HTTPAddr       string        `env:"GAMEKEEPER_ROSTER_ADDR" envDefault:":8090"`
	DBPath         string        `env:"GAMEKEEPER_ROSTER_DB_PATH" envDefault:"data/roster.db"`
	RequestTimeout time.Duration `env:"GAMEKEEPER_ROSTER_REQUEST_TIMEOUT" envDefault:"10s"`
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses env defaults through lookup and then flags into a
// Config. A nil lookup reads the process environment.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag set is required")
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var cfg Config
	if err := config.LookupEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to roster sqlite database")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "per-request store timeout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads operator grant settings and serves the roster admin API with
// telemetry until ctx is canceled.
func Run(ctx context.Context, cfg Config, lookup EnvLookup) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	grants, enabled, err := grant.LoadConfig(lookup, nil)
	if err != nil {
		return fmt.Errorf("load operator grant config: %w", err)
	}
	serverCfg := server.Config{
		HTTPAddr:       cfg.HTTPAddr,
		DBPath:         cfg.DBPath,
		RequestTimeout: cfg.RequestTimeout,
	}
	if enabled {
		serverCfg.Grants = &grants
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoster, func(ctx context.Context) error {
		return server.Run(ctx, serverCfg)
	})
}
