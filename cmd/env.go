package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/storymath/internal/config"
	"github.com/abhisek/storymath/internal/gateway"
	"github.com/abhisek/storymath/internal/logging"
	"github.com/abhisek/storymath/internal/store"
)

// env is the wiring shared by subcommands.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	store  *store.Store // nil when the journal is disabled
}

// setup loads config, applies flag overrides, and opens the logger and
// journal. Callers must Close the result.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := logging.New(logging.Options{Path: cfg.Log.Path, Level: cfg.Log.Level, Verbose: verbose})
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger}
	if !cfg.Journal.Disabled {
		st, err := openStore(cfg)
		if err != nil {
			// The journal is diagnostic; run without it.
			logger.Warn("call journal unavailable", zap.Error(err))
		} else {
			e.store = st
		}
	}
	return e, nil
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Journal.Path = v
	}
	if v, _ := cmd.Flags().GetBool("no-journal"); v {
		cfg.Journal.Disabled = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore opens the journal at the configured or default path.
func openStore(cfg config.Config) (*store.Store, error) {
	path := cfg.Journal.Path
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve journal path: %w", err)
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return st, nil
}

// journal returns the call journal, or nil when it is off.
func (e *env) journal() store.CallRepo {
	if e.store == nil {
		return nil
	}
	return e.store.CallRepo()
}

// gateway builds the backend client: retry, then logging, then HTTP.
func (e *env) gateway() gateway.Gateway {
	gwCfg := e.cfg.Gateway()
	return gateway.WithRetry(
		gateway.WithLogging(gateway.NewHTTPGateway(gwCfg), e.journal(), e.logger),
		gwCfg.Retry,
	)
}

func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("close journal", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}
