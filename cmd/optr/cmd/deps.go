package cmd

import (
	"fmt"

	"github.com/optrhq/optr/internal/core"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config   *core.ConfigManager
	settings core.Settings
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps() (*deps, error) {
	config, err := core.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return &deps{
		config:   config,
		settings: cfg.Settings,
	}, nil
}
