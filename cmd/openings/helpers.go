package main

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/openings/internal/app"
	"github.com/at-ishikawa/openings/internal/clock"
	"github.com/at-ishikawa/openings/internal/config"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loadConfig() > %w", err)
	}
	a, err := app.New(ctx, cfg, clock.System{})
	if err != nil {
		return nil, fmt.Errorf("app.New() > %w", err)
	}
	return a, nil
}
