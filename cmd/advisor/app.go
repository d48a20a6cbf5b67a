package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"SIPAdvisor/internal/app"
	"SIPAdvisor/internal/common"
	"SIPAdvisor/internal/config"
	"SIPAdvisor/internal/model"
	"SIPAdvisor/internal/notifier"
)

// register adds the subcommands to c.
func register(c *subcommands.Commander) {
	c.Register(&signalCmd{}, "analysis")
	c.Register(&returnsCmd{}, "analysis")
	c.Register(&scanCmd{}, "analysis")
	c.Register(&sipCmd{}, "planning")
	c.Register(&watchCmd{}, "service")
}

// short lived CLI process, global flags are fine.
var configPath = flag.String("config", defaultConfigPath(), "Path to the YAML configuration file")

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// loadConfig loads and validates the configuration. Validation failures stop
// the command before any computation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// openApp loads the config, initializes logging and builds the App.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := common.InitLogger(cfg.Logging)
	return app.NewApp(ctx, cfg, logger)
}

// windowFlag parses an optional window flag, falling back to the configured window.
func windowFlag(value string, fallback model.LookbackWindow) (model.LookbackWindow, error) {
	if value == "" {
		return fallback, nil
	}
	return model.ParseLookbackWindow(value)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

func printText(s string) {
	fmt.Print(notifier.PlainText(s))
}
