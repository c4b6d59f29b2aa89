// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/rendezvous"
	"github.com/poiesic/rendezvous/config"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rendezvous",
		Usage: "Intent-aware attendee matchmaking for events",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (default: $RENDEZVOUS_CONFIG)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error), overrides config",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import participants from a JSON array",
				ArgsUsage: "<file.json>",
				Action:    importCommand,
				Flags:     []cli.Flag{eventFlag()},
			},
			{
				Name:   "configure",
				Usage:  "Store or show the scoring configuration of an event",
				Action: configureCommand,
				Flags: []cli.Flag{
					eventFlag(),
					&cli.StringFlag{
						Name:  "file",
						Usage: "YAML scoring configuration to store; without it the current one is printed",
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Embed participant profiles for similarity scoring",
				Action: embedCommand,
				Flags:  []cli.Flag{eventFlag(), forceFlag()},
			},
			{
				Name:   "classify",
				Usage:  "Ask the AI classifier for participant intents (stored for review)",
				Action: classifyCommand,
				Flags:  []cli.Flag{eventFlag(), forceFlag()},
			},
			{
				Name:   "score",
				Usage:  "Score every participant pair and store ranked matches",
				Action: scoreCommand,
				Flags:  []cli.Flag{eventFlag()},
			},
			{
				Name:   "matches",
				Usage:  "List stored matches",
				Action: matchesCommand,
				Flags: []cli.Flag{
					eventFlag(),
					&cli.StringFlag{
						Name:    "participant",
						Aliases: []string{"p"},
						Usage:   "Only matches involving this participant",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of matches (0 for all)",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print JSON instead of a table",
					},
				},
			},
		},
	}
}

func eventFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "event",
		Aliases:  []string{"e"},
		Usage:    "Event ID",
		Required: true,
	}
}

func forceFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "force",
		Usage: "Redo participants that already have a result",
	}
}

// setup loads the configuration, applies flag overrides and installs the logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if db := c.String("db"); db != "" {
		cfg.Database.Path = db
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if err := setupLogger(cfg.Log.Level); err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]interface{})
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func loadedConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func openDatabase(c *cli.Context) (*rendezvous.Database, *config.Config, error) {
	cfg := loadedConfig(c)
	db, err := rendezvous.NewDatabase(cfg.Database.Path, rendezvous.WithAIConfig(&cfg.AI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}

func setupLogger(levelStr string) error {
	levelStr = strings.ToLower(levelStr)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func commandContext(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
