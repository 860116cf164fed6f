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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/promptharvest"
	"github.com/poiesic/promptharvest/config"
	"github.com/poiesic/promptharvest/core"
	"github.com/poiesic/promptharvest/sources"
	"github.com/poiesic/promptharvest/storage/badger"
	"github.com/poiesic/promptharvest/tagging"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "promptharvest",
		Usage: "Harvest AI image prompts into a prompt store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch from every source and upsert the results",
				Action: runCommand,
				Flags: append(storeFlags(),
					&cli.StringSliceFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Restrict the run to a source; repeatable",
					},
				),
			},
			{
				Name:   "import",
				Usage:  "Upsert prompts from a JSON export file",
				Action: importCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a JSON array of prompt records",
						Required: true,
					},
				),
			},
			{
				Name:   "sources",
				Usage:  "List the built-in sources",
				Action: sourcesCommand,
			},
			{
				Name:      "tags",
				Usage:     "Print the style tags detected in a prompt",
				ArgsUsage: "<prompt text>",
				Action:    tagsCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "vocabulary",
						Usage: "Print the tag vocabulary instead",
					},
				},
			},
			{
				Name:   "inspect",
				Usage:  "Show prompts stored in a BadgerDB database",
				Action: inspectCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of prompts to print (0 prints only the count)",
						Value: 10,
					},
				},
			},
		},
	}
}

// storeFlags returns the flags shared by commands that write to a store.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "Store backend (supabase, postgres, badger)",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory (badger store)",
		},
		&cli.BoolFlag{
			Name:  "migrate",
			Usage: "Create the prompts table if missing (postgres store)",
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "Number of rows per upsert call",
			Value: 500,
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Print upsert progress to stderr",
		},
	}
}

// runCommand harvests from the built-in sources.
func runCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return harvest(c, cfg)
}

// importCommand runs the pipeline with the file adapter as the only source.
func importCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.Sources = nil
	return harvest(c, cfg, promptharvest.WithAdapters(sources.NewFile(c.String("file"))))
}

// loadConfig layers the configuration as defaults, file, environment, then
// flags, and leaves validation to the harvester.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	applyFlags(c, cfg)
	return cfg, nil
}

func harvest(c *cli.Context, cfg *config.Config, extra ...promptharvest.HarvesterOption) error {
	opts := []promptharvest.HarvesterOption{promptharvest.WithLogger(slog.Default())}
	if c.Bool("progress") {
		opts = append(opts, promptharvest.WithProgress(os.Stderr))
	}
	opts = append(opts, extra...)

	harvester, err := promptharvest.NewHarvester(cfg, opts...)
	if err != nil {
		return err
	}
	defer harvester.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := harvester.Run(ctx)
	if report != nil {
		fmt.Fprintf(c.App.Writer, "Collected %d unique prompts, upserted %d rows in %s\n",
			report.Collected, report.Upserted, report.Duration.Round(time.Millisecond))
		for _, f := range report.Failures {
			fmt.Fprintf(c.App.Writer, "  source %s failed: %v\n", f.Adapter, f.Err)
		}
	}
	return err
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("store") {
		cfg.Store = config.StoreKind(c.String("store"))
	}
	if c.IsSet("db") {
		cfg.BadgerPath = c.String("db")
		if !c.IsSet("store") {
			cfg.Store = config.StoreBadger
		}
	}
	if c.IsSet("migrate") {
		cfg.AutoMigrate = c.Bool("migrate")
	}
	if c.IsSet("source") {
		cfg.Sources = c.StringSlice("source")
	}
	if c.IsSet("chunk-size") {
		cfg.ChunkSize = c.Int("chunk-size")
	}
}

func sourcesCommand(c *cli.Context) error {
	for _, name := range sources.Names(sources.Default(sources.NewClient())) {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func tagsCommand(c *cli.Context) error {
	if c.Bool("vocabulary") {
		for _, tag := range tagging.Default().Vocabulary() {
			fmt.Fprintln(c.App.Writer, tag)
		}
		return nil
	}

	text := strings.Join(c.Args().Slice(), " ")
	if text == "" {
		return fmt.Errorf("prompt text is required")
	}
	fmt.Fprintln(c.App.Writer, strings.Join(tagging.GenerateTags(text), ", "))
	return nil
}

var errStopIteration = errors.New("stop iteration")

func inspectCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := badger.OpenPromptRepository(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d prompts\n", count)

	limit := c.Int("limit")
	if limit <= 0 {
		return nil
	}

	printed := 0
	err = repo.ForEach(ctx, func(r *core.EnrichedRecord) error {
		if printed >= limit {
			return errStopIteration
		}
		printed++
		fmt.Fprintf(c.App.Writer, "- %q [%s] source=%s image=%s\n",
			r.PromptText, strings.Join(r.StyleTags, ", "), r.Source, r.ImageURL)
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		return err
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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
