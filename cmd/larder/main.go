package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/modfin/clix"
	"github.com/urfave/cli/v3"

	"github.com/starford/larder/internal"
	pkgconfig "github.com/starford/larder/pkg/config"
)

// overrides are global flags that take precedence over the config file.
type overrides struct {
	DB        string `cli:"db"`
	LogLevel  string `cli:"log-level"`
	LogFormat string `cli:"log-format"`
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	o := clix.ParseCommand[overrides](cmd)
	if o.DB != "" {
		cfg.SQLite.Path = o.DB
	}
	if o.LogLevel != "" {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(o.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
		}
	}
	if o.LogFormat != "" {
		cfg.App.LogFormat = o.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func runMode(mode internal.Mode) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithMode(mode),
			internal.WithDir(cmd.Args().First()),
		}
		if mode == internal.ModeExport {
			opts = append(opts, internal.WithPrune(cmd.Bool("prune")))
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "larder",
		Usage:  "Terminal recipe catalog backed by a SQLite store",
		Action: runMode(internal.ModeEdit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("LARDER_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to the recipe store, overrides sqlite.path",
				Sources: cli.EnvVars("LARDER_DB"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("LARDER_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "text or json",
				Sources: cli.EnvVars("LARDER_LOG_FORMAT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "edit",
				Usage:  "add, browse, search and delete recipes (creates the store if needed)",
				Action: runMode(internal.ModeEdit),
			},
			{
				Name:   "view",
				Usage:  "browse and search an existing store read-only",
				Action: runMode(internal.ModeView),
			},
			{
				Name:   "stats",
				Usage:  "print catalog statistics",
				Action: runMode(internal.ModeStats),
			},
			{
				Name:      "export",
				Usage:     "write every recipe to a Markdown file",
				ArgsUsage: "[dir]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "prune",
						Usage: "remove exported files of recipes that no longer exist",
					},
				},
				Action: runMode(internal.ModeExport),
			},
			{
				Name:      "import",
				Usage:     "create a recipe from each Markdown file in a directory",
				ArgsUsage: "[dir]",
				Action:    runMode(internal.ModeImport),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
