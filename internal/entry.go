// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/MatusOllah/slogcolor"

	"github.com/starford/larder/internal/archive"
	"github.com/starford/larder/internal/catalog"
	"github.com/starford/larder/internal/console"
	"github.com/starford/larder/internal/recipeservice"
	"github.com/starford/larder/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		mode:   ModeEdit,
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	if app.dir == "" {
		app.dir = cfg.Export.Dir
	}

	logger := newLogger(app.errOut, cfg.App)
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("mode", string(app.mode)),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("case_sensitive", cfg.Search.CaseSensitive),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := openStore(app.mode, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := recipeservice.NewService(db, logger)

	switch app.mode {
	case ModeEdit:
		return console.NewEditor(svc, app.in, app.out, logger).Run(ctx)
	case ModeView:
		return console.NewViewer(svc, app.in, app.out, logger).Run(ctx)
	case ModeStats:
		st, err := svc.Statistics(ctx)
		if err != nil {
			return err
		}
		console.RenderStatistics(app.out, st)
		return nil
	case ModeExport:
		return runExport(ctx, app, svc, logger)
	case ModeImport:
		return runImport(ctx, app, svc, logger)
	default:
		return fmt.Errorf("unknown mode %q", app.mode)
	}
}

// openStore opens the catalog for mode. Only the editor and import create
// the store and its schema; every other mode requires an existing file.
func openStore(mode Mode, cfg *Config) (*catalog.DB, error) {
	opts := catalog.Options{CaseSensitive: cfg.Search.CaseSensitive}
	var (
		db  *catalog.DB
		err error
	)
	switch mode {
	case ModeEdit, ModeImport:
		db, err = catalog.Open(cfg.SQLite.Path, opts)
	default:
		db, err = catalog.OpenExisting(cfg.SQLite.Path, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	return db, nil
}

func runExport(ctx context.Context, app *application, r catalog.Reader, logger *slog.Logger) error {
	if err := os.MkdirAll(app.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	files, err := storage.OpenDir(app.dir)
	if err != nil {
		return fmt.Errorf("init export dir: %w", err)
	}
	rep, err := archive.Export(ctx, r, files, app.prune, logger)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("Export finished", slog.String("dir", app.dir), slog.Int("written", rep.Written))
	fmt.Fprintf(app.out, "Exported to %s: %s\n", app.dir, rep)
	return nil
}

func runImport(ctx context.Context, app *application, c archive.Creator, logger *slog.Logger) error {
	files, err := storage.OpenDir(app.dir)
	if err != nil {
		return fmt.Errorf("init import dir: %w", err)
	}
	rep, err := archive.Import(ctx, files, c, logger)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	for _, f := range rep.Failed {
		fmt.Fprintf(app.out, "Skipped %s\n", f.Error())
	}
	fmt.Fprintf(app.out, "Imported %d recipe(s) from %s, %d skipped\n", len(rep.Imported), app.dir, len(rep.Failed))
	return nil
}

func newLogger(w io.Writer, cfg ApplicationConfig) *slog.Logger {
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}))
	}
	opts := *slogcolor.DefaultOptions
	opts.Level = cfg.LogLevel
	opts.TimeFormat = time.TimeOnly
	return slog.New(slogcolor.NewHandler(w, &opts))
}
