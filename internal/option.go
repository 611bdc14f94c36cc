package internal

import "io"

// Mode selects what Run does.
type Mode string

// Run modes.
const (
	ModeEdit   Mode = "edit"
	ModeView   Mode = "view"
	ModeStats  Mode = "stats"
	ModeExport Mode = "export"
	ModeImport Mode = "import"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mode   Mode
	dir    string
	prune  bool
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode selects the front-end or batch command to run.
func WithMode(m Mode) Option {
	return func(a *application) {
		a.mode = m
	}
}

// WithDir overrides the configured import/export directory.
func WithDir(dir string) Option {
	return func(a *application) {
		if dir != "" {
			a.dir = dir
		}
	}
}

// WithPrune makes export remove files of recipes no longer in the store.
func WithPrune(prune bool) Option {
	return func(a *application) {
		a.prune = prune
	}
}

// WithIO sets the console streams. Logs go to errOut.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *application) {
		a.in, a.out, a.errOut = in, out, errOut
	}
}
