package console

import (
	"context"
	"io"
	"log/slog"

	"github.com/starford/larder/internal/catalog"
)

// Viewer is the read-only front-end. It is built from a catalog.Reader and so
// has no way to create or delete recipes.
type Viewer struct {
	browser
	logger *slog.Logger
}

// NewViewer creates a viewer reading answers from in and printing to out.
func NewViewer(r catalog.Reader, in io.Reader, out io.Writer, logger *slog.Logger) *Viewer {
	return &Viewer{
		browser: browser{r: r, prompt: NewPrompter(in, out), out: out},
		logger:  logger,
	}
}

// Run shows the welcome statistics and then the viewer menu until exit.
func (v *Viewer) Run(ctx context.Context) error {
	if err := v.showStatistics(ctx); err != nil {
		return err
	}
	m := &Menu{
		Title:  "RECIPE VIEWER",
		Prompt: v.prompt,
		Out:    v.out,
		Logger: v.logger,
		Items: []Item{
			{Label: "List all recipes", Run: v.listAll},
			{Label: "Search by name", Run: v.searchByName},
			{Label: "Search by category", Run: v.searchByCategory},
			{Label: "Search by ingredient", Run: v.searchByIngredient},
			{Label: "Show all categories", Run: v.showCategories},
			{Label: "Statistics", Run: v.showStatistics},
		},
	}
	return m.Loop(ctx)
}
