package archive

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/parser"
	"github.com/starford/larder/internal/storage"
)

const parseWorkers = 4

// Creator stores a new recipe.
type Creator interface {
	CreateRecipe(ctx context.Context, r models.NewRecipe) (int64, error)
}

// FileError records a file that could not be imported.
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }

// ImportReport lists what Import did.
type ImportReport struct {
	Imported []int64
	Failed   []FileError
}

// Import creates one recipe per recipe file, in file name order. Files are read
// and parsed in parallel; recipes are created one at a time. A file that
// fails to parse or validate is recorded in the report and skipped. Names
// are not unique, so importing the same file twice creates two recipes.
func Import(ctx context.Context, files storage.Provider, c Creator, logger *slog.Logger) (ImportReport, error) {
	var rep ImportReport

	list, err := files.Files()
	if err != nil {
		return rep, err
	}

	parsed := make([]*models.NewRecipe, len(list))
	parseErrs := make([]error, len(list))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)
	for i, m := range list {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := files.Load(m.Name)
			if err != nil {
				return err
			}
			parsed[i], parseErrs[i] = parser.Parse(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, fmt.Errorf("archive: read recipe files: %w", err)
	}

	for i, m := range list {
		if parseErrs[i] != nil {
			rep.Failed = append(rep.Failed, FileError{Name: m.Name, Err: parseErrs[i]})
			continue
		}
		id, err := c.CreateRecipe(ctx, *parsed[i])
		if err != nil {
			rep.Failed = append(rep.Failed, FileError{Name: m.Name, Err: err})
			logger.Warn("recipe import failed", slog.String("file", m.Name), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("recipe imported", slog.Int64("id", id), slog.String("file", m.Name))
		rep.Imported = append(rep.Imported, id)
	}
	return rep, nil
}
