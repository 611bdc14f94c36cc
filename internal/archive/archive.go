// Package archive exports the catalog to a directory of recipe files and
// imports recipe files back into it.
package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/larder/internal/catalog"
	"github.com/starford/larder/internal/checksum"
	"github.com/starford/larder/internal/parser"
	"github.com/starford/larder/internal/storage"
)

// ExportReport counts what Export did.
type ExportReport struct {
	Written   int
	Unchanged int
	Removed   int
}

// Export writes every recipe in r to files. Files whose content is already
// up to date are left untouched. With prune set, previously exported files
// for recipes no longer in the catalog are removed.
func Export(ctx context.Context, r catalog.Reader, files storage.Provider, prune bool, logger *slog.Logger) (ExportReport, error) {
	var rep ExportReport

	existing, err := files.Files()
	if err != nil {
		return rep, err
	}
	sums := make(map[string]string, len(existing))
	for _, m := range existing {
		sums[m.Name] = m.Checksum
	}

	list, err := r.ListRecipes(ctx)
	if err != nil {
		return rep, err
	}
	kept := make(map[string]struct{}, len(list))
	for _, s := range list {
		d, err := r.GetRecipeDetail(ctx, s.ID)
		if err != nil {
			return rep, err
		}
		data, err := parser.Render(d)
		if err != nil {
			return rep, fmt.Errorf("archive: render recipe %d: %w", d.ID, err)
		}

		name := storage.FileName(d.ID, d.Name)
		kept[name] = struct{}{}
		if checksum.Matches(data, sums[name]) {
			rep.Unchanged++
			continue
		}
		if _, err := files.Save(d.ID, d.Name, data); err != nil {
			return rep, err
		}
		logger.Debug("recipe exported", slog.Int64("id", d.ID), slog.String("file", name))
		rep.Written++
	}

	if prune {
		for _, m := range existing {
			if _, ok := kept[m.Name]; ok || m.RecipeID == 0 {
				continue
			}
			if err := files.Remove(m.Name); err != nil {
				return rep, err
			}
			logger.Debug("stale export removed", slog.Int64("id", m.RecipeID), slog.String("file", m.Name))
			rep.Removed++
		}
	}
	return rep, nil
}

func (r ExportReport) String() string {
	return fmt.Sprintf("%d written, %d unchanged, %d removed", r.Written, r.Unchanged, r.Removed)
}
