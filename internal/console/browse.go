package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/catalog"
	"github.com/starford/larder/internal/models"
)

// browser holds the read-only flows shared by both front-ends.
type browser struct {
	r      catalog.Reader
	prompt *Prompter
	out    io.Writer
}

func (b *browser) listAll(ctx context.Context) error {
	list, err := b.r.ListRecipes(ctx)
	if err != nil {
		return err
	}
	RenderSummaries(b.out, "ALL RECIPES", list)
	return b.offerDetail(ctx, list)
}

func (b *browser) searchByName(ctx context.Context) error {
	return b.search(ctx, "Name to search for: ", "name", b.r.FindRecipesByName)
}

func (b *browser) searchByCategory(ctx context.Context) error {
	cats, err := b.r.ListCategories(ctx)
	if err != nil {
		return err
	}
	RenderCategories(b.out, cats)
	return b.search(ctx, "Category to search for: ", "category", b.r.FindRecipesByCategory)
}

func (b *browser) searchByIngredient(ctx context.Context) error {
	return b.search(ctx, "Ingredient to search for: ", "ingredient", b.r.FindRecipesByIngredient)
}

func (b *browser) search(ctx context.Context, label, field string,
	find func(context.Context, string) ([]models.RecipeSummary, error),
) error {
	term, err := b.prompt.Ask(label)
	if err != nil {
		return err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		fmt.Fprintln(b.out, "Please enter something to search for.")
		return nil
	}
	list, err := find(ctx, term)
	if err != nil {
		return err
	}
	RenderSummaries(b.out, fmt.Sprintf("SEARCH RESULTS: %s contains %q", field, term), list)
	return b.offerDetail(ctx, list)
}

func (b *browser) showCategories(ctx context.Context) error {
	cats, err := b.r.ListCategories(ctx)
	if err != nil {
		return err
	}
	groups := make([]CategoryGroup, 0, len(cats))
	var all []models.RecipeSummary
	for _, c := range cats {
		list, err := b.r.RecipesInCategory(ctx, c)
		if err != nil {
			return err
		}
		groups = append(groups, CategoryGroup{Category: c, Recipes: list})
		all = append(all, list...)
	}
	RenderCategoryGroups(b.out, groups)
	return b.offerDetail(ctx, all)
}

func (b *browser) showStatistics(ctx context.Context) error {
	st, err := b.r.Statistics(ctx)
	if err != nil {
		return err
	}
	RenderStatistics(b.out, st)
	return nil
}

// offerDetail lets the operator open one recipe from a non-empty listing.
// Anything other than digits returns to the menu.
func (b *browser) offerDetail(ctx context.Context, list []models.RecipeSummary) error {
	if len(list) == 0 {
		return nil
	}
	answer, err := b.prompt.Ask("\nRecipe ID for details (Enter to go back): ")
	if err != nil {
		return err
	}
	id, ok := parseID(answer)
	if !ok {
		return nil
	}
	return b.showDetail(ctx, id)
}

func (b *browser) showDetail(ctx context.Context, id int64) error {
	d, err := b.r.GetRecipeDetail(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		fmt.Fprintln(b.out, "Recipe not found.")
		return nil
	}
	if err != nil {
		return err
	}
	RenderDetail(b.out, d)
	return nil
}
