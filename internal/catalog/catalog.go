package catalog

import (
	"context"

	"github.com/starford/larder/internal/models"
)

// Reader is the read-only view of the recipe store. The viewer front-end
// depends on this interface only.
type Reader interface {
	ListRecipes(ctx context.Context) ([]models.RecipeSummary, error)
	FindRecipesByName(ctx context.Context, substr string) ([]models.RecipeSummary, error)
	FindRecipesByCategory(ctx context.Context, substr string) ([]models.RecipeSummary, error)
	FindRecipesByIngredient(ctx context.Context, substr string) ([]models.RecipeSummary, error)
	ListCategories(ctx context.Context) ([]string, error)
	RecipesInCategory(ctx context.Context, category string) ([]models.RecipeSummary, error)
	GetRecipeDetail(ctx context.Context, id int64) (*models.RecipeDetail, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
}

// Catalog adds the write operations used by the editor.
type Catalog interface {
	Reader
	CreateRecipe(ctx context.Context, r models.NewRecipe) (int64, error)
	DeleteRecipe(ctx context.Context, id int64) error
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
