// Package models defines the domain types for Larder.
package models

import "time"

// Recipe is a full row of the recipes table.
type Recipe struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	CookingTime  *int      `json:"cooking_time,omitempty"` // minutes
	Difficulty   string    `json:"difficulty,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Ingredient belongs to exactly one recipe.
type Ingredient struct {
	ID       int64  `json:"id"`
	RecipeID int64  `json:"recipe_id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"` // free-form, e.g. "to taste"
	Unit     string `json:"unit,omitempty"`
}

// RecipeSummary is the projection returned by list and search operations.
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	CookingTime *int   `json:"cooking_time,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// RecipeDetail is a recipe together with its ingredients in insertion order.
type RecipeDetail struct {
	Recipe
	Ingredients []Ingredient `json:"ingredients"`
}

// NewIngredient is the input for an ingredient created with its recipe.
type NewIngredient struct {
	Name     string `json:"name" yaml:"name"`
	Quantity string `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// NewRecipe is the input for CreateRecipe.
type NewRecipe struct {
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	CookingTime  *int            `json:"cooking_time,omitempty"`
	Difficulty   string          `json:"difficulty,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	Ingredients  []NewIngredient `json:"ingredients,omitempty"`
}

// Statistics summarises the catalog.
type Statistics struct {
	TotalRecipes    int            `json:"total_recipes"`
	TotalCategories int            `json:"total_categories"`
	Fastest         *RecipeSummary `json:"fastest,omitempty"` // nil when no recipe has a cooking time
}

// FileMetadata describes a recipe file in an export directory.
type FileMetadata struct {
	Name     string `json:"name"`
	RecipeID int64  `json:"recipe_id,omitempty"` // set only for files named "<id>-<slug>.md"
	Checksum string `json:"checksum"`
}
