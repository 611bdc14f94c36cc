package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/modfin/henry/slicez"

	"github.com/starford/larder/internal/models"
)

const timeLayout = "2006-01-02 15:04"

// CategoryGroup is a category with the recipes filed under it.
type CategoryGroup struct {
	Category string
	Recipes  []models.RecipeSummary
}

// RenderSummaries prints a titled list of recipes.
func RenderSummaries(w io.Writer, title string, list []models.RecipeSummary) {
	heading(w, title)
	if len(list) == 0 {
		fmt.Fprintln(w, "No recipes found.")
		return
	}
	fmt.Fprintf(w, "Recipes found: %d\n\n", len(list))
	for _, r := range list {
		fmt.Fprintf(w, "%d. %s\n", r.ID, r.Name)
		fmt.Fprintf(w, "   Category: %s | Time: %s | Difficulty: %s\n",
			orDash(r.Category), formatMinutes(r.CookingTime), orDash(r.Difficulty))
	}
}

// RenderDetail prints a full recipe.
func RenderDetail(w io.Writer, d *models.RecipeDetail) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\nRECIPE: %s\n%s\n", d.Name, rule)
	fmt.Fprintf(w, "Category:     %s\n", orDash(d.Category))
	fmt.Fprintf(w, "Cooking time: %s\n", formatMinutes(d.CookingTime))
	fmt.Fprintf(w, "Difficulty:   %s\n", orDash(d.Difficulty))
	if !d.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Added:        %s\n", d.CreatedAt.Local().Format(timeLayout))
	}

	heading(w, "INGREDIENTS")
	if len(d.Ingredients) == 0 {
		fmt.Fprintln(w, "  No ingredients listed")
	}
	for i, line := range slicez.Map(d.Ingredients, ingredientLine) {
		fmt.Fprintf(w, "  %d. %s\n", i+1, line)
	}

	heading(w, "INSTRUCTIONS")
	if d.Instructions == "" {
		fmt.Fprintln(w, "No instructions given")
	} else {
		fmt.Fprintln(w, d.Instructions)
	}
	fmt.Fprintln(w, rule)
}

// RenderCategories prints the category names only.
func RenderCategories(w io.Writer, cats []string) {
	if len(cats) == 0 {
		return
	}
	fmt.Fprintln(w, "\nAvailable categories:")
	for _, c := range cats {
		fmt.Fprintf(w, "  - %s\n", c)
	}
}

// RenderCategoryGroups prints each category followed by its recipes.
func RenderCategoryGroups(w io.Writer, groups []CategoryGroup) {
	heading(w, "ALL CATEGORIES")
	if len(groups) == 0 {
		fmt.Fprintln(w, "No categories found.")
		return
	}
	for i, g := range groups {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, g.Category)
		if len(g.Recipes) == 0 {
			fmt.Fprintln(w, "   No recipes")
		}
		for _, r := range g.Recipes {
			fmt.Fprintf(w, "   %d. %s (%s, %s)\n", r.ID, r.Name, formatMinutes(r.CookingTime), orDash(r.Difficulty))
		}
	}
}

// RenderStatistics prints catalog totals.
func RenderStatistics(w io.Writer, st *models.Statistics) {
	heading(w, "STATISTICS")
	fmt.Fprintf(w, "Total recipes:    %d\n", st.TotalRecipes)
	fmt.Fprintf(w, "Total categories: %d\n", st.TotalCategories)
	if st.Fastest != nil {
		fmt.Fprintf(w, "Fastest recipe:   %q (%s)\n", st.Fastest.Name, formatMinutes(st.Fastest.CookingTime))
	}
}

func ingredientLine(i models.Ingredient) string {
	switch {
	case i.Quantity != "" && i.Unit != "":
		return fmt.Sprintf("%s - %s %s", i.Name, i.Quantity, i.Unit)
	case i.Quantity != "":
		return fmt.Sprintf("%s - %s", i.Name, i.Quantity)
	default:
		return i.Name
	}
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", 50))
}

func formatMinutes(m *int) string {
	if m == nil {
		return "-"
	}
	return fmt.Sprintf("%d min", *m)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
