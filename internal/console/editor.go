package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/catalog"
	"github.com/starford/larder/internal/models"
)

const (
	instructionsEnd = "end"
	ingredientsDone = "done"
)

// Store is what the editor needs: reads plus create and delete.
type Store interface {
	catalog.Reader
	CreateRecipe(ctx context.Context, r models.NewRecipe) (int64, error)
	DeleteRecipe(ctx context.Context, id int64) error
}

// Editor is the read/write front-end.
type Editor struct {
	browser
	store  Store
	logger *slog.Logger
}

// NewEditor creates an editor reading answers from in and printing to out.
func NewEditor(s Store, in io.Reader, out io.Writer, logger *slog.Logger) *Editor {
	return &Editor{
		browser: browser{r: s, prompt: NewPrompter(in, out), out: out},
		store:   s,
		logger:  logger,
	}
}

// Run shows the editor menu until exit.
func (e *Editor) Run(ctx context.Context) error {
	m := &Menu{
		Title:  "RECIPE EDITOR",
		Prompt: e.prompt,
		Out:    e.out,
		Logger: e.logger,
		Items: []Item{
			{Label: "Add a recipe", Run: e.addRecipe},
			{Label: "List all recipes", Run: e.listAll},
			{Label: "Search by name", Run: e.searchByName},
			{Label: "Search by category", Run: e.searchByCategory},
			{Label: "Search by ingredient", Run: e.searchByIngredient},
			{Label: "Show all categories", Run: e.showCategories},
			{Label: "Delete a recipe", Run: e.deleteRecipe},
			{Label: "Statistics", Run: e.showStatistics},
		},
	}
	return m.Loop(ctx)
}

func (e *Editor) addRecipe(ctx context.Context) error {
	heading(e.out, "NEW RECIPE")
	var (
		r   models.NewRecipe
		err error
	)
	if r.Name, err = e.prompt.Ask("Recipe name: "); err != nil {
		return err
	}
	if r.Category, err = e.prompt.Ask("Category (e.g. soup, dessert, main): "); err != nil {
		return err
	}
	if r.CookingTime, err = e.askMinutes(); err != nil {
		return err
	}
	if r.Difficulty, err = e.prompt.Ask("Difficulty (easy/medium/hard): "); err != nil {
		return err
	}

	fmt.Fprintf(e.out, "\nInstructions (finish with a line containing only %q):\n", instructionsEnd)
	if r.Instructions, err = e.prompt.AskLines(instructionsEnd); err != nil {
		return err
	}

	fmt.Fprintf(e.out, "\nIngredients (blank name or %q to finish):\n", ingredientsDone)
	for {
		name, err := e.prompt.Ask(fmt.Sprintf("Ingredient #%d name: ", len(r.Ingredients)+1))
		if err != nil {
			return err
		}
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, ingredientsDone) {
			break
		}
		ing := models.NewIngredient{Name: name}
		if ing.Quantity, err = e.prompt.Ask("  Quantity: "); err != nil {
			return err
		}
		if ing.Unit, err = e.prompt.Ask("  Unit (g, ml, pcs...): "); err != nil {
			return err
		}
		r.Ingredients = append(r.Ingredients, ing)
	}

	id, err := e.store.CreateRecipe(ctx, r)
	if err != nil {
		fmt.Fprintf(e.out, "Could not add recipe: %v\n", err)
		return nil
	}
	fmt.Fprintf(e.out, "Recipe %q added with ID %d.\n", strings.TrimSpace(r.Name), id)
	return nil
}

// askMinutes re-prompts until the answer is blank (unknown) or a whole number.
func (e *Editor) askMinutes() (*int, error) {
	for {
		answer, err := e.prompt.Ask("Cooking time in minutes (blank if unknown): ")
		if err != nil {
			return nil, err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return nil, nil
		}
		if isDigits(answer) {
			if n, err := strconv.Atoi(answer); err == nil {
				return &n, nil
			}
		}
		fmt.Fprintln(e.out, "Please enter a whole number of minutes.")
	}
}

func (e *Editor) deleteRecipe(ctx context.Context) error {
	heading(e.out, "DELETE RECIPE")
	list, err := e.store.ListRecipes(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(e.out, "There are no recipes to delete.")
		return nil
	}
	for _, r := range list {
		fmt.Fprintf(e.out, "%d. %s\n", r.ID, r.Name)
	}

	answer, err := e.prompt.Ask("\nRecipe ID to delete: ")
	if err != nil {
		return err
	}
	id, ok := parseID(answer)
	if !ok {
		fmt.Fprintln(e.out, "Please enter a valid ID.")
		return nil
	}

	d, err := e.store.GetRecipeDetail(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		fmt.Fprintln(e.out, "No recipe with that ID.")
		return nil
	}
	if err != nil {
		return err
	}

	yes, err := e.prompt.Confirm(fmt.Sprintf("Delete recipe %q?", d.Name))
	if err != nil {
		return err
	}
	if !yes {
		fmt.Fprintln(e.out, "Deletion cancelled.")
		return nil
	}
	err = e.store.DeleteRecipe(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		fmt.Fprintln(e.out, "No recipe with that ID.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Recipe %q deleted.\n", d.Name)
	return nil
}
