// Package recipeservice validates recipe input and coordinates catalog writes.
package recipeservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/catalog"
	"github.com/starford/larder/internal/models"
)

// Service wraps a catalog with input validation and logging. It satisfies
// catalog.Reader, so read-only callers can be handed a *Service directly.
type Service struct {
	catalog.Reader
	store  catalog.Catalog
	logger *slog.Logger
}

// NewService creates a new recipe service.
func NewService(store catalog.Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Reader: store, store: store, logger: logger}
}

// CreateRecipe normalises and validates r, then stores it with its
// ingredients as one unit. Validation failures wrap apperr.ErrInvalidInput.
func (s *Service) CreateRecipe(ctx context.Context, r models.NewRecipe) (int64, error) {
	r = normalise(r)
	if err := validate(r); err != nil {
		return 0, fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}
	id, err := s.store.CreateRecipe(ctx, r)
	if err != nil {
		s.logger.Error("create recipe failed", slog.String("name", r.Name), slog.String("error", err.Error()))
		return 0, err
	}
	s.logger.Info("recipe created",
		slog.Int64("id", id),
		slog.String("name", r.Name),
		slog.Int("ingredients", len(r.Ingredients)))
	return id, nil
}

// DeleteRecipe removes a recipe and its ingredients.
func (s *Service) DeleteRecipe(ctx context.Context, id int64) error {
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	s.logger.Info("recipe deleted", slog.Int64("id", id))
	return nil
}

func normalise(r models.NewRecipe) models.NewRecipe {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.Difficulty = strings.TrimSpace(r.Difficulty)
	r.Instructions = strings.TrimRight(r.Instructions, " \t\r\n")
	ings := make([]models.NewIngredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ings[i] = models.NewIngredient{
			Name:     strings.TrimSpace(ing.Name),
			Quantity: strings.TrimSpace(ing.Quantity),
			Unit:     strings.TrimSpace(ing.Unit),
		}
	}
	r.Ingredients = ings
	return r
}

func validate(r models.NewRecipe) error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.CookingTime, validation.Min(0)),
	); err != nil {
		return err
	}
	errs := validation.Errors{}
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		if err := validation.ValidateStruct(ing,
			validation.Field(&ing.Name, validation.Required),
		); err != nil {
			errs[fmt.Sprintf("ingredient %d", i+1)] = err
		}
	}
	return errs.Filter()
}
