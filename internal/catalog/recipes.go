package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/models"
)

const summaryColumns = `r.id, r.name, r.category, r.cooking_time, r.difficulty`

// likeEscaper makes %, _ and the escape character itself match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(substr string) string {
	return "%" + likeEscaper.Replace(substr) + "%"
}

// CreateRecipe inserts a recipe and its ingredients within one transaction and
// returns the generated recipe id. Nothing is stored when any insert fails.
func (db *DB) CreateRecipe(ctx context.Context, r models.NewRecipe) (int64, error) {
	c, err := db.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `
		INSERT INTO recipes (name, category, cooking_time, difficulty, instructions)
		VALUES (?, ?, ?, ?, ?)
	`, r.Name, nullString(r.Category), nullInt(r.CookingTime), nullString(r.Difficulty), nullString(r.Instructions))
	if err != nil {
		return 0, fmt.Errorf("catalog: insert recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("catalog: recipe id: %w", err)
	}

	if len(r.Ingredients) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO ingredients (recipe_id, name, quantity, unit) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("catalog: prepare ingredient insert: %w", err)
		}
		defer stmt.Close()
		for _, ing := range r.Ingredients {
			if _, err := stmt.ExecContext(ctx, id, ing.Name, nullString(ing.Quantity), nullString(ing.Unit)); err != nil {
				return 0, fmt.Errorf("catalog: insert ingredient %q: %w", ing.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("catalog: commit: %w", err)
	}
	return id, nil
}

// DeleteRecipe removes a recipe's ingredients and then the recipe itself in
// one transaction. It returns apperr.ErrNotFound, leaving the store
// unchanged, when no recipe has the given id.
func (db *DB) DeleteRecipe(ctx context.Context, id int64) error {
	c, err := db.acquire(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("catalog: delete ingredients: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog: delete recipe: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("catalog: recipe %d: %w", id, apperr.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit: %w", err)
	}
	return nil
}

// ListRecipes returns every recipe ordered by name.
func (db *DB) ListRecipes(ctx context.Context) ([]models.RecipeSummary, error) {
	return db.querySummaries(ctx, "list recipes", `
		SELECT `+summaryColumns+`
		FROM recipes r
		ORDER BY r.name, r.id
	`)
}

// FindRecipesByName returns recipes whose name contains substr.
func (db *DB) FindRecipesByName(ctx context.Context, substr string) ([]models.RecipeSummary, error) {
	return db.querySummaries(ctx, "find by name", `
		SELECT `+summaryColumns+`
		FROM recipes r
		WHERE r.name LIKE ? ESCAPE '\'
		ORDER BY r.name, r.id
	`, containsPattern(substr))
}

// FindRecipesByCategory returns recipes whose category contains substr.
func (db *DB) FindRecipesByCategory(ctx context.Context, substr string) ([]models.RecipeSummary, error) {
	return db.querySummaries(ctx, "find by category", `
		SELECT `+summaryColumns+`
		FROM recipes r
		WHERE r.category LIKE ? ESCAPE '\'
		ORDER BY r.name, r.id
	`, containsPattern(substr))
}

// FindRecipesByIngredient returns each recipe having at least one ingredient
// whose name contains substr. A recipe is listed once however many of its
// ingredients match.
func (db *DB) FindRecipesByIngredient(ctx context.Context, substr string) ([]models.RecipeSummary, error) {
	return db.querySummaries(ctx, "find by ingredient", `
		SELECT DISTINCT `+summaryColumns+`
		FROM recipes r
		JOIN ingredients i ON r.id = i.recipe_id
		WHERE i.name LIKE ? ESCAPE '\'
		ORDER BY r.name, r.id
	`, containsPattern(substr))
}

// RecipesInCategory returns recipes whose category equals category exactly.
func (db *DB) RecipesInCategory(ctx context.Context, category string) ([]models.RecipeSummary, error) {
	return db.querySummaries(ctx, "recipes in category", `
		SELECT `+summaryColumns+`
		FROM recipes r
		WHERE r.category = ?
		ORDER BY r.name, r.id
	`, category)
}

// ListCategories returns the distinct non-null categories in alphabetical order.
func (db *DB) ListCategories(ctx context.Context) ([]string, error) {
	c, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	rows, err := c.QueryContext(ctx, `
		SELECT DISTINCT category
		FROM recipes
		WHERE category IS NOT NULL
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("catalog: scan category: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	return out, nil
}

// GetRecipeDetail returns the full recipe with its ingredients ordered by
// insertion, or apperr.ErrNotFound.
func (db *DB) GetRecipeDetail(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	c, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var (
		d            models.RecipeDetail
		category     sql.NullString
		cookingTime  sql.NullInt64
		difficulty   sql.NullString
		instructions sql.NullString
		createdAt    sql.NullTime
	)
	err = c.QueryRowContext(ctx, `
		SELECT id, name, category, cooking_time, difficulty, instructions, created_date
		FROM recipes
		WHERE id = ?
	`, id).Scan(&d.ID, &d.Name, &category, &cookingTime, &difficulty, &instructions, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog: recipe %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get recipe: %w", err)
	}
	d.Category = category.String
	d.CookingTime = intPtr(cookingTime)
	d.Difficulty = difficulty.String
	d.Instructions = instructions.String
	d.CreatedAt = createdAt.Time

	rows, err := c.QueryContext(ctx, `
		SELECT id, recipe_id, name, quantity, unit
		FROM ingredients
		WHERE recipe_id = ?
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("catalog: get ingredients: %w", err)
	}
	defer rows.Close()

	d.Ingredients = []models.Ingredient{}
	for rows.Next() {
		var (
			ing      models.Ingredient
			quantity sql.NullString
			unit     sql.NullString
		)
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.Name, &quantity, &unit); err != nil {
			return nil, fmt.Errorf("catalog: scan ingredient: %w", err)
		}
		ing.Quantity = quantity.String
		ing.Unit = unit.String
		d.Ingredients = append(d.Ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: get ingredients: %w", err)
	}
	return &d, nil
}

// Statistics returns recipe and category counts plus the quickest recipe.
func (db *DB) Statistics(ctx context.Context) (*models.Statistics, error) {
	c, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var st models.Statistics
	if err := c.QueryRowContext(ctx, `SELECT count(*) FROM recipes`).Scan(&st.TotalRecipes); err != nil {
		return nil, fmt.Errorf("catalog: count recipes: %w", err)
	}
	if err := c.QueryRowContext(ctx,
		`SELECT count(DISTINCT category) FROM recipes WHERE category IS NOT NULL`,
	).Scan(&st.TotalCategories); err != nil {
		return nil, fmt.Errorf("catalog: count categories: %w", err)
	}

	fastest, err := scanSummary(c.QueryRowContext(ctx, `
		SELECT `+summaryColumns+`
		FROM recipes r
		WHERE r.cooking_time IS NOT NULL
		ORDER BY r.cooking_time
		LIMIT 1
	`))
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("catalog: fastest recipe: %w", err)
	default:
		st.Fastest = &fastest
	}
	return &st, nil
}

func (db *DB) querySummaries(ctx context.Context, op, query string, args ...any) ([]models.RecipeSummary, error) {
	c, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	rows, err := c.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", op, err)
	}
	defer rows.Close()

	out := []models.RecipeSummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", op, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (models.RecipeSummary, error) {
	var (
		s           models.RecipeSummary
		category    sql.NullString
		cookingTime sql.NullInt64
		difficulty  sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Name, &category, &cookingTime, &difficulty); err != nil {
		return models.RecipeSummary{}, err
	}
	s.Category = category.String
	s.CookingTime = intPtr(cookingTime)
	s.Difficulty = difficulty.String
	return s, nil
}

// nullString stores blank optional text as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
