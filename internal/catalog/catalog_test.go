package catalog

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.db")
	db, err := Open(path, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func minutes(n int) *int { return &n }

func mustCreate(t *testing.T, db *DB, r models.NewRecipe) int64 {
	t.Helper()
	id, err := db.CreateRecipe(context.Background(), r)
	require.NoError(t, err)
	return id
}

func names(rs []models.RecipeSummary) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM recipes`).Scan(&count))
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM ingredients`).Scan(&count))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")
	db, err := Open(path, Options{})
	require.NoError(t, err)
	mustCreate(t, db, models.NewRecipe{Name: "Toast"})
	require.NoError(t, db.Close())

	db, err = Open(path, Options{})
	require.NoError(t, err)
	defer db.Close()
	list, err := db.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Toast"}, names(list))
}

func TestCreateAndDetail_Borscht(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	id := mustCreate(t, db, models.NewRecipe{
		Name:         "Borscht",
		Category:     "soup",
		CookingTime:  minutes(60),
		Difficulty:   "medium",
		Instructions: "boil\nsimmer",
		Ingredients: []models.NewIngredient{
			{Name: "beet", Quantity: "2", Unit: "pcs"},
			{Name: "water", Quantity: "2", Unit: "l"},
		},
	})

	d, err := db.GetRecipeDetail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Borscht", d.Name)
	assert.Equal(t, "soup", d.Category)
	require.NotNil(t, d.CookingTime)
	assert.Equal(t, 60, *d.CookingTime)
	assert.Equal(t, "medium", d.Difficulty)
	assert.Equal(t, "boil\nsimmer", d.Instructions)
	assert.False(t, d.CreatedAt.IsZero(), "created_date should be set on insert")

	require.Len(t, d.Ingredients, 2)
	assert.Equal(t, "beet", d.Ingredients[0].Name)
	assert.Equal(t, "2", d.Ingredients[0].Quantity)
	assert.Equal(t, "pcs", d.Ingredients[0].Unit)
	assert.Equal(t, "water", d.Ingredients[1].Name)
	assert.Equal(t, id, d.Ingredients[1].RecipeID)
}

func TestDetail_IngredientsInInsertionOrder(t *testing.T) {
	db := testDB(t)
	in := []models.NewIngredient{{Name: "z"}, {Name: "a"}, {Name: "m"}, {Name: "b"}, {Name: "to taste", Quantity: "to taste"}}
	id := mustCreate(t, db, models.NewRecipe{Name: "Order", Ingredients: in})

	d, err := db.GetRecipeDetail(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, d.Ingredients, len(in))
	for i, ing := range d.Ingredients {
		assert.Equal(t, in[i].Name, ing.Name)
	}
}

func TestDetail_OptionalFieldsEmpty(t *testing.T) {
	db := testDB(t)
	id := mustCreate(t, db, models.NewRecipe{Name: "Plain"})

	d, err := db.GetRecipeDetail(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, d.CookingTime)
	assert.Empty(t, d.Category)
	assert.Empty(t, d.Instructions)
	assert.NotNil(t, d.Ingredients)
	assert.Empty(t, d.Ingredients)
}

func TestDetail_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetRecipeDetail(context.Background(), 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreate_RollsBackOnIngredientFailure(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Make the second ingredient insert fail.
	_, err := db.conn.Exec(`CREATE TRIGGER reject_poison BEFORE INSERT ON ingredients
		WHEN NEW.name = 'poison' BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	_, err = db.CreateRecipe(ctx, models.NewRecipe{
		Name:        "Broken",
		Ingredients: []models.NewIngredient{{Name: "fine"}, {Name: "poison"}},
	})
	require.Error(t, err)

	list, err := db.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	var n int
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM ingredients`).Scan(&n))
	assert.Zero(t, n)
}

func TestListRecipes_SortedByName(t *testing.T) {
	db := testDB(t)
	for _, n := range []string{"Pancakes", "Borscht", "Omelette", "Apple pie", "Borscht"} {
		mustCreate(t, db, models.NewRecipe{Name: n})
	}
	list, err := db.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple pie", "Borscht", "Borscht", "Omelette", "Pancakes"}, names(list))
	assert.Less(t, list[1].ID, list[2].ID, "duplicate names keep id order")
}

func TestListRecipes_Empty(t *testing.T) {
	db := testDB(t)
	list, err := db.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindRecipesByName(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, models.NewRecipe{Name: "Tomato soup"})
	mustCreate(t, db, models.NewRecipe{Name: "Green salad"})
	mustCreate(t, db, models.NewRecipe{Name: "Fish soup"})

	got, err := db.FindRecipesByName(context.Background(), "soup")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fish soup", "Tomato soup"}, names(got))
}

func TestFindRecipesByName_WildcardsMatchLiterally(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, models.NewRecipe{Name: "100% rye"})
	mustCreate(t, db, models.NewRecipe{Name: "1000 rye"})
	mustCreate(t, db, models.NewRecipe{Name: "snake_case"})
	mustCreate(t, db, models.NewRecipe{Name: "snakeXcase"})

	got, err := db.FindRecipesByName(context.Background(), "0%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% rye"}, names(got))

	got, err = db.FindRecipesByName(context.Background(), "e_c")
	require.NoError(t, err)
	assert.Equal(t, []string{"snake_case"}, names(got))
}

func TestFindRecipesByName_CaseSensitivity(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recipes.db")

	insensitive, err := Open(path, Options{})
	require.NoError(t, err)
	mustCreate(t, insensitive, models.NewRecipe{Name: "Borscht"})
	got, err := insensitive.FindRecipesByName(ctx, "borscht")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	require.NoError(t, insensitive.Close())

	sensitive, err := Open(path, Options{CaseSensitive: true})
	require.NoError(t, err)
	defer sensitive.Close()
	got, err = sensitive.FindRecipesByName(ctx, "borscht")
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = sensitive.FindRecipesByName(ctx, "Bor")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindRecipesByCategory(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, models.NewRecipe{Name: "Brownie", Category: "dessert"})
	mustCreate(t, db, models.NewRecipe{Name: "Borscht", Category: "soup"})
	mustCreate(t, db, models.NewRecipe{Name: "Affogato", Category: "frozen dessert"})
	mustCreate(t, db, models.NewRecipe{Name: "Bread"})

	got, err := db.FindRecipesByCategory(context.Background(), "dessert")
	require.NoError(t, err)
	assert.Equal(t, []string{"Affogato", "Brownie"}, names(got))
}

func TestFindRecipesByIngredient_Distinct(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, models.NewRecipe{Name: "Brine", Ingredients: []models.NewIngredient{
		{Name: "sea salt"}, {Name: "rock salt"}, {Name: "water"},
	}})
	mustCreate(t, db, models.NewRecipe{Name: "Caramel", Ingredients: []models.NewIngredient{
		{Name: "sugar"}, {Name: "salted butter"},
	}})
	mustCreate(t, db, models.NewRecipe{Name: "Tea", Ingredients: []models.NewIngredient{{Name: "water"}}})

	got, err := db.FindRecipesByIngredient(context.Background(), "salt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Brine", "Caramel"}, names(got))
}

func TestRecipesInCategory_ExactMatch(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, models.NewRecipe{Name: "Brownie", Category: "dessert"})
	mustCreate(t, db, models.NewRecipe{Name: "Affogato", Category: "frozen dessert"})

	got, err := db.RecipesInCategory(context.Background(), "dessert")
	require.NoError(t, err)
	assert.Equal(t, []string{"Brownie"}, names(got))
}

func TestListCategories_DistinctSortedNonNull(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, models.NewRecipe{Name: "Brownie", Category: "dessert"})
	mustCreate(t, db, models.NewRecipe{Name: "Cheesecake", Category: "dessert"})
	mustCreate(t, db, models.NewRecipe{Name: "Bread"})

	cats, err := db.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"dessert"}, cats)

	mustCreate(t, db, models.NewRecipe{Name: "Borscht", Category: "soup"})
	mustCreate(t, db, models.NewRecipe{Name: "Salad", Category: "appetizer"})
	cats, err = db.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"appetizer", "dessert", "soup"}, cats)
}

func TestDeleteRecipe_RemovesIngredients(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	id := mustCreate(t, db, models.NewRecipe{Name: "Brine", Ingredients: []models.NewIngredient{
		{Name: "sea salt"}, {Name: "water"},
	}})
	keep := mustCreate(t, db, models.NewRecipe{Name: "Tea", Ingredients: []models.NewIngredient{{Name: "water"}}})

	require.NoError(t, db.DeleteRecipe(ctx, id))

	_, err := db.GetRecipeDetail(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	for _, ing := range []string{"sea salt", "water"} {
		got, err := db.FindRecipesByIngredient(ctx, ing)
		require.NoError(t, err)
		for _, r := range got {
			assert.NotEqual(t, id, r.ID)
		}
	}
	var orphans int
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM ingredients WHERE recipe_id = ?`, id).Scan(&orphans))
	assert.Zero(t, orphans)

	d, err := db.GetRecipeDetail(ctx, keep)
	require.NoError(t, err)
	assert.Len(t, d.Ingredients, 1)
}

func TestDeleteRecipe_RollsBackWhenRecipeDeleteFails(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	id := mustCreate(t, db, models.NewRecipe{Name: "Brine", Ingredients: []models.NewIngredient{{Name: "sea salt"}}})

	_, err := db.conn.Exec(`CREATE TRIGGER keep_recipes BEFORE DELETE ON recipes
		BEGIN SELECT RAISE(ABORT, 'locked'); END`)
	require.NoError(t, err)

	err = db.DeleteRecipe(ctx, id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)

	d, err := db.GetRecipeDetail(ctx, id)
	require.NoError(t, err)
	require.Len(t, d.Ingredients, 1, "ingredient delete must roll back with the recipe delete")
	assert.Equal(t, "sea salt", d.Ingredients[0].Name)
}

func TestDeleteRecipe_NotFound(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	mustCreate(t, db, models.NewRecipe{Name: "Tea"})

	err := db.DeleteRecipe(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	st, err := db.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalRecipes)
}

func TestStatistics(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	st, err := db.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.TotalRecipes)
	assert.Zero(t, st.TotalCategories)
	assert.Nil(t, st.Fastest)

	mustCreate(t, db, models.NewRecipe{Name: "Roast", Category: "main", CookingTime: minutes(120)})
	mustCreate(t, db, models.NewRecipe{Name: "Salad", Category: "starter", CookingTime: minutes(10)})
	mustCreate(t, db, models.NewRecipe{Name: "Toast"})
	gone := mustCreate(t, db, models.NewRecipe{Name: "Soup", Category: "main", CookingTime: minutes(45)})
	require.NoError(t, db.DeleteRecipe(ctx, gone))

	st, err = db.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalRecipes)
	assert.Equal(t, 2, st.TotalCategories)
	require.NotNil(t, st.Fastest)
	assert.Equal(t, "Salad", st.Fastest.Name)
}

func TestOpenExisting_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	_, err := OpenExisting(path, Options{})
	assert.ErrorIs(t, err, apperr.ErrStoreMissing)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "OpenExisting must not create the store")
}

func TestGetRecipeDetail_WrapsScanErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")
	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(`
		CREATE TABLE ingredients (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			recipe_id INTEGER,
			name      TEXT,
			quantity  TEXT,
			unit      TEXT
		);
		INSERT INTO ingredients (recipe_id, name) VALUES (1, NULL);
	`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	db, err := Open(path, Options{})
	require.NoError(t, err)
	defer db.Close()
	id := mustCreate(t, db, models.NewRecipe{Name: "Legacy"})
	require.Equal(t, int64(1), id)

	_, err = db.GetRecipeDetail(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog: scan ingredient:")
}

func TestFileURI(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"recipes.db", "file:recipes.db?mode=ro"},
		{"/srv/food/recipes.db", "file:/srv/food/recipes.db?mode=ro"},
		{"a?b#c%d.db", "file:a%3Fb%23c%25d.db?mode=ro"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fileURI(tt.path, url.Values{"mode": {"ro"}}))
	}
}

func TestOpen_PathWithURLCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my #1 recipes?.db")
	db, err := Open(path, Options{})
	require.NoError(t, err)
	mustCreate(t, db, models.NewRecipe{Name: "Tea"})
	require.NoError(t, db.Close())

	_, err = os.Stat(path)
	require.NoError(t, err, "store must be created at the literal path")

	ro, err := OpenExisting(path, Options{})
	require.NoError(t, err)
	defer ro.Close()
	list, err := ro.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tea"}, names(list))
}

func TestOpenExisting_ReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")
	db, err := Open(path, Options{})
	require.NoError(t, err)
	mustCreate(t, db, models.NewRecipe{Name: "Tea"})
	require.NoError(t, db.Close())

	ro, err := OpenExisting(path, Options{})
	require.NoError(t, err)
	defer ro.Close()

	list, err := ro.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tea"}, names(list))

	_, err = ro.CreateRecipe(context.Background(), models.NewRecipe{Name: "Coffee"})
	assert.Error(t, err)
}
