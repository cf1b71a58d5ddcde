package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func names(ings []models.Ingredient) []string {
	out := make([]string, len(ings))
	for i, ing := range ings {
		out[i] = ing.Name
	}
	return out
}

func TestListIngredients(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	for _, name := range []string{"brown sugar", "sugar", "sugar syrup", "salt", "a_b", "axb"} {
		testhelpers.CreateIngredient(t, db, name, "g")
	}
	catalog := service.NewCatalogService(db, zap.NewNop())
	ctx := context.Background()

	found, err := catalog.ListIngredients(ctx, "SUG")
	require.NoError(t, err)
	assert.Equal(t, []string{"sugar", "sugar syrup", "brown sugar"}, names(found))

	found, err = catalog.ListIngredients(ctx, "a_")
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b"}, names(found))

	all, err := catalog.ListIngredients(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Equal(t, "a_b", all[0].Name)

	_, err = catalog.GetIngredient(ctx, 999)
	assert.True(t, errs.IsNotFound(err))
}

func TestListIngredientsFoldsNonASCII(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	for _, name := range []string{"Соль", "Морская соль", "Сахар", "Crème fraîche"} {
		testhelpers.CreateIngredient(t, db, name, "г")
	}
	catalog := service.NewCatalogService(db, zap.NewNop())
	ctx := context.Background()

	found, err := catalog.ListIngredients(ctx, "соль")
	require.NoError(t, err)
	assert.Equal(t, []string{"Соль", "Морская соль"}, names(found))

	found, err = catalog.ListIngredients(ctx, "СОЛ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Соль", "Морская соль"}, names(found))

	found, err = catalog.ListIngredients(ctx, "CRÈME")
	require.NoError(t, err)
	assert.Equal(t, []string{"Crème fraîche"}, names(found))
}

func TestListTags(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	lunch := testhelpers.CreateTag(t, db, "Lunch", "#49B64E", "lunch")
	testhelpers.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast")
	catalog := service.NewCatalogService(db, zap.NewNop())
	ctx := context.Background()

	tags, err := catalog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	got, err := catalog.GetTag(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", got.Slug)

	_, err = catalog.GetTag(ctx, 999)
	assert.True(t, errs.IsNotFound(err))
}
