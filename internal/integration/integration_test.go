// Package integration runs the services against a real PostgreSQL instance
// started with testcontainers.
package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/render"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestPostgresBackend(t *testing.T) {
	db := testhelpers.NewPostgresDB(t)
	log := zap.NewNop()
	ctx := context.Background()

	images := &mocks.MockImageStore{}
	images.On("Save", mock.Anything, mock.Anything).Return("recipes/images/pg.png", nil).Maybe()
	images.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()

	recipes := service.NewRecipeService(db, images, log)
	relations := service.NewRelationService(db, images, log)
	lists := service.NewShoppingListService(db, log)
	catalog := service.NewCatalogService(db, log)

	author := testhelpers.CreateUser(t, db, "author")
	shopper := testhelpers.CreateUser(t, db, "shopper")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	testhelpers.CreateIngredient(t, db, "Sea salt", "g")
	tag := testhelpers.CreateTag(t, db, "Dinner", "#8775D2", "dinner")

	request := func(name string, saltAmount int) *types.RecipeRequest {
		return &types.RecipeRequest{
			Name:        name,
			Text:        "Cook it.",
			Image:       "data:image/png;base64,iVBORw0KGgo=",
			CookingTime: 15,
			Tags:        []uint{tag.ID},
			Ingredients: []types.IngredientAmount{{ID: salt.ID, Amount: saltAmount}, {ID: flour.ID, Amount: 100}},
		}
	}

	t.Run("composition and aggregation", func(t *testing.T) {
		soup, err := recipes.Create(ctx, testhelpers.Actor(author), request("Soup", 5))
		require.NoError(t, err)
		bread, err := recipes.Create(ctx, testhelpers.Actor(author), request("Bread", 10))
		require.NoError(t, err)

		for _, id := range []uint{soup.ID, bread.ID} {
			_, err := relations.AddToCart(ctx, testhelpers.Actor(shopper), id)
			require.NoError(t, err)
		}

		lines, err := lists.Lines(ctx, shopper.ID)
		require.NoError(t, err)
		assert.Equal(t, []render.Line{
			{Name: "Flour", MeasurementUnit: "g", Amount: 200},
			{Name: "Salt", MeasurementUnit: "g", Amount: 15},
		}, lines)
	})

	t.Run("database rejects out of range amounts", func(t *testing.T) {
		recipe := testhelpers.CreateRecipe(t, db, author.ID, "Raw")
		err := db.Create(&models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: salt.ID, Amount: 32001}).Error
		assert.Error(t, err)
	})

	t.Run("concurrent adds keep one row", func(t *testing.T) {
		recipe := testhelpers.CreateRecipe(t, db, author.ID, "Popular")
		const workers = 10
		var wg sync.WaitGroup
		results := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := relations.AddFavorite(ctx, testhelpers.Actor(shopper), recipe.ID)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var ok, conflicts int
		for err := range results {
			switch {
			case err == nil:
				ok++
			case errs.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, workers-1, conflicts)
	})

	t.Run("concurrent removes report not found once", func(t *testing.T) {
		recipe := testhelpers.CreateRecipe(t, db, author.ID, "Fleeting")
		_, err := relations.AddToCart(ctx, testhelpers.Actor(shopper), recipe.ID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- relations.RemoveFromCart(ctx, testhelpers.Actor(shopper), recipe.ID)
			}()
		}
		wg.Wait()
		close(results)

		var ok, missing int
		for err := range results {
			if err == nil {
				ok++
			} else if errs.IsNotFound(err) {
				missing++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, missing)
	})

	t.Run("self subscription is rejected by the schema too", func(t *testing.T) {
		err := db.Create(&models.Subscription{UserID: author.ID, FollowingID: author.ID}).Error
		assert.Error(t, err)
	})

	t.Run("ingredient search", func(t *testing.T) {
		found, err := catalog.ListIngredients(ctx, "salt")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Salt", found[0].Name)
		assert.Equal(t, "Sea salt", found[1].Name)
	})
}
