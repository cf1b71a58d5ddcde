package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type fixture struct {
	db        *gorm.DB
	images    *mocks.MockImageStore
	recipes   *service.RecipeService
	relations *service.RelationService
	lists     *service.ShoppingListService
	users     *service.UserService

	author    models.User
	other     models.User
	salt      models.Ingredient
	flour     models.Ingredient
	breakfast models.Tag
	lunch     models.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	images := &mocks.MockImageStore{}
	images.On("Save", mock.Anything, mock.Anything).Return("recipes/images/test.png", nil).Maybe()
	images.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()

	log := zap.NewNop()
	return &fixture{
		db:        db,
		images:    images,
		recipes:   service.NewRecipeService(db, images, log),
		relations: service.NewRelationService(db, images, log),
		lists:     service.NewShoppingListService(db, log),
		users:     service.NewUserService(db, log),
		author:    testhelpers.CreateUser(t, db, "author"),
		other:     testhelpers.CreateUser(t, db, "other"),
		salt:      testhelpers.CreateIngredient(t, db, "Salt", "g"),
		flour:     testhelpers.CreateIngredient(t, db, "Flour", "g"),
		breakfast: testhelpers.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast"),
		lunch:     testhelpers.CreateTag(t, db, "Lunch", "#49B64E", "lunch"),
	}
}

func (f *fixture) request() *types.RecipeRequest {
	return &types.RecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		Image:       pixelPNG,
		CookingTime: 20,
		Tags:        []uint{f.breakfast.ID, f.lunch.ID},
		Ingredients: []types.IngredientAmount{
			{ID: f.flour.ID, Amount: 200},
			{ID: f.salt.ID, Amount: 5},
		},
	}
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var e *errs.Error
	require.True(t, errors.As(err, &e), "expected *errs.Error, got %v", err)
	return e.Fields
}
