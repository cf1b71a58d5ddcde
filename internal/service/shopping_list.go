package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/render"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ShoppingListService sums the ingredient amounts of every recipe in a
// user's cart.
type ShoppingListService struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ IShoppingListService = (*ShoppingListService)(nil)

func NewShoppingListService(db *gorm.DB, log *zap.Logger) *ShoppingListService {
	return &ShoppingListService{db: db, log: log}
}

// Lines groups the cart's recipe ingredients by ingredient and sums the
// amounts, ordered by name then measurement unit. An empty cart yields no
// lines.
func (s *ShoppingListService) Lines(ctx context.Context, userID uuid.UUID) ([]render.Line, error) {
	lines := []render.Line{}
	err := s.db.WithContext(ctx).
		Table("shopping_cart_entries").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, storeError(s.log, err, "shopping list")
	}
	return lines, nil
}

// Download renders the actor's shopping list in the requested format.
func (s *ShoppingListService) Download(ctx context.Context, actor types.Actor, format string) (*render.Artifact, error) {
	if !actor.Authenticated() {
		return nil, errs.Unauthorized("")
	}
	renderer, err := render.ForFormat(format)
	if err != nil {
		return nil, err
	}
	lines, err := s.Lines(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	artifact, err := renderer.Render(lines)
	if err != nil {
		s.log.Error("failed to render shopping list", zap.Stringer("user_id", actor.ID), zap.Error(err))
		return nil, err
	}
	s.log.Debug("shopping list rendered",
		zap.Stringer("user_id", actor.ID),
		zap.Int("lines", len(lines)),
		zap.String("filename", artifact.Filename),
	)
	return artifact, nil
}
