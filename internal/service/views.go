package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// actorFlags holds which recipes the actor has favorited or carted and
// which authors the actor follows. Anonymous actors match nothing.
type actorFlags struct {
	favorited  map[uint]bool
	inCart     map[uint]bool
	subscribed map[uuid.UUID]bool
}

func loadActorFlags(ctx context.Context, db *gorm.DB, actor types.Actor, recipeIDs []uint, authorIDs []uuid.UUID) (*actorFlags, error) {
	flags := &actorFlags{
		favorited:  map[uint]bool{},
		inCart:     map[uint]bool{},
		subscribed: map[uuid.UUID]bool{},
	}
	if !actor.Authenticated() {
		return flags, nil
	}

	if len(recipeIDs) > 0 {
		var fav, cart []uint
		if err := db.WithContext(ctx).Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id IN ?", actor.ID, recipeIDs).
			Pluck("recipe_id", &fav).Error; err != nil {
			return nil, fmt.Errorf("load favorites: %w", err)
		}
		if err := db.WithContext(ctx).Model(&models.ShoppingCartEntry{}).
			Where("user_id = ? AND recipe_id IN ?", actor.ID, recipeIDs).
			Pluck("recipe_id", &cart).Error; err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		for _, id := range fav {
			flags.favorited[id] = true
		}
		for _, id := range cart {
			flags.inCart[id] = true
		}
	}

	if len(authorIDs) > 0 {
		var following []uuid.UUID
		if err := db.WithContext(ctx).Model(&models.Subscription{}).
			Where("user_id = ? AND following_id IN ?", actor.ID, authorIDs).
			Pluck("following_id", &following).Error; err != nil {
			return nil, fmt.Errorf("load subscriptions: %w", err)
		}
		for _, id := range following {
			flags.subscribed[id] = true
		}
	}
	return flags, nil
}

// recipeViews renders loaded recipes (with Author, Tags and
// Ingredients.Ingredient preloaded) for the actor.
func recipeViews(ctx context.Context, db *gorm.DB, images ImageStore, actor types.Actor, recipes []models.Recipe) ([]types.RecipeView, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}
	flags, err := loadActorFlags(ctx, db, actor, recipeIDs, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for _, r := range recipes {
		sort.Slice(r.Tags, func(i, j int) bool { return r.Tags[i].ID < r.Tags[j].ID })
		sort.Slice(r.Ingredients, func(i, j int) bool { return r.Ingredients[i].ID < r.Ingredients[j].ID })

		ingredients := make([]types.IngredientAmountView, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			ingredients = append(ingredients, types.IngredientAmountView{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}

		views = append(views, types.RecipeView{
			ID:               r.ID,
			Tags:             tags,
			Author:           types.NewUserView(r.Author, flags.subscribed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      flags.favorited[r.ID],
			IsInShoppingCart: flags.inCart[r.ID],
			Name:             r.Name,
			Image:            images.URL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return views, nil
}

func minified(images ImageStore, r models.Recipe) types.RecipeMinified {
	return types.RecipeMinified{
		ID:          r.ID,
		Name:        r.Name,
		Image:       images.URL(r.Image),
		CookingTime: r.CookingTime,
	}
}

// preloadRecipe loads everything recipeViews needs.
func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient")
}
