package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RelationService manages the per-user relations. Duplicate adds are caught
// by the unique indexes, so two concurrent adds of the same pair end with one
// row and one ConflictError.
type RelationService struct {
	db     *gorm.DB
	images ImageStore
	log    *zap.Logger
}

var _ IRelationService = (*RelationService)(nil)

func NewRelationService(db *gorm.DB, images ImageStore, log *zap.Logger) *RelationService {
	return &RelationService{db: db, images: images, log: log}
}

// recipeRelation describes one of the two user→recipe relation tables.
type recipeRelation struct {
	label string
	model any
	row   func(userID uuid.UUID, recipeID uint) any
}

var (
	favoriteRelation = recipeRelation{
		label: "favorites",
		model: &models.Favorite{},
		row: func(userID uuid.UUID, recipeID uint) any {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
	cartRelation = recipeRelation{
		label: "shopping cart",
		model: &models.ShoppingCartEntry{},
		row: func(userID uuid.UUID, recipeID uint) any {
			return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
		},
	}
)

func (s *RelationService) AddFavorite(ctx context.Context, actor types.Actor, recipeID uint) (*types.RecipeMinified, error) {
	return s.addRecipe(ctx, actor, recipeID, favoriteRelation)
}

func (s *RelationService) RemoveFavorite(ctx context.Context, actor types.Actor, recipeID uint) error {
	return s.removeRecipe(ctx, actor, recipeID, favoriteRelation)
}

func (s *RelationService) ListFavorites(ctx context.Context, actor types.Actor) ([]types.RecipeMinified, error) {
	if !actor.Authenticated() {
		return nil, errs.Unauthorized("")
	}
	var rows []models.Favorite
	err := s.db.WithContext(ctx).Preload("Recipe").
		Where("user_id = ?", actor.ID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeError(s.log, err, "favorites")
	}
	out := make([]types.RecipeMinified, 0, len(rows))
	for _, row := range rows {
		out = append(out, minified(s.images, row.Recipe))
	}
	return out, nil
}

func (s *RelationService) AddToCart(ctx context.Context, actor types.Actor, recipeID uint) (*types.RecipeMinified, error) {
	return s.addRecipe(ctx, actor, recipeID, cartRelation)
}

func (s *RelationService) RemoveFromCart(ctx context.Context, actor types.Actor, recipeID uint) error {
	return s.removeRecipe(ctx, actor, recipeID, cartRelation)
}

func (s *RelationService) ListCart(ctx context.Context, actor types.Actor) ([]types.RecipeMinified, error) {
	if !actor.Authenticated() {
		return nil, errs.Unauthorized("")
	}
	var rows []models.ShoppingCartEntry
	err := s.db.WithContext(ctx).Preload("Recipe").
		Where("user_id = ?", actor.ID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeError(s.log, err, "shopping cart")
	}
	out := make([]types.RecipeMinified, 0, len(rows))
	for _, row := range rows {
		out = append(out, minified(s.images, row.Recipe))
	}
	return out, nil
}

func (s *RelationService) addRecipe(ctx context.Context, actor types.Actor, recipeID uint, rel recipeRelation) (*types.RecipeMinified, error) {
	if !actor.Authenticated() {
		return nil, errs.Unauthorized("")
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return err
		}
		return tx.Create(rel.row(actor.ID, recipeID)).Error
	})
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, errs.Conflict("recipe", "recipe is already in "+rel.label)
	case err != nil:
		return nil, storeError(s.log, err, "recipe")
	}

	view := minified(s.images, recipe)
	return &view, nil
}

// removeRecipe deletes the pair in a single statement. RowsAffected decides
// NotFound, so a concurrent second delete gets NotFound as well.
func (s *RelationService) removeRecipe(ctx context.Context, actor types.Actor, recipeID uint, rel recipeRelation) error {
	if !actor.Authenticated() {
		return errs.Unauthorized("")
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", actor.ID, recipeID).
		Delete(rel.model)
	if res.Error != nil {
		return storeError(s.log, res.Error, rel.label)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&exists).Error; err != nil {
		return storeError(s.log, err, "recipe")
	}
	if exists == 0 {
		return errs.NotFound("recipe not found")
	}
	return errs.NotFound(fmt.Sprintf("recipe is not in %s", rel.label))
}

// Subscribe makes actor follow authorID. recipesLimit bounds the recipe
// prefix in the response; a negative value means no bound.
func (s *RelationService) Subscribe(ctx context.Context, actor types.Actor, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionView, error) {
	if !actor.Authenticated() {
		return nil, errs.Unauthorized("")
	}
	if actor.ID == authorID {
		return nil, errs.Conflict("following", "self-reference: you cannot subscribe to yourself")
	}

	var author models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&author, "id = ?", authorID).Error; err != nil {
			return err
		}
		return tx.Create(&models.Subscription{UserID: actor.ID, FollowingID: authorID}).Error
	})
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, errs.Conflict("following", "already subscribed to this author")
	case err != nil:
		return nil, storeError(s.log, err, "user")
	}

	views, err := s.subscriptionViews(ctx, []models.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RelationService) Unsubscribe(ctx context.Context, actor types.Actor, authorID uuid.UUID) error {
	if !actor.Authenticated() {
		return errs.Unauthorized("")
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", actor.ID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return storeError(s.log, res.Error, "subscription")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", authorID).Count(&exists).Error; err != nil {
		return storeError(s.log, err, "user")
	}
	if exists == 0 {
		return errs.NotFound("user not found")
	}
	return errs.NotFound("not subscribed to this author")
}

// ListSubscriptions returns the followed authors in the order they were
// followed.
func (s *RelationService) ListSubscriptions(ctx context.Context, actor types.Actor, page types.PageRequest, recipesLimit int) (*types.Page[types.SubscriptionView], error) {
	if !actor.Authenticated() {
		return nil, errs.Unauthorized("")
	}

	base := s.db.WithContext(ctx).Model(&models.Subscription{}).Where("user_id = ?", actor.ID)
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, storeError(s.log, err, "subscriptions")
	}

	var rows []models.Subscription
	err := s.db.WithContext(ctx).Preload("Following").
		Where("user_id = ?", actor.ID).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, storeError(s.log, err, "subscriptions")
	}

	authors := make([]models.User, 0, len(rows))
	for _, row := range rows {
		authors = append(authors, row.Following)
	}
	views, err := s.subscriptionViews(ctx, authors, recipesLimit)
	if err != nil {
		return nil, err
	}
	return types.NewPage(page, total, views), nil
}

// subscriptionViews decorates followed authors with their recipe count and
// newest recipes.
func (s *RelationService) subscriptionViews(ctx context.Context, authors []models.User, recipesLimit int) ([]types.SubscriptionView, error) {
	if len(authors) == 0 {
		return []types.SubscriptionView{}, nil
	}
	ids := make([]uuid.UUID, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	var counts []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&counts).Error
	if err != nil {
		return nil, storeError(s.log, err, "recipes")
	}
	byAuthor := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byAuthor[c.AuthorID] = c.Total
	}

	views := make([]types.SubscriptionView, 0, len(authors))
	for _, a := range authors {
		var recipes []models.Recipe
		err := s.db.WithContext(ctx).
			Where("author_id = ?", a.ID).
			Order("created_at DESC, id DESC").
			Limit(recipesLimit).
			Find(&recipes).Error
		if err != nil {
			return nil, storeError(s.log, err, "recipes")
		}
		short := make([]types.RecipeMinified, 0, len(recipes))
		for _, r := range recipes {
			short = append(short, minified(s.images, r))
		}
		views = append(views, types.SubscriptionView{
			UserView:     types.NewUserView(a, true),
			Recipes:      short,
			RecipesCount: byAuthor[a.ID],
		})
	}
	return views, nil
}
