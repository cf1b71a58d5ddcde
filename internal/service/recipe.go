package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeService owns recipes and their composition: the tag set and the
// ingredient amounts. Writes replace the whole composition in one
// transaction.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
	log    *zap.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB, images ImageStore, log *zap.Logger) *RecipeService {
	return &RecipeService{db: db, images: images, log: log}
}

func (s *RecipeService) Create(ctx context.Context, actor types.Actor, req *types.RecipeRequest) (*types.RecipeView, error) {
	if !actor.Authenticated() {
		return nil, errs.Unauthorized("")
	}
	if err := s.validate(ctx, req, true); err != nil {
		return nil, err
	}

	imageKey, err := s.images.Save(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    actor.ID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       imageKey,
		CookingTime: req.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		return replaceComposition(tx, recipe.ID, req)
	})
	if err != nil {
		s.discardImage(ctx, imageKey)
		return nil, s.storeError(err, "recipe")
	}

	s.log.Info("recipe created", zap.Uint("recipe_id", recipe.ID), zap.Stringer("author_id", actor.ID))
	return s.Get(ctx, actor, recipe.ID)
}

func (s *RecipeService) Update(ctx context.Context, actor types.Actor, id uint, req *types.RecipeRequest) (*types.RecipeView, error) {
	recipe, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req, false); err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	newImage := ""
	if req.Image != "" {
		if newImage, err = s.images.Save(ctx, req.Image); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{
		"name":         req.Name,
		"text":         req.Text,
		"cooking_time": req.CookingTime,
	}
	if newImage != "" {
		updates["image"] = newImage
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(recipe).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update recipe: %w", res.Error)
		}
		// deleted after authorize
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return replaceComposition(tx, recipe.ID, req)
	})
	if err != nil {
		s.discardImage(ctx, newImage)
		return nil, s.storeError(err, "recipe")
	}
	if newImage != "" {
		s.discardImage(ctx, oldImage)
	}

	return s.Get(ctx, actor, recipe.ID)
}

// Delete removes the recipe with its composition and every relation row
// pointing at it.
func (s *RecipeService) Delete(ctx context.Context, actor types.Actor, id uint) error {
	recipe, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dep := range []any{
			&models.Favorite{},
			&models.ShoppingCartEntry{},
			&models.RecipeTag{},
			&models.RecipeIngredient{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(dep).Error; err != nil {
				return fmt.Errorf("delete recipe dependents: %w", err)
			}
		}
		if err := tx.Delete(recipe).Error; err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.storeError(err, "recipe")
	}

	s.discardImage(ctx, recipe.Image)
	s.log.Info("recipe deleted", zap.Uint("recipe_id", recipe.ID), zap.Stringer("actor_id", actor.ID))
	return nil
}

func (s *RecipeService) Get(ctx context.Context, actor types.Actor, id uint) (*types.RecipeView, error) {
	var recipe models.Recipe
	if err := preloadRecipe(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, s.storeError(err, "recipe")
	}
	views, err := recipeViews(ctx, s.db, s.images, actor, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns recipes newest first. Relation filters never match an
// anonymous actor.
func (s *RecipeService) List(ctx context.Context, actor types.Actor, filter types.RecipeFilter, page types.PageRequest) (*types.Page[types.RecipeView], error) {
	if (filter.IsFavorited || filter.IsInShoppingCart) && !actor.Authenticated() {
		return types.NewPage[types.RecipeView](page, 0, nil), nil
	}
	scope := s.filterScope(actor, filter)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, s.storeError(err, "recipes")
	}

	var recipes []models.Recipe
	err := preloadRecipe(s.db.WithContext(ctx)).
		Scopes(scope).
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, s.storeError(err, "recipes")
	}

	views, err := recipeViews(ctx, s.db, s.images, actor, recipes)
	if err != nil {
		return nil, err
	}
	return types.NewPage(page, total, views), nil
}

func (s *RecipeService) filterScope(actor types.Actor, f types.RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.AuthorID != nil {
			q = q.Where("recipes.author_id = ?", *f.AuthorID)
		}
		if len(f.TagSlugs) > 0 {
			tagged := s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs)
			q = q.Where("recipes.id IN (?)", tagged)
		}
		if f.IsFavorited {
			q = q.Where("recipes.id IN (?)", s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", actor.ID))
		}
		if f.IsInShoppingCart {
			q = q.Where("recipes.id IN (?)", s.db.Model(&models.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", actor.ID))
		}
		return q
	}
}

// authorize loads the recipe and checks that actor is its author or an admin.
func (s *RecipeService) authorize(ctx context.Context, actor types.Actor, id uint) (*models.Recipe, error) {
	if !actor.Authenticated() {
		return nil, errs.Unauthorized("")
	}
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, s.storeError(err, "recipe")
	}
	if !actor.CanModify(recipe.AuthorID) {
		return nil, errs.Forbidden("only the author or an administrator can change this recipe")
	}
	return &recipe, nil
}

// validate checks the scalar fields, then the composition against the
// catalog. All problems are reported together.
func (s *RecipeService) validate(ctx context.Context, req *types.RecipeRequest, requireImage bool) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Text = strings.TrimSpace(req.Text)

	fields := validationFields(validate.Struct(req))
	if fields == nil {
		fields = map[string]string{}
	}
	if requireImage && req.Image == "" {
		fields["image"] = "this field is required"
	}

	if _, bad := fields["tags"]; !bad {
		if msg, err := s.checkTags(ctx, req.Tags); err != nil {
			return err
		} else if msg != "" {
			fields["tags"] = msg
		}
	}
	if _, bad := fields["ingredients"]; !bad {
		if msg, err := s.checkIngredients(ctx, req.Ingredients); err != nil {
			return err
		} else if msg != "" {
			fields["ingredients"] = msg
		}
	}

	if len(fields) > 0 {
		return errs.ValidationFields(fields)
	}
	return nil
}

func (s *RecipeService) checkTags(ctx context.Context, ids []uint) (string, error) {
	if len(ids) == 0 {
		return "at least one tag is required", nil
	}
	if len(duplicates(ids)) > 0 {
		return "not unique", nil
	}
	var found []uint
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return "", fmt.Errorf("load tags: %w", err)
	}
	if unknown := missing(ids, found); len(unknown) > 0 {
		return "unknown tag ids: " + joinIDs(unknown), nil
	}
	return "", nil
}

func (s *RecipeService) checkIngredients(ctx context.Context, items []types.IngredientAmount) (string, error) {
	if len(items) == 0 {
		return "at least one ingredient is required", nil
	}
	ids := make([]uint, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	if len(duplicates(ids)) > 0 {
		return "not unique", nil
	}
	var found []uint
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return "", fmt.Errorf("load ingredients: %w", err)
	}
	if unknown := missing(ids, found); len(unknown) > 0 {
		return "unknown ingredient ids: " + joinIDs(unknown), nil
	}
	return "", nil
}

// replaceComposition discards the recipe's tag and ingredient rows and
// inserts the requested ones. Callers run it inside a transaction.
func replaceComposition(tx *gorm.DB, recipeID uint, req *types.RecipeRequest) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}

	tags := make([]models.RecipeTag, len(req.Tags))
	for i, id := range req.Tags {
		tags[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	if err := tx.Create(&tags).Error; err != nil {
		return fmt.Errorf("insert recipe tags: %w", err)
	}

	ingredients := make([]models.RecipeIngredient, len(req.Ingredients))
	for i, it := range req.Ingredients {
		ingredients[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: it.ID, Amount: it.Amount}
	}
	if err := tx.Create(&ingredients).Error; err != nil {
		return fmt.Errorf("insert recipe ingredients: %w", err)
	}
	return nil
}

func (s *RecipeService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete recipe image", zap.String("key", key), zap.Error(err))
	}
}

func (s *RecipeService) storeError(err error, entity string) error {
	return storeError(s.log, err, entity)
}
