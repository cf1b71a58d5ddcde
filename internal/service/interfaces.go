package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/render"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService validates identity provider tokens and mirrors their users.
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	EnsureUser(ctx context.Context, claims *types.TokenClaims) error
}

// ICatalogService exposes the read-only tag and ingredient catalog.
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
}

// IRecipeService manages recipes and their composition.
type IRecipeService interface {
	Create(ctx context.Context, actor types.Actor, req *types.RecipeRequest) (*types.RecipeView, error)
	Update(ctx context.Context, actor types.Actor, id uint, req *types.RecipeRequest) (*types.RecipeView, error)
	Delete(ctx context.Context, actor types.Actor, id uint) error
	Get(ctx context.Context, actor types.Actor, id uint) (*types.RecipeView, error)
	List(ctx context.Context, actor types.Actor, filter types.RecipeFilter, page types.PageRequest) (*types.Page[types.RecipeView], error)
}

// IRelationService manages favorites, shopping cart entries and subscriptions.
type IRelationService interface {
	AddFavorite(ctx context.Context, actor types.Actor, recipeID uint) (*types.RecipeMinified, error)
	RemoveFavorite(ctx context.Context, actor types.Actor, recipeID uint) error
	ListFavorites(ctx context.Context, actor types.Actor) ([]types.RecipeMinified, error)

	AddToCart(ctx context.Context, actor types.Actor, recipeID uint) (*types.RecipeMinified, error)
	RemoveFromCart(ctx context.Context, actor types.Actor, recipeID uint) error
	ListCart(ctx context.Context, actor types.Actor) ([]types.RecipeMinified, error)

	Subscribe(ctx context.Context, actor types.Actor, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionView, error)
	Unsubscribe(ctx context.Context, actor types.Actor, authorID uuid.UUID) error
	ListSubscriptions(ctx context.Context, actor types.Actor, page types.PageRequest, recipesLimit int) (*types.Page[types.SubscriptionView], error)
}

// IShoppingListService aggregates a user's cart into a downloadable list.
type IShoppingListService interface {
	Lines(ctx context.Context, userID uuid.UUID) ([]render.Line, error)
	Download(ctx context.Context, actor types.Actor, format string) (*render.Artifact, error)
}

// IUserService reads mirrored users.
type IUserService interface {
	Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*types.UserView, error)
	List(ctx context.Context, actor types.Actor, page types.PageRequest) (*types.Page[types.UserView], error)
}

// ImageStore persists recipe images. Save takes a base64 data URL and
// returns a storage key; URL turns a key into a public link.
type ImageStore interface {
	Save(ctx context.Context, dataURL string) (string, error)
	URL(key string) string
	Delete(ctx context.Context, key string) error
}
