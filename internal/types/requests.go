package types

import "github.com/google/uuid"

// IngredientAmount is one (ingredient, amount) pair of a recipe write.
type IngredientAmount struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"min=1,max=32000"`
}

// RecipeRequest is the payload for creating or replacing a recipe. Image is
// a base64 data URL; it is required on create and optional on update.
type RecipeRequest struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time" validate:"min=1,max=32000"`
	Tags        []uint             `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"dive"`
}

// RecipeFilter narrows recipe listings. Tag slugs match any-of.
type RecipeFilter struct {
	AuthorID         *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}
