package models

import (
	"time"

	"github.com/google/uuid"
)

// Bounds shared by ingredient amounts and cooking time.
const (
	MinAmount      = 1
	MaxAmount      = 32000
	MinCookingTime = 1
	MaxCookingTime = 32000
	NameMaxLength  = 200
)

type Recipe struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	AuthorID    uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      User               `gorm:"foreignKey:AuthorID" json:"-"`
	Name        string             `gorm:"size:200;not null" json:"name"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	Image       string             `gorm:"size:500;not null" json:"image"`
	CookingTime int                `gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1 AND cooking_time <= 32000" json:"cooking_time"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

// RecipeIngredient is the explicit join between a recipe and an ingredient,
// carrying the amount.
type RecipeIngredient struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair" json:"recipe_id"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredient_amount,amount >= 1 AND amount <= 32000" json:"amount"`
}

// RecipeTag backs the recipe_tags join table.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey;index"`
}
