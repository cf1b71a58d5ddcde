package testhelpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// JWTSecret signs tokens minted by NewToken.
const JWTSecret = "test-jwt-secret"

func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: username,
		LastName:  "Tester",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func CreateAdmin(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := CreateUser(t, db, username)
	if err := db.Model(&user).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote %s: %v", username, err)
	}
	user.IsAdmin = true
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ing
}

func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag
}

// CreateRecipe inserts a bare recipe row with no composition.
func CreateRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        name + " instructions",
		Image:       "recipes/images/" + uuid.NewString() + ".png",
		CookingTime: 10,
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	return recipe
}

// AddIngredient attaches an ingredient amount to an existing recipe.
func AddIngredient(t *testing.T, db *gorm.DB, recipeID, ingredientID uint, amount int) {
	t.Helper()
	row := models.RecipeIngredient{RecipeID: recipeID, IngredientID: ingredientID, Amount: amount}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to add ingredient to recipe %d: %v", recipeID, err)
	}
}

// NewToken mints a bearer token for user signed with JWTSecret.
func NewToken(t *testing.T, user models.User) string {
	t.Helper()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// Actor returns the request identity for user.
func Actor(user models.User) types.Actor {
	return types.Actor{ID: user.ID, IsAdmin: user.IsAdmin}
}
