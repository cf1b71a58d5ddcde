package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite, ShoppingCartEntry and Subscription rows carry no state beyond
// existence. The composite unique indexes are what keep concurrent adds
// from producing duplicates.

type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_pair;index" json:"recipe_id"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID" json:"-"`
}

type ShoppingCartEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_pair" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_pair;index" json:"recipe_id"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID" json:"-"`
}

func (ShoppingCartEntry) TableName() string {
	return "shopping_cart_entries"
}

// Subscription records that UserID follows FollowingID.
type Subscription struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair;check:chk_subscription_self,user_id <> following_id" json:"user_id"`
	FollowingID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair;index" json:"following_id"`
	Following   User      `gorm:"foreignKey:FollowingID" json:"-"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeTag{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartEntry{},
		&Subscription{},
	}
}
