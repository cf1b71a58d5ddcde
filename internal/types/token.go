package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a JWT token issued by the identity
// provider.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	IsAdmin   bool      `json:"is_admin,omitempty"`
}

// Actor is the identity attached to a request. The zero value is anonymous.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

func (a Actor) Authenticated() bool {
	return a.ID != uuid.Nil
}

// CanModify reports whether the actor may mutate something owned by ownerID.
func (a Actor) CanModify(ownerID uuid.UUID) bool {
	return a.Authenticated() && (a.IsAdmin || a.ID == ownerID)
}
