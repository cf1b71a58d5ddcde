package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

const tokenTTL = 24 * time.Hour

// AuthService is the adapter to the external identity provider. It never
// sees credentials: it checks HS256 tokens signed with the shared secret
// and keeps a local mirror of the users they name.
type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	log       *zap.Logger
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, jwtSecret string, log *zap.Logger) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

// GenerateToken signs claims. Used by the admin CLI to mint tokens for
// local testing; production tokens come from the identity provider.
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	if claims.UserID == uuid.Nil {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	now := time.Now()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(tokenTTL))
	}
	if claims.Subject == "" {
		claims.Subject = claims.UserID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// EnsureUser upserts the user named by claims so that relations and
// recipes can reference it.
func (s *AuthService) EnsureUser(ctx context.Context, claims *types.TokenClaims) error {
	username := claims.Username
	if username == "" {
		username = claims.UserID.String()
	}
	user := models.User{
		ID:        claims.UserID,
		Username:  username,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		IsAdmin:   claims.IsAdmin,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "email", "first_name", "last_name", "is_admin", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Conflict("username", "username is taken by another account")
		}
		s.log.Error("failed to sync user", zap.Stringer("user_id", claims.UserID), zap.Error(err))
		return fmt.Errorf("sync user: %w", err)
	}
	return nil
}
