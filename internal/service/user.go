package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ IUserService = (*UserService)(nil)

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log}
}

func (s *UserService) Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*types.UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, storeError(s.log, err, "user")
	}
	flags, err := loadActorFlags(ctx, s.db, actor, nil, []uuid.UUID{user.ID})
	if err != nil {
		return nil, err
	}
	view := types.NewUserView(user, flags.subscribed[user.ID])
	return &view, nil
}

func (s *UserService) List(ctx context.Context, actor types.Actor, page types.PageRequest) (*types.Page[types.UserView], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, storeError(s.log, err, "users")
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("username ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, storeError(s.log, err, "users")
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	flags, err := loadActorFlags(ctx, s.db, actor, nil, ids)
	if err != nil {
		return nil, err
	}

	views := make([]types.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, types.NewUserView(u, flags.subscribed[u.ID]))
	}
	return types.NewPage(page, total, views), nil
}
