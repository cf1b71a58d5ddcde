package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/render"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockShoppingListService is a mock implementation of the shopping list service
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Lines(ctx context.Context, userID uuid.UUID) ([]render.Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]render.Line), args.Error(1)
}

func (m *MockShoppingListService) Download(ctx context.Context, actor types.Actor, format string) (*render.Artifact, error) {
	args := m.Called(ctx, actor, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*render.Artifact), args.Error(1)
}
