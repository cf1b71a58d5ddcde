package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockImageStore is a mock implementation of the ImageStore interface
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, dataURL string) (string, error) {
	args := m.Called(ctx, dataURL)
	return args.String(0), args.Error(1)
}

// URL is not recorded; it maps keys onto a fixed test host.
func (m *MockImageStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return "http://media.test/" + key
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
