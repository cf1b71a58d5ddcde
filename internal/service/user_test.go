package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestUserService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reader := testhelpers.Actor(f.other)

	_, err := f.relations.Subscribe(ctx, reader, f.author.ID, -1)
	require.NoError(t, err)

	view, err := f.users.Get(ctx, reader, f.author.ID)
	require.NoError(t, err)
	assert.Equal(t, "author", view.Username)
	assert.True(t, view.IsSubscribed)

	anon, err := f.users.Get(ctx, types.Actor{}, f.author.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)

	_, err = f.users.Get(ctx, reader, uuid.New())
	assert.True(t, errs.IsNotFound(err))

	page, err := f.users.List(ctx, reader, types.PageRequest{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "author", page.Results[0].Username)
	require.NotNil(t, page.Next)
	assert.Equal(t, 2, *page.Next)
}
