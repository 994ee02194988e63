package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunlin/oldtown/store"
)

func TestCommentPost(t *testing.T) {
	wall := NewCommentWall(store.NewMemoryStore())
	ctx := context.Background()

	c, err := wall.Post(ctx, "p1", CommentInput{LocationID: "temple", Content: "<b>lovely</b> place", Username: "walker", Level: 4})
	require.NoError(t, err)
	assert.Equal(t, "lovely place", c.Content)
	assert.Equal(t, "walker", c.Username)
	assert.Equal(t, 4, c.Level)
	assert.NotEmpty(t, c.ID)

	_, err = wall.Post(ctx, "p1", CommentInput{LocationID: "temple", Content: "<script>x()</script>"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = wall.Post(ctx, "p1", CommentInput{Content: "hello"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = wall.Post(ctx, "p1", CommentInput{LocationID: "temple", Content: strings.Repeat("好", MaxCommentLength+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = wall.Post(ctx, "p1", CommentInput{LocationID: "temple", Content: strings.Repeat("好", MaxCommentLength)})
	assert.NoError(t, err)
}

func TestCommentWallIsCapped(t *testing.T) {
	wall := NewCommentWall(store.NewMemoryStore())
	wall.limit = 2
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "three"} {
		_, err := wall.Post(ctx, "p1", CommentInput{LocationID: "temple", Content: msg})
		require.NoError(t, err)
	}
	list, err := wall.ListByLocation(ctx, "p1", "temple")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "three", list[0].Content)
	assert.Equal(t, "two", list[1].Content)
}

func TestCommentLikeAndDelete(t *testing.T) {
	wall := NewCommentWall(store.NewMemoryStore())
	ctx := context.Background()

	a, err := wall.Post(ctx, "p1", CommentInput{LocationID: "temple", Content: "a"})
	require.NoError(t, err)
	_, err = wall.Post(ctx, "p1", CommentInput{LocationID: "market", Content: "b"})
	require.NoError(t, err)

	_, err = wall.Like(ctx, "p1", a.ID)
	require.NoError(t, err)
	liked, err := wall.Like(ctx, "p1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)

	temple, err := wall.ListByLocation(ctx, "p1", "temple")
	require.NoError(t, err)
	require.Len(t, temple, 1)
	assert.Equal(t, 2, temple[0].Likes)

	all, err := wall.ListByLocation(ctx, "p1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, wall.Delete(ctx, "p1", a.ID))
	assert.ErrorIs(t, wall.Delete(ctx, "p1", a.ID), ErrNotFound)
	_, err = wall.Like(ctx, "p1", a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	temple, err = wall.ListByLocation(ctx, "p1", "temple")
	require.NoError(t, err)
	assert.NotNil(t, temple)
	assert.Empty(t, temple)
}
