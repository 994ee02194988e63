package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/store"
	"github.com/yunlin/oldtown/utils"
)

const (
	MaxComments      = 500
	MaxCommentLength = 500
)

// CommentInput is a new comment.
type CommentInput struct {
	LocationID string `json:"location_id"`
	Content    string `json:"content"`
	Username   string `json:"-"`
	Level      int    `json:"-"`
}

// CommentWall is a capped most-recent-first comment collection per player.
// The MaxComments cap applies to each player's own wall, not across players: a wall is one
// player's own collection and is never shared.
type CommentWall struct {
	store store.Store
	locks *utils.KeyedMutex
	now   func() time.Time
	limit int
}

func NewCommentWall(s store.Store) *CommentWall {
	return &CommentWall{store: s, locks: utils.NewKeyedMutex(64), now: time.Now, limit: MaxComments}
}

// Post stores a comment at the head of the wall, evicting the oldest beyond the cap.
// Markup is stripped from the content.
func (w *CommentWall) Post(ctx context.Context, owner string, in CommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.LocationID) == "" {
		return nil, fmt.Errorf("%w: location_id is required", ErrInvalidInput)
	}
	content := utils.StripTags(in.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, MaxCommentLength)
	}

	c := models.Comment{
		ID:         uuid.NewString(),
		LocationID: in.LocationID,
		Username:   in.Username,
		Level:      in.Level,
		Content:    content,
		Timestamp:  w.now(),
	}

	unlock := w.locks.Lock(owner)
	defer unlock()
	comments, err := loadList[models.Comment](ctx, w.store, owner, store.KeyComments)
	if err != nil {
		return nil, err
	}
	comments, _ = prependCapped(comments, c, w.limit)
	if err := saveList(ctx, w.store, owner, store.KeyComments, comments); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByLocation returns the comments for locationID newest first.
func (w *CommentWall) ListByLocation(ctx context.Context, owner, locationID string) ([]models.Comment, error) {
	comments, err := loadList[models.Comment](ctx, w.store, owner, store.KeyComments)
	if err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0)
	for _, c := range comments {
		if locationID == "" || c.LocationID == locationID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Like increments the like counter. Repeated likes all count.
func (w *CommentWall) Like(ctx context.Context, owner, id string) (*models.Comment, error) {
	unlock := w.locks.Lock(owner)
	defer unlock()

	comments, err := loadList[models.Comment](ctx, w.store, owner, store.KeyComments)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].ID == id {
			comments[i].Likes++
			if err := saveList(ctx, w.store, owner, store.KeyComments, comments); err != nil {
				return nil, err
			}
			return &comments[i], nil
		}
	}
	return nil, fmt.Errorf("%w: comment %q", ErrNotFound, id)
}

func (w *CommentWall) Delete(ctx context.Context, owner, id string) error {
	unlock := w.locks.Lock(owner)
	defer unlock()

	comments, err := loadList[models.Comment](ctx, w.store, owner, store.KeyComments)
	if err != nil {
		return err
	}
	for i := range comments {
		if comments[i].ID == id {
			comments = append(comments[:i], comments[i+1:]...)
			return saveList(ctx, w.store, owner, store.KeyComments, comments)
		}
	}
	return fmt.Errorf("%w: comment %q", ErrNotFound, id)
}
