package model

import (
	"time"

	"github.com/google/uuid"
)

type Like struct {
	PostID    string    `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Bookmark struct {
	PostID    string    `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repost is a simple repost, distinct from a quote-repost which is stored as a Post.
type Repost struct {
	OriginalPostID string    `json:"original_post_id"`
	UserID         uuid.UUID `json:"user_id"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
}
