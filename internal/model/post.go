package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is a top-level post, a comment (CommentedPostID set) or a quote-repost (QuotedPostID set).
type Post struct {
	PostID          string    `json:"post_id"`
	AuthorID        uuid.UUID `json:"author_id"`
	Content         *string   `json:"content"`
	ImageURL        *string   `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	QuotedPostID    *string   `json:"quoted_post_id"`
	CommentedPostID *string   `json:"commented_post_id"`
	Repost          bool      `json:"repost"`
}

// QuotedPost is the quoted original rendered inline with a quote-repost.
type QuotedPost struct {
	PostID    string     `json:"post_id"`
	Content   *string    `json:"content"`
	ImageURL  *string    `json:"image_url"`
	CreatedAt time.Time  `json:"created_at"`
	Author    UserAuthor `json:"author"`
}

type FullPost struct {
	Post   Post        `json:"post"`
	Author UserAuthor  `json:"author"`
	Quoted *QuotedPost `json:"quoted,omitempty"`
}

type PostStats struct {
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	QuoteCount   int64 `json:"quote_count"`
	IsLiked      bool  `json:"is_liked"`
}

type AnnotatedPost struct {
	FullPost
	Stats PostStats `json:"stats"`
}

type Thread struct {
	Post      *AnnotatedPost   `json:"post"`
	Ancestors []*AnnotatedPost `json:"ancestors"`
	Comments  []*AnnotatedPost `json:"comments"`
}

// DeletedPost describes the outcome of a delete. ParentCommentCount is nil for a
// top-level post or when the parent no longer exists.
type DeletedPost struct {
	PostID             string  `json:"post_id"`
	ParentID           *string `json:"parent_id"`
	ParentCommentCount *int64  `json:"parent_comment_count"`
}
