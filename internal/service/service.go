package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/pkg/postid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DEFAULT_MAX_THREAD_DEPTH = 1000
	DEFAULT_USER_CACHE_TTL   = time.Hour
	MAX_POST_ID_ATTEMPTS     = 3
)

type Config struct {
	MaxThreadDepth int
	UserCacheTTL   time.Duration
	CDNOrigin      string
}

func (c Config) withDefaults() Config {
	if c.MaxThreadDepth <= 0 {
		c.MaxThreadDepth = DEFAULT_MAX_THREAD_DEPTH
	}
	if c.UserCacheTTL <= 0 {
		c.UserCacheTTL = DEFAULT_USER_CACHE_TTL
	}
	return c
}

// Post covers reading feeds and threads and creating or deleting posts. A nil viewerID
// means an anonymous viewer.
type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error)
	CreateComment(ctx context.Context, authorID uuid.UUID, postID string, input dto.CreateCommentRequest) (*dto.CreateCommentResponse, error)
	CreateQuote(ctx context.Context, authorID uuid.UUID, postID string, input dto.CreateQuoteRequest) (*model.Post, error)
	Delete(ctx context.Context, requesterID uuid.UUID, postID string) (*dto.DeletePostResponse, error)
	FindFeed(ctx context.Context, viewerID *uuid.UUID) ([]*model.AnnotatedPost, error)
	FindThread(ctx context.Context, postID string, viewerID *uuid.UUID) (*model.Thread, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, viewerID *uuid.UUID) ([]*model.AnnotatedPost, error)
}

type Interaction interface {
	ToggleLike(ctx context.Context, userID uuid.UUID, postID string) (*dto.ToggleLikeResponse, error)
	ToggleBookmark(ctx context.Context, userID uuid.UUID, postID string) (*dto.ToggleBookmarkResponse, error)
	ToggleRepost(ctx context.Context, userID uuid.UUID, postID string, input dto.RepostRequest) (*dto.ToggleRepostResponse, error)
	FindUserBookmarks(ctx context.Context, userID uuid.UUID) ([]*model.AnnotatedPost, error)
}

type UserCache interface {
	CreateOrGet(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type Media interface {
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
}

type Service struct {
	Post
	Interaction
	UserCache
	Media
}

func New(logger *zap.Logger, repo *repository.Repository, cfg Config) *Service {
	cfg = cfg.withDefaults()
	agg := newAggregator(logger, repo)

	return &Service{
		Post:        newPostService(logger, repo, agg, postid.New(), cfg),
		Interaction: newInteractionService(logger, repo, agg),
		UserCache:   newUserCacheService(logger, repo, cfg),
		Media:       newMediaService(logger, cfg),
	}
}
