package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/pkg/postid"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type postService struct {
	logger     *zap.Logger
	repo       *repository.Repository
	aggregator *aggregator
	ids        *postid.Generator
	cfg        Config
}

func newPostService(logger *zap.Logger, repo *repository.Repository, agg *aggregator, ids *postid.Generator, cfg Config) Post {
	return &postService{
		logger:     logger,
		repo:       repo,
		aggregator: agg,
		ids:        ids,
		cfg:        cfg,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// withFreshID assigns a new identifier to post and runs insert, regenerating the
// identifier when the store reports it as taken.
func (s *postService) withFreshID(post *model.Post, insert func() error) error {
	for attempt := 0; attempt < MAX_POST_ID_ATTEMPTS; attempt++ {
		post.PostID = s.ids.Next()
		err := insert()
		if !errors.Is(err, postgres.ErrPostIDTaken) {
			return err
		}
		s.logger.Sugar().Warnf("post id(%s) is already taken, regenerating", post.PostID)
	}

	return ErrPostIDCollision
}

// storeError translates a storage error. Unexpected errors are logged and hidden behind ErrInternal.
func (s *postService) storeError(err error, action string, postID string) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrPostNotFound
	case errors.Is(err, postgres.ErrNotPostAuthor):
		return ErrNotPostAuthor
	case errors.Is(err, ErrPostIDCollision):
		s.logger.Sugar().Errorf("failed to %s (%s): %s", action, postID, err.Error())
		return err
	default:
		s.logger.Sugar().Errorf("failed to %s (%s): %s", action, postID, err.Error())
		return ErrInternal
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error) {
	createdPost, err := s.create(ctx, authorID, input)
	observeMutation("create_post", err)
	return createdPost, err
}

func (s *postService) create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error) {
	content := strings.TrimSpace(input.Content)
	image := strings.TrimSpace(input.Image)
	if content == "" && image == "" {
		return nil, ErrEmptyPost
	}

	post := model.Post{
		AuthorID: authorID,
		Content:  optional(content),
		ImageURL: optional(image),
	}

	var createdPost *model.Post
	if err := s.withFreshID(&post, func() (err error) {
		createdPost, err = s.repo.Postgres.Post.Create(ctx, post)
		return err
	}); err != nil {
		return nil, s.storeError(err, "create post of user", authorID.String())
	}

	return createdPost, nil
}

func (s *postService) CreateComment(ctx context.Context, authorID uuid.UUID, postID string, input dto.CreateCommentRequest) (*dto.CreateCommentResponse, error) {
	resp, err := s.createComment(ctx, authorID, postID, input)
	observeMutation("create_comment", err)
	return resp, err
}

func (s *postService) createComment(ctx context.Context, authorID uuid.UUID, postID string, input dto.CreateCommentRequest) (*dto.CreateCommentResponse, error) {
	if !postid.Valid(postID) {
		return nil, ErrInvalidPostID
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	comment := model.Post{
		AuthorID:        authorID,
		Content:         &text,
		CommentedPostID: &postID,
	}

	var (
		createdComment *model.Post
		commentCount   int64
	)
	if err := s.withFreshID(&comment, func() (err error) {
		createdComment, commentCount, err = s.repo.Postgres.Post.CreateComment(ctx, comment)
		return err
	}); err != nil {
		return nil, s.storeError(err, "comment on post", postID)
	}

	return &dto.CreateCommentResponse{
		Comment:      *createdComment,
		CommentCount: commentCount,
	}, nil
}

func (s *postService) CreateQuote(ctx context.Context, authorID uuid.UUID, postID string, input dto.CreateQuoteRequest) (*model.Post, error) {
	quote, err := s.createQuote(ctx, authorID, postID, input)
	observeMutation("create_quote", err)
	return quote, err
}

func (s *postService) createQuote(ctx context.Context, authorID uuid.UUID, postID string, input dto.CreateQuoteRequest) (*model.Post, error) {
	if !postid.Valid(postID) {
		return nil, ErrInvalidPostID
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyQuote
	}

	quote := model.Post{
		AuthorID:     authorID,
		Content:      &text,
		QuotedPostID: &postID,
		Repost:       true,
	}

	var createdQuote *model.Post
	if err := s.withFreshID(&quote, func() (err error) {
		createdQuote, err = s.repo.Postgres.Post.Create(ctx, quote)
		return err
	}); err != nil {
		return nil, s.storeError(err, "quote post", postID)
	}

	return createdQuote, nil
}

func (s *postService) Delete(ctx context.Context, requesterID uuid.UUID, postID string) (*dto.DeletePostResponse, error) {
	resp, err := s.delete(ctx, requesterID, postID)
	observeMutation("delete_post", err)
	return resp, err
}

func (s *postService) delete(ctx context.Context, requesterID uuid.UUID, postID string) (*dto.DeletePostResponse, error) {
	if !postid.Valid(postID) {
		return nil, ErrInvalidPostID
	}

	deleted, err := s.repo.Postgres.Post.Delete(ctx, postID, requesterID)
	if err != nil {
		return nil, s.storeError(err, "delete post", postID)
	}

	return &dto.DeletePostResponse{
		Ok:                 true,
		ParentCommentCount: deleted.ParentCommentCount,
	}, nil
}

func (s *postService) FindFeed(ctx context.Context, viewerID *uuid.UUID) ([]*model.AnnotatedPost, error) {
	posts, err := s.repo.Postgres.Post.FindTopLevel(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find feed posts: %s", err.Error())
		return nil, ErrInternal
	}

	return s.aggregator.annotate(ctx, posts, viewerID)
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, viewerID *uuid.UUID) ([]*model.AnnotatedPost, error) {
	posts, err := s.repo.Postgres.Post.FindAuthorPosts(ctx, authorID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	return s.aggregator.annotate(ctx, posts, viewerID)
}
