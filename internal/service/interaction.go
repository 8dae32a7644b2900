package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/pkg/postid"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type interactionService struct {
	logger     *zap.Logger
	repo       *repository.Repository
	aggregator *aggregator
}

func newInteractionService(logger *zap.Logger, repo *repository.Repository, agg *aggregator) Interaction {
	return &interactionService{
		logger:     logger,
		repo:       repo,
		aggregator: agg,
	}
}

func (s *interactionService) toggleError(err error, what string, postID string, userID uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPostNotFound
	}
	s.logger.Sugar().Errorf("failed to toggle %s of user(%s) on post(%s): %s", what, userID.String(), postID, err.Error())
	return ErrInternal
}

func (s *interactionService) ToggleLike(ctx context.Context, userID uuid.UUID, postID string) (*dto.ToggleLikeResponse, error) {
	resp, err := s.toggleLike(ctx, userID, postID)
	observeMutation("toggle_like", err)
	return resp, err
}

func (s *interactionService) toggleLike(ctx context.Context, userID uuid.UUID, postID string) (*dto.ToggleLikeResponse, error) {
	if !postid.Valid(postID) {
		return nil, ErrInvalidPostID
	}

	liked, likeCount, err := s.repo.Postgres.Like.Toggle(ctx, model.Like{PostID: postID, UserID: userID})
	if err != nil {
		return nil, s.toggleError(err, "like", postID, userID)
	}

	return &dto.ToggleLikeResponse{
		IsLiked:   liked,
		LikeCount: likeCount,
	}, nil
}

func (s *interactionService) ToggleBookmark(ctx context.Context, userID uuid.UUID, postID string) (*dto.ToggleBookmarkResponse, error) {
	resp, err := s.toggleBookmark(ctx, userID, postID)
	observeMutation("toggle_bookmark", err)
	return resp, err
}

func (s *interactionService) toggleBookmark(ctx context.Context, userID uuid.UUID, postID string) (*dto.ToggleBookmarkResponse, error) {
	if !postid.Valid(postID) {
		return nil, ErrInvalidPostID
	}

	bookmarked, err := s.repo.Postgres.Bookmark.Toggle(ctx, model.Bookmark{PostID: postID, UserID: userID})
	if err != nil {
		return nil, s.toggleError(err, "bookmark", postID, userID)
	}

	return &dto.ToggleBookmarkResponse{IsBookmarked: bookmarked}, nil
}

func (s *interactionService) ToggleRepost(ctx context.Context, userID uuid.UUID, postID string, input dto.RepostRequest) (*dto.ToggleRepostResponse, error) {
	resp, err := s.toggleRepost(ctx, userID, postID, input)
	observeMutation("toggle_repost", err)
	return resp, err
}

func (s *interactionService) toggleRepost(ctx context.Context, userID uuid.UUID, postID string, input dto.RepostRequest) (*dto.ToggleRepostResponse, error) {
	if !postid.Valid(postID) {
		return nil, ErrInvalidPostID
	}

	repost := model.Repost{
		OriginalPostID: postID,
		UserID:         userID,
		Comment:        strings.TrimSpace(input.Comment),
	}
	reposted, repostCount, err := s.repo.Postgres.Repost.Toggle(ctx, repost)
	if err != nil {
		return nil, s.toggleError(err, "repost", postID, userID)
	}

	return &dto.ToggleRepostResponse{
		IsReposted:  reposted,
		RepostCount: repostCount,
	}, nil
}

func (s *interactionService) FindUserBookmarks(ctx context.Context, userID uuid.UUID) ([]*model.AnnotatedPost, error) {
	posts, err := s.repo.Postgres.Bookmark.FindUserBookmarks(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) bookmarks: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return s.aggregator.annotate(ctx, posts, &userID)
}
