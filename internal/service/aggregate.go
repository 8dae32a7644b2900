package service

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// aggregator annotates posts with like, comment and quote counts and the viewer's
// like flag. Each metric costs a single query over the whole set of posts.
type aggregator struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newAggregator(logger *zap.Logger, repo *repository.Repository) *aggregator {
	return &aggregator{
		logger: logger,
		repo:   repo,
	}
}

func (a *aggregator) annotate(ctx context.Context, posts []*model.FullPost, viewerID *uuid.UUID) ([]*model.AnnotatedPost, error) {
	annotated := make([]*model.AnnotatedPost, 0, len(posts))
	if len(posts) == 0 {
		return annotated, nil
	}

	postIDs := lo.Uniq(lo.Map(posts, func(p *model.FullPost, _ int) string {
		return p.Post.PostID
	}))

	likes, err := a.repo.Postgres.Aggregate.CountLikes(ctx, postIDs)
	if err != nil {
		a.logger.Sugar().Errorf("failed to count likes of %d posts: %s", len(postIDs), err.Error())
		return nil, ErrInternal
	}

	comments, err := a.repo.Postgres.Aggregate.CountComments(ctx, postIDs)
	if err != nil {
		a.logger.Sugar().Errorf("failed to count comments of %d posts: %s", len(postIDs), err.Error())
		return nil, ErrInternal
	}

	quotes, err := a.repo.Postgres.Aggregate.CountQuotes(ctx, postIDs)
	if err != nil {
		a.logger.Sugar().Errorf("failed to count quotes of %d posts: %s", len(postIDs), err.Error())
		return nil, ErrInternal
	}

	liked := map[string]bool{}
	if viewerID != nil {
		liked, err = a.repo.Postgres.Aggregate.FindLiked(ctx, postIDs, *viewerID)
		if err != nil {
			a.logger.Sugar().Errorf("failed to find posts liked by user(%s): %s", viewerID.String(), err.Error())
			return nil, ErrInternal
		}
	}

	for _, post := range posts {
		id := post.Post.PostID
		annotated = append(annotated, &model.AnnotatedPost{
			FullPost: *post,
			Stats: model.PostStats{
				LikeCount:    likes[id],
				CommentCount: comments[id],
				QuoteCount:   quotes[id],
				IsLiked:      liked[id],
			},
		})
	}

	return annotated, nil
}
