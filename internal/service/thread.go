package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/pkg/postid"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
)

// FindThread returns the post, its ancestors from the root down to the direct parent,
// and its direct comments oldest first.
func (s *postService) FindThread(ctx context.Context, postID string, viewerID *uuid.UUID) (*model.Thread, error) {
	if !postid.Valid(postID) {
		return nil, ErrInvalidPostID
	}

	ancestorIDs, err := s.walkAncestors(ctx, postID)
	if err != nil {
		return nil, err
	}

	chainIDs := make([]string, 0, len(ancestorIDs)+1)
	chainIDs = append(chainIDs, ancestorIDs...)
	chainIDs = append(chainIDs, postID)

	chain, err := s.repo.Postgres.Post.FindByIDs(ctx, chainIDs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find thread posts of post(%s): %s", postID, err.Error())
		return nil, ErrInternal
	}

	annotatedChain, err := s.aggregator.annotate(ctx, chain, viewerID)
	if err != nil {
		return nil, err
	}

	byID := lo.KeyBy(annotatedChain, func(p *model.AnnotatedPost) string {
		return p.Post.PostID
	})

	// A post missing here was deleted after the walk; its deletion cascaded to the target.
	target, ok := byID[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	ancestors := make([]*model.AnnotatedPost, 0, len(ancestorIDs))
	for _, id := range ancestorIDs {
		ancestor, ok := byID[id]
		if !ok {
			return nil, ErrPostNotFound
		}
		ancestors = append(ancestors, ancestor)
	}

	children, err := s.repo.Postgres.Post.FindComments(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comments of post(%s): %s", postID, err.Error())
		return nil, ErrInternal
	}

	comments, err := s.aggregator.annotate(ctx, children, viewerID)
	if err != nil {
		return nil, err
	}

	return &model.Thread{
		Post:      target,
		Ancestors: ancestors,
		Comments:  comments,
	}, nil
}

// walkAncestors follows commented_post_id from postID up to the root and returns the
// visited ancestors root first. It fails with ErrPostNotFound if postID does not exist.
func (s *postService) walkAncestors(ctx context.Context, postID string) ([]string, error) {
	visited := map[string]struct{}{postID: {}}
	ancestors := []string{}

	current := postID
	for {
		parentID, err := s.repo.Postgres.Post.FindParentID(ctx, current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrPostNotFound
			}
			s.logger.Sugar().Errorf("failed to find parent of post(%s): %s", current, err.Error())
			return nil, ErrInternal
		}
		if parentID == nil {
			break
		}

		if _, seen := visited[*parentID]; seen {
			s.logger.Sugar().Errorf("comment chain of post(%s) revisits post(%s)", postID, *parentID)
			return nil, ErrThreadCycle
		}
		if len(ancestors) >= s.cfg.MaxThreadDepth {
			s.logger.Sugar().Errorf("comment chain of post(%s) exceeds %d ancestors", postID, s.cfg.MaxThreadDepth)
			return nil, ErrThreadTooDeep
		}

		visited[*parentID] = struct{}{}
		ancestors = append(ancestors, *parentID)
		current = *parentID
	}

	return lo.Reverse(ancestors), nil
}
