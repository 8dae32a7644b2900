package postgres

import (
	"context"

	"github.com/google/uuid"
)

type aggregateRepo struct {
	db dbtx
}

func newAggregateRepo(db dbtx) Aggregate {
	return &aggregateRepo{
		db: db,
	}
}

// countBy runs a "key, COUNT(*) ... GROUP BY key" query. Keys without rows are absent.
func countBy(ctx context.Context, q querier, query string, args ...any) (map[string]int64, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			postID string
			count  int64
		)
		if err := rows.Scan(&postID, &count); err != nil {
			return nil, err
		}
		counts[postID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func countLikes(ctx context.Context, q querier, postIDs []string) (map[string]int64, error) {
	return countBy(ctx, q, "SELECT post_id, COUNT(*) FROM likes WHERE post_id = ANY($1) GROUP BY post_id", postIDs)
}

func countComments(ctx context.Context, q querier, postIDs []string) (map[string]int64, error) {
	return countBy(
		ctx,
		q,
		"SELECT commented_post_id, COUNT(*) FROM posts WHERE commented_post_id = ANY($1) GROUP BY commented_post_id",
		postIDs,
	)
}

func countQuotes(ctx context.Context, q querier, postIDs []string) (map[string]int64, error) {
	return countBy(
		ctx,
		q,
		"SELECT quoted_post_id, COUNT(*) FROM posts WHERE quoted_post_id = ANY($1) GROUP BY quoted_post_id",
		postIDs,
	)
}

func countReposts(ctx context.Context, q querier, postIDs []string) (map[string]int64, error) {
	return countBy(
		ctx,
		q,
		"SELECT original_post_id, COUNT(*) FROM reposts WHERE original_post_id = ANY($1) GROUP BY original_post_id",
		postIDs,
	)
}

func (r *aggregateRepo) CountLikes(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countLikes(ctx, r.db, postIDs)
}

func (r *aggregateRepo) CountComments(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countComments(ctx, r.db, postIDs)
}

func (r *aggregateRepo) CountQuotes(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countQuotes(ctx, r.db, postIDs)
}

func (r *aggregateRepo) FindLiked(ctx context.Context, postIDs []string, userID uuid.UUID) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, "SELECT post_id FROM likes WHERE post_id = ANY($1) AND user_id = $2", postIDs, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	liked := make(map[string]bool)
	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return nil, err
		}
		liked[postID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return liked, nil
}
