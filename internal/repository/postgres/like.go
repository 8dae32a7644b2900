package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/jackc/pgx/v5"
)

type likeRepo struct {
	db dbtx
}

func newLikeRepo(db dbtx) Like {
	return &likeRepo{
		db: db,
	}
}

// Toggle removes the like if it exists and creates it otherwise. It returns the new
// liked state and the post's like count as seen by the same transaction.
func (r *likeRepo) Toggle(ctx context.Context, like model.Like) (bool, int64, error) {
	var (
		liked     bool
		likeCount int64
	)
	if err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockPost(ctx, tx, like.PostID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, "DELETE FROM likes WHERE post_id = $1 AND user_id = $2", like.PostID, like.UserID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(
				ctx,
				"INSERT INTO likes(post_id, user_id) VALUES($1, $2) ON CONFLICT (post_id, user_id) DO NOTHING",
				like.PostID,
				like.UserID,
			); err != nil {
				return err
			}
			liked = true
		}

		counts, err := countLikes(ctx, tx, []string{like.PostID})
		if err != nil {
			return err
		}
		likeCount = counts[like.PostID]

		return nil
	}); err != nil {
		return false, 0, err
	}

	return liked, likeCount, nil
}
