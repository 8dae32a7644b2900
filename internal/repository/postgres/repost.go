package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/jackc/pgx/v5"
)

type repostRepo struct {
	db dbtx
}

func newRepostRepo(db dbtx) Repost {
	return &repostRepo{
		db: db,
	}
}

func (r *repostRepo) Toggle(ctx context.Context, repost model.Repost) (bool, int64, error) {
	var (
		reposted    bool
		repostCount int64
	)
	if err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockPost(ctx, tx, repost.OriginalPostID); err != nil {
			return err
		}

		tag, err := tx.Exec(
			ctx,
			"DELETE FROM reposts WHERE original_post_id = $1 AND user_id = $2",
			repost.OriginalPostID,
			repost.UserID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO reposts(original_post_id, user_id, comment) VALUES($1, $2, $3)
				ON CONFLICT (original_post_id, user_id) DO NOTHING`,
				repost.OriginalPostID,
				repost.UserID,
				repost.Comment,
			); err != nil {
				return err
			}
			reposted = true
		}

		counts, err := countReposts(ctx, tx, []string{repost.OriginalPostID})
		if err != nil {
			return err
		}
		repostCount = counts[repost.OriginalPostID]

		return nil
	}); err != nil {
		return false, 0, err
	}

	return reposted, repostCount, nil
}
