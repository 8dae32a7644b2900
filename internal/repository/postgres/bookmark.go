package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type bookmarkRepo struct {
	db dbtx
}

func newBookmarkRepo(db dbtx) Bookmark {
	return &bookmarkRepo{
		db: db,
	}
}

func (r *bookmarkRepo) Toggle(ctx context.Context, bookmark model.Bookmark) (bool, error) {
	var bookmarked bool
	if err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockPost(ctx, tx, bookmark.PostID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, "DELETE FROM bookmarks WHERE post_id = $1 AND user_id = $2", bookmark.PostID, bookmark.UserID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		if _, err := tx.Exec(
			ctx,
			"INSERT INTO bookmarks(post_id, user_id) VALUES($1, $2) ON CONFLICT (post_id, user_id) DO NOTHING",
			bookmark.PostID,
			bookmark.UserID,
		); err != nil {
			return err
		}
		bookmarked = true

		return nil
	}); err != nil {
		return false, err
	}

	return bookmarked, nil
}

func (r *bookmarkRepo) FindUserBookmarks(ctx context.Context, userID uuid.UUID) ([]*model.FullPost, error) {
	return findFullPosts(
		ctx,
		r.db,
		selectFullPost+" JOIN bookmarks b ON b.post_id = p.post_id WHERE b.user_id = $1 ORDER BY b.created_at DESC, p.post_id DESC",
		userID,
	)
}
