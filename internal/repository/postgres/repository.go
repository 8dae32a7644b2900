package postgres

import (
	"context"
	"errors"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPostIDTaken   = errors.New("post id is already taken")
	ErrNotPostAuthor = errors.New("user is not the author of the post")
)

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	CreateComment(ctx context.Context, comment model.Post) (*model.Post, int64, error)
	FindByIDs(ctx context.Context, postIDs []string) ([]*model.FullPost, error)
	FindTopLevel(ctx context.Context) ([]*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.FullPost, error)
	FindComments(ctx context.Context, postID string) ([]*model.FullPost, error)
	FindParentID(ctx context.Context, postID string) (*string, error)
	Delete(ctx context.Context, postID string, requesterID uuid.UUID) (*model.DeletedPost, error)
}

// Aggregate computes derived counts for a whole set of posts, one query per metric.
type Aggregate interface {
	CountLikes(ctx context.Context, postIDs []string) (map[string]int64, error)
	CountComments(ctx context.Context, postIDs []string) (map[string]int64, error)
	CountQuotes(ctx context.Context, postIDs []string) (map[string]int64, error)
	FindLiked(ctx context.Context, postIDs []string, userID uuid.UUID) (map[string]bool, error)
}

type Like interface {
	Toggle(ctx context.Context, like model.Like) (bool, int64, error)
}

type Bookmark interface {
	Toggle(ctx context.Context, bookmark model.Bookmark) (bool, error)
	FindUserBookmarks(ctx context.Context, userID uuid.UUID) ([]*model.FullPost, error)
}

type Repost interface {
	Toggle(ctx context.Context, repost model.Repost) (bool, int64, error)
}

type User interface {
	Upsert(ctx context.Context, user model.User) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type PostgresRepository struct {
	Post
	Aggregate
	Like
	Bookmark
	Repost
	User
}

func New(db dbtx) *PostgresRepository {
	return &PostgresRepository{
		Post:      newPostRepo(db),
		Aggregate: newAggregateRepo(db),
		Like:      newLikeRepo(db),
		Bookmark:  newBookmarkRepo(db),
		Repost:    newRepostRepo(db),
		User:      newUserRepo(db),
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// dbtx is what the repos hold: a querier that can also open transactions.
type dbtx interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}

// inTx commits when fn succeeds and rolls back otherwise.
func inTx(ctx context.Context, db dbtx, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// lockPost takes a key-share lock on the post row, so the post cannot be deleted
// until the transaction ends. Returns pgx.ErrNoRows if the post does not exist.
func lockPost(ctx context.Context, q querier, postID string) error {
	var id string
	return q.QueryRow(ctx, "SELECT post_id FROM posts WHERE post_id = $1 FOR KEY SHARE", postID).Scan(&id)
}
