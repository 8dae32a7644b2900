package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectFullPost = `SELECT
	p.post_id, p.author_id, p.content, p.image_url, p.created_at, p.quoted_post_id, p.commented_post_id, p.repost,
	u.username, u.display_name, u.icon_url,
	q.post_id, q.content, q.image_url, q.created_at, qu.id, qu.username, qu.display_name, qu.icon_url
	FROM posts p
	JOIN users u ON p.author_id = u.id
	LEFT JOIN posts q ON p.quoted_post_id = q.post_id
	LEFT JOIN users qu ON q.author_id = qu.id`

type postRepo struct {
	db dbtx
}

func newPostRepo(db dbtx) Post {
	return &postRepo{
		db: db,
	}
}

func insertPost(ctx context.Context, q querier, post *model.Post) error {
	err := q.QueryRow(
		ctx,
		`INSERT INTO posts(post_id, author_id, content, image_url, quoted_post_id, commented_post_id, repost)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		post.PostID,
		post.AuthorID,
		post.Content,
		post.ImageURL,
		post.QuotedPostID,
		post.CommentedPostID,
		post.Repost,
	).Scan(&post.CreatedAt)
	if isUniqueViolation(err, "posts_pkey") {
		return ErrPostIDTaken
	}
	return err
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if post.QuotedPostID != nil {
			if err := lockPost(ctx, tx, *post.QuotedPostID); err != nil {
				return err
			}
		}
		return insertPost(ctx, tx, &post)
	}); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) CreateComment(ctx context.Context, comment model.Post) (*model.Post, int64, error) {
	var commentCount int64
	if err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		parentID := *comment.CommentedPostID
		if err := lockPost(ctx, tx, parentID); err != nil {
			return err
		}
		if err := insertPost(ctx, tx, &comment); err != nil {
			return err
		}

		counts, err := countComments(ctx, tx, []string{parentID})
		if err != nil {
			return err
		}
		commentCount = counts[parentID]

		return nil
	}); err != nil {
		return nil, 0, err
	}

	return &comment, commentCount, nil
}

func scanFullPost(row pgx.Row) (*model.FullPost, error) {
	var (
		post model.FullPost

		username    string
		displayName *string
		iconURL     *string

		quotedID          *string
		quotedContent     *string
		quotedImageURL    *string
		quotedCreatedAt   *time.Time
		quotedAuthorID    *uuid.UUID
		quotedUsername    *string
		quotedDisplayName *string
		quotedIconURL     *string
	)
	if err := row.Scan(
		&post.Post.PostID,
		&post.Post.AuthorID,
		&post.Post.Content,
		&post.Post.ImageURL,
		&post.Post.CreatedAt,
		&post.Post.QuotedPostID,
		&post.Post.CommentedPostID,
		&post.Post.Repost,
		&username,
		&displayName,
		&iconURL,
		&quotedID,
		&quotedContent,
		&quotedImageURL,
		&quotedCreatedAt,
		&quotedAuthorID,
		&quotedUsername,
		&quotedDisplayName,
		&quotedIconURL,
	); err != nil {
		return nil, err
	}
	post.Author = model.NewUserAuthor(post.Post.AuthorID, username, displayName, iconURL)

	// The quoted columns are all NULL when the post quotes nothing.
	if quotedID != nil && quotedAuthorID != nil && quotedUsername != nil && quotedCreatedAt != nil {
		post.Quoted = &model.QuotedPost{
			PostID:    *quotedID,
			Content:   quotedContent,
			ImageURL:  quotedImageURL,
			CreatedAt: *quotedCreatedAt,
			Author:    model.NewUserAuthor(*quotedAuthorID, *quotedUsername, quotedDisplayName, quotedIconURL),
		}
	}

	return &post, nil
}

func findFullPosts(ctx context.Context, q querier, query string, args ...any) ([]*model.FullPost, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.FullPost{}
	for rows.Next() {
		post, err := scanFullPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) FindByIDs(ctx context.Context, postIDs []string) ([]*model.FullPost, error) {
	if len(postIDs) == 0 {
		return []*model.FullPost{}, nil
	}
	return findFullPosts(ctx, r.db, selectFullPost+" WHERE p.post_id = ANY($1)", postIDs)
}

func (r *postRepo) FindTopLevel(ctx context.Context) ([]*model.FullPost, error) {
	return findFullPosts(ctx, r.db, selectFullPost+" WHERE p.commented_post_id IS NULL ORDER BY p.post_id DESC")
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.FullPost, error) {
	return findFullPosts(
		ctx,
		r.db,
		selectFullPost+" WHERE p.author_id = $1 AND p.commented_post_id IS NULL ORDER BY p.post_id DESC",
		authorID,
	)
}

func (r *postRepo) FindComments(ctx context.Context, postID string) ([]*model.FullPost, error) {
	return findFullPosts(ctx, r.db, selectFullPost+" WHERE p.commented_post_id = $1 ORDER BY p.post_id ASC", postID)
}

func (r *postRepo) FindParentID(ctx context.Context, postID string) (*string, error) {
	var parentID *string
	if err := r.db.QueryRow(ctx, "SELECT commented_post_id FROM posts WHERE post_id = $1", postID).Scan(&parentID); err != nil {
		return nil, err
	}
	return parentID, nil
}

func (r *postRepo) Delete(ctx context.Context, postID string, requesterID uuid.UUID) (*model.DeletedPost, error) {
	deleted := model.DeletedPost{PostID: postID}
	if err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var authorID uuid.UUID
		if err := tx.QueryRow(
			ctx,
			"SELECT author_id, commented_post_id FROM posts WHERE post_id = $1 FOR UPDATE",
			postID,
		).Scan(&authorID, &deleted.ParentID); err != nil {
			return err
		}
		if authorID != requesterID {
			return ErrNotPostAuthor
		}

		// Comments, likes, bookmarks and reposts go with the row through ON DELETE CASCADE.
		if _, err := tx.Exec(ctx, "DELETE FROM posts WHERE post_id = $1", postID); err != nil {
			return err
		}

		if deleted.ParentID == nil {
			return nil
		}

		var parentExists bool
		if err := tx.QueryRow(
			ctx,
			"SELECT EXISTS(SELECT 1 FROM posts WHERE post_id = $1)",
			*deleted.ParentID,
		).Scan(&parentExists); err != nil {
			return err
		}
		if !parentExists {
			return nil
		}

		counts, err := countComments(ctx, tx, []string{*deleted.ParentID})
		if err != nil {
			return err
		}
		count := counts[*deleted.ParentID]
		deleted.ParentCommentCount = &count

		return nil
	}); err != nil {
		return nil, err
	}

	return &deleted, nil
}
