package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/google/uuid"
)

type userRepo struct {
	db dbtx
}

func newUserRepo(db dbtx) User {
	return &userRepo{
		db: db,
	}
}

// Upsert mirrors the identity into users. It reports whether a row was inserted or changed.
func (r *userRepo) Upsert(ctx context.Context, user model.User) (bool, error) {
	tag, err := r.db.Exec(
		ctx,
		`INSERT INTO users(id, username, display_name, icon_url) VALUES($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, display_name = EXCLUDED.display_name, icon_url = EXCLUDED.icon_url
		WHERE (users.username, users.display_name, users.icon_url) IS DISTINCT FROM (EXCLUDED.username, EXCLUDED.display_name, EXCLUDED.icon_url)`,
		user.ID,
		user.Username,
		user.DisplayName,
		user.IconURL,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.QueryRow(
		ctx,
		"SELECT u.id, u.username, u.display_name, u.icon_url FROM users u WHERE u.id = $1",
		id,
	).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.IconURL,
	); err != nil {
		return nil, err
	}

	return &user, nil
}
