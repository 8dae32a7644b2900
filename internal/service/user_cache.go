package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type userCacheService struct {
	logger *zap.Logger
	repo   *repository.Repository
	cfg    Config
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository, cfg Config) UserCache {
	return &userCacheService{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
	}
}

func sameProfile(a, b *model.User) bool {
	return a.Username == b.Username && equalOptional(a.DisplayName, b.DisplayName) && equalOptional(a.IconURL, b.IconURL)
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CreateOrGet mirrors an identity coming from a verified token into the users table,
// touching postgres only when the profile is unknown or has changed.
func (s *userCacheService) CreateOrGet(ctx context.Context, user model.User) (*model.User, error) {
	cachedUser, err := s.FindByID(ctx, user.ID)
	if err == nil && sameProfile(cachedUser, &user) {
		return cachedUser, nil
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	changed, err := s.repo.Postgres.User.Upsert(ctx, user)
	if err != nil {
		s.logger.Sugar().Errorf("failed to upsert user(%s): %s", user.ID.String(), err.Error())
		return nil, ErrInternal
	}

	if changed {
		if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserCacheKey(user.ID.String())).Err(); err != nil {
			s.logger.Sugar().Errorf("failed to delete cached user(%s) from redis: %s", user.ID.String(), err.Error())
		}
	}

	return &user, nil
}

func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	cachedUser, err := redisrepo.Get[model.User](s.repo.Redis.Default, ctx, redisrepo.UserCacheKey(id.String()))
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get cached user(%s) from redis: %s", id.String(), err.Error())
	}

	user, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to get user(%s) from postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserCacheKey(id.String()), user, s.cfg.UserCacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id.String(), err.Error())
	}

	return user, nil
}
