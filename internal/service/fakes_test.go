package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"
)

// memStore is an in-memory stand-in for postgres with the same cascade rules.
type memStore struct {
	mu sync.Mutex

	users     map[uuid.UUID]model.User
	posts     map[string]*model.Post
	likes     map[string]map[uuid.UUID]struct{}
	bookmarks map[string]map[uuid.UUID]int
	reposts   map[string]map[uuid.UUID]string

	seq     int
	collide int
	calls   map[string]int
	upserts int
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[uuid.UUID]model.User),
		posts:     make(map[string]*model.Post),
		likes:     make(map[string]map[uuid.UUID]struct{}),
		bookmarks: make(map[string]map[uuid.UUID]int),
		reposts:   make(map[string]map[uuid.UUID]string),
		calls:     make(map[string]int),
	}
}

func (s *memStore) addUser(username string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.users[id] = model.User{ID: id, Username: username}
	return id
}

func (s *memStore) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *memStore) likeRows(postID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.likes[postID])
}

func (s *memStore) fullPost(p *model.Post) *model.FullPost {
	author := s.users[p.AuthorID]
	fp := &model.FullPost{
		Post: *p,
		Author: author.Author(),
	}
	if p.QuotedPostID != nil {
		if q, ok := s.posts[*p.QuotedPostID]; ok {
			qa := s.users[q.AuthorID]
			fp.Quoted = &model.QuotedPost{
				PostID:    q.PostID,
				Content:   q.Content,
				ImageURL:  q.ImageURL,
				CreatedAt: q.CreatedAt,
				Author:    qa.Author(),
			}
		}
	}
	return fp
}

func (s *memStore) filter(keep func(p *model.Post) bool, desc bool) []*model.FullPost {
	ids := []string{}
	for id, p := range s.posts {
		if keep(p) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if desc {
		sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	}

	posts := []*model.FullPost{}
	for _, id := range ids {
		posts = append(posts, s.fullPost(s.posts[id]))
	}
	return posts
}

func (s *memStore) insert(post *model.Post) error {
	if s.collide > 0 {
		s.collide--
		return postgres.ErrPostIDTaken
	}
	if _, ok := s.posts[post.PostID]; ok {
		return postgres.ErrPostIDTaken
	}
	post.CreatedAt = time.Now()
	stored := *post
	s.posts[post.PostID] = &stored
	return nil
}

func (s *memStore) deleteCascade(postID string) {
	for id, p := range s.posts {
		if p.CommentedPostID != nil && *p.CommentedPostID == postID {
			s.deleteCascade(id)
		}
		if p.QuotedPostID != nil && *p.QuotedPostID == postID {
			p.QuotedPostID = nil
		}
	}
	delete(s.posts, postID)
	delete(s.likes, postID)
	delete(s.bookmarks, postID)
	delete(s.reposts, postID)
}

func (s *memStore) countWhere(match func(p *model.Post) *string, postIDs []string) map[string]int64 {
	wanted := make(map[string]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}
	counts := make(map[string]int64)
	for _, p := range s.posts {
		ref := match(p)
		if ref == nil {
			continue
		}
		if _, ok := wanted[*ref]; ok {
			counts[*ref]++
		}
	}
	return counts
}

type fakePostRepo struct{ s *memStore }

func (r *fakePostRepo) Create(_ context.Context, post model.Post) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if post.QuotedPostID != nil {
		if _, ok := r.s.posts[*post.QuotedPostID]; !ok {
			return nil, pgx.ErrNoRows
		}
	}
	if err := r.s.insert(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *fakePostRepo) CreateComment(_ context.Context, comment model.Post) (*model.Post, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	parentID := *comment.CommentedPostID
	if _, ok := r.s.posts[parentID]; !ok {
		return nil, 0, pgx.ErrNoRows
	}
	if err := r.s.insert(&comment); err != nil {
		return nil, 0, err
	}
	counts := r.s.countWhere(func(p *model.Post) *string { return p.CommentedPostID }, []string{parentID})
	return &comment, counts[parentID], nil
}

func (r *fakePostRepo) FindByIDs(_ context.Context, postIDs []string) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// map iteration keeps the result order unspecified, like the SQL query
	wanted := make(map[string]struct{})
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}
	posts := []*model.FullPost{}
	for id := range wanted {
		if p, ok := r.s.posts[id]; ok {
			posts = append(posts, r.s.fullPost(p))
		}
	}
	return posts, nil
}

func (r *fakePostRepo) FindTopLevel(_ context.Context) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.filter(func(p *model.Post) bool { return p.CommentedPostID == nil }, true), nil
}

func (r *fakePostRepo) FindAuthorPosts(_ context.Context, authorID uuid.UUID) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.filter(func(p *model.Post) bool {
		return p.AuthorID == authorID && p.CommentedPostID == nil
	}, true), nil
}

func (r *fakePostRepo) FindComments(_ context.Context, postID string) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.filter(func(p *model.Post) bool {
		return p.CommentedPostID != nil && *p.CommentedPostID == postID
	}, false), nil
}

func (r *fakePostRepo) FindParentID(_ context.Context, postID string) (*string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.calls["FindParentID"]++
	p, ok := r.s.posts[postID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p.CommentedPostID, nil
}

func (r *fakePostRepo) Delete(_ context.Context, postID string, requesterID uuid.UUID) (*model.DeletedPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if p.AuthorID != requesterID {
		return nil, postgres.ErrNotPostAuthor
	}

	deleted := &model.DeletedPost{PostID: postID, ParentID: p.CommentedPostID}
	r.s.deleteCascade(postID)

	if deleted.ParentID != nil {
		if _, ok := r.s.posts[*deleted.ParentID]; ok {
			counts := r.s.countWhere(func(p *model.Post) *string { return p.CommentedPostID }, []string{*deleted.ParentID})
			count := counts[*deleted.ParentID]
			deleted.ParentCommentCount = &count
		}
	}
	return deleted, nil
}

type fakeAggregateRepo struct{ s *memStore }

func (r *fakeAggregateRepo) CountLikes(_ context.Context, postIDs []string) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.calls["CountLikes"]++
	counts := make(map[string]int64)
	for _, id := range postIDs {
		if n := len(r.s.likes[id]); n > 0 {
			counts[id] = int64(n)
		}
	}
	return counts, nil
}

func (r *fakeAggregateRepo) CountComments(_ context.Context, postIDs []string) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.calls["CountComments"]++
	return r.s.countWhere(func(p *model.Post) *string { return p.CommentedPostID }, postIDs), nil
}

func (r *fakeAggregateRepo) CountQuotes(_ context.Context, postIDs []string) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.calls["CountQuotes"]++
	return r.s.countWhere(func(p *model.Post) *string { return p.QuotedPostID }, postIDs), nil
}

func (r *fakeAggregateRepo) FindLiked(_ context.Context, postIDs []string, userID uuid.UUID) (map[string]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.calls["FindLiked"]++
	liked := make(map[string]bool)
	for _, id := range postIDs {
		if _, ok := r.s.likes[id][userID]; ok {
			liked[id] = true
		}
	}
	return liked, nil
}

type fakeLikeRepo struct{ s *memStore }

func (r *fakeLikeRepo) Toggle(_ context.Context, like model.Like) (bool, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[like.PostID]; !ok {
		return false, 0, pgx.ErrNoRows
	}
	users, ok := r.s.likes[like.PostID]
	if !ok {
		users = make(map[uuid.UUID]struct{})
		r.s.likes[like.PostID] = users
	}
	if _, ok := users[like.UserID]; ok {
		delete(users, like.UserID)
		return false, int64(len(users)), nil
	}
	users[like.UserID] = struct{}{}
	return true, int64(len(users)), nil
}

type fakeBookmarkRepo struct{ s *memStore }

func (r *fakeBookmarkRepo) Toggle(_ context.Context, bookmark model.Bookmark) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[bookmark.PostID]; !ok {
		return false, pgx.ErrNoRows
	}
	users, ok := r.s.bookmarks[bookmark.PostID]
	if !ok {
		users = make(map[uuid.UUID]int)
		r.s.bookmarks[bookmark.PostID] = users
	}
	if _, ok := users[bookmark.UserID]; ok {
		delete(users, bookmark.UserID)
		return false, nil
	}
	r.s.seq++
	users[bookmark.UserID] = r.s.seq
	return true, nil
}

func (r *fakeBookmarkRepo) FindUserBookmarks(_ context.Context, userID uuid.UUID) ([]*model.FullPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	type marked struct {
		postID string
		seq    int
	}
	var all []marked
	for postID, users := range r.s.bookmarks {
		if seq, ok := users[userID]; ok {
			all = append(all, marked{postID, seq})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })

	posts := []*model.FullPost{}
	for _, m := range all {
		posts = append(posts, r.s.fullPost(r.s.posts[m.postID]))
	}
	return posts, nil
}

type fakeRepostRepo struct{ s *memStore }

func (r *fakeRepostRepo) Toggle(_ context.Context, repost model.Repost) (bool, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[repost.OriginalPostID]; !ok {
		return false, 0, pgx.ErrNoRows
	}
	users, ok := r.s.reposts[repost.OriginalPostID]
	if !ok {
		users = make(map[uuid.UUID]string)
		r.s.reposts[repost.OriginalPostID] = users
	}
	if _, ok := users[repost.UserID]; ok {
		delete(users, repost.UserID)
		return false, int64(len(users)), nil
	}
	users[repost.UserID] = repost.Comment
	return true, int64(len(users)), nil
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Upsert(_ context.Context, user model.User) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.upserts++
	existing, ok := r.s.users[user.ID]
	if ok && sameProfile(&existing, &user) {
		return false, nil
	}
	r.s.users[user.ID] = user
	return true, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

// fakeCache implements redisrepo.Default on a map.
type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = string(b)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	v, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (c *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func newTestRepository(s *memStore, cache redisrepo.Default) *repository.Repository {
	return &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post:      &fakePostRepo{s},
			Aggregate: &fakeAggregateRepo{s},
			Like:      &fakeLikeRepo{s},
			Bookmark:  &fakeBookmarkRepo{s},
			Repost:    &fakeRepostRepo{s},
			User:      &fakeUserRepo{s},
		},
		Redis: &redisrepo.RedisRepository{
			Default: cache,
		},
	}
}

func newTestService(t *testing.T, cfg Config) (*Service, *memStore) {
	t.Helper()

	s := newMemStore()
	return New(zaptest.NewLogger(t), newTestRepository(s, newFakeCache()), cfg), s
}
