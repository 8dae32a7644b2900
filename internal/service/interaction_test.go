package service

import (
	"context"
	"sync"
	"testing"

	"github.com/BloggingApp/feed-service/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, Config{})
	a := store.addUser("a")
	b := store.addUser("b")
	post := mustPost(t, svc, a, "p")

	_, err := svc.Interaction.ToggleLike(ctx, a, post.PostID)
	require.NoError(t, err)

	first, err := svc.Interaction.ToggleLike(ctx, b, post.PostID)
	require.NoError(t, err)
	assert.Equal(t, dto.ToggleLikeResponse{IsLiked: true, LikeCount: 2}, *first)

	second, err := svc.Interaction.ToggleLike(ctx, b, post.PostID)
	require.NoError(t, err)
	assert.Equal(t, dto.ToggleLikeResponse{IsLiked: false, LikeCount: 1}, *second)
}

func TestLikeCountMatchesRows(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, Config{})
	a := store.addUser("a")
	post := mustPost(t, svc, a, "p")

	users := make([]uuid.UUID, 8)
	for i := range users {
		users[i] = store.addUser(uuid.NewString())
	}

	var wg sync.WaitGroup
	for i, u := range users {
		for n := 0; n < i%3+1; n++ {
			wg.Add(1)
			go func(u uuid.UUID) {
				defer wg.Done()
				_, err := svc.Interaction.ToggleLike(ctx, u, post.PostID)
				assert.NoError(t, err)
			}(u)
		}
	}
	wg.Wait()

	feed, err := svc.Post.FindFeed(ctx, nil)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, int64(store.likeRows(post.PostID)), feed[0].Stats.LikeCount)
}

func TestToggleLikeMissingPost(t *testing.T) {
	svc, store := newTestService(t, Config{})
	a := store.addUser("a")

	_, err := svc.Interaction.ToggleLike(context.Background(), a, "000000000001")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Interaction.ToggleLike(context.Background(), a, "1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToggleBookmarkAndList(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, Config{})
	a := store.addUser("a")
	b := store.addUser("b")
	first := mustPost(t, svc, a, "first")
	second := mustPost(t, svc, a, "second")

	for _, id := range []string{second.PostID, first.PostID} {
		resp, err := svc.Interaction.ToggleBookmark(ctx, b, id)
		require.NoError(t, err)
		assert.True(t, resp.IsBookmarked)
	}
	_, err := svc.Interaction.ToggleLike(ctx, b, first.PostID)
	require.NoError(t, err)

	bookmarks, err := svc.Interaction.FindUserBookmarks(ctx, b)
	require.NoError(t, err)
	require.Len(t, bookmarks, 2)
	assert.Equal(t, first.PostID, bookmarks[0].Post.PostID)
	assert.True(t, bookmarks[0].Stats.IsLiked)
	assert.Equal(t, second.PostID, bookmarks[1].Post.PostID)

	resp, err := svc.Interaction.ToggleBookmark(ctx, b, first.PostID)
	require.NoError(t, err)
	assert.False(t, resp.IsBookmarked)

	bookmarks, err = svc.Interaction.FindUserBookmarks(ctx, b)
	require.NoError(t, err)
	assert.Len(t, bookmarks, 1)
}

func TestToggleRepost(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, Config{})
	a := store.addUser("a")
	b := store.addUser("b")
	post := mustPost(t, svc, a, "p")

	resp, err := svc.Interaction.ToggleRepost(ctx, b, post.PostID, dto.RepostRequest{Comment: " good "})
	require.NoError(t, err)
	assert.Equal(t, dto.ToggleRepostResponse{IsReposted: true, RepostCount: 1}, *resp)
	assert.Equal(t, "good", store.reposts[post.PostID][b])

	resp, err = svc.Interaction.ToggleRepost(ctx, b, post.PostID, dto.RepostRequest{})
	require.NoError(t, err)
	assert.Equal(t, dto.ToggleRepostResponse{IsReposted: false, RepostCount: 0}, *resp)

	_, err = svc.Interaction.ToggleRepost(ctx, b, "000000000001", dto.RepostRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}
