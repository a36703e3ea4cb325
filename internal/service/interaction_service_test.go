package service

import (
	"Folio/internal/model"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordViewCountsOncePerUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewInteractionService(f.posts, f.interactions, f.publisher)
	post := f.seedPost(t, "hello", model.PostStatusPublished)
	alice := session(1, "alice", model.RoleUser)
	bob := session(2, "bob", model.RoleUser)

	res, err := svc.RecordView(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.True(t, res.ViewIncremented)
	assert.EqualValues(t, 1, res.Post.Views)
	assert.True(t, res.Post.UserHasViewed)

	res, err = svc.RecordView(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.True(t, res.ViewIncremented)
	assert.EqualValues(t, 2, res.Post.Views)

	res, err = svc.RecordView(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.False(t, res.ViewIncremented)
	assert.EqualValues(t, 2, res.Post.Views)

	assert.Len(t, f.publisher.ofType(model.EventPostViewed), 2)
}

func TestRecordViewAfterLikeOnlyRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewInteractionService(f.posts, f.interactions, f.publisher)
	post := f.seedPost(t, "hello", model.PostStatusPublished)
	alice := session(1, "alice", model.RoleUser)

	_, err := svc.ToggleLike(ctx, alice, post.ID)
	require.NoError(t, err)

	res, err := svc.RecordView(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.True(t, res.ViewIncremented)
	assert.True(t, res.Post.UserHasLiked)
	assert.EqualValues(t, 1, res.Post.Views)
}

func TestRecordViewMissingPost(t *testing.T) {
	f := newFixture(t)
	svc := NewInteractionService(f.posts, f.interactions, f.publisher)

	_, err := svc.RecordView(context.Background(), session(1, "alice", model.RoleUser), 404)
	assert.ErrorIs(t, err, ErrPostNotFound)

	rec, err := f.interactions.GetInteraction(context.Background(), 1, 404)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestToggleLikeParity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewInteractionService(f.posts, f.interactions, f.publisher)
	post := f.seedPost(t, "hello", model.PostStatusPublished)
	alice := session(1, "alice", model.RoleUser)

	for i := 1; i <= 5; i++ {
		res, err := svc.ToggleLike(ctx, alice, post.ID)
		require.NoError(t, err)
		if i%2 == 1 {
			assert.True(t, res.UserHasLiked)
			assert.EqualValues(t, 1, res.LikeChange)
			assert.EqualValues(t, 1, res.Post.Likes)
		} else {
			assert.False(t, res.UserHasLiked)
			assert.EqualValues(t, -1, res.LikeChange)
			assert.EqualValues(t, 0, res.Post.Likes)
		}
	}
	assert.Len(t, f.publisher.ofType(model.EventPostLiked), 3)
	assert.Len(t, f.publisher.ofType(model.EventPostUnliked), 2)
}

func TestToggleLikeNeverNegative(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewInteractionService(f.posts, f.interactions, f.publisher)
	post := f.seedPost(t, "hello", model.PostStatusPublished)
	alice := session(1, "alice", model.RoleUser)

	_, err := svc.ToggleLike(ctx, alice, post.ID)
	require.NoError(t, err)
	// 人为制造计数漂移
	require.NoError(t, f.db.Model(&model.Post{}).Where("id = ?", post.ID).UpdateColumn("likes", 0).Error)

	res, err := svc.ToggleLike(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.False(t, res.UserHasLiked)
	assert.EqualValues(t, 0, res.Post.Likes)
}

func TestConcurrentViewsCountOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewInteractionService(f.posts, f.interactions, f.publisher)
	post := f.seedPost(t, "hello", model.PostStatusPublished)
	alice := session(1, "alice", model.RoleUser)

	var wg sync.WaitGroup
	var mu sync.Mutex
	incremented := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.RecordView(ctx, alice, post.ID)
			if assert.NoError(t, err) && res.ViewIncremented {
				mu.Lock()
				incremented++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, incremented)
	got, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)
}
