package service

import (
	"Folio/internal/api/dto"
	"Folio/internal/model"
	"Folio/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIndex 记录同步调用的内存索引
type stubIndex struct {
	indexed map[uint64]*model.Post
	deleted []uint64
}

func newStubIndex() *stubIndex {
	return &stubIndex{indexed: map[uint64]*model.Post{}}
}

func (s *stubIndex) EnsureIndex(context.Context) error { return nil }

func (s *stubIndex) IndexPost(_ context.Context, post *model.Post) error {
	cp := *post
	s.indexed[post.ID] = &cp
	return nil
}

func (s *stubIndex) DeletePost(_ context.Context, id uint64) error {
	delete(s.indexed, id)
	s.deleted = append(s.deleted, id)
	return nil
}

// Search 返回全部已索引帖子，草稿也会返回，由服务层再过滤
func (s *stubIndex) Search(_ context.Context, _ string, _, _ int) ([]uint64, int64, error) {
	ids := make([]uint64, 0, len(s.indexed))
	for id := range s.indexed {
		ids = append(ids, id)
	}
	return ids, int64(len(ids)), nil
}

func upsert(title string) *dto.PostUpsertDTO {
	return &dto.PostUpsertDTO{
		Title:    title,
		Excerpt:  "excerpt",
		Author:   "admin",
		ReadTime: "4 min read",
		Category: model.CategoryDesign,
		Image:    "img.png",
		Tags:     dto.TagList{"ui", "ux"},
		Content:  "body of " + title,
	}
}

func TestPostLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	index := newStubIndex()
	svc := NewPostService(f.posts, f.interactions, index)
	alice := session(1, "alice", model.RoleUser)

	created, err := svc.CreatePost(ctx, upsert("first"))
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusDraft, created.Status)
	assert.False(t, created.Date.IsZero())
	assert.Contains(t, index.indexed, created.ID)

	published, err := svc.ListPosts(ctx, alice, &dto.PostListQuery{Status: "published"})
	require.NoError(t, err)
	assert.Empty(t, published)

	_, err = svc.UpdatePostStatus(ctx, created.ID, model.PostStatusPublished)
	require.NoError(t, err)

	published, err = svc.ListPosts(ctx, alice, &dto.PostListQuery{Status: "published"})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, created.ID, published[0].ID)
	assert.Equal(t, model.PostStatusPublished, index.indexed[created.ID].Status)

	req := upsert("renamed")
	req.Date = &dto.PostDate{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	updated, err := svc.UpdatePost(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, model.PostStatusPublished, updated.Status)
	assert.Equal(t, 2024, updated.Date.Year())

	require.NoError(t, svc.DeletePost(ctx, created.ID))
	assert.Equal(t, []uint64{created.ID}, index.deleted)

	_, err = svc.GetPost(ctx, alice, created.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, svc.DeletePost(ctx, created.ID), ErrPostNotFound)
}

func TestPostValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPostService(f.posts, f.interactions, nil)

	req := upsert("x")
	req.Category = "Cooking"
	_, err := svc.CreatePost(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.UpdatePostStatus(ctx, 1, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdatePostStatus(ctx, 404, model.PostStatusPublished)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.ListPosts(ctx, session(1, "a", model.RoleUser), &dto.PostListQuery{Status: "hidden"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPostStatusUnchangedStillSucceeds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPostService(f.posts, f.interactions, nil)
	post := f.seedPost(t, "p", model.PostStatusPublished)

	got, err := svc.UpdatePostStatus(ctx, post.ID, model.PostStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusPublished, got.Status)
}

func TestListPostsAnnotated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPostService(f.posts, f.interactions, nil)
	interactions := NewInteractionService(f.posts, f.interactions, f.publisher)
	a := f.seedPost(t, "a", model.PostStatusPublished)
	f.seedPost(t, "b", model.PostStatusPublished)
	alice := session(1, "alice", model.RoleUser)

	_, err := interactions.ToggleLike(ctx, alice, a.ID)
	require.NoError(t, err)

	list, err := svc.ListPosts(ctx, alice, &dto.PostListQuery{SortBy: "likes", Order: "desc"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.True(t, list[0].UserHasLiked)
	assert.False(t, list[1].UserHasLiked)

	// 其他用户看不到 alice 的交互状态
	list, err = svc.ListPosts(ctx, session(2, "bob", model.RoleUser), &dto.PostListQuery{SortBy: "bogus"})
	require.NoError(t, err)
	for _, p := range list {
		assert.False(t, p.UserHasLiked)
	}
}

func TestSearchPosts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := session(1, "alice", model.RoleUser)
	f.seedPost(t, "Gopher tricks", model.PostStatusPublished)
	f.seedPost(t, "Gopher drafts", model.PostStatusDraft)
	f.seedPost(t, "Rust notes", model.PostStatusPublished)

	sqlSvc := NewPostService(f.posts, f.interactions, nil)
	_, err := sqlSvc.SearchPosts(ctx, alice, &dto.SearchQuery{Q: "  "})
	assert.ErrorIs(t, err, ErrSearchQueryEmpty)

	res, err := sqlSvc.SearchPosts(ctx, alice, &dto.SearchQuery{Q: "gopher"})
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "Gopher tricks", res.Posts[0].Title)
	assert.EqualValues(t, 1, res.Pagination.Total)

	index := newStubIndex()
	posts, err := f.posts.ListPosts(ctx, repository.PostFilter{})
	require.NoError(t, err)
	for _, p := range posts {
		require.NoError(t, index.IndexPost(ctx, p))
	}
	esSvc := NewPostService(f.posts, f.interactions, index)
	res, err = esSvc.SearchPosts(ctx, alice, &dto.SearchQuery{Q: "anything"})
	require.NoError(t, err)
	assert.Len(t, res.Posts, 2)
	for _, p := range res.Posts {
		assert.Equal(t, model.PostStatusPublished, p.Status)
	}
}
