package api_test

import (
	"Folio/internal/api/config"
	"Folio/internal/api/dto"
	"Folio/internal/model"
	"Folio/internal/pkg/database"
	"Folio/internal/wire"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

type testApp struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	admin  string
	alice  string
	bob    string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.NewGormDB(&config.DBConfig{
		Driver:  database.DriverSQLite,
		DSN:     fmt.Sprintf("file:api_%d?mode=memory&cache=shared", dbSeq.Add(1)),
		MaxOpen: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: "api-test-secret", Issuer: "folio", ExpirationHours: 1},
	}
	app, err := wire.BuildApplication(db, cfg, wire.Infra{})
	require.NoError(t, err)

	ta := &testApp{t: t, router: app.Router, db: db}
	_, err = app.Services.User.CreateAdmin(context.Background(), &dto.RegisterDTO{
		Username: "root", Email: "root@example.com", Password: "rootpass",
	})
	require.NoError(t, err)
	ta.admin = ta.login("root@example.com", "rootpass")
	ta.alice = ta.register("alice")
	ta.bob = ta.register("bob")
	return ta
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testApp) register(name string) string {
	a.t.Helper()
	email := name + "@example.com"
	w := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": name, "email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return a.login(email, "secret1")
}

func (a *testApp) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[dto.LoginDTO](a.t, w).Token
}

func (a *testApp) createPost(title, status string) *dto.PostDTO {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/posts", a.admin, map[string]any{
		"title":    title,
		"excerpt":  "excerpt",
		"author":   "root",
		"readTime": "3 min read",
		"category": "Technology",
		"image":    "cover.png",
		"tags":     "go, web",
		"status":   status,
		"content":  "body",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[*dto.PostDTO](a.t, w)
}

func TestPingAndAuthRequired(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = app.do(http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, decode[map[string]string](t, w), "error")

	w = app.do(http.MethodGet, "/api/posts", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x", "email": "bad", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "alice2@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = app.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/auth/me", app.alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[dto.UserDTO](t, w).Username)

	w = app.do(http.MethodPost, "/api/auth/logout", app.alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/auth/me", app.alice, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNonAdminCannotCreatePost(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/posts", app.alice, map[string]any{"title": "nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, app.db.Model(&model.Post{}).Count(&count).Error)
	assert.Zero(t, count)

	w = app.do(http.MethodGet, "/api/analytics/stats", app.alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestViewSequenceAcrossUsers(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost("hello", "published")
	path := fmt.Sprintf("/api/posts/%d/view", post.ID)

	w := app.do(http.MethodPatch, path, app.alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[dto.ViewResultDTO](t, w)
	assert.True(t, res.ViewIncremented)
	assert.EqualValues(t, 1, res.Post.Views)

	res = decode[dto.ViewResultDTO](t, app.do(http.MethodPatch, path, app.bob, nil))
	assert.EqualValues(t, 2, res.Post.Views)

	res = decode[dto.ViewResultDTO](t, app.do(http.MethodPatch, path, app.alice, nil))
	assert.False(t, res.ViewIncremented)
	assert.EqualValues(t, 2, res.Post.Views)

	w = app.do(http.MethodPatch, "/api/posts/9999/view", app.alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeToggleParity(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost("hello", "published")
	path := fmt.Sprintf("/api/posts/%d/like", post.ID)

	var last dto.LikeResultDTO
	for i := 0; i < 4; i++ {
		w := app.do(http.MethodPatch, path, app.alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		last = decode[dto.LikeResultDTO](t, w)
	}
	assert.False(t, last.UserHasLiked)
	assert.EqualValues(t, 0, last.Post.Likes)

	last = decode[dto.LikeResultDTO](t, app.do(http.MethodPatch, path, app.alice, nil))
	assert.True(t, last.UserHasLiked)
	assert.EqualValues(t, 1, last.Post.Likes)

	got := decode[dto.PostDTO](t, app.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), app.alice, nil))
	assert.True(t, got.UserHasLiked)
	got = decode[dto.PostDTO](t, app.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), app.bob, nil))
	assert.False(t, got.UserHasLiked)
}

func TestDraftPublishVisibility(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost("draft", "draft")

	list := decode[[]dto.PostDTO](t, app.do(http.MethodGet, "/api/posts?status=published", app.alice, nil))
	assert.Empty(t, list)

	w := app.do(http.MethodPatch, fmt.Sprintf("/api/posts/%d/status", post.ID), app.admin, map[string]string{"status": "published"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	list = decode[[]dto.PostDTO](t, app.do(http.MethodGet, "/api/posts?status=published", app.alice, nil))
	require.Len(t, list, 1)
	assert.Equal(t, []string{"go", "web"}, list[0].Tags)

	w = app.do(http.MethodPatch, fmt.Sprintf("/api/posts/%d/status", post.ID), app.admin, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentThreadRules(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost("hello", "published")
	commentsPath := fmt.Sprintf("/api/posts/%d/comments", post.ID)

	w := app.do(http.MethodPost, commentsPath, app.alice, map[string]any{"content": "top"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	top := decode[dto.CommentDTO](t, w)

	replyIDs := make([]uint64, 0, 2)
	for i := 0; i < 2; i++ {
		w = app.do(http.MethodPost, commentsPath, app.bob, map[string]any{"content": "reply", "parentComment": top.ID})
		require.Equal(t, http.StatusCreated, w.Code)
		replyIDs = append(replyIDs, decode[dto.CommentDTO](t, w).ID)
	}

	w = app.do(http.MethodPost, commentsPath, app.alice, map[string]any{"content": "deep", "parentComment": replyIDs[0]})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, commentsPath, app.alice, map[string]any{"content": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	like := decode[dto.CommentLikeResultDTO](t, app.do(http.MethodPatch, fmt.Sprintf("/api/comments/%d/like", replyIDs[1]), app.alice, nil))
	assert.True(t, like.UserHasLiked)
	assert.EqualValues(t, 1, like.Comment.Likes)
	assert.Len(t, like.Comment.LikedBy, 1)

	list := decode[dto.CommentListDTO](t, app.do(http.MethodGet, commentsPath, app.alice, nil))
	require.Len(t, list.Comments, 1)
	assert.Equal(t, 2, list.Comments[0].ReplyCount)
	assert.EqualValues(t, 1, list.Pagination.TotalComments)

	w = app.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", top.ID), app.bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", top.ID), app.alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var remaining int64
	require.NoError(t, app.db.Model(&model.Comment{}).Count(&remaining).Error)
	assert.Zero(t, remaining)

	got := decode[dto.PostDTO](t, app.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), app.alice, nil))
	assert.EqualValues(t, 0, got.CommentsCount)
}

func TestDeletePostCascades(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost("hello", "published")

	app.do(http.MethodPatch, fmt.Sprintf("/api/posts/%d/like", post.ID), app.alice, nil)
	w := app.do(http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), app.alice, map[string]any{"content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), app.alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), app.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), app.alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var comments, interactions int64
	require.NoError(t, app.db.Model(&model.Comment{}).Count(&comments).Error)
	require.NoError(t, app.db.Model(&model.Interaction{}).Count(&interactions).Error)
	assert.Zero(t, comments)
	assert.Zero(t, interactions)
}

func TestAnalyticsAndReconcile(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost("hello", "published")
	app.do(http.MethodPatch, fmt.Sprintf("/api/posts/%d/view", post.ID), app.alice, nil)

	require.NoError(t, app.db.Model(&model.Post{}).Where("id = ?", post.ID).UpdateColumn("views", 50).Error)

	w := app.do(http.MethodPost, "/api/analytics/reconcile", app.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[dto.ReconcileReportDTO](t, w)
	assert.Equal(t, 1, report.PostsFixed)

	stats := decode[dto.StatsDTO](t, app.do(http.MethodGet, "/api/analytics/stats", app.admin, nil))
	assert.EqualValues(t, 1, stats.TotalViews)
	assert.EqualValues(t, 1, stats.PublishedPosts)

	dashboard := decode[dto.DashboardDTO](t, app.do(http.MethodGet, "/api/analytics/dashboard", app.admin, nil))
	require.NotNil(t, dashboard.Stats)
	assert.Len(t, dashboard.Categories, 1)
	assert.Len(t, dashboard.Monthly, 1)
}

func TestNotificationsWithoutMongo(t *testing.T) {
	app := newTestApp(t)

	list := decode[dto.NotificationListDTO](t, app.do(http.MethodGet, "/api/notifications", app.alice, nil))
	assert.Empty(t, list.Notifications)

	unread := decode[dto.UnreadCountDTO](t, app.do(http.MethodGet, "/api/notifications/unread", app.alice, nil))
	assert.Zero(t, unread.Unread)

	w := app.do(http.MethodPatch, "/api/notifications/abc/read", app.alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchFallsBackToSQL(t *testing.T) {
	app := newTestApp(t)
	app.createPost("Learning Gin", "published")
	app.createPost("Learning Gin draft", "draft")

	res := decode[dto.SearchResultDTO](t, app.do(http.MethodGet, "/api/posts/search?q=gin", app.alice, nil))
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "Learning Gin", res.Posts[0].Title)

	w := app.do(http.MethodGet, "/api/posts/search", app.alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
