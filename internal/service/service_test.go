package service

import (
	"Folio/internal/api/config"
	"Folio/internal/model"
	"Folio/internal/pkg/database"
	"Folio/internal/pkg/policy"
	"Folio/internal/repository"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDB(&config.DBConfig{
		Driver:  database.DriverSQLite,
		DSN:     fmt.Sprintf("file:service_%d?mode=memory&cache=shared", dbSeq.Add(1)),
		MaxOpen: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []*model.InteractionEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt *model.InteractionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) ofType(t model.EventType) []*model.InteractionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*model.InteractionEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	db           *gorm.DB
	posts        repository.PostRepo
	interactions repository.InteractionRepo
	comments     repository.CommentRepo
	publisher    *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:           db,
		posts:        repository.NewPostRepo(db),
		interactions: repository.NewInteractionRepo(db),
		comments:     repository.NewCommentRepo(db),
		publisher:    &recordingPublisher{},
	}
}

func (f *fixture) seedPost(t *testing.T, title string, status model.PostStatus) *model.Post {
	t.Helper()
	p := &model.Post{
		Title:    title,
		Excerpt:  "excerpt of " + title,
		Author:   "admin",
		Date:     time.Now().UTC(),
		ReadTime: "5 min read",
		Category: model.CategoryDevelopment,
		Image:    "cover.png",
		Tags:     []string{"go"},
		Status:   status,
		Content:  "content of " + title,
	}
	require.NoError(t, f.posts.CreatePost(context.Background(), p))
	return p
}

func session(id uint64, name string, role model.Role) *policy.Session {
	return &policy.Session{
		UserID:    id,
		Username:  name,
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}
