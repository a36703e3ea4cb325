package repository

import (
	"Folio/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// PostTotals 全站帖子汇总
type PostTotals struct {
	TotalPosts     int64
	PublishedPosts int64
	DraftPosts     int64
	TotalViews     int64
	TotalLikes     int64
}

// CategoryTotals 单个分类的汇总
type CategoryTotals struct {
	Category      model.Category
	Count         int64
	TotalViews    int64
	TotalLikes    int64
	TotalComments int64
}

// PublishedPostPoint 按月统计所需的最小帖子投影
type PublishedPostPoint struct {
	Date  time.Time
	Views int64
	Likes int64
}

type AnalyticsRepo interface {
	GetPostTotals(ctx context.Context) (*PostTotals, error)
	CountComments(ctx context.Context) (int64, error)
	GetCategoryTotals(ctx context.Context) ([]CategoryTotals, error)
	ListPublishedPoints(ctx context.Context) ([]PublishedPostPoint, error)
}

type AnalyticsRepoImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) AnalyticsRepo {
	return &AnalyticsRepoImpl{db: db}
}

func (s *AnalyticsRepoImpl) GetPostTotals(ctx context.Context) (*PostTotals, error) {
	totals := &PostTotals{}
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Select(
			"COUNT(*) AS total_posts, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS published_posts, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS draft_posts, "+
				"COALESCE(SUM(views), 0) AS total_views, "+
				"COALESCE(SUM(likes), 0) AS total_likes",
			model.PostStatusPublished, model.PostStatusDraft,
		).
		Scan(totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (s *AnalyticsRepoImpl) CountComments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Comment{}).Count(&count).Error
	return count, err
}

func (s *AnalyticsRepoImpl) GetCategoryTotals(ctx context.Context) ([]CategoryTotals, error) {
	totals := make([]CategoryTotals, 0)
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Select("category, COUNT(*) AS count, " +
			"COALESCE(SUM(views), 0) AS total_views, " +
			"COALESCE(SUM(likes), 0) AS total_likes, " +
			"COALESCE(SUM(comments_count), 0) AS total_comments").
		Group("category").
		Order("category ASC").
		Scan(&totals).Error
	return totals, err
}

// ListPublishedPoints 月份分组在服务层完成，避免依赖各数据库的日期函数
func (s *AnalyticsRepoImpl) ListPublishedPoints(ctx context.Context) ([]PublishedPostPoint, error) {
	points := make([]PublishedPostPoint, 0)
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Select("date", "views", "likes").
		Where("status = ?", model.PostStatusPublished).
		Order("date ASC").
		Scan(&points).Error
	return points, err
}
