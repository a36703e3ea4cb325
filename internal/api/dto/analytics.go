package dto

import (
	"Folio/internal/model"
)

// StatsDTO 全站统计
type StatsDTO struct {
	TotalPosts     int64 `json:"totalPosts"`
	PublishedPosts int64 `json:"publishedPosts"`
	DraftPosts     int64 `json:"draftPosts"`
	TotalComments  int64 `json:"totalComments"`
	TotalViews     int64 `json:"totalViews"`
	TotalLikes     int64 `json:"totalLikes"`
	AvgViews       int64 `json:"avgViews"`
}

// CategoryStatDTO 分类统计
type CategoryStatDTO struct {
	Category      model.Category `json:"category"`
	Count         int64          `json:"count"`
	TotalViews    int64          `json:"totalViews"`
	TotalLikes    int64          `json:"totalLikes"`
	TotalComments int64          `json:"totalComments"`
}

// MonthlyStatDTO 月度统计，仅包含已发布帖子
type MonthlyStatDTO struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Label      string `json:"label"`
	Count      int64  `json:"count"`
	TotalViews int64  `json:"totalViews"`
	TotalLikes int64  `json:"totalLikes"`
}

// DashboardDTO 管理后台首页
type DashboardDTO struct {
	Stats      *StatsDTO          `json:"stats"`
	Categories []*CategoryStatDTO `json:"categories"`
	Monthly    []*MonthlyStatDTO  `json:"monthly"`
}

// ReconcileReportDTO 计数校准结果
type ReconcileReportDTO struct {
	PostsScanned  int `json:"postsScanned"`
	PostsFixed    int `json:"postsFixed"`
	CommentsFixed int `json:"commentsFixed"`
}
