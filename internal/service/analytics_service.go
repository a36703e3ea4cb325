package service

import (
	"Folio/internal/api/dto"
	"Folio/internal/repository"
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

type AnalyticsService interface {
	Stats(ctx context.Context) (*dto.StatsDTO, error)
	ByCategory(ctx context.Context) ([]*dto.CategoryStatDTO, error)
	ByMonth(ctx context.Context) ([]*dto.MonthlyStatDTO, error)
	Dashboard(ctx context.Context) (*dto.DashboardDTO, error)
}

type analyticsServiceImpl struct {
	analyticsRepo repository.AnalyticsRepo
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepo) AnalyticsService {
	return &analyticsServiceImpl{analyticsRepo: analyticsRepo}
}

func (s *analyticsServiceImpl) Stats(ctx context.Context) (*dto.StatsDTO, error) {
	totals, err := s.analyticsRepo.GetPostTotals(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := s.analyticsRepo.CountComments(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.StatsDTO{
		TotalPosts:     totals.TotalPosts,
		PublishedPosts: totals.PublishedPosts,
		DraftPosts:     totals.DraftPosts,
		TotalComments:  comments,
		TotalViews:     totals.TotalViews,
		TotalLikes:     totals.TotalLikes,
	}
	if totals.TotalPosts > 0 {
		stats.AvgViews = int64(math.Round(float64(totals.TotalViews) / float64(totals.TotalPosts)))
	}
	return stats, nil
}

func (s *analyticsServiceImpl) ByCategory(ctx context.Context) ([]*dto.CategoryStatDTO, error) {
	totals, err := s.analyticsRepo.GetCategoryTotals(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.CategoryStatDTO, 0, len(totals))
	for _, t := range totals {
		result = append(result, &dto.CategoryStatDTO{
			Category:      t.Category,
			Count:         t.Count,
			TotalViews:    t.TotalViews,
			TotalLikes:    t.TotalLikes,
			TotalComments: t.TotalComments,
		})
	}
	return result, nil
}

// ByMonth 已按 date 升序读取，相邻同月的帖子合并为一组
func (s *analyticsServiceImpl) ByMonth(ctx context.Context) ([]*dto.MonthlyStatDTO, error) {
	points, err := s.analyticsRepo.ListPublishedPoints(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.MonthlyStatDTO, 0)
	var current *dto.MonthlyStatDTO
	for _, p := range points {
		date := p.Date.UTC()
		year, month := date.Year(), int(date.Month())
		if current == nil || current.Year != year || current.Month != month {
			current = &dto.MonthlyStatDTO{
				Year:  year,
				Month: month,
				Label: fmt.Sprintf("%04d-%02d", year, month),
			}
			result = append(result, current)
		}
		current.Count++
		current.TotalViews += p.Views
		current.TotalLikes += p.Likes
	}
	return result, nil
}

func (s *analyticsServiceImpl) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	dashboard := &dto.DashboardDTO{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Stats(gCtx)
		dashboard.Stats = stats
		return err
	})
	g.Go(func() error {
		categories, err := s.ByCategory(gCtx)
		dashboard.Categories = categories
		return err
	})
	g.Go(func() error {
		monthly, err := s.ByMonth(gCtx)
		dashboard.Monthly = monthly
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}
