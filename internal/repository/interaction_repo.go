package repository

import (
	"Folio/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// PostTally 按帖子聚合的数量
type PostTally struct {
	PostID uint64
	Total  int64
}

type InteractionRepo interface {
	GetInteraction(ctx context.Context, userID, postID uint64) (*model.Interaction, error)
	CreateInteraction(ctx context.Context, rec *model.Interaction) error
	MarkViewed(ctx context.Context, userID, postID uint64, at time.Time) (bool, error)
	SetLiked(ctx context.Context, userID, postID uint64, from, to bool, at time.Time) (bool, error)
	GetInteractionsByPostIds(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]*model.Interaction, error)
	CountViewsByPost(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	CountLikesByPost(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
}

type InteractionRepoImpl struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepo {
	return &InteractionRepoImpl{db: db}
}

func (s *InteractionRepoImpl) GetInteraction(ctx context.Context, userID, postID uint64) (*model.Interaction, error) {
	rec := &model.Interaction{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// CreateInteraction 并发插入同一 (user, post) 时返回 ErrDuplicate
func (s *InteractionRepoImpl) CreateInteraction(ctx context.Context, rec *model.Interaction) error {
	return translate(s.db.WithContext(ctx).Create(rec).Error)
}

// MarkViewed 仅当 has_viewed 仍为 false 时更新，返回本次是否为首次浏览
func (s *InteractionRepoImpl) MarkViewed(ctx context.Context, userID, postID uint64, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("user_id = ? AND post_id = ? AND has_viewed = ?", userID, postID, false).
		Updates(map[string]any{
			"has_viewed": true,
			"viewed_at":  at,
		})
	return res.RowsAffected == 1, res.Error
}

// SetLiked 以读到的 from 为前提翻转点赞状态，返回 false 表示被并发请求抢先
func (s *InteractionRepoImpl) SetLiked(ctx context.Context, userID, postID uint64, from, to bool, at time.Time) (bool, error) {
	var likedAt *time.Time
	if to {
		likedAt = &at
	}
	res := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("user_id = ? AND post_id = ? AND has_liked = ?", userID, postID, from).
		Updates(map[string]any{
			"has_liked": to,
			"liked_at":  likedAt,
		})
	return res.RowsAffected == 1, res.Error
}

func (s *InteractionRepoImpl) GetInteractionsByPostIds(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]*model.Interaction, error) {
	result := make(map[uint64]*model.Interaction, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}
	var recs []*model.Interaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		result[r.PostID] = r
	}
	return result, nil
}

func (s *InteractionRepoImpl) CountViewsByPost(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	return s.countByPost(ctx, "has_viewed", postIDs)
}

func (s *InteractionRepoImpl) CountLikesByPost(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	return s.countByPost(ctx, "has_liked", postIDs)
}

func (s *InteractionRepoImpl) countByPost(ctx context.Context, flag string, postIDs []uint64) (map[uint64]int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Select("post_id, COUNT(*) AS total").
		Where(flag+" = ?", true).
		Group("post_id")
	if len(postIDs) > 0 {
		query = query.Where("post_id IN ?", postIDs)
	}
	var tallies []PostTally
	if err := query.Scan(&tallies).Error; err != nil {
		return nil, err
	}
	result := make(map[uint64]int64, len(tallies))
	for _, t := range tallies {
		result[t.PostID] = t.Total
	}
	return result, nil
}
