package repository

import (
	"Folio/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// commentSortColumns 一级评论允许的排序字段
var commentSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"likes":     "likes",
}

// CommentSortable 判断排序字段是否合法
func CommentSortable(sortBy string) bool {
	_, ok := commentSortColumns[sortBy]
	return ok
}

// CommentTally 按评论聚合的数量
type CommentTally struct {
	CommentID uint64
	Total     int64
}

// CommentLikeCount 评论当前存储的点赞数
type CommentLikeCount struct {
	ID    uint64
	Likes int64
}

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id uint64) (*model.Comment, error)
	UpdateCommentContent(ctx context.Context, id uint64, content string) error
	DeleteComment(ctx context.Context, comment *model.Comment) (int64, error)

	ListTopLevelComments(ctx context.Context, postID uint64, sortBy string, desc bool, limit, offset int) ([]*model.Comment, error)
	CountTopLevelComments(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	ListReplies(ctx context.Context, parentIDs []uint64) ([]*model.Comment, error)

	CheckCommentLikeExists(ctx context.Context, userID, commentID uint64) (bool, error)
	CreateCommentLike(ctx context.Context, cl *model.CommentLike) error
	DeleteCommentLike(ctx context.Context, userID, commentID uint64) (bool, error)
	SyncCommentLikes(ctx context.Context, commentID uint64) error
	GetLikedBy(ctx context.Context, commentIDs []uint64) (map[uint64][]uint64, error)

	GetCommentLikeCounts(ctx context.Context, postIDs []uint64) ([]CommentLikeCount, error)
	CountCommentLikes(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error)
	SetCommentLikes(ctx context.Context, commentID uint64, likes int64) error
}

type CommentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &CommentRepoImpl{db: db}
}

// CreateComment 写入评论，一级评论同时在事务内递增帖子的 comments_count
func (s *CommentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if !comment.IsTopLevel() {
			return nil
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error
	})
}

func (s *CommentRepoImpl) GetComment(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (s *CommentRepoImpl) UpdateCommentContent(ctx context.Context, id uint64, content string) error {
	return s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("content", content).Error
}

// DeleteComment 删除评论；一级评论连同全部回复及其点赞一起删除，并将帖子 comments_count 减 1
// 返回删除的评论条数
func (s *CommentRepoImpl) DeleteComment(ctx context.Context, comment *model.Comment) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uint64{comment.ID}
		if comment.IsTopLevel() {
			var replyIDs []uint64
			if err := tx.Model(&model.Comment{}).Where("parent_id = ?", comment.ID).Pluck("id", &replyIDs).Error; err != nil {
				return err
			}
			ids = append(ids, replyIDs...)
		}

		if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&model.Comment{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		if !comment.IsTopLevel() {
			return nil
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("CASE WHEN comments_count > 0 THEN comments_count - 1 ELSE 0 END")).Error
	})
	return removed, err
}

func (s *CommentRepoImpl) ListTopLevelComments(ctx context.Context, postID uint64, sortBy string, desc bool, limit, offset int) ([]*model.Comment, error) {
	column, ok := commentSortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := " ASC"
	if desc {
		direction = " DESC"
	}

	comments := make([]*model.Comment, 0)
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order(column + direction).
		Order("id" + direction).
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// CountTopLevelComments 统计各帖子的一级评论数，postIDs 为空时统计全部
func (s *CommentRepoImpl) CountTopLevelComments(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("parent_id IS NULL").
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

// ListReplies 按创建时间升序返回这些一级评论下的全部回复
func (s *CommentRepoImpl) ListReplies(ctx context.Context, parentIDs []uint64) ([]*model.Comment, error) {
	replies := make([]*model.Comment, 0)
	if len(parentIDs) == 0 {
		return replies, nil
	}
	err := s.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").
		Order("id ASC").
		Find(&replies).Error
	return replies, err
}

func (s *CommentRepoImpl) CheckCommentLikeExists(ctx context.Context, userID, commentID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	return count > 0, err
}

func (s *CommentRepoImpl) CreateCommentLike(ctx context.Context, cl *model.CommentLike) error {
	return translate(s.db.WithContext(ctx).Create(cl).Error)
}

func (s *CommentRepoImpl) DeleteCommentLike(ctx context.Context, userID, commentID uint64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&model.CommentLike{})
	return res.RowsAffected > 0, res.Error
}

// SyncCommentLikes 用点赞成员表的行数覆盖 likes
func (s *CommentRepoImpl) SyncCommentLikes(ctx context.Context, commentID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("likes", gorm.Expr("(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = ?)", commentID)).Error
}

// GetLikedBy 返回每条评论的点赞用户，按点赞时间排序
func (s *CommentRepoImpl) GetLikedBy(ctx context.Context, commentIDs []uint64) (map[uint64][]uint64, error) {
	result := make(map[uint64][]uint64, len(commentIDs))
	if len(commentIDs) == 0 {
		return result, nil
	}
	var likes []*model.CommentLike
	err := s.db.WithContext(ctx).
		Where("comment_id IN ?", commentIDs).
		Order("created_at ASC").
		Order("user_id ASC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		result[l.CommentID] = append(result[l.CommentID], l.UserID)
	}
	return result, nil
}

// GetCommentLikeCounts postIDs 为空时返回全部评论
func (s *CommentRepoImpl) GetCommentLikeCounts(ctx context.Context, postIDs []uint64) ([]CommentLikeCount, error) {
	query := s.db.WithContext(ctx).Model(&model.Comment{}).Select("id", "likes").Order("id")
	if len(postIDs) > 0 {
		query = query.Where("post_id IN ?", postIDs)
	}
	var counts []CommentLikeCount
	err := query.Scan(&counts).Error
	return counts, err
}

// CountCommentLikes commentIDs 为空时统计全部
func (s *CommentRepoImpl) CountCommentLikes(ctx context.Context, commentIDs []uint64) (map[uint64]int64, error) {
	query := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Select("comment_id, COUNT(*) AS total").
		Group("comment_id")
	if len(commentIDs) > 0 {
		query = query.Where("comment_id IN ?", commentIDs)
	}
	var tallies []CommentTally
	if err := query.Scan(&tallies).Error; err != nil {
		return nil, err
	}
	result := make(map[uint64]int64, len(tallies))
	for _, t := range tallies {
		result[t.CommentID] = t.Total
	}
	return result, nil
}

func (s *CommentRepoImpl) SetCommentLikes(ctx context.Context, commentID uint64, likes int64) error {
	return s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("likes", likes).Error
}
