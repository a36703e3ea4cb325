package repository

import (
	"Folio/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// PostFilter 帖子列表筛选条件，零值字段不参与过滤
type PostFilter struct {
	Status   model.PostStatus
	Category model.Category
	SortBy   string
	Desc     bool
}

// postSortColumns 允许排序的字段
var postSortColumns = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"date":          "date",
	"views":         "views",
	"likes":         "likes",
	"commentsCount": "comments_count",
	"title":         "title",
}

// PostSortable 判断排序字段是否合法
func PostSortable(sortBy string) bool {
	_, ok := postSortColumns[sortBy]
	return ok
}

// PostCounters 帖子的三个冗余计数
type PostCounters struct {
	ID            uint64
	Views         int64
	Likes         int64
	CommentsCount int64
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	UpdatePost(ctx context.Context, post *model.Post) error
	UpdatePostStatus(ctx context.Context, id uint64, status model.PostStatus) (bool, error)
	DeletePost(ctx context.Context, id uint64) (bool, error)
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostsByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]*model.Post, error)
	SearchPosts(ctx context.Context, keyword string, limit, offset int) ([]*model.Post, int64, error)

	IncrementViews(ctx context.Context, id uint64) error
	ApplyLikeDelta(ctx context.Context, id uint64, delta int64) error
	GetPostCounters(ctx context.Context, ids []uint64) ([]PostCounters, error)
	SetPostCounters(ctx context.Context, c PostCounters) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// UpdatePost 只更新可编辑字段，计数字段不受影响
func (s *PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Model(post).
		Select("title", "excerpt", "author", "date", "read_time", "category", "image", "tags", "status", "content").
		Updates(post).Error
}

func (s *PostRepoImpl) UpdatePostStatus(ctx context.Context, id uint64, status model.PostStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}

// DeletePost 在一个事务内删除帖子及其全部评论、评论点赞与交互记录
func (s *PostRepoImpl) DeletePost(ctx context.Context, id uint64) (bool, error) {
	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint64
		if err := tx.Model(&model.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&model.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Interaction{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	return found, err
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByIds 结果顺序与 ids 一致，不存在的 id 被跳过
func (s *PostRepoImpl) GetPostsByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}
	var posts []*model.Post
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]*model.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (s *PostRepoImpl) ListPosts(ctx context.Context, filter PostFilter) ([]*model.Post, error) {
	query := s.db.WithContext(ctx).Model(&model.Post{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	column, ok := postSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := " ASC"
	if filter.Desc {
		direction = " DESC"
	}

	posts := make([]*model.Post, 0)
	err := query.Order(column + direction).Order("id" + direction).Find(&posts).Error
	return posts, err
}

// SearchPosts 未启用 Elasticsearch 时的回退实现，只搜索已发布帖子
func (s *PostRepoImpl) SearchPosts(ctx context.Context, keyword string, limit, offset int) ([]*model.Post, int64, error) {
	pattern := "%" + keyword + "%"
	query := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("status = ?", model.PostStatusPublished).
		Where("title LIKE ? OR excerpt LIKE ? OR content LIKE ?", pattern, pattern, pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	posts := make([]*model.Post, 0)
	err := query.Order("date DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, total, err
}

// 计数更新不刷新 updated_at
func (s *PostRepoImpl) IncrementViews(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// ApplyLikeDelta 在 UPDATE 语句内完成下限为 0 的截断
func (s *PostRepoImpl) ApplyLikeDelta(ctx context.Context, id uint64, delta int64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("CASE WHEN likes + ? < 0 THEN 0 ELSE likes + ? END", delta, delta)).Error
}

// GetPostCounters ids 为空时返回全部帖子
func (s *PostRepoImpl) GetPostCounters(ctx context.Context, ids []uint64) ([]PostCounters, error) {
	query := s.db.WithContext(ctx).Model(&model.Post{}).
		Select("id", "views", "likes", "comments_count").
		Order("id")
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	var counters []PostCounters
	err := query.Scan(&counters).Error
	return counters, err
}

func (s *PostRepoImpl) SetPostCounters(ctx context.Context, c PostCounters) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", c.ID).
		UpdateColumns(map[string]any{
			"views":          c.Views,
			"likes":          c.Likes,
			"comments_count": c.CommentsCount,
		}).Error
}
