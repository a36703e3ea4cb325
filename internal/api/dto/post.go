package dto

import (
	"Folio/internal/model"
	"Folio/internal/pkg/util"
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// TagList 兼容 JSON 数组与逗号分隔字符串两种写法
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = TagList{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*t = util.SplitTags(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = util.CleanTags(list)
	return nil
}

// PostDate 接受 RFC3339 或 YYYY-MM-DD
type PostDate struct {
	time.Time
}

var errPostDate = errors.New("date must be RFC3339 or YYYY-MM-DD")

func (d *PostDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errPostDate
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			d.Time = parsed.UTC()
			return nil
		}
	}
	return errPostDate
}

// PostUpsertDTO 创建与整体更新帖子共用
type PostUpsertDTO struct {
	Title    string           `json:"title" binding:"required,max=255"`
	Excerpt  string           `json:"excerpt" binding:"required,max=1000"`
	Author   string           `json:"author" binding:"required,max=100"`
	Date     *PostDate        `json:"date"`
	ReadTime string           `json:"readTime" binding:"required,max=50"`
	Category model.Category   `json:"category" binding:"required,oneof=Technology Design Development"`
	Image    string           `json:"image" binding:"required,max=1024"`
	Tags     TagList          `json:"tags"`
	Status   model.PostStatus `json:"status" binding:"omitempty,oneof=draft published"`
	Content  string           `json:"content"`
}

// PostStatusDTO 修改发布状态
type PostStatusDTO struct {
	Status model.PostStatus `json:"status"`
}

// PostListQuery 帖子列表查询参数
type PostListQuery struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	SortBy   string `form:"sortBy"`
	Order    string `form:"order"`
}

// SearchQuery 搜索参数
type SearchQuery struct {
	Q     string `form:"q"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

// PostDTO 帖子详情，附带当前用户的交互状态
type PostDTO struct {
	ID            uint64           `json:"id"`
	Title         string           `json:"title"`
	Excerpt       string           `json:"excerpt"`
	Author        string           `json:"author"`
	Date          time.Time        `json:"date"`
	ReadTime      string           `json:"readTime"`
	Category      model.Category   `json:"category"`
	Image         string           `json:"image"`
	Tags          []string         `json:"tags"`
	Status        model.PostStatus `json:"status"`
	Content       string           `json:"content"`
	Views         int64            `json:"views"`
	Likes         int64            `json:"likes"`
	CommentsCount int64            `json:"commentsCount"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	UserHasLiked  bool             `json:"userHasLiked"`
	UserHasViewed bool             `json:"userHasViewed"`
}

// ViewResultDTO 浏览结果
type ViewResultDTO struct {
	Post            *PostDTO `json:"post"`
	ViewIncremented bool     `json:"viewIncremented"`
}

// LikeResultDTO 点赞切换结果
type LikeResultDTO struct {
	Post         *PostDTO `json:"post"`
	LikeChange   int64    `json:"likeChange"`
	UserHasLiked bool     `json:"userHasLiked"`
}

// PageDTO 通用分页信息
type PageDTO struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	HasMore     bool  `json:"hasMore"`
}

// SearchResultDTO 搜索结果
type SearchResultDTO struct {
	Posts      []*PostDTO `json:"posts"`
	Pagination PageDTO    `json:"pagination"`
}
