package model

import (
	"time"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

type Category string

const (
	CategoryTechnology  Category = "Technology"
	CategoryDesign      Category = "Design"
	CategoryDevelopment Category = "Development"
)

// Categories 全部合法分类，顺序即统计输出顺序
var Categories = []Category{CategoryDesign, CategoryDevelopment, CategoryTechnology}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Post struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Excerpt       string     `gorm:"type:varchar(1000);not null" json:"excerpt"`
	Author        string     `gorm:"type:varchar(100);not null" json:"author"`
	Date          time.Time  `gorm:"not null;index:idx_posts_date" json:"date"`
	ReadTime      string     `gorm:"type:varchar(50);not null" json:"readTime"`
	Category      Category   `gorm:"type:varchar(30);not null;index:idx_posts_category" json:"category"`
	Image         string     `gorm:"type:varchar(1024);not null" json:"image"`
	Tags          []string   `gorm:"type:text;serializer:json" json:"tags"`
	Status        PostStatus `gorm:"type:varchar(20);not null;default:draft;index:idx_posts_status" json:"status"`
	Content       string     `gorm:"type:text" json:"content"`
	Views         int64      `gorm:"not null;default:0" json:"views"`
	Likes         int64      `gorm:"not null;default:0" json:"likes"`
	CommentsCount int64      `gorm:"not null;default:0" json:"commentsCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}
