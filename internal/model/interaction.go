package model

import (
	"time"
)

// Interaction 用户与帖子的交互台账，(UserID, PostID) 唯一
type Interaction struct {
	UserID    uint64     `gorm:"primaryKey" json:"userId"`
	PostID    uint64     `gorm:"primaryKey;index:idx_interactions_post" json:"postId"`
	HasViewed bool       `gorm:"not null;default:false" json:"hasViewed"`
	ViewedAt  *time.Time `json:"viewedAt"`
	HasLiked  bool       `gorm:"not null;default:false" json:"hasLiked"`
	LikedAt   *time.Time `json:"likedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Interaction) TableName() string {
	return "post_interactions"
}
