package dto

import (
	"time"
)

// NotificationDTO 站内通知
type NotificationDTO struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SenderID   uint64    `json:"senderId"`
	SenderName string    `json:"senderName"`
	PostID     uint64    `json:"postId"`
	CommentID  uint64    `json:"commentId"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NotificationListDTO 通知列表
type NotificationListDTO struct {
	Notifications []*NotificationDTO `json:"notifications"`
	Pagination    PageDTO            `json:"pagination"`
}

// UnreadCountDTO 未读数量
type UnreadCountDTO struct {
	Unread int64 `json:"unread"`
}

// PageQuery 通用分页参数
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
