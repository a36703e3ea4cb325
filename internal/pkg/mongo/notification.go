package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationCommentReply NotificationType = "comment_reply"
	NotificationCommentLike  NotificationType = "comment_like"
)

// Notification 站内通知
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ReceiverID uint64             `bson:"receiver_id"`
	SenderID   uint64             `bson:"sender_id"`
	SenderName string             `bson:"sender_name"`
	Type       NotificationType   `bson:"type"`
	PostID     uint64             `bson:"post_id"`
	CommentID  uint64             `bson:"comment_id"`
	Content    string             `bson:"content"` // 评论片段
	IsRead     bool               `bson:"is_read"`
	CreatedAt  time.Time          `bson:"created_at"`
}
