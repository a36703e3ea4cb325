package model

import (
	"time"
)

type EventType string

const (
	EventPostViewed     EventType = "post_viewed"
	EventPostLiked      EventType = "post_liked"
	EventPostUnliked    EventType = "post_unliked"
	EventCommentCreated EventType = "comment_created"
	EventCommentDeleted EventType = "comment_deleted"
	EventCommentLiked   EventType = "comment_liked"
	EventCommentUnliked EventType = "comment_unliked"
)

// InteractionEvent 交互流水，在数据库变更成功之后发出
type InteractionEvent struct {
	Type            EventType `json:"type"`
	ActorID         uint64    `json:"actorId"`
	ActorName       string    `json:"actorName"`
	PostID          uint64    `json:"postId"`
	CommentID       uint64    `json:"commentId,omitempty"`
	ParentCommentID uint64    `json:"parentCommentId,omitempty"`
	TargetUserID    uint64    `json:"targetUserId,omitempty"`
	Snippet         string    `json:"snippet,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}
