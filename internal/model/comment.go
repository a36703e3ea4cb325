package model

import (
	"errors"
	"time"
)

var ErrNestedReply = errors.New("replies cannot be replied to")

type Comment struct {
	ID         uint64    `gorm:"primaryKey"`
	PostID     uint64    `gorm:"not null;index:idx_comments_post"`
	AuthorID   uint64    `gorm:"not null;index:idx_comments_author"`
	AuthorName string    `gorm:"type:varchar(50);not null"`
	ParentID   *uint64   `gorm:"index:idx_comments_parent"` // nil 表示一级评论
	Content    string    `gorm:"type:varchar(2000);not null"`
	Likes      int64     `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"index:idx_comments_created"`
	UpdatedAt  time.Time
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// Placement 评论在两级回复树中的位置，只有 TopLevel 和 Reply 两种取值
type Placement interface {
	parentID() *uint64
}

type TopLevel struct{}

func (TopLevel) parentID() *uint64 { return nil }

// Reply 只能由 ReplyTo 构造，因此无法指向另一条回复
type Reply struct {
	parent uint64
}

func (r Reply) parentID() *uint64 {
	id := r.parent
	return &id
}

func (r Reply) ParentID() uint64 {
	return r.parent
}

// ReplyTo 以一级评论为父节点构造 Reply
func ReplyTo(parent *Comment) (Reply, error) {
	if parent == nil || !parent.IsTopLevel() {
		return Reply{}, ErrNestedReply
	}
	return Reply{parent: parent.ID}, nil
}

func (c *Comment) Placement() Placement {
	if c.ParentID == nil {
		return TopLevel{}
	}
	return Reply{parent: *c.ParentID}
}

func (c *Comment) Place(p Placement) {
	c.ParentID = p.parentID()
}
