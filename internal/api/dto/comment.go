package dto

import (
	"time"
)

// CommentCreateDTO 创建评论请求，parentComment 为空表示一级评论
type CommentCreateDTO struct {
	Content       string  `json:"content"`
	ParentComment *uint64 `json:"parentComment"`
}

// CommentUpdateDTO 编辑评论请求
type CommentUpdateDTO struct {
	Content string `json:"content"`
}

// CommentListQuery 评论列表查询参数
type CommentListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	SortBy string `form:"sortBy"`
	Order  string `form:"order"`
}

// CommentDTO 评论详情
type CommentDTO struct {
	ID            uint64        `json:"id"`
	PostID        uint64        `json:"postId"`
	AuthorID      uint64        `json:"authorId"`
	AuthorName    string        `json:"authorName"`
	Content       string        `json:"content"`
	ParentComment *uint64       `json:"parentComment"`
	Likes         int64         `json:"likes"`
	LikedBy       []uint64      `json:"likedBy"`
	UserHasLiked  bool          `json:"userHasLiked"`
	Replies       []*CommentDTO `json:"replies,omitempty"`
	ReplyCount    int           `json:"replyCount"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// CommentPaginationDTO 评论分页信息，totalComments 只统计一级评论
type CommentPaginationDTO struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalComments int64 `json:"totalComments"`
	HasMore       bool  `json:"hasMore"`
}

// CommentListDTO 评论列表
type CommentListDTO struct {
	Comments   []*CommentDTO        `json:"comments"`
	Pagination CommentPaginationDTO `json:"pagination"`
}

// CommentLikeResultDTO 评论点赞切换结果
type CommentLikeResultDTO struct {
	Comment      *CommentDTO `json:"comment"`
	UserHasLiked bool        `json:"userHasLiked"`
}
