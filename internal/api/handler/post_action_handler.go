package handler

import (
	"Folio/internal/api/dto"
	"Folio/internal/pkg/response"
	"Folio/internal/service"

	"github.com/gin-gonic/gin"
)

// PostActionHandler 浏览、点赞与评论
type PostActionHandler struct {
	interactionSvc service.InteractionService
	commentSvc     service.CommentService
}

func NewPostActionHandler(interactionSvc service.InteractionService, commentSvc service.CommentService) *PostActionHandler {
	return &PostActionHandler{
		interactionSvc: interactionSvc,
		commentSvc:     commentSvc,
	}
}

func (s *PostActionHandler) ViewPost(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := s.interactionSvc.RecordView(c.Request.Context(), sess, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostActionHandler) LikePost(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := s.interactionSvc.ToggleLike(c.Request.Context(), sess, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostActionHandler) GetComments(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var query dto.CommentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}
	result, err := s.commentSvc.ListComments(c.Request.Context(), sess, postID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostActionHandler) CreateComment(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	comment, err := s.commentSvc.CreateComment(c.Request.Context(), sess, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

func (s *PostActionHandler) UpdateComment(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CommentUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	comment, err := s.commentSvc.UpdateComment(c.Request.Context(), sess, commentID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *PostActionHandler) DeleteComment(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.commentSvc.DeleteComment(c.Request.Context(), sess, commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Comment deleted successfully")
}

func (s *PostActionHandler) LikeComment(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := s.commentSvc.ToggleCommentLike(c.Request.Context(), sess, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
