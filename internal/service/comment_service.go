package service

import (
	"Folio/internal/api/dto"
	"Folio/internal/model"
	"Folio/internal/pkg/consts"
	"Folio/internal/pkg/kafka"
	"Folio/internal/pkg/metrics"
	"Folio/internal/pkg/policy"
	"Folio/internal/pkg/util"
	"Folio/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"unicode/utf8"
)

type CommentService interface {
	CreateComment(ctx context.Context, session *policy.Session, postID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	ListComments(ctx context.Context, session *policy.Session, postID uint64, query *dto.CommentListQuery) (*dto.CommentListDTO, error)
	UpdateComment(ctx context.Context, session *policy.Session, commentID uint64, req *dto.CommentUpdateDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, session *policy.Session, commentID uint64) error
	ToggleCommentLike(ctx context.Context, session *policy.Session, commentID uint64) (*dto.CommentLikeResultDTO, error)
}

type commentServiceImpl struct {
	postRepo    repository.PostRepo
	commentRepo repository.CommentRepo
	publisher   kafka.Publisher
}

func NewCommentService(postRepo repository.PostRepo, commentRepo repository.CommentRepo, publisher kafka.Publisher) CommentService {
	return &commentServiceImpl{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
	}
}

func checkContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", ErrCommentEmpty
	}
	if utf8.RuneCountInString(content) > consts.MaxCommentLength {
		return "", ErrCommentTooLong
	}
	return content, nil
}

func (s *commentServiceImpl) getPostCheck(ctx context.Context, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	return nil
}

func (s *commentServiceImpl) CreateComment(ctx context.Context, session *policy.Session, postID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	content, err := checkContent(req.Content)
	if err != nil {
		return nil, err
	}
	if err = s.getPostCheck(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:     postID,
		AuthorID:   session.UserID,
		AuthorName: session.Username,
		Content:    content,
	}

	var parent *model.Comment
	if req.ParentComment != nil {
		parent, err = s.commentRepo.GetComment(ctx, *req.ParentComment)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
		if parent.PostID != postID {
			return nil, ErrParentOtherPost
		}
		reply, err := model.ReplyTo(parent)
		if err != nil {
			return nil, ErrNestedReply
		}
		comment.Place(reply)
	}

	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	evt := &model.InteractionEvent{
		Type:      model.EventCommentCreated,
		ActorID:   session.UserID,
		ActorName: session.Username,
		PostID:    postID,
		CommentID: comment.ID,
		Snippet:   util.Snippet(content, consts.SnippetLength),
	}
	if parent != nil {
		evt.ParentCommentID = parent.ID
		evt.TargetUserID = parent.AuthorID
	}
	publish(ctx, s.publisher, evt)

	return toCommentDTO(comment, nil, session.UserID), nil
}

func toCommentDTO(c *model.Comment, likedBy []uint64, userID uint64) *dto.CommentDTO {
	if likedBy == nil {
		likedBy = []uint64{}
	}
	commentDTO := &dto.CommentDTO{
		ID:            c.ID,
		PostID:        c.PostID,
		AuthorID:      c.AuthorID,
		AuthorName:    c.AuthorName,
		Content:       c.Content,
		ParentComment: c.ParentID,
		Likes:         c.Likes,
		LikedBy:       likedBy,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	for _, id := range likedBy {
		if id == userID {
			commentDTO.UserHasLiked = true
			break
		}
	}
	return commentDTO
}

// ListComments 一级评论分页，每条附带全部回复
func (s *commentServiceImpl) ListComments(ctx context.Context, session *policy.Session, postID uint64, query *dto.CommentListQuery) (*dto.CommentListDTO, error) {
	if err := s.getPostCheck(ctx, postID); err != nil {
		return nil, err
	}
	page, limit, offset := util.Paginate(query.Page, query.Limit, consts.DefaultCommentLimit, consts.MaxCommentLimit)
	sortBy := query.SortBy
	if !repository.CommentSortable(sortBy) {
		sortBy = "createdAt"
	}

	topLevel, err := s.commentRepo.ListTopLevelComments(ctx, postID, sortBy, query.Order != "asc", limit, offset)
	if err != nil {
		return nil, err
	}
	totals, err := s.commentRepo.CountTopLevelComments(ctx, []uint64{postID})
	if err != nil {
		return nil, err
	}
	total := totals[postID]

	parentIDs := make([]uint64, 0, len(topLevel))
	for _, c := range topLevel {
		parentIDs = append(parentIDs, c.ID)
	}
	replies, err := s.commentRepo.ListReplies(ctx, parentIDs)
	if err != nil {
		return nil, err
	}

	allIDs := append([]uint64{}, parentIDs...)
	for _, r := range replies {
		allIDs = append(allIDs, r.ID)
	}
	likedBy, err := s.commentRepo.GetLikedBy(ctx, allIDs)
	if err != nil {
		return nil, err
	}

	repliesByParent := make(map[uint64][]*dto.CommentDTO, len(topLevel))
	for _, r := range replies {
		pid := *r.ParentID
		repliesByParent[pid] = append(repliesByParent[pid], toCommentDTO(r, likedBy[r.ID], session.UserID))
	}

	comments := make([]*dto.CommentDTO, 0, len(topLevel))
	for _, c := range topLevel {
		commentDTO := toCommentDTO(c, likedBy[c.ID], session.UserID)
		commentDTO.Replies = repliesByParent[c.ID]
		if commentDTO.Replies == nil {
			commentDTO.Replies = []*dto.CommentDTO{}
		}
		commentDTO.ReplyCount = len(commentDTO.Replies)
		comments = append(comments, commentDTO)
	}

	return &dto.CommentListDTO{
		Comments: comments,
		Pagination: dto.CommentPaginationDTO{
			CurrentPage:   page,
			TotalPages:    util.TotalPages(total, limit),
			TotalComments: total,
			HasMore:       int64(offset+len(topLevel)) < total,
		},
	}, nil
}

// getOwnedComment 读取评论并校验作者或管理员权限
func (s *commentServiceImpl) getOwnedComment(ctx context.Context, session *policy.Session, commentID uint64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if !policy.CanModify(session, comment.AuthorID) {
		return nil, ErrCommentForbidden
	}
	return comment, nil
}

func (s *commentServiceImpl) UpdateComment(ctx context.Context, session *policy.Session, commentID uint64, req *dto.CommentUpdateDTO) (*dto.CommentDTO, error) {
	content, err := checkContent(req.Content)
	if err != nil {
		return nil, err
	}
	if _, err = s.getOwnedComment(ctx, session, commentID); err != nil {
		return nil, err
	}
	if err = s.commentRepo.UpdateCommentContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.reload(ctx, session.UserID, commentID)
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, session *policy.Session, commentID uint64) error {
	comment, err := s.getOwnedComment(ctx, session, commentID)
	if err != nil {
		return err
	}
	removed, err := s.commentRepo.DeleteComment(ctx, comment)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "comment deleted", "comment_id", commentID, "post_id", comment.PostID, "removed", removed)

	evt := &model.InteractionEvent{
		Type:         model.EventCommentDeleted,
		ActorID:      session.UserID,
		ActorName:    session.Username,
		PostID:       comment.PostID,
		CommentID:    comment.ID,
		TargetUserID: comment.AuthorID,
	}
	if comment.ParentID != nil {
		evt.ParentCommentID = *comment.ParentID
	}
	publish(ctx, s.publisher, evt)
	return nil
}

// ToggleCommentLike 切换点赞成员关系，likes 始终按成员数重算
func (s *commentServiceImpl) ToggleCommentLike(ctx context.Context, session *policy.Session, commentID uint64) (*dto.CommentLikeResultDTO, error) {
	comment, err := s.commentRepo.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	liked, err := s.flipMembership(ctx, session.UserID, commentID)
	if err != nil {
		return nil, err
	}
	if err = s.commentRepo.SyncCommentLikes(ctx, commentID); err != nil {
		return nil, err
	}

	evtType := model.EventCommentUnliked
	outcome := "unlike"
	if liked {
		evtType = model.EventCommentLiked
		outcome = "like"
	}
	metrics.RecordInteraction("comment_like", outcome)
	publish(ctx, s.publisher, &model.InteractionEvent{
		Type:         evtType,
		ActorID:      session.UserID,
		ActorName:    session.Username,
		PostID:       comment.PostID,
		CommentID:    comment.ID,
		TargetUserID: comment.AuthorID,
		Snippet:      util.Snippet(comment.Content, consts.SnippetLength),
	})

	commentDTO, err := s.reload(ctx, session.UserID, commentID)
	if err != nil {
		return nil, err
	}
	return &dto.CommentLikeResultDTO{Comment: commentDTO, UserHasLiked: liked}, nil
}

// flipMembership 返回切换后是否处于点赞状态
func (s *commentServiceImpl) flipMembership(ctx context.Context, userID, commentID uint64) (bool, error) {
	exists, err := s.commentRepo.CheckCommentLikeExists(ctx, userID, commentID)
	if err != nil {
		return false, err
	}
	if exists {
		if _, err = s.commentRepo.DeleteCommentLike(ctx, userID, commentID); err != nil {
			return false, err
		}
		return false, nil
	}
	err = s.commentRepo.CreateCommentLike(ctx, &model.CommentLike{UserID: userID, CommentID: commentID})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return false, err
	}
	return true, nil
}

func (s *commentServiceImpl) reload(ctx context.Context, userID, commentID uint64) (*dto.CommentDTO, error) {
	comment, err := s.commentRepo.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	likedBy, err := s.commentRepo.GetLikedBy(ctx, []uint64{commentID})
	if err != nil {
		return nil, err
	}
	return toCommentDTO(comment, likedBy[commentID], userID), nil
}
