package service

import (
	"Folio/internal/api/dto"
	"Folio/internal/model"
	"Folio/internal/pkg/mongo"
	"Folio/internal/pkg/policy"
	"Folio/internal/pkg/util"
	"context"
	"errors"
	"time"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

type NotificationService interface {
	ListNotifications(ctx context.Context, session *policy.Session, query *dto.PageQuery) (*dto.NotificationListDTO, error)
	UnreadCount(ctx context.Context, session *policy.Session) (*dto.UnreadCountDTO, error)
	MarkRead(ctx context.Context, session *policy.Session, id string) error
	MarkAllRead(ctx context.Context, session *policy.Session) (int64, error)
	// HandleEvent 消费评论事件生成通知
	HandleEvent(ctx context.Context, evt *model.InteractionEvent) error
}

type notificationServiceImpl struct {
	notificationRepo mongo.NotificationRepo
}

func NewNotificationService(notificationRepo mongo.NotificationRepo) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *notificationServiceImpl) ListNotifications(ctx context.Context, session *policy.Session, query *dto.PageQuery) (*dto.NotificationListDTO, error) {
	page, limit, offset := util.Paginate(query.Page, query.Limit, defaultNotificationLimit, maxNotificationLimit)
	list, err := s.notificationRepo.GetNotificationList(ctx, session.UserID, int64(limit), int64(offset))
	if err != nil {
		return nil, err
	}
	total, err := s.notificationRepo.CountNotifications(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		result = append(result, &dto.NotificationDTO{
			ID:         n.ID.Hex(),
			Type:       string(n.Type),
			SenderID:   n.SenderID,
			SenderName: n.SenderName,
			PostID:     n.PostID,
			CommentID:  n.CommentID,
			Content:    n.Content,
			IsRead:     n.IsRead,
			CreatedAt:  n.CreatedAt,
		})
	}
	return &dto.NotificationListDTO{
		Notifications: result,
		Pagination: dto.PageDTO{
			CurrentPage: page,
			TotalPages:  util.TotalPages(total, limit),
			Total:       total,
			HasMore:     int64(offset+len(list)) < total,
		},
	}, nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, session *policy.Session) (*dto.UnreadCountDTO, error) {
	count, err := s.notificationRepo.GetUnreadCount(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountDTO{Unread: count}, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, session *policy.Session, id string) error {
	err := s.notificationRepo.MarkAsRead(ctx, session.UserID, id)
	if errors.Is(err, mongo.ErrNotificationNotFound) {
		return ErrNotificationMissing
	}
	return err
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, session *policy.Session) (int64, error) {
	return s.notificationRepo.MarkAllAsRead(ctx, session.UserID)
}

func (s *notificationServiceImpl) HandleEvent(ctx context.Context, evt *model.InteractionEvent) error {
	var notificationType mongo.NotificationType
	switch evt.Type {
	case model.EventCommentCreated:
		// 一级评论没有接收者
		if evt.ParentCommentID == 0 {
			return nil
		}
		notificationType = mongo.NotificationCommentReply
	case model.EventCommentLiked:
		notificationType = mongo.NotificationCommentLike
	default:
		return nil
	}
	if evt.TargetUserID == 0 || evt.TargetUserID == evt.ActorID {
		return nil
	}

	createdAt := evt.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return s.notificationRepo.CreateNotification(ctx, &mongo.Notification{
		ReceiverID: evt.TargetUserID,
		SenderID:   evt.ActorID,
		SenderName: evt.ActorName,
		Type:       notificationType,
		PostID:     evt.PostID,
		CommentID:  evt.CommentID,
		Content:    evt.Snippet,
		CreatedAt:  createdAt,
	})
}
