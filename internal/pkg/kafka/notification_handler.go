package kafka

import (
	"Folio/internal/model"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// EventSink 消费交互事件的业务方
type EventSink interface {
	HandleEvent(ctx context.Context, evt *model.InteractionEvent) error
}

// NotificationHandler 把评论回复与评论点赞事件转交给通知服务
type NotificationHandler struct {
	sink EventSink
}

func NewNotificationHandler(sink EventSink) *NotificationHandler {
	return &NotificationHandler{sink: sink}
}

func (s *NotificationHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer setup")
	return nil
}

func (s *NotificationHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer cleanup")
	return nil
}

func (s *NotificationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("notification consume claim", "topic", claim.Topic(), "partition", claim.Partition())
	if err := pullMessageBatch(session, claim, s.logic); err != nil {
		log.Error("notification process batch error", "err", err)
		return err
	}
	return nil
}

func (s *NotificationHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	evt, err := ToInteractionEvent(msg)
	if err != nil {
		// 无法解析的消息重试也无意义
		log.WarnContext(ctx, "skip malformed interaction event", "offset", msg.Offset, "err", err)
		return nil
	}
	switch evt.Type {
	case model.EventCommentCreated, model.EventCommentLiked:
		return s.sink.HandleEvent(ctx, evt)
	default:
		return nil
	}
}
