package service

import (
	"Folio/internal/model"
	"Folio/internal/pkg/kafka"
	"Folio/internal/pkg/metrics"
	"context"
	log "log/slog"
	"time"
)

// publish 在数据库变更成功后发送事件，失败只记录日志
func publish(ctx context.Context, p kafka.Publisher, evt *model.InteractionEvent) {
	if p == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(ctx, evt); err != nil {
		metrics.RecordPublishFailure()
		log.WarnContext(ctx, "publish interaction event failed", "type", evt.Type, "post_id", evt.PostID, "err", err)
	}
}
