package job

import (
	"Folio/internal/pkg/logger"
	"Folio/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// 单次校准允许的最长时间
const reconcileTimeout = 10 * time.Minute

// ReconcileJob 定时校准帖子与评论的冗余计数
type ReconcileJob struct {
	reconcileSvc service.ReconcileService
}

func NewReconcileJob(reconcileSvc service.ReconcileService) *ReconcileJob {
	return &ReconcileJob{
		reconcileSvc: reconcileSvc,
	}
}

func (s *ReconcileJob) Run() {
	traceID := "job-reconcile-" + uuid.NewString()
	ctx, cancel := context.WithTimeout(logger.WithTraceID(context.Background(), traceID), reconcileTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.reconcileSvc.ReconcileAll(ctx)
	if err != nil {
		log.ErrorContext(ctx, "reconcile counters failed", "err", err)
		return
	}
	log.InfoContext(ctx, "reconcile counters finished",
		"posts_scanned", report.PostsScanned,
		"posts_fixed", report.PostsFixed,
		"comments_fixed", report.CommentsFixed,
		"cost", time.Since(start).String(),
	)
}
