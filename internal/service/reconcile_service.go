package service

import (
	"Folio/internal/api/dto"
	"Folio/internal/pkg/metrics"
	"Folio/internal/repository"
	"context"
	log "log/slog"
)

// ReconcileService 以台账和点赞成员表为准校准冗余计数
type ReconcileService interface {
	ReconcileAll(ctx context.Context) (*dto.ReconcileReportDTO, error)
	ReconcilePost(ctx context.Context, postID uint64) (*dto.ReconcileReportDTO, error)
}

type reconcileServiceImpl struct {
	postRepo        repository.PostRepo
	interactionRepo repository.InteractionRepo
	commentRepo     repository.CommentRepo
}

func NewReconcileService(postRepo repository.PostRepo, interactionRepo repository.InteractionRepo, commentRepo repository.CommentRepo) ReconcileService {
	return &reconcileServiceImpl{
		postRepo:        postRepo,
		interactionRepo: interactionRepo,
		commentRepo:     commentRepo,
	}
}

func (s *reconcileServiceImpl) ReconcileAll(ctx context.Context) (*dto.ReconcileReportDTO, error) {
	return s.reconcile(ctx, nil)
}

func (s *reconcileServiceImpl) ReconcilePost(ctx context.Context, postID uint64) (*dto.ReconcileReportDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return s.reconcile(ctx, []uint64{postID})
}

// reconcile postIDs 为空表示全部帖子
func (s *reconcileServiceImpl) reconcile(ctx context.Context, postIDs []uint64) (*dto.ReconcileReportDTO, error) {
	report := &dto.ReconcileReportDTO{}

	counters, err := s.postRepo.GetPostCounters(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	views, err := s.interactionRepo.CountViewsByPost(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	likes, err := s.interactionRepo.CountLikesByPost(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.CountTopLevelComments(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	report.PostsScanned = len(counters)
	for _, c := range counters {
		want := repository.PostCounters{
			ID:            c.ID,
			Views:         views[c.ID],
			Likes:         likes[c.ID],
			CommentsCount: comments[c.ID],
		}
		if want == c {
			continue
		}
		if err = s.postRepo.SetPostCounters(ctx, want); err != nil {
			return nil, err
		}
		report.PostsFixed++
		log.InfoContext(ctx, "post counters corrected", "post_id", c.ID,
			"views", c.Views, "views_fixed", want.Views,
			"likes", c.Likes, "likes_fixed", want.Likes,
			"comments", c.CommentsCount, "comments_fixed", want.CommentsCount)
	}

	stored, err := s.commentRepo.GetCommentLikeCounts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		commentIDs := make([]uint64, 0, len(stored))
		for _, c := range stored {
			commentIDs = append(commentIDs, c.ID)
		}
		actual, err := s.commentRepo.CountCommentLikes(ctx, commentIDs)
		if err != nil {
			return nil, err
		}
		for _, c := range stored {
			if actual[c.ID] == c.Likes {
				continue
			}
			if err = s.commentRepo.SetCommentLikes(ctx, c.ID, actual[c.ID]); err != nil {
				return nil, err
			}
			report.CommentsFixed++
		}
	}

	metrics.RecordReconcile(report.PostsFixed, report.CommentsFixed)
	return report, nil
}
