package service

import (
	"Folio/internal/api/dto"
	"Folio/internal/model"
	"Folio/internal/pkg/kafka"
	"Folio/internal/pkg/metrics"
	"Folio/internal/pkg/policy"
	"Folio/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/jinzhu/copier"
)

// maxLikeAttempts 点赞状态翻转被并发请求抢先时的最大重试次数
const maxLikeAttempts = 3

type InteractionService interface {
	RecordView(ctx context.Context, session *policy.Session, postID uint64) (*dto.ViewResultDTO, error)
	ToggleLike(ctx context.Context, session *policy.Session, postID uint64) (*dto.LikeResultDTO, error)
	Annotate(ctx context.Context, userID uint64, posts []*model.Post) ([]*dto.PostDTO, error)
}

type interactionServiceImpl struct {
	postRepo        repository.PostRepo
	interactionRepo repository.InteractionRepo
	publisher       kafka.Publisher
	now             func() time.Time
}

func NewInteractionService(postRepo repository.PostRepo, interactionRepo repository.InteractionRepo, publisher kafka.Publisher) InteractionService {
	return &interactionServiceImpl{
		postRepo:        postRepo,
		interactionRepo: interactionRepo,
		publisher:       publisher,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func toPostDTO(post *model.Post, rec *model.Interaction) (*dto.PostDTO, error) {
	postDTO := &dto.PostDTO{}
	if err := copier.Copy(postDTO, post); err != nil {
		return nil, err
	}
	if postDTO.Tags == nil {
		postDTO.Tags = []string{}
	}
	if rec != nil {
		postDTO.UserHasLiked = rec.HasLiked
		postDTO.UserHasViewed = rec.HasViewed
	}
	return postDTO, nil
}

// annotatePosts 批量查询交互记录并转换为 DTO
func annotatePosts(ctx context.Context, repo repository.InteractionRepo, userID uint64, posts []*model.Post) ([]*dto.PostDTO, error) {
	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	records, err := repo.GetInteractionsByPostIds(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		postDTO, err := toPostDTO(p, records[p.ID])
		if err != nil {
			return nil, err
		}
		result = append(result, postDTO)
	}
	return result, nil
}

func (s *interactionServiceImpl) Annotate(ctx context.Context, userID uint64, posts []*model.Post) ([]*dto.PostDTO, error) {
	return annotatePosts(ctx, s.interactionRepo, userID, posts)
}

func (s *interactionServiceImpl) getPostCheck(ctx context.Context, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	return nil
}

// RecordView 每个用户对每篇帖子只计一次浏览
func (s *interactionServiceImpl) RecordView(ctx context.Context, session *policy.Session, postID uint64) (*dto.ViewResultDTO, error) {
	if err := s.getPostCheck(ctx, postID); err != nil {
		return nil, err
	}

	incremented, err := s.markViewed(ctx, session.UserID, postID)
	if err != nil {
		return nil, err
	}
	if incremented {
		if err = s.postRepo.IncrementViews(ctx, postID); err != nil {
			return nil, err
		}
		metrics.RecordInteraction("view", "new")
		publish(ctx, s.publisher, &model.InteractionEvent{
			Type:      model.EventPostViewed,
			ActorID:   session.UserID,
			ActorName: session.Username,
			PostID:    postID,
		})
	} else {
		metrics.RecordInteraction("view", "repeat")
	}

	postDTO, err := s.reload(ctx, session.UserID, postID)
	if err != nil {
		return nil, err
	}
	return &dto.ViewResultDTO{Post: postDTO, ViewIncremented: incremented}, nil
}

func (s *interactionServiceImpl) markViewed(ctx context.Context, userID, postID uint64) (bool, error) {
	now := s.now()
	rec, err := s.interactionRepo.GetInteraction(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if rec == nil {
		err = s.interactionRepo.CreateInteraction(ctx, &model.Interaction{
			UserID:    userID,
			PostID:    postID,
			HasViewed: true,
			ViewedAt:  &now,
		})
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return false, err
		}
		// 并发请求已插入记录，改走条件更新
	} else if rec.HasViewed {
		return false, nil
	}
	return s.interactionRepo.MarkViewed(ctx, userID, postID, now)
}

// ToggleLike 翻转点赞状态，并在账本更新成功后调整帖子点赞数
func (s *interactionServiceImpl) ToggleLike(ctx context.Context, session *policy.Session, postID uint64) (*dto.LikeResultDTO, error) {
	if err := s.getPostCheck(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.flipLike(ctx, session.UserID, postID)
	if err != nil {
		return nil, err
	}

	var delta int64 = -1
	evtType := model.EventPostUnliked
	outcome := "unlike"
	if liked {
		delta = 1
		evtType = model.EventPostLiked
		outcome = "like"
	}
	if err = s.postRepo.ApplyLikeDelta(ctx, postID, delta); err != nil {
		return nil, err
	}
	metrics.RecordInteraction("post_like", outcome)
	publish(ctx, s.publisher, &model.InteractionEvent{
		Type:      evtType,
		ActorID:   session.UserID,
		ActorName: session.Username,
		PostID:    postID,
	})

	postDTO, err := s.reload(ctx, session.UserID, postID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResultDTO{Post: postDTO, LikeChange: delta, UserHasLiked: liked}, nil
}

// flipLike 返回翻转后的点赞状态
func (s *interactionServiceImpl) flipLike(ctx context.Context, userID, postID uint64) (bool, error) {
	for attempt := 0; attempt < maxLikeAttempts; attempt++ {
		now := s.now()
		rec, err := s.interactionRepo.GetInteraction(ctx, userID, postID)
		if err != nil {
			return false, err
		}
		if rec == nil {
			err = s.interactionRepo.CreateInteraction(ctx, &model.Interaction{
				UserID:   userID,
				PostID:   postID,
				HasLiked: true,
				LikedAt:  &now,
			})
			if err == nil {
				return true, nil
			}
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return false, err
		}

		target := !rec.HasLiked
		changed, err := s.interactionRepo.SetLiked(ctx, userID, postID, rec.HasLiked, target, now)
		if err != nil {
			return false, err
		}
		if changed {
			return target, nil
		}
	}
	metrics.RecordInteraction("post_like", "contended")
	return false, ErrLikeContended
}

func (s *interactionServiceImpl) reload(ctx context.Context, userID, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	rec, err := s.interactionRepo.GetInteraction(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	return toPostDTO(post, rec)
}
