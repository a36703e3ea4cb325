package service

import (
	"Folio/internal/api/dto"
	"Folio/internal/model"
	"Folio/internal/pkg/consts"
	"Folio/internal/pkg/es"
	"Folio/internal/pkg/policy"
	"Folio/internal/pkg/util"
	"Folio/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

type PostService interface {
	ListPosts(ctx context.Context, session *policy.Session, query *dto.PostListQuery) ([]*dto.PostDTO, error)
	GetPost(ctx context.Context, session *policy.Session, id uint64) (*dto.PostDTO, error)
	SearchPosts(ctx context.Context, session *policy.Session, query *dto.SearchQuery) (*dto.SearchResultDTO, error)
	CreatePost(ctx context.Context, req *dto.PostUpsertDTO) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, id uint64, req *dto.PostUpsertDTO) (*dto.PostDTO, error)
	UpdatePostStatus(ctx context.Context, id uint64, status model.PostStatus) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, id uint64) error
}

type postServiceImpl struct {
	postRepo        repository.PostRepo
	interactionRepo repository.InteractionRepo
	index           es.PostIndex
}

// NewPostService index 为 nil 时搜索回退到数据库 LIKE 查询
func NewPostService(postRepo repository.PostRepo, interactionRepo repository.InteractionRepo, index es.PostIndex) PostService {
	return &postServiceImpl{
		postRepo:        postRepo,
		interactionRepo: interactionRepo,
		index:           index,
	}
}

func (s *postServiceImpl) ListPosts(ctx context.Context, session *policy.Session, query *dto.PostListQuery) ([]*dto.PostDTO, error) {
	filter := repository.PostFilter{
		SortBy: query.SortBy,
		Desc:   query.Order != "asc",
	}
	if query.Status != "" {
		filter.Status = model.PostStatus(query.Status)
		if !filter.Status.Valid() {
			return nil, ErrInvalidStatus
		}
	}
	if query.Category != "" {
		filter.Category = model.Category(query.Category)
		if !filter.Category.Valid() {
			return nil, ErrInvalidCategory
		}
	}
	if !repository.PostSortable(filter.SortBy) {
		filter.SortBy = "createdAt"
	}

	posts, err := s.postRepo.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return annotatePosts(ctx, s.interactionRepo, session.UserID, posts)
}

func (s *postServiceImpl) GetPost(ctx context.Context, session *policy.Session, id uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	rec, err := s.interactionRepo.GetInteraction(ctx, session.UserID, id)
	if err != nil {
		return nil, err
	}
	return toPostDTO(post, rec)
}

func (s *postServiceImpl) SearchPosts(ctx context.Context, session *policy.Session, query *dto.SearchQuery) (*dto.SearchResultDTO, error) {
	keyword := strings.TrimSpace(query.Q)
	if keyword == "" {
		return nil, ErrSearchQueryEmpty
	}
	page, limit, offset := util.Paginate(query.Page, query.Limit, defaultSearchLimit, maxSearchLimit)

	var (
		posts []*model.Post
		total int64
		err   error
	)
	if s.index != nil {
		var ids []uint64
		ids, total, err = s.index.Search(ctx, keyword, offset, limit)
		if err != nil {
			return nil, err
		}
		// 索引可能滞后，以数据库为准并再次过滤草稿
		found, err := s.postRepo.GetPostsByIds(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			if p.Status == model.PostStatusPublished {
				posts = append(posts, p)
			}
		}
	} else {
		posts, total, err = s.postRepo.SearchPosts(ctx, keyword, limit, offset)
		if err != nil {
			return nil, err
		}
	}

	annotated, err := annotatePosts(ctx, s.interactionRepo, session.UserID, posts)
	if err != nil {
		return nil, err
	}
	return &dto.SearchResultDTO{
		Posts: annotated,
		Pagination: dto.PageDTO{
			CurrentPage: page,
			TotalPages:  util.TotalPages(total, limit),
			Total:       total,
			HasMore:     int64(offset+limit) < total,
		},
	}, nil
}

func applyUpsert(post *model.Post, req *dto.PostUpsertDTO) {
	post.Title = strings.TrimSpace(req.Title)
	post.Excerpt = strings.TrimSpace(req.Excerpt)
	post.Author = strings.TrimSpace(req.Author)
	post.ReadTime = strings.TrimSpace(req.ReadTime)
	post.Category = req.Category
	post.Image = strings.TrimSpace(req.Image)
	post.Content = req.Content
	post.Tags = []string(req.Tags)
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if req.Date != nil && !req.Date.IsZero() {
		post.Date = req.Date.Time
	}
	if req.Status != "" {
		post.Status = req.Status
	}
}

func validateUpsert(req *dto.PostUpsertDTO) error {
	if !req.Category.Valid() {
		return ErrInvalidCategory
	}
	if req.Status != "" && !req.Status.Valid() {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(req.Title) == "" {
		return Validation("Title is required")
	}
	return nil
}

func (s *postServiceImpl) CreatePost(ctx context.Context, req *dto.PostUpsertDTO) (*dto.PostDTO, error) {
	if err := validateUpsert(req); err != nil {
		return nil, err
	}
	post := &model.Post{
		Date:   time.Now().UTC(),
		Status: model.PostStatusDraft,
	}
	applyUpsert(post, req)

	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.syncIndex(ctx, post)
	log.InfoContext(ctx, "post created", "post_id", post.ID, "status", post.Status)
	return toPostDTO(post, nil)
}

// UpdatePost 整体替换可编辑字段，未提交 status 时保留原状态
func (s *postServiceImpl) UpdatePost(ctx context.Context, id uint64, req *dto.PostUpsertDTO) (*dto.PostDTO, error) {
	if err := validateUpsert(req); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	applyUpsert(post, req)

	if err = s.postRepo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.reloadAndSync(ctx, id)
}

func (s *postServiceImpl) UpdatePostStatus(ctx context.Context, id uint64, status model.PostStatus) (*dto.PostDTO, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	found, err := s.postRepo.UpdatePostStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !found {
		// 状态未变化时 RowsAffected 也可能为 0
		if post, err := s.postRepo.GetPost(ctx, id); err != nil {
			return nil, err
		} else if post == nil {
			return nil, ErrPostNotFound
		}
	}
	return s.reloadAndSync(ctx, id)
}

func (s *postServiceImpl) DeletePost(ctx context.Context, id uint64) error {
	found, err := s.postRepo.DeletePost(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrPostNotFound
	}
	if s.index != nil {
		if err = s.index.DeletePost(ctx, id); err != nil {
			log.WarnContext(ctx, "remove post from search index failed", "post_id", id, "err", err)
		}
	}
	log.InfoContext(ctx, "post deleted", "post_id", id)
	return nil
}

func (s *postServiceImpl) reloadAndSync(ctx context.Context, id uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	s.syncIndex(ctx, post)
	return toPostDTO(post, nil)
}

// syncIndex 搜索索引尽力同步，失败不影响主流程
func (s *postServiceImpl) syncIndex(ctx context.Context, post *model.Post) {
	if s.index == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, consts.IndexTimeout)
	defer cancel()
	if err := s.index.IndexPost(ctx, post); err != nil {
		log.WarnContext(ctx, "sync post to search index failed", "post_id", post.ID, "err", err)
	}
}
