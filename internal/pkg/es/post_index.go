package es

import (
	"Folio/internal/model"
	"Folio/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
)

// MaxSearchDepth 超过该深度的分页直接返回空
const MaxSearchDepth = 1000

// PostIndex 帖子全文检索
type PostIndex interface {
	EnsureIndex(ctx context.Context) error
	IndexPost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id uint64) error
	Search(ctx context.Context, keyword string, from, size int) ([]uint64, int64, error)
}

type PostIndexImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewPostIndex(client *elasticsearch.TypedClient, index string) PostIndex {
	return &PostIndexImpl{client: client, index: index}
}

// EnsureIndex 索引不存在时按映射创建
func (s *PostIndexImpl) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.index).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = s.client.Indices.Create(s.index).
		Mappings(&types.TypeMapping{
			Properties: map[string]types.Property{
				"id":         types.NewLongNumberProperty(),
				"title":      types.NewTextProperty(),
				"excerpt":    types.NewTextProperty(),
				"content":    types.NewTextProperty(),
				"author":     types.NewKeywordProperty(),
				"category":   types.NewKeywordProperty(),
				"tags":       types.NewKeywordProperty(),
				"status":     types.NewKeywordProperty(),
				"date":       types.NewDateProperty(),
				"updated_at": types.NewDateProperty(),
			},
		}).
		Do(ctx)
	return err
}

// IndexPost 以 updated_at 作为外部版本号，乱序到达的旧版本会被丢弃
func (s *PostIndexImpl) IndexPost(ctx context.Context, post *model.Post) error {
	docID := strconv.FormatUint(post.ID, 10)

	_, err := s.client.Index(s.index).
		Id(docID).
		Document(NewPostDoc(post)).
		Version(strconv.FormatInt(post.UpdatedAt.UnixMilli(), 10)).
		VersionType(versiontype.External).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return err
	}
	return nil
}

func (s *PostIndexImpl) DeletePost(ctx context.Context, id uint64) error {
	_, err := s.client.Delete(s.index, strconv.FormatUint(id, 10)).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}

// Search 只检索已发布帖子，返回按相关度排序的帖子 id 与命中总数
func (s *PostIndexImpl) Search(ctx context.Context, keyword string, from, size int) ([]uint64, int64, error) {
	if from >= MaxSearchDepth {
		return []uint64{}, 0, nil
	}

	resp, err := s.client.Search().
		Index(s.index).
		From(from).
		Size(size).
		Source_(&types.SourceFilter{Includes: []string{"id"}}).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{{
					MultiMatch: &types.MultiMatchQuery{
						Query:  keyword,
						Fields: []string{"title^3", "excerpt^2", "content", "tags"},
					},
				}},
				Filter: []types.Query{{
					Term: map[string]types.TermQuery{
						"status": {Value: string(model.PostStatusPublished)},
					},
				}},
			},
		}).
		Do(ctx)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		id, err := strconv.ParseUint(util.Deref(hit.Id_), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	var total int64
	if resp.Hits.Total != nil {
		total = resp.Hits.Total.Value
	}
	return ids, total, nil
}
