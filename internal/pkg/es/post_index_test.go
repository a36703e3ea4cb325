package es

import (
	"Folio/internal/model"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type esStub struct {
	t      *testing.T
	routes map[string]stubResponse
	bodies map[string]string
}

type stubResponse struct {
	status int
	body   string
}

func (s *esStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)
	s.bodies[key] = string(body)

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	resp, ok := s.routes[key]
	if !ok {
		s.t.Errorf("unexpected request %s", key)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func newStubIndex(t *testing.T, routes map[string]stubResponse) (PostIndex, *esStub) {
	t.Helper()
	stub := &esStub{t: t, routes: routes, bodies: map[string]string{}}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewPostIndex(client, "posts-test"), stub
}

func TestSearchReturnsIDsInHitOrder(t *testing.T) {
	index, stub := newStubIndex(t, map[string]stubResponse{
		"POST /posts-test/_search": {http.StatusOK, `{
			"took": 1, "timed_out": false,
			"_shards": {"total": 1, "successful": 1, "skipped": 0, "failed": 0},
			"hits": {"total": {"value": 12, "relation": "eq"}, "max_score": 1.0,
				"hits": [
					{"_index": "posts-test", "_id": "7", "_score": 2.0},
					{"_index": "posts-test", "_id": "3", "_score": 1.0}
				]}
		}`},
	})

	ids, total, err := index.Search(context.Background(), "golang", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 3}, ids)
	assert.Equal(t, int64(12), total)

	body := stub.bodies["POST /posts-test/_search"]
	assert.Contains(t, body, `"multi_match"`)
	assert.Contains(t, body, `"title^3"`)
	assert.Contains(t, body, `"published"`)
}

func TestSearchBeyondDepth(t *testing.T) {
	index, _ := newStubIndex(t, map[string]stubResponse{})
	ids, total, err := index.Search(context.Background(), "x", MaxSearchDepth, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Zero(t, total)
}

func TestIndexAndDeleteTolerateStaleResponses(t *testing.T) {
	index, stub := newStubIndex(t, map[string]stubResponse{
		"PUT /posts-test/_doc/5": {http.StatusConflict, `{"error": {"type": "version_conflict_engine_exception", "reason": "stale"}, "status": 409}`},
		"DELETE /posts-test/_doc/5": {http.StatusNotFound, `{"_index": "posts-test", "_id": "5", "result": "not_found", "_version": 1,
			"_shards": {"total": 1, "successful": 1, "failed": 0}, "_seq_no": 1, "_primary_term": 1}`},
	})

	post := &model.Post{ID: 5, Title: "t", Status: model.PostStatusPublished, UpdatedAt: time.Now()}
	require.NoError(t, index.IndexPost(context.Background(), post))
	assert.True(t, strings.Contains(stub.bodies["PUT /posts-test/_doc/5"], `"title":"t"`))

	require.NoError(t, index.DeletePost(context.Background(), 5))
}
