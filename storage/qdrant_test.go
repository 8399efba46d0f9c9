package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parlows/Video-Surveillance-Retrieval/core"
)

func TestQdrantSearchRequestShape(t *testing.T) {
	var gotPath string
	var gotReq qdrantQueryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"result":{"points":[]}}`))
	}))
	defer srv.Close()

	b := NewQdrantBackend(srv.URL)
	hits, err := b.Search(context.Background(), "ucfclipframes", []float32{0.1, 0.2}, 0, []string{"video", "frame_n"})
	require.NoError(t, err)

	assert.Equal(t, "/collections/ucfclipframes/points/query", gotPath)
	assert.Equal(t, []float32{0.1, 0.2}, gotReq.Query)
	assert.Equal(t, DefaultLimit, gotReq.Limit)
	assert.Equal(t, []string{"video", "frame_n"}, gotReq.WithPayload)
	assert.Empty(t, hits)
}

func TestQdrantSearchPreservesBackendOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"points":[
			{"payload":{"video":"v3.mp4","frame_n":450}},
			{"payload":{"video":"v1.mp4","frame_n":10}},
			{"payload":{"video":"v2.mp4","frame_n":90}}
		]}}`))
	}))
	defer srv.Close()

	hits, err := NewQdrantBackend(srv.URL).Search(context.Background(), "ucfclipframes", []float32{1}, 3, []string{"video", "frame_n"})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, Hit{Video: "v3.mp4", FrameN: 450}, hits[0])
	assert.Equal(t, Hit{Video: "v1.mp4", FrameN: 10}, hits[1])
	assert.Equal(t, Hit{Video: "v2.mp4", FrameN: 90}, hits[2])
}

func TestQdrantSearchCentroidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"points":[
			{"payload":{"video":"v1.mp4","start_frame":30,"end_frame":180}}
		]}}`))
	}))
	defer srv.Close()

	hits, err := NewQdrantBackend(srv.URL).Search(context.Background(), "ucaclipcentroid", []float32{1}, 10,
		[]string{"video", "start_frame", "end_frame"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, Hit{Video: "v1.mp4", StartFrame: 30, EndFrame: 180}, hits[0])
}

func TestQdrantBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":{"error":"Collection ucfclipnope doesn't exist"}}`))
	}))
	defer srv.Close()

	_, err := NewQdrantBackend(srv.URL).Search(context.Background(), "ucfclipnope", []float32{1}, 10, []string{"video", "frame_n"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUpstream))
	assert.Contains(t, err.Error(), "doesn't exist")
}

func TestQdrantUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewQdrantBackend(srv.URL).Search(context.Background(), "ucfclipframes", []float32{1}, 10, []string{"video", "frame_n"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUpstream))
	assert.Contains(t, err.Error(), "unreachable")
}
