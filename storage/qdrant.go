package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Parlows/Video-Surveillance-Retrieval/core"
)

// QdrantBackend queries Qdrant over its REST API. There is no official Go
// client in use here; the points/query endpoint is a single POST with a
// typed body.
type QdrantBackend struct {
	baseURL string
	client  *http.Client
}

func NewQdrantBackend(baseURL string) *QdrantBackend {
	return &QdrantBackend{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type qdrantQueryRequest struct {
	Query       []float32 `json:"query"`
	Limit       int       `json:"limit"`
	WithPayload []string  `json:"with_payload"`
}

type qdrantPayload struct {
	Video      string `json:"video"`
	StartFrame int64  `json:"start_frame"`
	EndFrame   int64  `json:"end_frame"`
	FrameN     int64  `json:"frame_n"`
}

type qdrantQueryResponse struct {
	Result struct {
		Points []struct {
			Payload qdrantPayload `json:"payload"`
		} `json:"points"`
	} `json:"result"`
	Status json.RawMessage `json:"status"`
}

func (b *QdrantBackend) Search(ctx context.Context, collection string, vector []float32, limit int, fields []string) ([]Hit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	reqBody, err := json.Marshal(qdrantQueryRequest{Query: vector, Limit: limit, WithPayload: fields})
	if err != nil {
		return nil, fmt.Errorf("marshal qdrant query: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/query", b.baseURL, collection)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create qdrant request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "qdrant unreachable"), core.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Mark(errors.Newf("qdrant returned %d: %s", resp.StatusCode, string(body)), core.ErrUpstream)
	}

	var queryResp qdrantQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode qdrant response"), core.ErrUpstream)
	}

	hits := make([]Hit, 0, len(queryResp.Result.Points))
	for _, p := range queryResp.Result.Points {
		hits = append(hits, Hit{
			Video:      p.Payload.Video,
			StartFrame: p.Payload.StartFrame,
			EndFrame:   p.Payload.EndFrame,
			FrameN:     p.Payload.FrameN,
		})
	}
	return hits, nil
}
