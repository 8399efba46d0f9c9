// Package embedding turns a text query into a vector by calling an
// external embedding service. The default provider is the in-house encoder
// engine; an OpenAI-compatible endpoint can be used instead.
package embedding

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

// Embedder produces a batch of embedding vectors for one text query. The
// encoder name is passed through to the service untouched; it is the
// service that decides whether it knows the model.
type Embedder interface {
	Embed(ctx context.Context, text, encoder string) ([][]float32, error)
}

// EngineError is a failure the encoder engine itself reported. Status code
// and message are kept verbatim so the query route can forward them; the
// client never retries on the engine's behalf.
type EngineError struct {
	StatusCode int
	Message    string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("embedding engine returned %d: %s", e.StatusCode, e.Message)
}

// EngineClient talks to the encoder engine's POST /text endpoint.
type EngineClient struct {
	baseURL string
	client  *http.Client
}

func NewEngineClient(baseURL string) *EngineClient {
	return &EngineClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type engineRequest struct {
	Encoder string `json:"encoder"`
	Data    string `json:"data"`
}

func (c *EngineClient) Embed(ctx context.Context, text, encoder string) ([][]float32, error) {
	reqBody, err := json.Marshal(engineRequest{Encoder: encoder, Data: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "embedding engine unreachable"), core.ErrUpstream)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read embedding response"), core.ErrUpstream)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Mark(&EngineError{StatusCode: resp.StatusCode, Message: string(body)}, core.ErrUpstream)
	}

	return decodeVectors(body)
}

// decodeVectors accepts both shapes the engine emits: a batch of vectors
// (the usual case, batch size 1) or a single bare vector.
func decodeVectors(body []byte) ([][]float32, error) {
	var batch [][]float32
	if err := json.Unmarshal(body, &batch); err == nil {
		if len(batch) == 0 {
			return nil, errors.Mark(errors.New("embedding engine returned an empty batch"), core.ErrUpstream)
		}
		return batch, nil
	}

	var single []float32
	if err := json.Unmarshal(body, &single); err == nil {
		if len(single) == 0 {
			return nil, errors.Mark(errors.New("embedding engine returned an empty vector"), core.ErrUpstream)
		}
		return [][]float32{single}, nil
	}

	return nil, errors.Mark(errors.New("embedding engine returned a malformed body"), core.ErrUpstream)
}
