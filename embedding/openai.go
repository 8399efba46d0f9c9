package embedding

import (
	"context"

	"github.com/cockroachdb/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Parlows/Video-Surveillance-Retrieval/core"
)

// OpenAIClient serves the same Embedder port against an OpenAI-compatible
// endpoint. The client-supplied encoder name is used as the model name.
type OpenAIClient struct {
	cli *openai.Client
}

func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{cli: openai.NewClientWithConfig(cfg)}
}

func (c *OpenAIClient) Embed(ctx context.Context, text, encoder string) ([][]float32, error) {
	resp, err := c.cli.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(encoder),
		Input: []string{text},
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "embedding API failed"), core.ErrUpstream)
	}
	if len(resp.Data) == 0 {
		return nil, errors.Mark(errors.New("no embeddings returned"), core.ErrUpstream)
	}

	vectors := make([][]float32, 0, len(resp.Data))
	for _, d := range resp.Data {
		vectors = append(vectors, d.Embedding)
	}
	return vectors, nil
}
