package storage

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/Parlows/Video-Surveillance-Retrieval/core"
)

// vectorField is the name of the embedding field in every collection the
// offline indexer creates.
const vectorField = "vector"

// MilvusBackend queries Milvus through its gRPC SDK. Collections are not
// implicitly resident in Milvus, so every search is preceded by an
// explicit load.
type MilvusBackend struct {
	mc client.Client
}

// NewMilvusBackend dials the Milvus server. The token is "user:password",
// matching the server's root credential format.
func NewMilvusBackend(ctx context.Context, addr, token string) (*MilvusBackend, error) {
	cfg := client.Config{Address: addr}
	if user, pass, ok := strings.Cut(token, ":"); ok {
		cfg.Username = user
		cfg.Password = pass
	} else if token != "" {
		cfg.APIKey = token
	}

	mc, err := client.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect milvus")
	}
	return &MilvusBackend{mc: mc}, nil
}

func (b *MilvusBackend) Search(ctx context.Context, collection string, vector []float32, limit int, fields []string) ([]Hit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if err := b.mc.LoadCollection(ctx, collection, false); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "load collection %s", collection), core.ErrUpstream)
	}

	sp, err := entity.NewIndexHNSWSearchParam(74)
	if err != nil {
		return nil, errors.Wrap(err, "new hnsw search param")
	}

	results, err := b.mc.Search(ctx, collection, nil, "", fields,
		[]entity.Vector{entity.FloatVector(vector)}, vectorField, entity.COSINE, limit, sp)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "search collection %s", collection), core.ErrUpstream)
	}

	var hits []Hit
	for _, r := range results {
		hits = append(hits, milvusHits(r)...)
	}
	return hits, nil
}

// milvusHits flattens one SDK result into raw hits, reading whichever of
// the projected columns the collection actually has.
func milvusHits(r client.SearchResult) []Hit {
	cols := map[string]entity.Column{}
	for _, c := range r.Fields {
		cols[c.Name()] = c
	}

	hits := make([]Hit, 0, r.ResultCount)
	for i := 0; i < r.ResultCount; i++ {
		var h Hit
		if c, ok := cols["video"].(*entity.ColumnVarChar); ok {
			if data := c.Data(); i < len(data) {
				h.Video = data[i]
			}
		}
		if c, ok := cols["start_frame"].(*entity.ColumnInt64); ok {
			if data := c.Data(); i < len(data) {
				h.StartFrame = data[i]
			}
		}
		if c, ok := cols["end_frame"].(*entity.ColumnInt64); ok {
			if data := c.Data(); i < len(data) {
				h.EndFrame = data[i]
			}
		}
		if c, ok := cols["frame_n"].(*entity.ColumnInt64); ok {
			if data := c.Data(); i < len(data) {
				h.FrameN = data[i]
			}
		}
		hits = append(hits, h)
	}
	return hits
}

func (b *MilvusBackend) Close() error {
	return b.mc.Close()
}
