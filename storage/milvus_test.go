package storage

import (
	"testing"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilvusHitsFrameColumns(t *testing.T) {
	r := client.SearchResult{
		ResultCount: 2,
		Fields: []entity.Column{
			entity.NewColumnVarChar("video", []string{"v1.mp4", "v2.mp4"}),
			entity.NewColumnInt64("frame_n", []int64{10, 450}),
		},
	}

	hits := milvusHits(r)
	require.Len(t, hits, 2)
	assert.Equal(t, Hit{Video: "v1.mp4", FrameN: 10}, hits[0])
	assert.Equal(t, Hit{Video: "v2.mp4", FrameN: 450}, hits[1])
}

func TestMilvusHitsCentroidColumns(t *testing.T) {
	r := client.SearchResult{
		ResultCount: 1,
		Fields: []entity.Column{
			entity.NewColumnVarChar("video", []string{"v1.mp4"}),
			entity.NewColumnInt64("start_frame", []int64{30}),
			entity.NewColumnInt64("end_frame", []int64{180}),
		},
	}

	hits := milvusHits(r)
	require.Len(t, hits, 1)
	assert.Equal(t, Hit{Video: "v1.mp4", StartFrame: 30, EndFrame: 180}, hits[0])
}

func TestMilvusHitsEmptyResult(t *testing.T) {
	hits := milvusHits(client.SearchResult{ResultCount: 0})
	assert.Empty(t, hits)
}

func TestMilvusHitsShortColumnIsTolerated(t *testing.T) {
	// ResultCount larger than the column data should not panic; missing
	// values stay zero.
	r := client.SearchResult{
		ResultCount: 2,
		Fields: []entity.Column{
			entity.NewColumnVarChar("video", []string{"v1.mp4"}),
			entity.NewColumnInt64("frame_n", []int64{10}),
		},
	}

	hits := milvusHits(r)
	require.Len(t, hits, 2)
	assert.Equal(t, Hit{Video: "v1.mp4", FrameN: 10}, hits[0])
	assert.Equal(t, Hit{}, hits[1])
}
