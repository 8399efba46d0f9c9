package storage

import "context"

// DefaultLimit is the number of hits requested when the caller does not
// say otherwise.
const DefaultLimit = 10

// Hit is a raw backend hit mapped out of the backend's wire shape but not
// yet normalized. Which fields are populated depends on the dataset kind
// the collection was built for: centroid collections fill StartFrame and
// EndFrame, frame collections fill FrameN.
type Hit struct {
	Video      string
	StartFrame int64
	EndFrame   int64
	FrameN     int64
}

// SearchBackend abstracts one vector store. Implementations must request
// exactly limit results, project only the given fields, and preserve the
// ordering the backend returned; ranking is the backend's business.
type SearchBackend interface {
	Search(ctx context.Context, collection string, vector []float32, limit int, fields []string) ([]Hit, error)
}

func hasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
