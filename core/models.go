package core

// DatasetKind selects how a collection indexes a video: one vector per
// segment (centroid) or one vector per sampled frame. The value comes
// straight from the client's dataset query parameter and is not validated
// against a fixed set; unknown kinds simply name a collection the backend
// does not have.
type DatasetKind string

const (
	DatasetCentroid DatasetKind = "centroid"
	DatasetFrames   DatasetKind = "frames"
)

// SearchResult is the canonical result shape returned to clients,
// regardless of which backend produced the hit.
type SearchResult struct {
	Video      string `json:"video"`
	StartFrame int64  `json:"start_frame"`
	EndFrame   int64  `json:"end_frame"`
}

type QueryResponse struct {
	Results []SearchResult `json:"results"`
}

// ErrorResponse mirrors the body the embedding engine's failures are
// forwarded in: the upstream status code as a string plus its message.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
