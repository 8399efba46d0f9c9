package storage

import "github.com/Parlows/Video-Surveillance-Retrieval/core"

// frameWindow pads a single matched frame into a viewable range. The
// streaming route clamps the padded end against the real video length.
const frameWindow = 75

// Normalize maps raw backend hits into the canonical result shape. For
// centroid datasets the backend's range is authoritative and passes
// through unchanged; for everything else the window is derived around the
// matched frame. Input order is preserved and an empty hit list yields an
// empty, non-nil result list.
func Normalize(hits []Hit, dataset core.DatasetKind) []core.SearchResult {
	results := make([]core.SearchResult, 0, len(hits))
	for _, h := range hits {
		if dataset == core.DatasetCentroid {
			results = append(results, core.SearchResult{
				Video:      h.Video,
				StartFrame: h.StartFrame,
				EndFrame:   h.EndFrame,
			})
			continue
		}

		start := h.FrameN - frameWindow
		if start < 0 {
			start = 0
		}
		results = append(results, core.SearchResult{
			Video:      h.Video,
			StartFrame: start,
			EndFrame:   h.FrameN + frameWindow,
		})
	}
	return results
}
