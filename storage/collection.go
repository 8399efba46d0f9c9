package storage

import "github.com/Parlows/Video-Surveillance-Retrieval/core"

// CollectionName derives the collection identifier for an (encoder,
// dataset) pair. Centroid datasets live under the "uca" prefix, everything
// else under "ucf". Pure and total: every backend sees the same identifier
// for the same inputs, so the gateway exposes one collection space over
// all physical stores.
func CollectionName(encoder string, dataset core.DatasetKind) string {
	if dataset == core.DatasetCentroid {
		return "uca" + encoder + string(dataset)
	}
	return "ucf" + encoder + string(dataset)
}

// OutputFields lists the per-hit fields a search must project for the
// dataset kind. Centroid hits carry an authoritative frame range; frame
// hits carry the single matched frame index.
func OutputFields(dataset core.DatasetKind) []string {
	if dataset == core.DatasetCentroid {
		return []string{"video", "start_frame", "end_frame"}
	}
	return []string{"video", "frame_n"}
}
