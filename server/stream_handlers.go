package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Parlows/Video-Surveillance-Retrieval/media"
)

// StreamHandlers serves /video: a frame-accurate sub-clip of a stored
// video, re-encoded on the fly and streamed as it is produced.
type StreamHandlers struct {
	videoDir string
	prober   media.Prober
	streamer media.Streamer
	logger   *slog.Logger
}

func NewStreamHandlers(videoDir string, prober media.Prober, streamer media.Streamer, logger *slog.Logger) *StreamHandlers {
	return &StreamHandlers{
		videoDir: videoDir,
		prober:   prober,
		streamer: streamer,
		logger:   logger,
	}
}

// VideoHandler handles GET /video?name=...&startFrame=...&endFrame=...
func (h *StreamHandlers) VideoHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	name := q.Get("name")
	if name == "" {
		http.Error(w, "name parameter is required", http.StatusBadRequest)
		return
	}
	if !strings.HasSuffix(name, ".mp4") {
		name += ".mp4"
	}
	videoPath := filepath.Join(h.videoDir, filepath.Base(name))

	if _, err := os.Stat(videoPath); err != nil {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}

	// Raw parameters are validated before any probing happens.
	startFrame, errStart := strconv.ParseInt(q.Get("startFrame"), 10, 64)
	endFrame, errEnd := strconv.ParseInt(q.Get("endFrame"), 10, 64)
	if errStart != nil || errEnd != nil || startFrame < 0 || endFrame < 0 || startFrame >= endFrame {
		http.Error(w, "Invalid startFrame or endFrame parameters", http.StatusBadRequest)
		return
	}

	info, err := h.prober.Probe(r.Context(), videoPath)
	if err != nil {
		h.logger.Error("probe failed", "video", videoPath, "err", err)
		http.Error(w, "Error processing video", http.StatusInternalServerError)
		return
	}

	startFrame = clamp(startFrame, 0, info.TotalFrames)
	endFrame = clamp(endFrame, 0, info.TotalFrames)
	if startFrame >= endFrame {
		// Both bounds clamped to the same point; the requested range lies
		// entirely outside the video.
		http.Error(w, "Requested frame range is outside the video", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "video/mp4")

	body := &flushWriter{w: w, rc: http.NewResponseController(w)}
	err = h.streamer.Stream(r.Context(), body, videoPath, startFrame, endFrame, info.FrameRate)
	if err != nil {
		if r.Context().Err() == context.Canceled {
			// Client went away; the transcoder has already been reaped.
			return
		}
		h.logger.Error("transcode failed", "video", videoPath, "err", err)
		if body.n == 0 {
			http.Error(w, "Error processing video", http.StatusInternalServerError)
			return
		}
		// Bytes already flushed cannot be retracted; the stream just ends.
	}
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// flushWriter pushes each transcoder chunk to the client immediately so
// playback can start before the whole segment is encoded.
type flushWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
	n  int64
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	fw.n += int64(n)
	if n > 0 {
		_ = fw.rc.Flush()
	}
	return n, err
}
