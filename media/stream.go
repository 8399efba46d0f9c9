package media

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Parlows/Video-Surveillance-Retrieval/core"
)

type Streamer interface {
	// Stream re-encodes the [startFrame, endFrame) range of the video into
	// a fragmented mp4 written to w as it is produced. The child process
	// dies with ctx, so a client disconnect reaps the transcoder.
	Stream(ctx context.Context, w io.Writer, videoPath string, startFrame, endFrame int64, frameRate float64) error
}

// FFStreamer drives ffmpeg with its stdout piped straight into the
// response body.
type FFStreamer struct{}

func (FFStreamer) Stream(ctx context.Context, w io.Writer, videoPath string, startFrame, endFrame int64, frameRate float64) error {
	args := streamArgs(videoPath, startFrame, endFrame, frameRate)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = w
	var errOut bytes.Buffer
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Mark(
			errors.Wrapf(err, "ffmpeg: %s", lastLine(errOut.String())),
			core.ErrMedia)
	}
	return nil
}

// streamArgs builds the transcode invocation: seek to the start time,
// encode for the range's duration, and emit a keyframe-fragmented mp4
// with no trailing index atom so the container is playable as it streams.
func streamArgs(videoPath string, startFrame, endFrame int64, frameRate float64) []string {
	start := float64(startFrame) / frameRate
	duration := float64(endFrame-startFrame) / frameRate
	return []string{
		"-v", "error",
		"-ss", formatSeconds(start),
		"-i", videoPath,
		"-t", formatSeconds(duration),
		"-movflags", "frag_keyframe+empty_moov",
		"-f", "mp4",
		"pipe:1",
	}
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 6, 64)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
