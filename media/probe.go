// Package media wraps the external ffprobe/ffmpeg tools behind
// bounded-lifetime child processes.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Parlows/Video-Surveillance-Retrieval/core"
)

// Info describes the first video stream of a file. Both values come from
// the same ffprobe read so rate and length can never disagree.
type Info struct {
	FrameRate   float64
	TotalFrames int64
}

type Prober interface {
	Probe(ctx context.Context, videoPath string) (Info, error)
}

// FFProber shells out to ffprobe once per video.
type FFProber struct{}

func (FFProber) Probe(ctx context.Context, videoPath string) (Info, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate,nb_frames,duration_ts",
		"-of", "json",
		videoPath,
	)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return Info{}, errors.Mark(
			errors.Wrapf(err, "ffprobe %s: %s", videoPath, strings.TrimSpace(errOut.String())),
			core.ErrMedia)
	}
	return parseProbeOutput(out.Bytes())
}

type probeOutput struct {
	Streams []struct {
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
		DurationTS int64  `json:"duration_ts"`
	} `json:"streams"`
}

func parseProbeOutput(data []byte) (Info, error) {
	var probed probeOutput
	if err := json.Unmarshal(data, &probed); err != nil {
		return Info{}, errors.Mark(errors.Wrap(err, "decode ffprobe output"), core.ErrMedia)
	}
	if len(probed.Streams) == 0 {
		return Info{}, errors.Mark(errors.New("no video stream"), core.ErrMedia)
	}

	s := probed.Streams[0]
	rate, err := parseRational(s.RFrameRate)
	if err != nil {
		return Info{}, errors.Mark(errors.Wrap(err, "parse frame rate"), core.ErrMedia)
	}

	// nb_frames is the real frame count; some containers omit it, in which
	// case the stream duration in timebase ticks stands in for it.
	total, err := strconv.ParseInt(s.NbFrames, 10, 64)
	if err != nil || total <= 0 {
		total = s.DurationTS
	}
	if total <= 0 {
		return Info{}, errors.Mark(errors.New("video stream has no length"), core.ErrMedia)
	}

	return Info{FrameRate: rate, TotalFrames: total}, nil
}

// parseRational parses ffprobe's rational notation ("30000/1001", "25/1")
// and plain numbers.
func parseRational(s string) (float64, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, errors.Newf("malformed rational %q", s)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, errors.Newf("malformed rational %q", s)
	}
	return n / d, nil
}
