package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Metadata is the subset of stream metadata the pipeline needs.
type Metadata struct {
	Width    int
	Height   int
	FPS      float64 // 0 when the source does not report a rate
	Duration float64 // seconds, 0 when unknown
}

// Probe reads the first video stream's dimensions, frame rate, and duration
// via ffprobe. Anything that does not probe as a video is ErrSourceUnreadable.
func Probe(ctx context.Context, videoPath string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		videoPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe: %v", ErrSourceUnreadable, err)
	}

	var probed struct {
		Streams []struct {
			Width      int    `json:"width"`
			Height     int    `json:"height"`
			RFrameRate string `json:"r_frame_rate"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &probed); err != nil {
		return nil, fmt.Errorf("%w: parse ffprobe output: %v", ErrSourceUnreadable, err)
	}
	if len(probed.Streams) == 0 {
		return nil, fmt.Errorf("%w: no video stream", ErrSourceUnreadable)
	}

	s := probed.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: stream reports %dx%d", ErrSourceUnreadable, s.Width, s.Height)
	}

	meta := &Metadata{
		Width:  s.Width,
		Height: s.Height,
		FPS:    parseRate(s.RFrameRate),
	}
	meta.Duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)
	return meta, nil
}

// parseRate parses ffprobe's "num/den" rational frame rate.
func parseRate(rate string) float64 {
	numStr, denStr, found := strings.Cut(rate, "/")
	if !found {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0
	}
	den, err := strconv.ParseFloat(denStr, 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
