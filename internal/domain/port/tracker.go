package port

import "context"

// TrackResult summarizes one tracking pass over a source video.
type TrackResult struct {
	FramesRead      int
	FramesWithAngle int
	VideoPath       string // raw annotated video, pre-transcode
	LogPath         string // per-frame angle CSV
	VideoDuration   float64
}

// AngleTracker runs the marker-angle pipeline over a local video file,
// writing the raw annotated video and the angle log to the given paths.
type AngleTracker interface {
	Track(ctx context.Context, videoPath, rawVideoPath, logPath string) (*TrackResult, error)
}
