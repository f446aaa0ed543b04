package ffmpeg

import (
	"context"
	"fmt"
	"os"

	"github.com/skitrack/skitrack-processing-service/internal/domain/port"
	"github.com/skitrack/skitrack-processing-service/internal/tracking"
	"go.uber.org/zap"
)

// Tracker runs the marker-angle pipeline against video files: probe the
// source, stream frames through the tracking driver, and emit the raw
// annotated video plus the angle log. Implements port.AngleTracker.
type Tracker struct {
	cfg       tracking.Config
	outputFPS float64 // 0 means follow the source rate
	logger    *zap.Logger
}

func NewTracker(cfg tracking.Config, outputFPS float64, logger *zap.Logger) *Tracker {
	return &Tracker{cfg: cfg, outputFPS: outputFPS, logger: logger}
}

func (t *Tracker) Track(ctx context.Context, videoPath, rawVideoPath, logPath string) (*port.TrackResult, error) {
	meta, err := Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	fps := t.outputFPS
	if fps <= 0 {
		fps = meta.FPS
	}
	if fps <= 0 {
		fps = 30
	}

	src, err := NewReader(ctx, videoPath, meta.Width, meta.Height)
	if err != nil {
		return nil, err
	}
	sink, err := NewWriter(ctx, rawVideoPath, meta.Width, meta.Height, fps)
	if err != nil {
		src.Close()
		return nil, err
	}
	logFile, err := os.Create(logPath)
	if err != nil {
		src.Close()
		sink.Close()
		return nil, fmt.Errorf("%w: create angle log: %v", ErrOutputUnwritable, err)
	}

	// The driver owns src and sink from here and closes them on every path.
	res, runErr := tracking.Run(ctx, t.cfg, src, sink, logFile)
	closeErr := logFile.Close()
	if runErr != nil {
		return nil, runErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("%w: close angle log: %v", ErrOutputUnwritable, closeErr)
	}

	t.logger.Info("tracking pass complete",
		zap.String("video", videoPath),
		zap.Int("frames_read", res.FramesRead),
		zap.Int("frames_with_angle", res.FramesWithAngle),
		zap.Float64("fps", fps),
	)

	return &port.TrackResult{
		FramesRead:      res.FramesRead,
		FramesWithAngle: res.FramesWithAngle,
		VideoPath:       rawVideoPath,
		LogPath:         logPath,
		VideoDuration:   meta.Duration,
	}, nil
}
