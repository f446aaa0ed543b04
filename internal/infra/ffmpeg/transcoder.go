package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Transcoder re-encodes the raw annotated video to H.264 yuv420p with
// faststart so phones and browsers can play it. Implements port.Transcoder.
type Transcoder struct {
	logger *zap.Logger
}

func NewTranscoder(logger *zap.Logger) *Transcoder {
	return &Transcoder{logger: logger}
}

func (t *Transcoder) Transcode(ctx context.Context, rawPath, outPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", rawPath,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		outPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %v, output: %s", ErrTranscodeFailed, err, string(output))
	}

	t.logger.Info("transcode complete",
		zap.String("raw", rawPath),
		zap.String("out", outPath),
	)
	return nil
}
