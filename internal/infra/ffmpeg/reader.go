package ffmpeg

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// Reader streams decoded RGBA frames out of an ffmpeg process over a pipe.
// It implements tracking.FrameSource.
type Reader struct {
	pr        *io.PipeReader
	width     int
	height    int
	done      chan error
	closeOnce sync.Once
}

// NewReader starts ffmpeg decoding videoPath to raw RGBA on a pipe. Frame
// dimensions must come from a prior Probe; the raw stream carries no framing
// of its own.
func NewReader(ctx context.Context, videoPath string, width, height int) (*Reader, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid frame size %dx%d", ErrSourceUnreadable, width, height)
	}

	pr, pw := io.Pipe()
	stream := ffmpeggo.Input(videoPath).
		Output("pipe:1", ffmpeggo.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgba",
		}).
		WithOutput(pw).
		WithErrorOutput(io.Discard)
	stream.Context = ctx

	done := make(chan error, 1)
	go func() {
		err := stream.Run()
		pw.CloseWithError(err)
		done <- err
	}()

	return &Reader{pr: pr, width: width, height: height, done: done}, nil
}

// Next returns the next frame, or io.EOF once the stream is exhausted.
func (r *Reader) Next() (*image.RGBA, error) {
	pix := make([]byte, r.width*r.height*4)
	_, err := io.ReadFull(r.pr, pix)
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		return nil, fmt.Errorf("truncated frame: %w", err)
	case err != nil:
		return nil, err
	}

	return &image.RGBA{
		Pix:    pix,
		Stride: 4 * r.width,
		Rect:   image.Rect(0, 0, r.width, r.height),
	}, nil
}

// Close releases the pipe; a still-running decode sees a broken pipe and
// exits.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.pr.Close()
	})
	return nil
}
