package ffmpeg

import (
	"context"
	"fmt"
	"image"
	"io"
	"strconv"
	"sync"

	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// Writer pipes raw RGBA frames into an ffmpeg mpeg4 encode. This is the raw
// first pass; playback compatibility comes from the separate transcode
// stage. It implements tracking.FrameSink.
type Writer struct {
	pw        *io.PipeWriter
	width     int
	height    int
	done      chan error
	closeOnce sync.Once
	closeErr  error
}

// NewWriter starts an ffmpeg encode reading raw RGBA from a pipe and writing
// outPath at the given frame rate.
func NewWriter(ctx context.Context, outPath string, width, height int, fps float64) (*Writer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid frame size %dx%d", ErrOutputUnwritable, width, height)
	}
	if fps <= 0 {
		fps = 30
	}

	rate := strconv.FormatFloat(fps, 'f', -1, 64)
	pr, pw := io.Pipe()
	stream := ffmpeggo.Input("pipe:0", ffmpeggo.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": rate,
	}).
		Output(outPath, ffmpeggo.KwArgs{
			"c:v":     "mpeg4",
			"pix_fmt": "yuv420p",
			"r":       rate,
		}).
		OverWriteOutput().
		WithInput(pr).
		WithErrorOutput(io.Discard)
	stream.Context = ctx

	done := make(chan error, 1)
	go func() {
		err := stream.Run()
		pr.CloseWithError(err)
		done <- err
	}()

	return &Writer{pw: pw, width: width, height: height, done: done}, nil
}

// Write sends one frame to the encoder.
func (w *Writer) Write(frame *image.RGBA) error {
	b := frame.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("frame size %dx%d does not match stream %dx%d",
			b.Dx(), b.Dy(), w.width, w.height)
	}

	if b.Min == (image.Point{}) && frame.Stride == 4*w.width {
		if _, err := w.pw.Write(frame.Pix); err != nil {
			return fmt.Errorf("%w: %v", ErrOutputUnwritable, err)
		}
		return nil
	}

	// Unaligned frame: write row by row.
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := frame.PixOffset(b.Min.X, y)
		if _, err := w.pw.Write(frame.Pix[off : off+4*w.width]); err != nil {
			return fmt.Errorf("%w: %v", ErrOutputUnwritable, err)
		}
	}
	return nil
}

// Close signals end of stream and waits for the encoder to finish; its
// error is the encode's outcome, so partial output is never reported as
// success.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		w.pw.Close()
		if err := <-w.done; err != nil {
			w.closeErr = fmt.Errorf("%w: %v", ErrOutputUnwritable, err)
		}
	})
	return w.closeErr
}
