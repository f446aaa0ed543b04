package tracking

import (
	"bytes"
	"context"
	"encoding/csv"
	"image"
	"image/color"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pinkFill  = color.RGBA{R: 255, G: 128, B: 255, A: 255}
	greenFill = color.RGBA{R: 128, G: 200, B: 128, A: 255}
)

type memSource struct {
	frames []*image.RGBA
	closed bool
}

func (s *memSource) Next() (*image.RGBA, error) {
	if len(s.frames) == 0 {
		return nil, io.EOF
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, nil
}

func (s *memSource) Close() error {
	s.closed = true
	return nil
}

type memSink struct {
	frames []*image.RGBA
	closed bool
}

func (s *memSink) Write(f *image.RGBA) error {
	s.frames = append(s.frames, f)
	return nil
}

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

func paintRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// rightAngleFrame holds a vertical pink segment and a horizontal green one:
// a fixed 90° configuration. Each marker is an 8x8 block (64 px).
func rightAngleFrame() *image.RGBA {
	f := image.NewRGBA(image.Rect(0, 0, 120, 80))
	paintRect(f, image.Rect(6, 6, 14, 14), pinkFill)   // pink upper (≈9,9)
	paintRect(f, image.Rect(6, 46, 14, 54), pinkFill)  // pink lower (≈9,49)
	paintRect(f, image.Rect(26, 6, 34, 14), greenFill) // green left (≈29,9)
	paintRect(f, image.Rect(66, 6, 74, 14), greenFill) // green right (≈69,9)
	return f
}

func parseAngleLog(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	require.Equal(t, []string{"Frame", "Angle (degrees)"}, rows[0])
	return rows[1:]
}

func TestRunRightAngleVideo(t *testing.T) {
	src := &memSource{frames: []*image.RGBA{rightAngleFrame(), rightAngleFrame(), rightAngleFrame()}}
	sink := &memSink{}
	var log bytes.Buffer

	res, err := Run(context.Background(), DefaultConfig(), src, sink, &log)
	require.NoError(t, err)

	assert.Equal(t, 3, res.FramesRead)
	assert.Equal(t, 3, res.FramesWithAngle)
	assert.Len(t, sink.frames, 3)
	assert.True(t, src.closed)
	assert.True(t, sink.closed)

	rows := parseAngleLog(t, &log)
	require.Len(t, rows, 3)
	for i, row := range rows {
		frame, err := strconv.Atoi(row[0])
		require.NoError(t, err)
		assert.Equal(t, i+1, frame, "frame indices are 1-based and ordered")

		angle, err := strconv.ParseFloat(row[1], 64)
		require.NoError(t, err)
		assert.InDelta(t, 90.0, angle, 0.5)
	}
}

func TestRunAmbiguousPinkStillDrawsGreenPair(t *testing.T) {
	f := rightAngleFrame()
	paintRect(f, image.Rect(6, 46, 14, 54), color.RGBA{A: 255}) // erase pink lower

	src := &memSource{frames: []*image.RGBA{f}}
	sink := &memSink{}
	var log bytes.Buffer

	res, err := Run(context.Background(), DefaultConfig(), src, sink, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, res.FramesRead)
	assert.Equal(t, 0, res.FramesWithAngle)
	assert.Empty(t, parseAngleLog(t, &log), "unmeasured frames are omitted, not placeholdered")

	require.Len(t, res.Measurements, 1)
	m := res.Measurements[0]
	assert.False(t, m.Measured)
	assert.Contains(t, m.Reason, "pink: 1 markers")

	// The green pair was still resolved and its connecting line drawn.
	require.Len(t, sink.frames, 1)
	mid := sink.frames[0].RGBAAt(49, 9)
	assert.Equal(t, lineColor, mid, "midpoint of the green pair line")
}

func TestRunThreeBlobsYieldNoMeasurement(t *testing.T) {
	f := rightAngleFrame()
	paintRect(f, image.Rect(46, 46, 54, 54), pinkFill) // spurious third pink blob

	src := &memSource{frames: []*image.RGBA{f}}
	var log bytes.Buffer

	res, err := Run(context.Background(), DefaultConfig(), src, &memSink{}, &log)
	require.NoError(t, err)

	assert.Equal(t, 0, res.FramesWithAngle)
	require.Len(t, res.Measurements, 1)
	assert.Contains(t, res.Measurements[0].Reason, "pink: 3 markers")
}

func TestRunLogRowsMatchFramesWithAngle(t *testing.T) {
	ambiguous := rightAngleFrame()
	paintRect(ambiguous, image.Rect(6, 46, 14, 54), color.RGBA{A: 255})

	src := &memSource{frames: []*image.RGBA{rightAngleFrame(), ambiguous, rightAngleFrame()}}
	var log bytes.Buffer

	res, err := Run(context.Background(), DefaultConfig(), src, &memSink{}, &log)
	require.NoError(t, err)

	rows := parseAngleLog(t, &log)
	assert.Equal(t, res.FramesWithAngle, len(rows))
	assert.Equal(t, 3, res.FramesRead)
	assert.Equal(t, 2, res.FramesWithAngle)
}

func TestRunEmptySource(t *testing.T) {
	var log bytes.Buffer
	res, err := Run(context.Background(), DefaultConfig(), &memSource{}, &memSink{}, &log)
	require.NoError(t, err)
	assert.Equal(t, 0, res.FramesRead)
	assert.Empty(t, parseAngleLog(t, &log))
}

func TestRunCancellationReleasesStreams(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &memSource{frames: []*image.RGBA{rightAngleFrame()}}
	sink := &memSink{}
	var log bytes.Buffer

	_, err := Run(ctx, DefaultConfig(), src, sink, &log)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, src.closed)
	assert.True(t, sink.closed)
}

func TestRunAnnotatesEveryFrame(t *testing.T) {
	f := rightAngleFrame()
	src := &memSource{frames: []*image.RGBA{f}}
	sink := &memSink{}
	var log bytes.Buffer

	_, err := Run(context.Background(), DefaultConfig(), src, sink, &log)
	require.NoError(t, err)
	require.Len(t, sink.frames, 1)

	out := sink.frames[0]

	// The pair lines are drawn after the discs and repaint the centroid
	// pixels themselves, so sample disc pixels clear of both lines.
	assert.Equal(t, DefaultPink.Overlay, out.RGBAAt(4, 9), "pink centroid disc")
	assert.Equal(t, DefaultGreen.Overlay, out.RGBAAt(29, 4), "green centroid disc")
	assert.Equal(t, lineColor, out.RGBAAt(9, 9), "pink pair line endpoint")
	assert.Equal(t, lineColor, out.RGBAAt(29, 9), "green pair line endpoint")
}
