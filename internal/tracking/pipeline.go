package tracking

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// Calibrated marker ranges, in OpenCV-scaled HSV.
var (
	DefaultPink = ColorRange{
		Name:    "pink",
		Lower:   HSV{H: 150, S: 40, V: 80},
		Upper:   HSV{H: 179, S: 220, V: 255},
		Overlay: color.RGBA{R: 255, A: 255},
	}
	DefaultGreen = ColorRange{
		Name:    "green",
		Lower:   HSV{H: 40, S: 29, V: 108},
		Upper:   HSV{H: 81, S: 143, V: 245},
		Overlay: color.RGBA{G: 255, A: 255},
	}
)

// DefaultMinBlobArea is the smallest blob, in pixels, accepted as a marker.
const DefaultMinBlobArea = 50

// Config holds the per-run pipeline settings.
type Config struct {
	Pink        ColorRange
	Green       ColorRange
	MinBlobArea int
}

// DefaultConfig returns the calibrated configuration.
func DefaultConfig() Config {
	return Config{
		Pink:        DefaultPink,
		Green:       DefaultGreen,
		MinBlobArea: DefaultMinBlobArea,
	}
}

// FrameSource yields decoded frames in presentation order. Next returns
// io.EOF once the stream is exhausted.
type FrameSource interface {
	Next() (*image.RGBA, error)
	Close() error
}

// FrameSink receives annotated frames in the same order. Close must flush
// whatever the sink buffers; its error is part of the run's outcome.
type FrameSink interface {
	Write(*image.RGBA) error
	Close() error
}

// Measurement is the per-frame outcome: a measured angle, or the reason
// there is none. Degenerate frames are values here, never errors.
type Measurement struct {
	Frame    int // 1-based
	Angle    float64
	Measured bool
	Reason   string
}

// Result summarizes one completed run.
type Result struct {
	FramesRead      int
	FramesWithAngle int
	VideoPath       string
	LogPath         string
	Measurements    []Measurement
}

// Run drives the whole pipeline over src: segment both marker colors,
// extract and pair centroids, normalize direction vectors against the
// rolling per-color state, compute the angle when both vectors exist,
// annotate, and write the frame to sink. One CSV row is appended to
// angleLog per measured frame; unmeasured frames are omitted from the log.
//
// Run owns src and sink for its duration and closes both on every exit
// path. Cancellation is honored at frame boundaries only.
func Run(ctx context.Context, cfg Config, src FrameSource, sink FrameSink, angleLog io.Writer) (*Result, error) {
	defer src.Close()
	sinkClosed := false
	defer func() {
		if !sinkClosed {
			sink.Close()
		}
	}()

	state := NewTrackingState()
	res := &Result{}
	colors := [2]ColorRange{cfg.Pink, cfg.Green}

	logw := csv.NewWriter(angleLog)
	if err := logw.Write([]string{"Frame", "Angle (degrees)"}); err != nil {
		return nil, fmt.Errorf("write angle log header: %w", err)
	}
	logw.Flush()
	if err := logw.Error(); err != nil {
		return nil, fmt.Errorf("write angle log header: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read frame %d: %w", res.FramesRead+1, err)
		}
		res.FramesRead++

		m := res.processFrame(cfg, state, colors, frame)
		DrawAngleText(frame, m.Angle, m.Measured)

		if err := sink.Write(frame); err != nil {
			return nil, fmt.Errorf("write annotated frame %d: %w", m.Frame, err)
		}

		if m.Measured {
			logw.Write([]string{
				strconv.Itoa(m.Frame),
				strconv.FormatFloat(m.Angle, 'f', -1, 64),
			})
			logw.Flush()
			if err := logw.Error(); err != nil {
				return nil, fmt.Errorf("append angle log: %w", err)
			}
			res.FramesWithAngle++
		}
		res.Measurements = append(res.Measurements, m)
	}

	sinkClosed = true
	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("finalize annotated video: %w", err)
	}
	return res, nil
}

func (res *Result) processFrame(cfg Config, state *TrackingState, colors [2]ColorRange, frame *image.RGBA) Measurement {
	// The two colors are independent within a frame; segment and extract
	// them concurrently. Cross-frame state stays on this goroutine.
	var dets [2][]Centroid
	var wg sync.WaitGroup
	for i := range colors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dets[i] = FindCentroids(Mask(frame, colors[i]), cfg.MinBlobArea)
		}(i)
	}
	wg.Wait()

	for i := range colors {
		DrawCentroids(frame, dets[i], colors[i].Overlay)
	}

	var vecs [2]r2.Vec
	var has [2]bool
	var reasons []string
	for i := range colors {
		pair, ok := ResolvePair(dets[i])
		if !ok {
			reasons = append(reasons, fmt.Sprintf("%s: %d markers", colors[i].Name, len(dets[i])))
			continue
		}
		DrawPairLine(frame, pair)

		v, ok := state.Normalize(colors[i].Name, pair)
		if !ok {
			reasons = append(reasons, fmt.Sprintf("%s: coincident markers", colors[i].Name))
			continue
		}
		vecs[i], has[i] = v, true
	}

	m := Measurement{Frame: res.FramesRead}
	if has[0] && has[1] {
		if a, ok := AngleDegrees(vecs[0], vecs[1]); ok {
			m.Angle, m.Measured = a, true
		} else {
			reasons = append(reasons, "degenerate vectors")
		}
	}
	if !m.Measured {
		m.Reason = strings.Join(reasons, "; ")
	}
	return m
}
