package tracking

import "gonum.org/v1/gonum/spatial/r2"

// TrackingState holds the most recently accepted direction vector per
// color. It is the only state that outlives a frame; it belongs to exactly
// one pipeline run and is never reset mid-video.
type TrackingState struct {
	prev map[string]r2.Vec
}

func NewTrackingState() *TrackingState {
	return &TrackingState{prev: make(map[string]r2.Vec)}
}

// Previous returns the last accepted vector for the color, if any.
func (s *TrackingState) Previous(color string) (r2.Vec, bool) {
	v, ok := s.prev[color]
	return v, ok
}

// Normalize turns a marker pair into the frame's direction vector for the
// named color and records it as the new previous vector.
//
// The raw vector runs upper→lower. Its sign is fixed in three steps:
// point it downward (negate when y <= 0), then leftward (negate when
// x >= 0), then flip it once more if it opposes the previous accepted
// vector for this color. The first two steps pick one of the two
// 180°-symmetric orientations deterministically; the dot-sign check
// suppresses residual frame-to-frame polarity flips near horizontal or
// vertical. The check is a heuristic and can mis-flip across inter-frame
// rotations beyond 90°; that limitation is inherited deliberately.
//
// A coincident pair (zero raw vector) produces no vector and leaves the
// state untouched, as does calling with no pair at all.
func (s *TrackingState) Normalize(color string, pair MarkerPair) (r2.Vec, bool) {
	v := r2.Vec{
		X: float64(pair.Lower.X - pair.Upper.X),
		Y: float64(pair.Lower.Y - pair.Upper.Y),
	}
	if v.X == 0 && v.Y == 0 {
		return r2.Vec{}, false
	}

	if v.Y <= 0 {
		v = r2.Scale(-1, v)
	}
	if v.X >= 0 {
		v = r2.Scale(-1, v)
	}

	if prev, ok := s.prev[color]; ok && r2.Dot(v, prev) < 0 {
		v = r2.Scale(-1, v)
	}

	s.prev[color] = v
	return v, true
}
