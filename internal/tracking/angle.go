package tracking

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// AngleDegrees returns the unsigned angle between v and w in [0, 180]
// degrees. A zero-magnitude input has no defined angle; normalized vectors
// are never zero, but the guard stays.
func AngleDegrees(v, w r2.Vec) (float64, bool) {
	if r2.Norm(v) == 0 || r2.Norm(w) == 0 {
		return 0, false
	}

	// Clamp before acos: unit-vector dot products overshoot [-1, 1] by a
	// few ulps and acos returns NaN outside it.
	c := r2.Cos(v, w)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c) * 180 / math.Pi, true
}
