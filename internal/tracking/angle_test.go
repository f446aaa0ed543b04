package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestAngleDegrees(t *testing.T) {
	v := r2.Vec{X: -3, Y: -4}

	same, ok := AngleDegrees(v, v)
	require.True(t, ok)
	assert.InDelta(t, 0.0, same, 1e-9)

	opposite, ok := AngleDegrees(v, r2.Scale(-1, v))
	require.True(t, ok)
	assert.InDelta(t, 180.0, opposite, 1e-9)

	right, ok := AngleDegrees(r2.Vec{X: 0, Y: -40}, r2.Vec{X: -40, Y: 0})
	require.True(t, ok)
	assert.InDelta(t, 90.0, right, 1e-9)
}

func TestAngleDegreesSymmetric(t *testing.T) {
	v := r2.Vec{X: -1, Y: 7}
	w := r2.Vec{X: -5, Y: -2}

	vw, ok := AngleDegrees(v, w)
	require.True(t, ok)
	wv, ok := AngleDegrees(w, v)
	require.True(t, ok)
	assert.Equal(t, vw, wv)
}

func TestAngleDegreesZeroVectorUndefined(t *testing.T) {
	_, ok := AngleDegrees(r2.Vec{}, r2.Vec{X: 1, Y: 1})
	assert.False(t, ok)

	_, ok = AngleDegrees(r2.Vec{X: 1, Y: 1}, r2.Vec{})
	assert.False(t, ok)
}

func TestAngleDegreesClampsFloatOvershoot(t *testing.T) {
	// Nearly parallel unit-scale vectors whose cosine can exceed 1 by a ulp.
	v := r2.Vec{X: 0.1, Y: 0.2}
	w := r2.Vec{X: 0.1, Y: 0.2}
	got, ok := AngleDegrees(v, w)
	require.True(t, ok)
	assert.False(t, got != got, "angle must not be NaN")
	assert.InDelta(t, 0.0, got, 1e-6)
}
