package tracking

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillMask(m *image.Gray, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.SetGray(x, y, color.Gray{Y: 255})
		}
	}
}

func TestFindCentroidsAreaThresholdBoundary(t *testing.T) {
	// 10x5 = 50 pixels, exactly at the default threshold: retained.
	at := image.NewGray(image.Rect(0, 0, 40, 40))
	fillMask(at, image.Rect(10, 10, 20, 15))
	got := FindCentroids(at, DefaultMinBlobArea)
	require.Len(t, got, 1)
	assert.Equal(t, 50, got[0].Area)

	// 7x7 = 49 pixels, one below: discarded.
	below := image.NewGray(image.Rect(0, 0, 40, 40))
	fillMask(below, image.Rect(10, 10, 17, 17))
	assert.Empty(t, FindCentroids(below, DefaultMinBlobArea))
}

func TestFindCentroidsMomentCentroid(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 40, 40))
	fillMask(m, image.Rect(4, 6, 14, 16)) // 10x10 block, centroid (8.5, 10.5)

	got := FindCentroids(m, 50)
	require.Len(t, got, 1)
	assert.Equal(t, 8, got[0].X)
	assert.Equal(t, 10, got[0].Y)
	assert.Equal(t, 100, got[0].Area)
}

func TestFindCentroidsSeparateRegions(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 60, 60))
	fillMask(m, image.Rect(2, 2, 12, 12))
	fillMask(m, image.Rect(30, 30, 40, 40))

	got := FindCentroids(m, 50)
	assert.Len(t, got, 2)
}

func TestFindCentroidsHoleIsNotARegion(t *testing.T) {
	// A 12x12 block with a 4x4 hole: one region, area excludes the hole.
	m := image.NewGray(image.Rect(0, 0, 30, 30))
	fillMask(m, image.Rect(4, 4, 16, 16))
	for y := 8; y < 12; y++ {
		for x := 8; x < 12; x++ {
			m.SetGray(x, y, color.Gray{})
		}
	}

	got := FindCentroids(m, 50)
	require.Len(t, got, 1)
	assert.Equal(t, 144-16, got[0].Area)
}

func TestFindCentroidsDiagonalConnectivity(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 10, 10))
	m.SetGray(2, 2, color.Gray{Y: 255})
	m.SetGray(3, 3, color.Gray{Y: 255})

	got := FindCentroids(m, 1)
	require.Len(t, got, 1, "diagonal neighbors belong to one region")
	assert.Equal(t, 2, got[0].Area)
}

func TestFindCentroidsEmptyMask(t *testing.T) {
	assert.Empty(t, FindCentroids(image.NewGray(image.Rect(0, 0, 10, 10)), 1))
}
