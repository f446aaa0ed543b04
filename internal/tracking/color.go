package tracking

import (
	"image"
	"image/color"
)

// HSV is a color in OpenCV-scaled HSV space: H in [0,179], S and V in [0,255].
// The scaling matters because the calibrated marker ranges were measured in
// that space.
type HSV struct {
	H, S, V uint8
}

// ColorRange is a named, inclusive HSV interval used for segmentation, plus
// the color its detections are drawn with on the annotated frame.
type ColorRange struct {
	Name    string
	Lower   HSV
	Upper   HSV
	Overlay color.RGBA
}

// Valid reports whether Lower <= Upper component-wise.
func (r ColorRange) Valid() bool {
	return r.Lower.H <= r.Upper.H &&
		r.Lower.S <= r.Upper.S &&
		r.Lower.V <= r.Upper.V
}

// Contains reports whether c falls within the range on every channel,
// inclusive on both ends.
func (r ColorRange) Contains(c HSV) bool {
	return c.H >= r.Lower.H && c.H <= r.Upper.H &&
		c.S >= r.Lower.S && c.S <= r.Upper.S &&
		c.V >= r.Lower.V && c.V <= r.Upper.V
}

// RGBToHSV converts an 8-bit RGB sample to OpenCV-scaled HSV.
func RGBToHSV(c color.RGBA) HSV {
	rf := float64(c.R)
	gf := float64(c.G)
	bf := float64(c.B)

	maxC := rf
	if gf > maxC {
		maxC = gf
	}
	if bf > maxC {
		maxC = bf
	}
	minC := rf
	if gf < minC {
		minC = gf
	}
	if bf < minC {
		minC = bf
	}

	v := maxC
	delta := maxC - minC

	var s float64
	if v > 0 {
		s = delta / v * 255
	}

	var h float64
	if delta > 0 {
		switch maxC {
		case rf:
			h = 60 * (gf - bf) / delta
		case gf:
			h = 60 * (2 + (bf-rf)/delta)
		default:
			h = 60 * (4 + (rf-gf)/delta)
		}
		if h < 0 {
			h += 360
		}
	}

	return HSV{H: uint8(h/2 + 0.5), S: uint8(s + 0.5), V: uint8(v + 0.5)}
}

// Mask segments frame against the range: the returned mask is white where
// the pixel's HSV value is inside the range and black elsewhere. Pure; the
// frame is not modified.
func Mask(frame *image.RGBA, r ColorRange) *image.Gray {
	bounds := frame.Bounds()
	mask := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if r.Contains(RGBToHSV(frame.RGBAAt(x, y))) {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return mask
}
