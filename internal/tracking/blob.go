package tracking

import "image"

// Centroid is the area-weighted center of one connected blob, in integer
// pixel coordinates, together with the blob's pixel area.
type Centroid struct {
	X, Y int
	Area int
}

// FindCentroids labels the 8-connected foreground regions of mask and
// returns a centroid for every region whose pixel area is at least minArea.
// Only maximal foreground regions are considered; holes inside a region are
// never reported as regions of their own. Centroids come from the zeroth
// and first pixel moments, with a guard against an empty region.
func FindCentroids(mask *image.Gray, minArea int) []Centroid {
	bounds := mask.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	visited := make([]bool, w*h)
	var stack []image.Point
	var out []Centroid

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] || mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y == 0 {
				continue
			}

			// Flood-fill one region, accumulating moments m00, m10, m01.
			var m00, m10, m01 int
			visited[idx] = true
			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				m00++
				m10 += p.X
				m01 += p.Y

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						nidx := ny*w + nx
						if visited[nidx] || mask.GrayAt(bounds.Min.X+nx, bounds.Min.Y+ny).Y == 0 {
							continue
						}
						visited[nidx] = true
						stack = append(stack, image.Pt(nx, ny))
					}
				}
			}

			if m00 < minArea {
				continue
			}
			if m00 == 0 {
				continue
			}
			out = append(out, Centroid{
				X:    bounds.Min.X + m10/m00,
				Y:    bounds.Min.Y + m01/m00,
				Area: m00,
			})
		}
	}

	return out
}
