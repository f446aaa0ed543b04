package tracking

// MarkerPair is the two centroids of one color in a frame, ordered
// top-to-bottom in frame space.
type MarkerPair struct {
	Upper Centroid
	Lower Centroid
}

// ResolvePair forms the frame's marker pair for one color. The pair exists
// only when exactly two centroids were detected; zero, one, or three-plus
// detections are ambiguous and yield no pair at all. There is deliberately
// no "two largest blobs" fallback.
func ResolvePair(pts []Centroid) (MarkerPair, bool) {
	if len(pts) != 2 {
		return MarkerPair{}, false
	}

	a, b := pts[0], pts[1]
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		a, b = b, a
	}
	return MarkerPair{Upper: a, Lower: b}, true
}
