package geo

import "math"

// ProjectPointToSegment projects p onto the segment a-b and returns the
// closest point on the segment. Uses an equirectangular approximation which
// is fine for road-segment scale distances.
func ProjectPointToSegment(a, b, p Coordinate) Coordinate {
	cosLat := math.Cos(0.5 * (degToRad(a.Lat) + degToRad(b.Lat)))

	ax, ay := a.Lon*cosLat, a.Lat
	bx, by := b.Lon*cosLat, b.Lat
	px, py := p.Lon*cosLat, p.Lat

	dx, dy := bx-ax, by-ay
	norm := dx*dx + dy*dy
	if norm == 0 {
		return a
	}

	t := ((px-ax)*dx + (py-ay)*dy) / norm
	if t < 0 {
		return a
	}
	if t > 1 {
		return b
	}
	return NewCoordinate(ay+t*dy, (ax+t*dx)/cosLat)
}

// PointToSegmentDistance returns the distance in meters from p to the
// closest point on the segment a-b.
func PointToSegmentDistance(a, b, p Coordinate) float64 {
	proj := ProjectPointToSegment(a, b, p)
	return CalculateHaversineDistance(proj.Lat, proj.Lon, p.Lat, p.Lon)
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}
