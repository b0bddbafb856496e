package geo

import (
	"math"

	"github.com/lintang-b-s/altroute/pkg/util"
)

const earthRadiusM = 6371000.0

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func NewCoordinates(lat, lon []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lon[i])
	}
	return coords
}

func havFunction(angleRad float64) float64 {
	return 0.5 * (1 - math.Cos(angleRad))
}

// CalculateHaversineDistance returns the great-circle distance between two
// coordinates in meters.
// https://en.wikipedia.org/wiki/Haversine_formula
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOneRad := util.DegreeToRadians(latOne)
	longOneRad := util.DegreeToRadians(longOne)
	latTwoRad := util.DegreeToRadians(latTwo)
	longTwoRad := util.DegreeToRadians(longTwo)

	hav := havFunction(latTwoRad-latOneRad) +
		math.Cos(latOneRad)*math.Cos(latTwoRad)*havFunction(longTwoRad-longOneRad)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(hav))
}

// CalculateEuclidianDistanceEquirectangularProj approximates the distance in
// meters using an equirectangular projection. Cheaper than haversine and
// accurate enough for short segments.
func CalculateEuclidianDistanceEquirectangularProj(latOne, longOne, latTwo, longTwo float64) float64 {
	latOneRad := util.DegreeToRadians(latOne)
	longOneRad := util.DegreeToRadians(longOne)
	latTwoRad := util.DegreeToRadians(latTwo)
	longTwoRad := util.DegreeToRadians(longTwo)

	x := (longTwoRad - longOneRad) * math.Cos(0.5*(latOneRad+latTwoRad))
	y := latTwoRad - latOneRad
	return earthRadiusM * math.Sqrt(x*x+y*y)
}

// GetDestinationPoint returns the coordinate reached when travelling dist
// meters from (lat1, lon1) along the given initial bearing (degrees).
// http://www.movable-type.co.uk/scripts/latlong.html#destPoint
func GetDestinationPoint(lat1, lon1 float64, bearing float64, dist float64) (float64, float64) {
	dr := dist / earthRadiusM

	bearingRad := util.DegreeToRadians(bearing)

	lat1Rad := util.DegreeToRadians(lat1)
	lon1Rad := util.DegreeToRadians(lon1)

	lat2Rad := math.Asin(math.Sin(lat1Rad)*math.Cos(dr) +
		math.Cos(lat1Rad)*math.Sin(dr)*math.Cos(bearingRad))

	lon2Rad := lon1Rad + math.Atan2(math.Sin(bearingRad)*math.Sin(dr)*math.Cos(lat1Rad),
		math.Cos(dr)-math.Sin(lat1Rad)*math.Sin(lat2Rad))

	lon2Rad = math.Mod(lon2Rad+3*math.Pi, 2*math.Pi) - math.Pi

	return util.RadiansToDegree(lat2Rad), util.RadiansToDegree(lon2Rad)
}

// BearingTo returns the initial bearing in degrees [0, 360) of the
// great-circle path from (lat1, lon1) towards (lat2, lon2).
// http://www.movable-type.co.uk/scripts/latlong.html#bearing
func BearingTo(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := util.DegreeToRadians(lat1)
	lat2Rad := util.DegreeToRadians(lat2)
	dLon := util.DegreeToRadians(lon2 - lon1)

	y := math.Sin(dLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) -
		math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLon)

	return math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360)
}

// MidPoint returns the midpoint of a great-circle arc between two coordinates.
func MidPoint(latOne, longOne, latTwo, longTwo float64) (float64, float64) {
	lat1 := util.DegreeToRadians(latOne)
	lon1 := util.DegreeToRadians(longOne)
	lat2 := util.DegreeToRadians(latTwo)
	dLon := util.DegreeToRadians(longTwo - longOne)

	bx := math.Cos(lat2) * math.Cos(dLon)
	by := math.Cos(lat2) * math.Sin(dLon)
	latMid := math.Atan2(math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by))
	lonMid := lon1 + math.Atan2(by, math.Cos(lat1)+bx)

	return util.RadiansToDegree(latMid), normalizeLongitude(util.RadiansToDegree(lonMid))
}

func normalizeLongitude(long float64) float64 {
	for long > 180 {
		long -= 360
	}
	for long < -180 {
		long += 360
	}
	return long
}
