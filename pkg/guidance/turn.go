package guidance

import (
	"math"

	"github.com/lintang-b-s/altroute/pkg/geo"
	"github.com/lintang-b-s/altroute/pkg/util"
)

type TurnType int

const (
	DEPART TurnType = iota
	CONTINUE_ON_STREET
	TURN_SLIGHT_LEFT
	TURN_SLIGHT_RIGHT
	TURN_LEFT
	TURN_RIGHT
	TURN_SHARP_LEFT
	TURN_SHARP_RIGHT
	ARRIVE
)

func (t TurnType) String() string {
	switch t {
	case DEPART:
		return "depart"
	case CONTINUE_ON_STREET:
		return "continue"
	case TURN_SLIGHT_LEFT:
		return "turn slight left"
	case TURN_SLIGHT_RIGHT:
		return "turn slight right"
	case TURN_LEFT:
		return "turn left"
	case TURN_RIGHT:
		return "turn right"
	case TURN_SHARP_LEFT:
		return "turn sharp left"
	case TURN_SHARP_RIGHT:
		return "turn sharp right"
	case ARRIVE:
		return "arrive"
	}
	return "unknown"
}

// https://www.movable-type.co.uk/scripts/latlong.html
// initial bearing (bearing from a to b with meridian line crossing a). output
// in radians.
func computeInitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	bearing := geo.BearingTo(lat1, lon1, lat2, lon2)
	return util.DegreeToRadians(bearing)
}

/*
alignInitialBearing. handle the case where initialBearing-prevInitialBearing
crosses the +-180° wrap, e.g. prev 20° and current 350° is a left turn
(delta -30°), not a right turn (delta +330°).
*/
func alignInitialBearing(prevInitialBearing, initialBearing float64) (float64, float64) {
	dif := util.RadiansToDegree(initialBearing) - util.RadiansToDegree(prevInitialBearing)
	if dif > 180 {
		prevInitialBearing += 2 * math.Pi
	} else if dif < -180 {
		initialBearing += 2 * math.Pi
	}
	return prevInitialBearing, initialBearing
}

// computeDeltaBearing. delta between the bearing into a point and the bearing
// out of it, in radians. negative means left, positive means right.
func computeDeltaBearing(prevInitialBearing, initialBearing float64) float64 {
	prevInitialBearing, initialBearing = alignInitialBearing(prevInitialBearing, initialBearing)
	return initialBearing - prevInitialBearing
}

func getTurnDirection(prevInitialBearing, initialBearing float64) TurnType {
	delta := computeDeltaBearing(prevInitialBearing, initialBearing)
	deltaDegree := util.RadiansToDegree(math.Abs(delta))
	if deltaDegree < 12 {
		// 12°
		return CONTINUE_ON_STREET
	} else if deltaDegree < 40 {
		if delta < 0 {
			return TURN_SLIGHT_LEFT
		}
		return TURN_SLIGHT_RIGHT
	} else if deltaDegree < 105 {
		if delta < 0 {
			return TURN_LEFT
		}
		return TURN_RIGHT
	} else if delta < 0 {
		return TURN_SHARP_LEFT
	}
	return TURN_SHARP_RIGHT
}
