package guidance

import (
	"github.com/lintang-b-s/altroute/pkg/geo"
)

// points closer than this get merged before bearing analysis. bearings
// between near-coincident coordinates are numerically meaningless.
const minSegmentLengthM = 1.0

// Instruction is one step of the driving directions. Distance is how far to
// travel after this maneuver until the next one, in meters.
type Instruction struct {
	Turn     string         `json:"turn"`
	Point    geo.Coordinate `json:"point"`
	Distance float64        `json:"distance"`
}

// BuildInstructions derives turn-by-turn directions from the geometry of a
// computed path. The first instruction is always a depart and the last an
// arrive; in between, consecutive segments whose bearing change stays under
// the continue threshold are merged into one instruction.
func BuildInstructions(points []geo.Coordinate) []Instruction {
	points = dropShortSegments(points)
	if len(points) < 2 {
		return nil
	}

	instructions := make([]Instruction, 0)
	current := Instruction{Turn: DEPART.String(), Point: points[0]}

	prevBearing := computeInitialBearing(points[0].GetLat(), points[0].GetLon(),
		points[1].GetLat(), points[1].GetLon())

	for i := 1; i < len(points)-1; i++ {
		current.Distance += geo.CalculateHaversineDistance(
			points[i-1].GetLat(), points[i-1].GetLon(),
			points[i].GetLat(), points[i].GetLon())

		bearing := computeInitialBearing(points[i].GetLat(), points[i].GetLon(),
			points[i+1].GetLat(), points[i+1].GetLon())
		turn := getTurnDirection(prevBearing, bearing)
		prevBearing = bearing

		if turn == CONTINUE_ON_STREET {
			continue
		}

		instructions = append(instructions, current)
		current = Instruction{Turn: turn.String(), Point: points[i]}
	}

	last := len(points) - 1
	current.Distance += geo.CalculateHaversineDistance(
		points[last-1].GetLat(), points[last-1].GetLon(),
		points[last].GetLat(), points[last].GetLon())
	instructions = append(instructions, current)

	instructions = append(instructions, Instruction{
		Turn:  ARRIVE.String(),
		Point: points[last],
	})
	return instructions
}

func dropShortSegments(points []geo.Coordinate) []geo.Coordinate {
	if len(points) == 0 {
		return points
	}
	kept := make([]geo.Coordinate, 0, len(points))
	kept = append(kept, points[0])
	for _, p := range points[1:] {
		prev := kept[len(kept)-1]
		if geo.CalculateHaversineDistance(prev.GetLat(), prev.GetLon(),
			p.GetLat(), p.GetLon()) < minSegmentLengthM {
			continue
		}
		kept = append(kept, p)
	}
	// the destination coordinate always survives.
	if len(kept) >= 2 && kept[len(kept)-1] != points[len(points)-1] {
		kept[len(kept)-1] = points[len(points)-1]
	}
	return kept
}
