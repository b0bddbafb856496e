package costfunction

import (
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
)

// CostFunction assigns a non-negative weight to a graph arc. The landmark
// tables are keyed by Name(). Preprocessing and query must use the same
// weighting, otherwise the triangle-inequality bound silently stops being a
// lower bound.
type CostFunction interface {
	GetWeight(arc da.Arc) float64
	Name() string
}

const (
	defaultSpeed = 20.0 // km/h
)

// TimeFunction weights an arc by its travel time in seconds.
type TimeFunction struct {
}

func NewTimeCostFunction() *TimeFunction {
	return &TimeFunction{}
}

func (tf *TimeFunction) GetWeight(arc da.Arc) float64 {
	speed := arc.GetSpeed()
	if speed == 0 {
		speed = defaultSpeed
	}
	return arc.GetDistance() / (speed / 3.6)
}

func (tf *TimeFunction) Name() string {
	return "fastest"
}

// DistanceFunction weights an arc by its length in meters.
type DistanceFunction struct {
}

func NewDistanceCostFunction() *DistanceFunction {
	return &DistanceFunction{}
}

func (df *DistanceFunction) GetWeight(arc da.Arc) float64 {
	return arc.GetDistance()
}

func (df *DistanceFunction) Name() string {
	return "shortest"
}
