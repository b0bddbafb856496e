package controllers

import "github.com/lintang-b-s/altroute/pkg/guidance"

type RoutingService interface {
	ShortestPath(origLat, origLon, dstLat, dstLon float64) (float64, float64, string, []guidance.Instruction, bool, error)
}
