package routing

import (
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
)

// Graph is the topology a routing algorithm runs on. Implemented by the base
// road graph and by query graphs carrying virtual vertices.
type Graph interface {
	NumberOfVertices() int
	ForOutArcsOf(u da.Index, fn func(arc da.Arc))
	ForInArcsOf(u da.Index, fn func(arc da.Arc))
}

// Potential estimates a lower bound on the remaining weight from v to the
// search target. The zero estimate degrades a* to plain dijkstra.
type Potential interface {
	Approximate(v da.Index) float64
}

// RoutingAlgorithm computes a shortest path between two vertices.
type RoutingAlgorithm interface {
	CalcPath(source, target da.Index) (Path, error)
	GetNumVisitedVertices() int
}

// CostFunction maps an arc to its traversal weight.
type CostFunction = costfunction.CostFunction
