package routing

import (
	"github.com/lintang-b-s/altroute/pkg"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
)

// AlgorithmOptions selects which search to build and how it is weighted.
type AlgorithmOptions struct {
	algorithm           pkg.SearchAlgorithm
	costFunction        CostFunction
	activeLandmarkCount int
}

func NewAlgorithmOptions(algorithm pkg.SearchAlgorithm, costFunction CostFunction,
	activeLandmarkCount int) AlgorithmOptions {
	return AlgorithmOptions{
		algorithm:           algorithm,
		costFunction:        costFunction,
		activeLandmarkCount: activeLandmarkCount,
	}
}

func (o AlgorithmOptions) GetAlgorithm() pkg.SearchAlgorithm {
	return o.algorithm
}

func (o AlgorithmOptions) GetCostFunction() CostFunction {
	return o.costFunction
}

func (o AlgorithmOptions) GetActiveLandmarkCount() int {
	return o.activeLandmarkCount
}

// ZeroPotential turns a* into plain dijkstra.
type ZeroPotential struct{}

func (ZeroPotential) Approximate(v da.Index) float64 {
	return 0
}
