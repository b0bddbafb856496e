package usecases

import (
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/engine/routing"
	"github.com/lintang-b-s/altroute/pkg/landmark"
	"github.com/lintang-b-s/altroute/pkg/querygraph"
)

type Snapper interface {
	Snap(lat, lon, radius float64) (querygraph.Snap, error)
}

type AlgorithmFactory interface {
	CreateAlgo(g routing.Graph, opts routing.AlgorithmOptions,
		source, target da.Index, mapper landmark.VirtualNodeMapper) (routing.RoutingAlgorithm, error)
}
