package usecases

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/altroute/pkg"
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/engine/routing"
	"github.com/lintang-b-s/altroute/pkg/geo"
	"github.com/lintang-b-s/altroute/pkg/guidance"
	"github.com/lintang-b-s/altroute/pkg/querygraph"
	"github.com/lintang-b-s/altroute/pkg/util"
	"go.uber.org/zap"
)

const routeCacheSize = 8192

// route queries repeat a lot in practice (map clients re-request on pan and
// zoom), so finished routes are kept in an lru cache keyed by the raw query
// coordinates.
type routeCacheKey struct {
	origLat, origLon, dstLat, dstLon float64
}

type routeCacheEntry struct {
	eta          float64
	dist         float64
	polyline     string
	instructions []guidance.Instruction
}

type RoutingService struct {
	log     *zap.Logger
	graph   *da.Graph
	snapper Snapper
	factory AlgorithmFactory

	costFunction        costfunction.CostFunction
	timeFunction        costfunction.CostFunction
	algorithm           pkg.SearchAlgorithm
	activeLandmarkCount int
	searchRadius        float64

	routeCache *lru.Cache[routeCacheKey, routeCacheEntry]
}

func NewRoutingService(log *zap.Logger, graph *da.Graph, snapper Snapper,
	factory AlgorithmFactory, costFunction costfunction.CostFunction,
	algorithm pkg.SearchAlgorithm, activeLandmarkCount int, searchRadius float64) *RoutingService {
	routeCache, _ := lru.New[routeCacheKey, routeCacheEntry](routeCacheSize)
	return &RoutingService{
		log:                 log,
		graph:               graph,
		snapper:             snapper,
		factory:             factory,
		costFunction:        costFunction,
		timeFunction:        costfunction.NewTimeCostFunction(),
		algorithm:           algorithm,
		activeLandmarkCount: activeLandmarkCount,
		searchRadius:        searchRadius,
		routeCache:          routeCache,
	}
}

// ShortestPath snaps both coordinates onto the network, runs the landmark
// accelerated search on a query graph and returns travel time in seconds,
// distance in meters, the encoded path polyline and turn-by-turn driving
// directions.
func (rs *RoutingService) ShortestPath(origLat, origLon, dstLat, dstLon float64) (float64, float64, string, []guidance.Instruction, bool, error) {
	cacheKey := routeCacheKey{origLat: origLat, origLon: origLon, dstLat: dstLat, dstLon: dstLon}
	if cached, ok := rs.routeCache.Get(cacheKey); ok {
		return cached.eta, cached.dist, cached.polyline, cached.instructions, true, nil
	}

	origSnap, err := rs.snapper.Snap(origLat, origLon, rs.searchRadius)
	if err != nil {
		return 0, 0, "", nil, false, err
	}
	dstSnap, err := rs.snapper.Snap(dstLat, dstLon, rs.searchRadius)
	if err != nil {
		return 0, 0, "", nil, false, err
	}

	qg := querygraph.NewQueryGraph(rs.graph, rs.costFunction)
	source := qg.AddVirtualNode(origSnap)
	target := qg.AddVirtualNode(dstSnap)

	opts := routing.NewAlgorithmOptions(rs.algorithm, rs.costFunction, rs.activeLandmarkCount)
	algo, err := rs.factory.CreateAlgo(qg, opts, source, target, qg)
	if err != nil {
		return 0, 0, "", nil, false, err
	}

	path, err := algo.CalcPath(source, target)
	if err != nil {
		return 0, 0, "", nil, false, err
	}
	if !path.IsFound() {
		return 0, 0, "", nil, false, util.WrapErrorf(nil, util.ErrNotFound,
			"no path found from %f,%f to %f,%f", origLat, origLon, dstLat, dstLon)
	}

	eta, dist := rs.pathEtaAndDistance(qg, path)
	coords := rs.pathCoordinates(qg, path)
	pathPolyline := geo.EncodePolyline(coords)
	instructions := guidance.BuildInstructions(coords)

	rs.log.Debug("computed route",
		zap.Float64("eta", eta),
		zap.Float64("distance", dist),
		zap.Int("visited", algo.GetNumVisitedVertices()))

	rs.routeCache.Add(cacheKey, routeCacheEntry{
		eta:          eta,
		dist:         dist,
		polyline:     pathPolyline,
		instructions: instructions,
	})
	return eta, dist, pathPolyline, instructions, true, nil
}

// pathEtaAndDistance walks the path hops and accumulates travel time and
// distance from the traversed arcs, including the partial arcs of virtual
// endpoints.
func (rs *RoutingService) pathEtaAndDistance(qg *querygraph.QueryGraph,
	path routing.Path) (float64, float64) {
	vertices := path.GetVertices()
	edges := path.GetEdges()

	eta, dist := 0.0, 0.0
	for i := 0; i+1 < len(vertices); i++ {
		u, v := vertices[i], vertices[i+1]
		qg.ForOutArcsOf(u, func(arc da.Arc) {
			if arc.GetAdjVertex() == v && arc.GetEdgeId() == edges[i] {
				eta += rs.timeFunction.GetWeight(arc)
				dist += arc.GetDistance()
			}
		})
	}
	return eta, dist
}

func (rs *RoutingService) pathCoordinates(qg *querygraph.QueryGraph,
	path routing.Path) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(path.GetVertices()))
	for _, v := range path.GetVertices() {
		lat, lon := qg.GetVertexCoordinates(v)
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}
	return coords
}
