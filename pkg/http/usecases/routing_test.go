package usecases

import (
	"testing"

	"github.com/lintang-b-s/altroute/pkg"
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/geo"
	"github.com/lintang-b-s/altroute/pkg/landmark"
	"github.com/lintang-b-s/altroute/pkg/querygraph"
	"github.com/lintang-b-s/altroute/pkg/spatialindex"
	"github.com/lintang-b-s/altroute/pkg/storage"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// three vertices east along the equator, connected both ways.
func newTestService(t *testing.T, algorithm pkg.SearchAlgorithm) *RoutingService {
	t.Helper()

	lat := []float64{0, 0, 0}
	lon := []float64{0, 0.01, 0.02}
	edges := []da.Edge{
		da.NewEdge(0, 1, 1113, 50), da.NewEdge(1, 0, 1113, 50),
		da.NewEdge(1, 2, 1113, 50), da.NewEdge(2, 1, 1113, 50),
	}
	graph := da.NewGraph(lat, lon, edges)

	log := zap.NewNop()
	dir, err := storage.NewRAMDirectory()
	if err != nil {
		t.Fatalf("open ram directory: %v", err)
	}
	t.Cleanup(func() { dir.Close() })

	costFunction := costfunction.NewDistanceCostFunction()
	lmStorage, err := landmark.NewLandmarkStorage(graph,
		landmark.NewLmConfig("car", costFunction), dir, 2, log)
	if err != nil {
		t.Fatalf("new landmark storage: %v", err)
	}
	lmStorage.SetMinimumNodes(2)
	prepare := landmark.NewPrepareLandmarks(lmStorage, log)
	if err := prepare.DoWork(); err != nil {
		t.Fatalf("prepare landmarks: %v", err)
	}

	index := spatialindex.NewRtree()
	index.Build(graph, 50, log)
	snapper := querygraph.NewSnapper(graph, index)

	return NewRoutingService(log, graph, snapper, prepare, costFunction,
		algorithm, 2, 200)
}

func TestShortestPathEndToEnd(t *testing.T) {
	for _, algorithm := range []pkg.SearchAlgorithm{pkg.ASTAR, pkg.ASTAR_BI} {
		t.Run(algorithm.String(), func(t *testing.T) {
			service := newTestService(t, algorithm)

			eta, dist, pathPolyline, instructions, found, err := service.ShortestPath(0.0002, 0, 0.0002, 0.02)
			if err != nil {
				t.Fatalf("shortest path: %v", err)
			}
			assert.True(t, found)
			assert.InDelta(t, 2226.0, dist, 1e-6)
			// 2226m at 50 km/h.
			assert.InDelta(t, 2226.0/(50.0/3.6), eta, 1e-6)

			coords, err := geo.DecodePolyline(pathPolyline)
			if err != nil {
				t.Fatalf("decode polyline: %v", err)
			}
			assert.Len(t, coords, 3)

			// a straight route collapses to depart + arrive.
			if assert.Len(t, instructions, 2) {
				assert.Equal(t, "depart", instructions[0].Turn)
				assert.Equal(t, "arrive", instructions[1].Turn)
				assert.InDelta(t, 2226.0, instructions[0].Distance, 5.0)
			}
		})
	}
}

func TestShortestPathServesRepeatedQueryFromCache(t *testing.T) {
	service := newTestService(t, pkg.ASTAR_BI)

	eta1, dist1, polyline1, _, found1, err := service.ShortestPath(0.0002, 0, 0.0002, 0.02)
	if err != nil {
		t.Fatalf("first query: %v", err)
	}
	eta2, dist2, polyline2, _, found2, err := service.ShortestPath(0.0002, 0, 0.0002, 0.02)
	if err != nil {
		t.Fatalf("second query: %v", err)
	}

	assert.True(t, found1)
	assert.True(t, found2)
	assert.Equal(t, eta1, eta2)
	assert.Equal(t, dist1, dist2)
	assert.Equal(t, polyline1, polyline2)

	_, cached := service.routeCache.Get(routeCacheKey{origLat: 0.0002, origLon: 0, dstLat: 0.0002, dstLon: 0.02})
	assert.True(t, cached)
}

func TestShortestPathFailsOffNetwork(t *testing.T) {
	service := newTestService(t, pkg.ASTAR_BI)

	_, _, _, _, found, err := service.ShortestPath(5, 5, 0.0002, 0.02)
	assert.Error(t, err)
	assert.False(t, found)
}
