package landmark

import (
	"testing"

	"github.com/lintang-b-s/altroute/pkg"
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/engine/routing"
	"github.com/lintang-b-s/altroute/pkg/geo"
	"github.com/lintang-b-s/altroute/pkg/querygraph"
	"github.com/lintang-b-s/altroute/pkg/storage"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type lcg struct {
	state uint32
}

func (r *lcg) next() uint32 {
	r.state = r.state*1103515245 + 12345
	return r.state >> 8
}

// buildRandomGrid builds a size x size grid with pseudorandom symmetric edge
// lengths, which makes shortest paths essentially unique.
func buildRandomGrid(size int, seed uint32) *da.Graph {
	n := size * size
	lat := make([]float64, n)
	lon := make([]float64, n)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			lat[row*size+col] = float64(row) * 0.009
			lon[row*size+col] = float64(col) * 0.009
		}
	}

	rng := &lcg{state: seed}
	edges := make([]da.Edge, 0, 4*n)
	addBoth := func(u, v int) {
		dist := 1000.0 + float64(rng.next()%500)
		edges = append(edges, da.NewEdge(da.Index(u), da.Index(v), dist, 50))
		edges = append(edges, da.NewEdge(da.Index(v), da.Index(u), dist, 50))
	}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if col+1 < size {
				addBoth(row*size+col, row*size+col+1)
			}
			if row+1 < size {
				addBoth(row*size+col, (row+1)*size+col)
			}
		}
	}
	return da.NewGraph(lat, lon, edges)
}

func preparedGrid(t *testing.T, size int) (*da.Graph, *PrepareLandmarks) {
	t.Helper()
	graph := buildRandomGrid(size, 42)

	dir, err := storage.NewRAMDirectory()
	if err != nil {
		t.Fatalf("open ram directory: %v", err)
	}
	t.Cleanup(func() { dir.Close() })

	ls, err := NewLandmarkStorage(graph, NewLmConfig("car", costfunction.NewDistanceCostFunction()),
		dir, 8, zap.NewNop())
	if err != nil {
		t.Fatalf("new landmark storage: %v", err)
	}
	ls.SetMinimumNodes(2)

	prepare := NewPrepareLandmarks(ls, zap.NewNop())
	if err := prepare.DoWork(); err != nil {
		t.Fatalf("prepare landmarks: %v", err)
	}
	return graph, prepare
}

// assertValidPath checks the path hops exist in the graph and their weights
// add up to the reported path weight.
func assertValidPath(t *testing.T, graph *da.Graph, costFunction costfunction.CostFunction,
	path routing.Path) {
	t.Helper()
	vertices := path.GetVertices()
	edges := path.GetEdges()
	assert.Equal(t, len(vertices)-1, len(edges))

	total := 0.0
	for i := 0; i+1 < len(vertices); i++ {
		found := false
		graph.ForOutArcsOf(vertices[i], func(arc da.Arc) {
			if arc.GetEdgeId() == edges[i] && arc.GetAdjVertex() == vertices[i+1] {
				total += costFunction.GetWeight(arc)
				found = true
			}
		})
		if !found {
			t.Fatalf("hop %d -> %d is not an arc", vertices[i], vertices[i+1])
		}
	}
	assert.InDelta(t, path.GetWeight(), total, 1e-6)
}

func TestAStarWithLandmarksMatchesDijkstra(t *testing.T) {
	const size = 12
	graph, prepare := preparedGrid(t, size)
	costFunction := costfunction.NewDistanceCostFunction()
	opts := routing.NewAlgorithmOptions(pkg.ASTAR, costFunction, 4)

	rng := &lcg{state: 7}
	visitedPlain, visitedAccelerated := 0, 0
	for i := 0; i < 20; i++ {
		source := da.Index(rng.next() % (size * size))
		target := da.Index(rng.next() % (size * size))

		plain := routing.NewAStar(graph, costFunction, routing.ZeroPotential{})
		wantPath, err := plain.CalcPath(source, target)
		if err != nil {
			t.Fatalf("dijkstra failed: %v", err)
		}

		accelerated, err := prepare.CreateAlgo(graph, opts, source, target, nil)
		if err != nil {
			t.Fatalf("create algo: %v", err)
		}
		gotPath, err := accelerated.CalcPath(source, target)
		if err != nil {
			t.Fatalf("landmark a* failed: %v", err)
		}

		assert.Equal(t, wantPath.IsFound(), gotPath.IsFound())
		if !wantPath.IsFound() {
			continue
		}
		assert.InDelta(t, wantPath.GetWeight(), gotPath.GetWeight(), 1e-6)
		assertValidPath(t, graph, costFunction, gotPath)

		visitedPlain += plain.GetNumVisitedVertices()
		visitedAccelerated += accelerated.GetNumVisitedVertices()
	}
	assert.Less(t, visitedAccelerated, visitedPlain)
}

func TestAStarWithLandmarksVisitsFewerVerticesOnLongQuery(t *testing.T) {
	const size = 12
	graph, prepare := preparedGrid(t, size)
	costFunction := costfunction.NewDistanceCostFunction()
	opts := routing.NewAlgorithmOptions(pkg.ASTAR, costFunction, 4)

	source, target := da.Index(0), da.Index(size*size-1)

	plain := routing.NewAStar(graph, costFunction, routing.ZeroPotential{})
	wantPath, err := plain.CalcPath(source, target)
	if err != nil {
		t.Fatalf("dijkstra failed: %v", err)
	}

	accelerated, err := prepare.CreateAlgo(graph, opts, source, target, nil)
	if err != nil {
		t.Fatalf("create algo: %v", err)
	}
	gotPath, err := accelerated.CalcPath(source, target)
	if err != nil {
		t.Fatalf("landmark a* failed: %v", err)
	}

	assert.InDelta(t, wantPath.GetWeight(), gotPath.GetWeight(), 1e-6)
	assert.Less(t, accelerated.GetNumVisitedVertices(), plain.GetNumVisitedVertices())
}

func TestBidirectionalAStarWithLandmarksMatchesDijkstra(t *testing.T) {
	const size = 12
	graph, prepare := preparedGrid(t, size)
	costFunction := costfunction.NewDistanceCostFunction()
	opts := routing.NewAlgorithmOptions(pkg.ASTAR_BI, costFunction, 4)

	rng := &lcg{state: 99}
	visitedPlain, visitedAccelerated := 0, 0
	for i := 0; i < 20; i++ {
		source := da.Index(rng.next() % (size * size))
		target := da.Index(rng.next() % (size * size))

		plain := routing.NewBidirectionalAStar(graph, costFunction,
			routing.ZeroPotential{}, routing.ZeroPotential{})
		wantPath, err := plain.CalcPath(source, target)
		if err != nil {
			t.Fatalf("bidirectional dijkstra failed: %v", err)
		}

		accelerated, err := prepare.CreateAlgo(graph, opts, source, target, nil)
		if err != nil {
			t.Fatalf("create algo: %v", err)
		}
		gotPath, err := accelerated.CalcPath(source, target)
		if err != nil {
			t.Fatalf("landmark bidirectional a* failed: %v", err)
		}

		assert.Equal(t, wantPath.IsFound(), gotPath.IsFound())
		if !wantPath.IsFound() {
			continue
		}
		assert.InDelta(t, wantPath.GetWeight(), gotPath.GetWeight(), 1e-6)
		assertValidPath(t, graph, costFunction, gotPath)

		visitedPlain += plain.GetNumVisitedVertices()
		visitedAccelerated += accelerated.GetNumVisitedVertices()
	}
	assert.Less(t, visitedAccelerated, visitedPlain)
}

func TestAStarWithLandmarksOnQueryGraph(t *testing.T) {
	const size = 12
	graph, prepare := preparedGrid(t, size)
	costFunction := costfunction.NewDistanceCostFunction()
	opts := routing.NewAlgorithmOptions(pkg.ASTAR, costFunction, 4)

	qg := querygraph.NewQueryGraph(graph, costFunction)

	// virtual source halfway along edge 0 (vertex 0 -> vertex 1), virtual
	// target halfway along the last horizontal edge of the bottom row.
	source := qg.AddVirtualNode(halfwaySnap(graph, 0))
	lastEdge := da.Index(graph.NumberOfEdges() - 2)
	target := qg.AddVirtualNode(halfwaySnap(graph, lastEdge))
	assert.GreaterOrEqual(t, int(source), graph.NumberOfVertices())
	assert.NotEqual(t, source, target)

	plain := routing.NewAStar(qg, costFunction, routing.ZeroPotential{})
	wantPath, err := plain.CalcPath(source, target)
	if err != nil {
		t.Fatalf("dijkstra on query graph failed: %v", err)
	}
	assert.True(t, wantPath.IsFound())

	accelerated, err := prepare.CreateAlgo(qg, opts, source, target, qg)
	if err != nil {
		t.Fatalf("create algo: %v", err)
	}
	gotPath, err := accelerated.CalcPath(source, target)
	if err != nil {
		t.Fatalf("landmark a* on query graph failed: %v", err)
	}

	assert.True(t, gotPath.IsFound())
	assert.InDelta(t, wantPath.GetWeight(), gotPath.GetWeight(), 1e-6)
	assert.Equal(t, wantPath.GetVertices(), gotPath.GetVertices())
	assert.Less(t, accelerated.GetNumVisitedVertices(), plain.GetNumVisitedVertices())
}

// halfwaySnap fakes a snap onto the midpoint of the given edge.
func halfwaySnap(graph *da.Graph, edgeID da.Index) querygraph.Snap {
	e := graph.GetEdge(edgeID)
	fromLat, fromLon := graph.GetVertexCoordinates(e.From)
	toLat, toLon := graph.GetVertexCoordinates(e.To)
	mid := geo.NewCoordinate((fromLat+toLat)/2, (fromLon+toLon)/2)
	return querygraph.Snap{EdgeID: edgeID, Point: mid, Query: mid}
}

func TestCreateAlgoFallsBackWithoutPreparation(t *testing.T) {
	graph := buildRandomGrid(6, 1)

	dir, err := storage.NewRAMDirectory()
	if err != nil {
		t.Fatalf("open ram directory: %v", err)
	}
	t.Cleanup(func() { dir.Close() })

	ls, err := NewLandmarkStorage(graph, NewLmConfig("car", costfunction.NewDistanceCostFunction()),
		dir, 4, zap.NewNop())
	if err != nil {
		t.Fatalf("new landmark storage: %v", err)
	}
	prepare := NewPrepareLandmarks(ls, zap.NewNop())
	loaded, err := prepare.LoadExisting()
	if err != nil {
		t.Fatalf("load existing: %v", err)
	}
	assert.False(t, loaded)

	costFunction := costfunction.NewDistanceCostFunction()
	opts := routing.NewAlgorithmOptions(pkg.ASTAR, costFunction, 4)
	algo, err := prepare.CreateAlgo(graph, opts, 0, 35, nil)
	if err != nil {
		t.Fatalf("create algo: %v", err)
	}
	path, err := algo.CalcPath(0, 35)
	if err != nil {
		t.Fatalf("calc path: %v", err)
	}
	assert.True(t, path.IsFound())
	assertValidPath(t, graph, costFunction, path)
}
