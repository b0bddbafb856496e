package landmark

import (
	"math"
	"sort"
	"testing"

	"github.com/lintang-b-s/altroute/pkg"
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/storage"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// buildUniformGrid builds a size x size grid, every neighboring pair
// connected in both directions with a 1000m edge. Vertex id = row*size+col.
func buildUniformGrid(size int) *da.Graph {
	n := size * size
	lat := make([]float64, n)
	lon := make([]float64, n)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			lat[row*size+col] = float64(row) * 0.009
			lon[row*size+col] = float64(col) * 0.009
		}
	}

	edges := make([]da.Edge, 0, 4*n)
	addBoth := func(u, v int) {
		edges = append(edges, da.NewEdge(da.Index(u), da.Index(v), 1000, 50))
		edges = append(edges, da.NewEdge(da.Index(v), da.Index(u), 1000, 50))
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

// manhattanM is the exact shortest distance on the uniform grid in meters.
func manhattanM(size, u, v int) float64 {
	ur, uc := u/size, u%size
	vr, vc := v/size, v%size
	dr, dc := ur-vr, uc-vc
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return float64(dr+dc) * 1000
}

func newGridStorage(t *testing.T, landmarkCount int) (*LandmarkStorage, *storage.Directory) {
	t.Helper()
	dir, err := storage.NewRAMDirectory()
	if err != nil {
		t.Fatalf("open ram directory: %v", err)
	}
	t.Cleanup(func() { dir.Close() })

	graph := buildUniformGrid(15)
	ls, err := NewLandmarkStorage(graph, NewLmConfig("car", costfunction.NewDistanceCostFunction()),
		dir, landmarkCount, zap.NewNop())
	if err != nil {
		t.Fatalf("new landmark storage: %v", err)
	}
	ls.SetMinimumNodes(2)
	return ls, dir
}

func TestCreateLandmarksOnUniformGrid(t *testing.T) {
	ls, _ := newGridStorage(t, 5)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}

	assert.True(t, ls.IsInitialized())
	assert.Equal(t, 2, ls.GetSubnetworksWithLandmarks())

	// farthest-point selection from the lowest vertex id picks the far
	// corner first, then spreads over the remaining corners and the center.
	assert.Equal(t, []da.Index{224, 0, 14, 112, 210}, ls.GetLandmarks())

	sorted := append([]da.Index(nil), ls.GetLandmarks()...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	assert.Equal(t, []da.Index{0, 14, 112, 210, 224}, sorted)

	assert.Empty(t, ls.GetLandmarksOfSubnetwork(0))
	assert.Equal(t, []da.Index{224, 0, 14, 112, 210}, ls.GetLandmarksOfSubnetwork(1))
	assert.Nil(t, ls.GetLandmarksOfSubnetwork(2))

	// a landmark has zero weight to itself
	assert.Equal(t, uint32(0), ls.GetFromWeight(0, 224))
	assert.Equal(t, uint32(0), ls.GetToWeight(0, 224))

	// largest observed weight (corner to corner, 28km) lands on STORABLE_MAX
	assert.InDelta(t, float64(pkg.STORABLE_MAX)/28000.0, ls.GetFactor(), 1e-12)
}

func TestLandmarkWeightsMatchExactDistances(t *testing.T) {
	ls, _ := newGridStorage(t, 5)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}

	landmarks := ls.GetLandmarks()
	quantizationError := 1.0 / ls.GetFactor()
	for slot, lm := range landmarks {
		for v := 0; v < 225; v++ {
			want := manhattanM(15, int(lm), v)
			from := float64(ls.GetFromWeight(slot, da.Index(v))) / ls.GetFactor()
			to := float64(ls.GetToWeight(slot, da.Index(v))) / ls.GetFactor()
			assert.InDelta(t, want, from, quantizationError)
			assert.InDelta(t, want, to, quantizationError)

			// the grid is symmetric, both directions must quantize equally
			assert.Equal(t, ls.GetFromWeight(slot, da.Index(v)), ls.GetToWeight(slot, da.Index(v)))
		}
	}
}

func TestChooseActiveLandmarks(t *testing.T) {
	ls, _ := newGridStorage(t, 5)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}

	// for this origin/destination pair the corner landmarks 14 (slot 2) and
	// 210 (slot 4) yield the largest query lower bounds.
	active, ok := ls.ChooseActiveLandmarks(27, 47, 2)
	assert.True(t, ok)
	assert.Equal(t, []int{2, 4}, active)
}

func TestStoreAndLoadRoundTrip(t *testing.T) {
	ls, dir := newGridStorage(t, 5)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}
	if err := ls.Store(); err != nil {
		t.Fatalf("store landmarks: %v", err)
	}

	loaded, err := NewLandmarkStorage(ls.GetGraph(),
		NewLmConfig("car", costfunction.NewDistanceCostFunction()), dir, 5, zap.NewNop())
	if err != nil {
		t.Fatalf("new landmark storage: %v", err)
	}
	ok, err := loaded.Load()
	if err != nil {
		t.Fatalf("load landmarks: %v", err)
	}
	assert.True(t, ok)
	assert.True(t, loaded.IsInitialized())
	assert.Equal(t, ls.GetLandmarks(), loaded.GetLandmarks())
	assert.Equal(t, ls.GetFactor(), loaded.GetFactor())
	assert.Equal(t, ls.GetSubnetworksWithLandmarks(), loaded.GetSubnetworksWithLandmarks())
	for slot := 0; slot < 5; slot++ {
		for v := 0; v < 225; v++ {
			assert.Equal(t, ls.GetFromWeight(slot, da.Index(v)), loaded.GetFromWeight(slot, da.Index(v)))
			assert.Equal(t, ls.GetToWeight(slot, da.Index(v)), loaded.GetToWeight(slot, da.Index(v)))
		}
	}
}

func TestLoadRefusesDifferentCostFunction(t *testing.T) {
	ls, dir := newGridStorage(t, 5)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}
	if err := ls.Store(); err != nil {
		t.Fatalf("store landmarks: %v", err)
	}

	other, err := NewLandmarkStorage(ls.GetGraph(),
		NewLmConfig("car", costfunction.NewTimeCostFunction()), dir, 5, zap.NewNop())
	if err != nil {
		t.Fatalf("new landmark storage: %v", err)
	}
	ok, err := other.Load()
	if err != nil {
		t.Fatalf("load landmarks: %v", err)
	}
	assert.False(t, ok)
	assert.False(t, other.IsInitialized())
}

func TestLoadRejectsTruncatedSubnetworks(t *testing.T) {
	ls, dir := newGridStorage(t, 5)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}
	if err := ls.Store(); err != nil {
		t.Fatalf("store landmarks: %v", err)
	}

	// overwrite the stored subnetwork array with a truncated one
	if err := dir.PutUint32Array("lm/car_shortest_5/subnetworks", []uint32{1, 1, 1}); err != nil {
		t.Fatalf("truncate subnetworks: %v", err)
	}

	loaded, err := NewLandmarkStorage(ls.GetGraph(),
		NewLmConfig("car", costfunction.NewDistanceCostFunction()), dir, 5, zap.NewNop())
	if err != nil {
		t.Fatalf("new landmark storage: %v", err)
	}
	ok, err := loaded.Load()
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, loaded.IsInitialized())
}

func TestSelectLandmarksOnChain(t *testing.T) {
	lat := []float64{0, 0, 0}
	lon := []float64{0, 0.009, 0.018}
	edges := []da.Edge{
		da.NewEdge(0, 1, 1000, 50), da.NewEdge(1, 0, 1000, 50),
		da.NewEdge(1, 2, 1000, 50), da.NewEdge(2, 1, 1000, 50),
	}
	graph := da.NewGraph(lat, lon, edges)

	dir, err := storage.NewRAMDirectory()
	if err != nil {
		t.Fatalf("open ram directory: %v", err)
	}
	t.Cleanup(func() { dir.Close() })

	ls, err := NewLandmarkStorage(graph, NewLmConfig("car", costfunction.NewDistanceCostFunction()),
		dir, 2, zap.NewNop())
	if err != nil {
		t.Fatalf("new landmark storage: %v", err)
	}
	ls.SetMinimumNodes(1)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}

	// on a chain the two ends are the farthest spread pair
	assert.Equal(t, []da.Index{2, 0}, ls.GetLandmarks())
}

func TestSmallComponentGetsNoLandmarks(t *testing.T) {
	// 15x15 grid plus a detached 3-cycle, minimum component size keeps the
	// cycle landmark free.
	grid := buildUniformGrid(15)
	n := grid.NumberOfVertices()

	lat := make([]float64, 0, n+3)
	lon := make([]float64, 0, n+3)
	for v := 0; v < n; v++ {
		la, lo := grid.GetVertexCoordinates(da.Index(v))
		lat = append(lat, la)
		lon = append(lon, lo)
	}
	lat = append(lat, 1, 1, 1)
	lon = append(lon, 1, 1.009, 1.018)

	edges := make([]da.Edge, 0)
	grid.ForEdges(func(id da.Index, e da.Edge) {
		edges = append(edges, e)
	})
	a, b, c := da.Index(n), da.Index(n+1), da.Index(n+2)
	edges = append(edges,
		da.NewEdge(a, b, 1000, 50), da.NewEdge(b, c, 1000, 50), da.NewEdge(c, a, 1000, 50))

	graph := da.NewGraph(lat, lon, edges)

	dir, err := storage.NewRAMDirectory()
	if err != nil {
		t.Fatalf("open ram directory: %v", err)
	}
	t.Cleanup(func() { dir.Close() })

	ls, err := NewLandmarkStorage(graph, NewLmConfig("car", costfunction.NewDistanceCostFunction()),
		dir, 5, zap.NewNop())
	if err != nil {
		t.Fatalf("new landmark storage: %v", err)
	}
	ls.SetMinimumNodes(10)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}

	assert.Equal(t, 2, ls.GetSubnetworksWithLandmarks())
	assert.Equal(t, uint32(0), ls.GetSubnetwork(a))
	assert.NotEqual(t, uint32(0), ls.GetSubnetwork(0))

	// endpoints in different subnetworks cannot share active landmarks
	_, ok := ls.ChooseActiveLandmarks(0, a, 2)
	assert.False(t, ok)

	// vertices of the skipped component always approximate to zero
	approx := NewApproximator(ls, []int{0, 1}, 0, 0, false)
	assert.Equal(t, 0.0, approx.Approximate(a))
}

func TestApproximatorIsAdmissible(t *testing.T) {
	ls, _ := newGridStorage(t, 5)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}

	target := da.Index(47)
	active, ok := ls.ChooseActiveLandmarks(27, target, 5)
	if !ok {
		t.Fatal("expected active landmarks")
	}
	approx := NewApproximator(ls, active, target, 0, false)

	for v := 0; v < 225; v++ {
		got := approx.Approximate(da.Index(v))
		want := manhattanM(15, v, int(target))
		if got > want+1e-9 {
			t.Fatalf("potential of %d overestimates: %f > %f", v, got, want)
		}
		if got < 0 {
			t.Fatalf("potential of %d is negative: %f", v, got)
		}
	}
	assert.Equal(t, 0.0, approx.Approximate(target))

	// the bound must stay tight enough to be useful: at the full landmark
	// set the corner landmarks give the exact manhattan distance minus the
	// quantization slack.
	got := approx.Approximate(210)
	want := manhattanM(15, 210, int(target))
	assert.InDelta(t, want, got, 2.0/ls.GetFactor())
}

func TestBalancedApproximatorIsAntisymmetric(t *testing.T) {
	ls, _ := newGridStorage(t, 5)
	if err := ls.CreateLandmarks(); err != nil {
		t.Fatalf("create landmarks: %v", err)
	}

	source, target := da.Index(27), da.Index(47)
	active, _ := ls.ChooseActiveLandmarks(source, target, 3)
	balanced := NewBalancedApproximator(
		NewApproximator(ls, active, target, 0, false),
		NewApproximator(ls, active, source, 0, true))

	pf := balanced.ForwardPotential()
	pr := balanced.ReversePotential()
	for v := 0; v < 225; v++ {
		sum := pf.Approximate(da.Index(v)) + pr.Approximate(da.Index(v))
		if math.Abs(sum) > 1e-12 {
			t.Fatalf("potential pair not balanced at %d: %f", v, sum)
		}
	}
}
