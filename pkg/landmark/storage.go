package landmark

import (
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/lintang-b-s/altroute/pkg"
	"github.com/lintang-b-s/altroute/pkg/concurrent"
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/storage"
	"github.com/lintang-b-s/altroute/pkg/util"
	"go.uber.org/zap"
)

// LmConfig names a landmark set and binds it to the cost function its
// weights were computed with.
type LmConfig struct {
	name         string
	costFunction costfunction.CostFunction
}

func NewLmConfig(name string, costFunction costfunction.CostFunction) LmConfig {
	return LmConfig{name: name, costFunction: costFunction}
}

func (c LmConfig) GetName() string {
	return c.name
}

func (c LmConfig) GetCostFunction() costfunction.CostFunction {
	return c.costFunction
}

// describe is the string persisted next to the weight tables. Loading a set
// prepared with a different cost function is refused based on it.
func (c LmConfig) describe() string {
	return fmt.Sprintf("%s|%s", c.name, c.costFunction.Name())
}

/*
[1] Goldberg, A.V. and Harrelson, C. (2005) ‘Computing the shortest path: A* search meets graph theory’, in Proceedings of the Sixteenth Annual ACM-SIAM Symposium on Discrete Algorithms. USA: Society for Industrial and Applied Mathematics (SODA ’05), pp. 156–165.
[2] Bast, H. et al. (2016) “Route Planning in Transportation Networks,” in L.
Kliemann and P. Sanders (eds.) Algorithm Engineering: Selected Results and
Surveys. Cham: Springer International Publishing, pp. 19–80.

LandmarkStorage holds the precomputed landmark weight tables of the ALT
algorithm described in [1] (section 2.2 of [2]). For every landmark L it
stores the one-to-all weights L->v (fromWeights) and v->L (toWeights),
quantized to 16 bits. Landmarks are selected per strongly connected
component with farthest-point selection, one independent set per component
that has at least minimumNodes vertices.
*/
type LandmarkStorage struct {
	graph  *da.Graph
	config LmConfig
	dir    *storage.Directory
	logger *zap.Logger

	landmarkCount int
	minimumNodes  int

	// stored weight -> real weight is stored/factor.
	factor float64

	// fromWeights[slot][v] is the quantized weight from the slot-th landmark
	// of v's subnetwork to v, toWeights[slot][v] the reverse direction.
	// vertices outside the landmark's subnetwork hold SHORT_INFINITY.
	fromWeights [][]uint32
	toWeights   [][]uint32

	// subnetwork id per vertex. id 0 is reserved for vertices of components
	// too small to get landmarks, those always approximate to zero.
	subnetworks []uint32

	// landmarks[sid][slot] is the vertex id of a landmark, in selection
	// order. landmarks[0] stays empty.
	landmarks [][]da.Index

	chooser ActiveLandmarkStrategy

	initialized bool
}

func NewLandmarkStorage(graph *da.Graph, config LmConfig, dir *storage.Directory,
	landmarkCount int, logger *zap.Logger) (*LandmarkStorage, error) {
	if landmarkCount > 64 {
		return nil, fmt.Errorf("too much landmarks!, the maximum number of landmarks is 64")
	}
	if landmarkCount < 1 {
		return nil, fmt.Errorf("at least one landmark is required")
	}
	return &LandmarkStorage{
		graph:         graph,
		config:        config,
		dir:           dir,
		logger:        logger,
		landmarkCount: landmarkCount,
		minimumNodes:  pkg.DEFAULT_MINIMUM_NODES,
		chooser:       NewWeightDifferenceStrategy(),
	}, nil
}

// SetMinimumNodes sets the smallest component size that still gets its own
// landmark set. Must be called before CreateLandmarks.
func (ls *LandmarkStorage) SetMinimumNodes(minimumNodes int) {
	ls.minimumNodes = minimumNodes
}

// SetActiveLandmarkStrategy overrides how the per-query landmark subset is
// picked.
func (ls *LandmarkStorage) SetActiveLandmarkStrategy(chooser ActiveLandmarkStrategy) {
	ls.chooser = chooser
}

func (ls *LandmarkStorage) IsInitialized() bool {
	return ls.initialized
}

func (ls *LandmarkStorage) GetFactor() float64 {
	return ls.factor
}

func (ls *LandmarkStorage) GetLandmarkCount() int {
	return ls.landmarkCount
}

func (ls *LandmarkStorage) GetGraph() *da.Graph {
	return ls.graph
}

func (ls *LandmarkStorage) GetConfig() LmConfig {
	return ls.config
}

// GetLandmarks returns the landmark vertices of every subnetwork in slot
// order, concatenated.
func (ls *LandmarkStorage) GetLandmarks() []da.Index {
	all := make([]da.Index, 0, ls.landmarkCount)
	for _, lms := range ls.landmarks {
		all = append(all, lms...)
	}
	return all
}

// GetLandmarksOfSubnetwork returns the landmark vertex ids of one
// subnetwork in selection order. Subnetwork 0 is the reserved empty set.
func (ls *LandmarkStorage) GetLandmarksOfSubnetwork(subnetwork int) []da.Index {
	if subnetwork < 0 || subnetwork >= len(ls.landmarks) {
		return nil
	}
	return ls.landmarks[subnetwork]
}

// GetSubnetworksWithLandmarks counts the landmark sets including the
// reserved empty set 0. A graph with one big component yields 2.
func (ls *LandmarkStorage) GetSubnetworksWithLandmarks() int {
	return len(ls.landmarks)
}

func (ls *LandmarkStorage) GetSubnetwork(v da.Index) uint32 {
	return ls.subnetworks[v]
}

// GetFromWeight returns the quantized weight from the slot-th landmark of
// v's subnetwork to v.
func (ls *LandmarkStorage) GetFromWeight(slot int, v da.Index) uint32 {
	return ls.fromWeights[slot][v]
}

// GetToWeight returns the quantized weight from v to the slot-th landmark
// of v's subnetwork.
func (ls *LandmarkStorage) GetToWeight(slot int, v da.Index) uint32 {
	return ls.toWeights[slot][v]
}

/*
CreateLandmarks runs the whole preprocessing: splits the graph into strongly
connected components, selects landmarkCount landmarks inside every component
with at least minimumNodes vertices, computes the forward and backward
one-to-all weights of every landmark and quantizes them into the 16 bit
range. O(k * (n+m)logn) per component, landmark searches run concurrently.
*/
func (ls *LandmarkStorage) CreateLandmarks() error {
	if ls.initialized {
		return fmt.Errorf("landmarks already created")
	}
	n := ls.graph.NumberOfVertices()

	ls.subnetworks = make([]uint32, n)
	ls.landmarks = make([][]da.Index, 1) // index 0 reserved
	ls.fromWeights = make([][]uint32, ls.landmarkCount)
	ls.toWeights = make([][]uint32, ls.landmarkCount)
	for slot := 0; slot < ls.landmarkCount; slot++ {
		ls.fromWeights[slot] = make([]uint32, n)
		ls.toWeights[slot] = make([]uint32, n)
		for v := 0; v < n; v++ {
			ls.fromWeights[slot][v] = pkg.SHORT_INFINITY
			ls.toWeights[slot][v] = pkg.SHORT_INFINITY
		}
	}

	components := ls.graph.StronglyConnectedComponents()

	// float tables per landmark slot, quantized at the end once the largest
	// finite weight is known.
	fromReal := make([][]float64, ls.landmarkCount)
	toReal := make([][]float64, ls.landmarkCount)
	for slot := 0; slot < ls.landmarkCount; slot++ {
		fromReal[slot] = make([]float64, n)
		toReal[slot] = make([]float64, n)
		for v := 0; v < n; v++ {
			fromReal[slot][v] = pkg.INF_WEIGHT
			toReal[slot][v] = pkg.INF_WEIGHT
		}
	}

	for _, component := range components {
		if len(component) < ls.minimumNodes {
			continue
		}
		sid := uint32(len(ls.landmarks))
		for _, v := range component {
			ls.subnetworks[v] = sid
		}

		lms := ls.selectLandmarks(component)
		ls.landmarks = append(ls.landmarks, lms)

		ls.logger.Info("computing landmark weight tables",
			zap.Uint32("subnetwork", sid),
			zap.Int("landmarks", len(lms)),
			zap.Int("vertices", len(component)))

		ls.buildTables(sid, lms, fromReal, toReal)
	}

	if len(ls.landmarks) == 1 {
		return util.WrapErrorf(nil, util.ErrInternalServerError,
			"no component with at least %d vertices, no landmarks created", ls.minimumNodes)
	}

	ls.quantize(fromReal, toReal)

	ls.initialized = true
	return nil
}

// selectLandmarks picks landmarks inside one strongly connected component
// with farthest-point selection (section 3.2 "farthest" in Goldberg &
// Harrelson): each next landmark maximizes the smallest weight to the ones
// picked so far, ties broken by lowest vertex id. The seed vertex itself is
// only a starting point and is discarded.
func (ls *LandmarkStorage) selectLandmarks(component []da.Index) []da.Index {
	count := ls.landmarkCount
	if count > len(component) {
		count = len(component)
	}

	inComponent := make(map[da.Index]bool, len(component))
	for _, v := range component {
		inComponent[v] = true
	}

	// minDist[v] = smallest weight from any selected landmark to v.
	minDist := make(map[da.Index]float64, len(component))
	for _, v := range component {
		minDist[v] = pkg.INF_WEIGHT
	}

	farthestFrom := func(source da.Index) da.Index {
		dist := newOneToAllDijkstra(ls.graph, ls.config.costFunction, false).shortestPath(source)
		best := da.INVALID_VERTEX_ID
		bestDist := -1.0
		for _, v := range component {
			if dist[v] < minDist[v] {
				minDist[v] = dist[v]
			}
			if da.Gt(minDist[v], bestDist) && minDist[v] < pkg.INF_WEIGHT {
				bestDist = minDist[v]
				best = v
			}
		}
		return best
	}

	// component vertices are in ascending id order, the seed is the lowest.
	seed := component[0]
	lms := make([]da.Index, 0, count)
	lms = append(lms, farthestFrom(seed))

	// reset, the seed must not influence the spread of the real landmarks.
	for _, v := range component {
		minDist[v] = pkg.INF_WEIGHT
	}

	for len(lms) < count {
		next := farthestFrom(lms[len(lms)-1])
		if next == da.INVALID_VERTEX_ID || !inComponent[next] {
			break
		}
		lms = append(lms, next)
	}
	return lms
}

type landmarkJob struct {
	slot    int
	source  da.Index
	reverse bool
}

type landmarkResult struct {
	slot    int
	reverse bool
	dist    []float64
}

// buildTables computes the forward and backward one-to-all weights of every
// landmark of one subnetwork, two searches per landmark run on a worker
// pool. Only vertices of the landmark's own subnetwork keep their weights.
func (ls *LandmarkStorage) buildTables(sid uint32, lms []da.Index,
	fromReal, toReal [][]float64) {

	pool := concurrent.NewWorkerPool[landmarkJob, landmarkResult](runtime.NumCPU(), 2*len(lms))

	for slot, lm := range lms {
		pool.AddJob(landmarkJob{slot: slot, source: lm, reverse: false})
		pool.AddJob(landmarkJob{slot: slot, source: lm, reverse: true})
	}
	pool.Close()

	pool.Start(func(job landmarkJob) landmarkResult {
		dist := newOneToAllDijkstra(ls.graph, ls.config.costFunction, job.reverse).shortestPath(job.source)
		return landmarkResult{slot: job.slot, reverse: job.reverse, dist: dist}
	})
	pool.Wait()

	for res := range pool.CollectResults() {
		table := fromReal
		if res.reverse {
			table = toReal
		}
		for v, d := range res.dist {
			if ls.subnetworks[v] == sid {
				table[res.slot][v] = d
			}
		}
	}
}

// quantize maps the float weight tables into the 16 bit storable range. The
// factor is chosen so the largest observed weight lands on STORABLE_MAX and
// is halved until rounding no longer overflows.
func (ls *LandmarkStorage) quantize(fromReal, toReal [][]float64) {
	maxObserved := 0.0
	for slot := 0; slot < ls.landmarkCount; slot++ {
		for v := 0; v < ls.graph.NumberOfVertices(); v++ {
			if fromReal[slot][v] < pkg.INF_WEIGHT && fromReal[slot][v] > maxObserved {
				maxObserved = fromReal[slot][v]
			}
			if toReal[slot][v] < pkg.INF_WEIGHT && toReal[slot][v] > maxObserved {
				maxObserved = toReal[slot][v]
			}
		}
	}
	if maxObserved <= 0 {
		ls.factor = 1.0
		return
	}

	ls.factor = float64(pkg.STORABLE_MAX) / maxObserved

	for {
		overflow := false
		for slot := 0; slot < ls.landmarkCount && !overflow; slot++ {
			for v := 0; v < ls.graph.NumberOfVertices(); v++ {
				sf := ls.store(fromReal[slot][v])
				st := ls.store(toReal[slot][v])
				if sf > pkg.STORABLE_MAX && sf != pkg.SHORT_INFINITY ||
					st > pkg.STORABLE_MAX && st != pkg.SHORT_INFINITY {
					overflow = true
					break
				}
				ls.fromWeights[slot][v] = sf
				ls.toWeights[slot][v] = st
			}
		}
		if !overflow {
			return
		}
		ls.factor /= 2
	}
}

func (ls *LandmarkStorage) store(real float64) uint32 {
	if real >= pkg.INF_WEIGHT {
		return pkg.SHORT_INFINITY
	}
	return uint32(math.Round(real * ls.factor))
}

// ChooseActiveLandmarks delegates to the configured strategy. It reports
// false when source and target sit in different subnetworks or in one
// without landmarks.
func (ls *LandmarkStorage) ChooseActiveLandmarks(from, to da.Index, outCount int) ([]int, bool) {
	if ls.subnetworks[from] == 0 || ls.subnetworks[from] != ls.subnetworks[to] {
		return nil, false
	}
	return ls.chooser.Choose(ls, from, to, outCount), true
}

// ActiveLandmarkStrategy picks which landmark slots steer one query.
type ActiveLandmarkStrategy interface {
	Choose(ls *LandmarkStorage, from, to da.Index, outCount int) []int
	Name() string
}

// WeightDifferenceStrategy ranks every landmark by the lower bound it yields
// for the query itself and keeps the best outCount, returned in ascending
// slot order. Ties go to the lower slot.
type WeightDifferenceStrategy struct{}

func NewWeightDifferenceStrategy() *WeightDifferenceStrategy {
	return &WeightDifferenceStrategy{}
}

func (s *WeightDifferenceStrategy) Name() string {
	return "weight_difference"
}

func (s *WeightDifferenceStrategy) Choose(ls *LandmarkStorage, from, to da.Index,
	outCount int) []int {
	type scoredSlot struct {
		slot  int
		score int64
	}

	sid := ls.subnetworks[from]
	slotCount := len(ls.landmarks[sid])
	scored := make([]scoredSlot, 0, slotCount)
	for slot := 0; slot < slotCount; slot++ {
		toFrom := ls.toWeights[slot][from]
		toTo := ls.toWeights[slot][to]
		fromFrom := ls.fromWeights[slot][from]
		fromTo := ls.fromWeights[slot][to]
		if toFrom == pkg.SHORT_INFINITY || toTo == pkg.SHORT_INFINITY ||
			fromFrom == pkg.SHORT_INFINITY || fromTo == pkg.SHORT_INFINITY {
			continue
		}
		score := da.Max(int64(toFrom)-int64(toTo), int64(fromTo)-int64(fromFrom))
		scored = append(scored, scoredSlot{slot: slot, score: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].slot < scored[j].slot
	})

	if outCount > len(scored) {
		outCount = len(scored)
	}
	active := make([]int, outCount)
	for i := 0; i < outCount; i++ {
		active[i] = scored[i].slot
	}
	sort.Ints(active)
	return active
}
