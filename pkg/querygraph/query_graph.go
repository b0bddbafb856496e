package querygraph

import (
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/geo"
)

// Snap is the result of matching a query coordinate onto the road network.
// Either it hits a vertex directly (OnVertex) or a point somewhere along an
// edge, in which case routing needs a virtual vertex at that point.
type Snap struct {
	EdgeID         da.Index
	Point          geo.Coordinate
	Query          geo.Coordinate
	DistanceToEdge float64
	OnVertex       bool
	Vertex         da.Index
}

type virtualInfo struct {
	real             da.Index
	connectingWeight float64
	point            geo.Coordinate
}

// QueryGraph overlays the base road graph with virtual vertices at snapped
// points. Base vertices and edges stay untouched, virtual vertices get ids
// starting at NumberOfVertices() of the base graph and are connected to
// both endpoints of their split edge, in both directions.
type QueryGraph struct {
	base         *da.Graph
	costFunction costfunction.CostFunction

	extraOut map[da.Index][]da.Arc
	extraIn  map[da.Index][]da.Arc
	virtual  map[da.Index]virtualInfo

	next da.Index
}

func NewQueryGraph(base *da.Graph, costFunction costfunction.CostFunction) *QueryGraph {
	return &QueryGraph{
		base:         base,
		costFunction: costFunction,
		extraOut:     make(map[da.Index][]da.Arc),
		extraIn:      make(map[da.Index][]da.Arc),
		virtual:      make(map[da.Index]virtualInfo),
		next:         da.Index(base.NumberOfVertices()),
	}
}

func (qg *QueryGraph) NumberOfVertices() int {
	return qg.base.NumberOfVertices() + len(qg.virtual)
}

func (qg *QueryGraph) ForOutArcsOf(u da.Index, fn func(arc da.Arc)) {
	if int(u) < qg.base.NumberOfVertices() {
		qg.base.ForOutArcsOf(u, fn)
	}
	for _, arc := range qg.extraOut[u] {
		fn(arc)
	}
}

func (qg *QueryGraph) ForInArcsOf(u da.Index, fn func(arc da.Arc)) {
	if int(u) < qg.base.NumberOfVertices() {
		qg.base.ForInArcsOf(u, fn)
	}
	for _, arc := range qg.extraIn[u] {
		fn(arc)
	}
}

// MapVirtualNode resolves a virtual vertex to the tail endpoint of its split
// edge and the weight of the connecting arc. Real vertices map to themselves.
func (qg *QueryGraph) MapVirtualNode(v da.Index) (da.Index, float64, bool) {
	info, ok := qg.virtual[v]
	if !ok {
		return v, 0, false
	}
	return info.real, info.connectingWeight, true
}

// GetVirtualPoint returns the snapped coordinate a virtual vertex stands on.
func (qg *QueryGraph) GetVirtualPoint(v da.Index) (geo.Coordinate, bool) {
	info, ok := qg.virtual[v]
	return info.point, ok
}

// GetVertexCoordinates works for base and virtual vertices alike.
func (qg *QueryGraph) GetVertexCoordinates(v da.Index) (float64, float64) {
	if info, ok := qg.virtual[v]; ok {
		return info.point.GetLat(), info.point.GetLon()
	}
	return qg.base.GetVertexCoordinates(v)
}

// AddVirtualNode inserts a virtual vertex for a snap. Snaps that hit a
// vertex directly return that vertex and leave the overlay unchanged. The
// split edge keeps its id on all four connecting arcs so the edges of a
// computed path still refer to base edges.
func (qg *QueryGraph) AddVirtualNode(snap Snap) da.Index {
	if snap.OnVertex {
		return snap.Vertex
	}

	e := qg.base.GetEdge(snap.EdgeID)
	fromLat, fromLon := qg.base.GetVertexCoordinates(e.From)
	toLat, toLon := qg.base.GetVertexCoordinates(e.To)

	dFrom := geo.CalculateHaversineDistance(snap.Point.GetLat(), snap.Point.GetLon(), fromLat, fromLon)
	dTo := geo.CalculateHaversineDistance(snap.Point.GetLat(), snap.Point.GetLon(), toLat, toLon)

	fracFrom := 0.5
	if dFrom+dTo > 0 {
		fracFrom = dFrom / (dFrom + dTo)
	}
	distFrom := e.Distance * fracFrom
	distTo := e.Distance * (1 - fracFrom)

	x := qg.next
	qg.next++

	toFromArc := da.NewArc(e.From, distFrom, e.Speed, snap.EdgeID)
	toToArc := da.NewArc(e.To, distTo, e.Speed, snap.EdgeID)
	qg.extraOut[x] = []da.Arc{toFromArc, toToArc}
	qg.extraIn[x] = []da.Arc{toFromArc, toToArc}

	fromX := da.NewArc(x, distFrom, e.Speed, snap.EdgeID)
	toX := da.NewArc(x, distTo, e.Speed, snap.EdgeID)
	qg.extraOut[e.From] = append(qg.extraOut[e.From], fromX)
	qg.extraOut[e.To] = append(qg.extraOut[e.To], toX)
	qg.extraIn[e.From] = append(qg.extraIn[e.From], fromX)
	qg.extraIn[e.To] = append(qg.extraIn[e.To], toX)

	qg.virtual[x] = virtualInfo{
		real:             e.From,
		connectingWeight: qg.costFunction.GetWeight(toFromArc),
		point:            snap.Point,
	}
	return x
}
