package datastructure

// Edge is one directed edge of the road network. Distance is in meters,
// Speed in km/h. Bidirectional roads are stored as two directed edges.
type Edge struct {
	From     Index
	To       Index
	Distance float64
	Speed    float64
}

func NewEdge(from, to Index, distance, speed float64) Edge {
	return Edge{From: from, To: to, Distance: distance, Speed: speed}
}

// Arc is the adjacency-array view of a directed edge. adjVertex is the head
// for out-arcs and the tail for in-arcs, so forward and backward traversal
// share one shape.
type Arc struct {
	adjVertex Index
	distance  float64
	speed     float64
	edgeId    Index
}

func NewArc(adjVertex Index, distance, speed float64, edgeId Index) Arc {
	return Arc{adjVertex: adjVertex, distance: distance, speed: speed, edgeId: edgeId}
}

func (a Arc) GetAdjVertex() Index {
	return a.adjVertex
}

func (a Arc) GetDistance() float64 {
	return a.distance
}

func (a Arc) GetSpeed() float64 {
	return a.speed
}

func (a Arc) GetEdgeId() Index {
	return a.edgeId
}

// Graph is a directed weighted road network in compressed-sparse-row form,
// with both a forward and a reverse adjacency array so the shortest-path
// primitives can run in either edge direction.
type Graph struct {
	firstOut []Index
	outArcs  []Arc
	firstIn  []Index
	inArcs   []Arc

	lat []float64
	lon []float64

	edges []Edge
}

func NewGraph(lat, lon []float64, edges []Edge) *Graph {
	n := len(lat)
	g := &Graph{
		firstOut: make([]Index, n+1),
		outArcs:  make([]Arc, len(edges)),
		firstIn:  make([]Index, n+1),
		inArcs:   make([]Arc, len(edges)),
		lat:      lat,
		lon:      lon,
		edges:    edges,
	}

	for _, e := range edges {
		g.firstOut[e.From+1]++
		g.firstIn[e.To+1]++
	}
	for v := 1; v <= n; v++ {
		g.firstOut[v] += g.firstOut[v-1]
		g.firstIn[v] += g.firstIn[v-1]
	}

	outPos := make([]Index, n)
	inPos := make([]Index, n)
	for id, e := range edges {
		g.outArcs[g.firstOut[e.From]+outPos[e.From]] = NewArc(e.To, e.Distance, e.Speed, Index(id))
		outPos[e.From]++
		g.inArcs[g.firstIn[e.To]+inPos[e.To]] = NewArc(e.From, e.Distance, e.Speed, Index(id))
		inPos[e.To]++
	}

	return g
}

func (g *Graph) NumberOfVertices() int {
	return len(g.lat)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) GetVertexCoordinates(v Index) (float64, float64) {
	return g.lat[v], g.lon[v]
}

func (g *Graph) GetEdge(id Index) Edge {
	return g.edges[id]
}

func (g *Graph) ForOutArcsOf(u Index, fn func(arc Arc)) {
	for i := g.firstOut[u]; i < g.firstOut[u+1]; i++ {
		fn(g.outArcs[i])
	}
}

func (g *Graph) ForInArcsOf(u Index, fn func(arc Arc)) {
	for i := g.firstIn[u]; i < g.firstIn[u+1]; i++ {
		fn(g.inArcs[i])
	}
}

func (g *Graph) ForEdges(fn func(id Index, e Edge)) {
	for id, e := range g.edges {
		fn(Index(id), e)
	}
}

// HasEdge reports whether a directed edge from u to v exists. Used by the
// query graph to mirror the reverse direction of a snapped road segment.
func (g *Graph) HasEdge(u, v Index) bool {
	for i := g.firstOut[u]; i < g.firstOut[u+1]; i++ {
		if g.outArcs[i].adjVertex == v {
			return true
		}
	}
	return false
}
