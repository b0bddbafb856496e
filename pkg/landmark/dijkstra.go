package landmark

import (
	"github.com/lintang-b-s/altroute/pkg"
	"github.com/lintang-b-s/altroute/pkg/costfunction"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
)

// oneToAllDijkstra computes shortest path weights from a single source to
// every vertex. When useReverseGraph is set the search runs over incoming
// arcs, which yields the weights from every vertex to the source instead.
type oneToAllDijkstra struct {
	graph        *da.Graph
	costFunction costfunction.CostFunction

	dist      []float64
	heapNodes []*da.PriorityQueueNode[da.Index]
	pq        *da.MinHeap[da.Index]

	useReverseGraph bool
}

func newOneToAllDijkstra(graph *da.Graph, costFunction costfunction.CostFunction,
	useReverseGraph bool) *oneToAllDijkstra {
	n := graph.NumberOfVertices()
	d := &oneToAllDijkstra{
		graph:           graph,
		costFunction:    costFunction,
		dist:            make([]float64, n),
		heapNodes:       make([]*da.PriorityQueueNode[da.Index], n),
		pq:              da.NewFourAryHeap[da.Index](),
		useReverseGraph: useReverseGraph,
	}
	for v := range d.dist {
		d.dist[v] = pkg.INF_WEIGHT
	}
	return d
}

// shortestPath returns the weights from source to all vertices, O((n+m)logn).
// unreachable vertices hold pkg.INF_WEIGHT.
func (d *oneToAllDijkstra) shortestPath(source da.Index) []float64 {
	d.dist[source] = 0
	sourceNode := da.NewPriorityQueueNode(0, source)
	d.heapNodes[source] = sourceNode
	d.pq.Insert(sourceNode)

	forArcsOf := d.graph.ForOutArcsOf
	if d.useReverseGraph {
		forArcsOf = d.graph.ForInArcsOf
	}

	for !d.pq.IsEmpty() {
		minNode, err := d.pq.ExtractMin()
		if err != nil {
			break
		}
		u := minNode.GetItem()
		du := d.dist[u]

		forArcsOf(u, func(arc da.Arc) {
			v := arc.GetAdjVertex()
			newDist := du + d.costFunction.GetWeight(arc)
			if da.Lt(newDist, d.dist[v]) {
				d.dist[v] = newDist
				if node := d.heapNodes[v]; node != nil && node.GetPos() >= 0 {
					d.pq.DecreaseKey(node, newDist)
				} else {
					node := da.NewPriorityQueueNode(newDist, v)
					d.heapNodes[v] = node
					d.pq.Insert(node)
				}
			}
		})
	}

	return d.dist
}
