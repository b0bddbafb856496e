package routing

import (
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
)

// AStar is a unidirectional a* search guided by a potential function. With
// an admissible potential the returned path weight is exact. see: Computing
// the Shortest Path: A* Search Meets Graph Theory by Goldberg & Harrelson.
type AStar struct {
	graph        Graph
	costFunction CostFunction
	potential    Potential

	space *SearchSpace
	pq    *da.MinHeap[da.Index]

	numVisitedVertices int
}

func NewAStar(graph Graph, costFunction CostFunction, potential Potential) *AStar {
	return &AStar{
		graph:        graph,
		costFunction: costFunction,
		potential:    potential,
		space:        NewSearchSpace(),
		pq:           da.NewFourAryHeap[da.Index](),
	}
}

func (a *AStar) GetNumVisitedVertices() int {
	return a.numVisitedVertices
}

func (a *AStar) CalcPath(source, target da.Index) (Path, error) {
	sourceInfo := a.space.GetOrInit(source)
	sourceInfo.dist = 0

	sourceNode := da.NewPriorityQueueNode(a.potential.Approximate(source), source)
	a.pq.Insert(sourceNode)
	sourceInfo.heapNode = sourceNode

	for !a.pq.IsEmpty() {
		minNode, err := a.pq.ExtractMin()
		if err != nil {
			return NotFoundPath(), err
		}
		u := minNode.GetItem()
		uInfo, _ := a.space.Get(u)
		uInfo.heapNode = nil
		a.numVisitedVertices++

		if u == target {
			vertices, edges := unwindParents(a.space, target)
			return NewPath(vertices, edges, uInfo.dist), nil
		}

		du := uInfo.dist
		a.graph.ForOutArcsOf(u, func(arc da.Arc) {
			v := arc.GetAdjVertex()
			newDist := du + a.costFunction.GetWeight(arc)

			vInfo := a.space.GetOrInit(v)
			if newDist >= vInfo.dist {
				return
			}

			vInfo.dist = newDist
			vInfo.parent = newVertexEdgePair(u, arc.GetEdgeId())

			rank := newDist + a.potential.Approximate(v)
			if vInfo.heapNode != nil {
				a.pq.DecreaseKey(vInfo.heapNode, rank)
			} else {
				node := da.NewPriorityQueueNode(rank, v)
				a.pq.Insert(node)
				vInfo.heapNode = node
			}
		})
	}

	return NotFoundPath(), nil
}
