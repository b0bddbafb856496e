package routing

import (
	"github.com/lintang-b-s/altroute/pkg"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
)

// BidirectionalAStar runs forward and backward a* searches simultaneously.
// The two potentials must be consistent (pf(v) + pr(v) constant over all v)
// so that the standard termination condition of bidirectional dijkstra stays
// valid. see: Ikeda et al., A fast algorithm for finding better routes by
// ai search techniques.
type BidirectionalAStar struct {
	graph        Graph
	costFunction CostFunction

	forwardPotential  Potential
	backwardPotential Potential

	forward  *SearchSpace
	backward *SearchSpace

	pqForward  *da.MinHeap[da.Index]
	pqBackward *da.MinHeap[da.Index]

	bestWeight float64
	meetVertex da.Index

	numVisitedVertices int
}

func NewBidirectionalAStar(graph Graph, costFunction CostFunction,
	forwardPotential, backwardPotential Potential) *BidirectionalAStar {
	return &BidirectionalAStar{
		graph:             graph,
		costFunction:      costFunction,
		forwardPotential:  forwardPotential,
		backwardPotential: backwardPotential,
		forward:           NewSearchSpace(),
		backward:          NewSearchSpace(),
		pqForward:         da.NewFourAryHeap[da.Index](),
		pqBackward:        da.NewFourAryHeap[da.Index](),
		bestWeight:        pkg.INF_WEIGHT,
		meetVertex:        da.INVALID_VERTEX_ID,
	}
}

func (b *BidirectionalAStar) GetNumVisitedVertices() int {
	return b.numVisitedVertices
}

func (b *BidirectionalAStar) CalcPath(source, target da.Index) (Path, error) {
	if source == target {
		return NewPath([]da.Index{source}, []da.Index{}, 0), nil
	}

	sourceInfo := b.forward.GetOrInit(source)
	sourceInfo.dist = 0
	sourceNode := da.NewPriorityQueueNode(b.forwardPotential.Approximate(source), source)
	b.pqForward.Insert(sourceNode)
	sourceInfo.heapNode = sourceNode

	targetInfo := b.backward.GetOrInit(target)
	targetInfo.dist = 0
	targetNode := da.NewPriorityQueueNode(b.backwardPotential.Approximate(target), target)
	b.pqBackward.Insert(targetNode)
	targetInfo.heapNode = targetNode

	for !b.pqForward.IsEmpty() || !b.pqBackward.IsEmpty() {
		if b.pqForward.GetMinrank()+b.pqBackward.GetMinrank() >= b.bestWeight {
			break
		}

		if b.pqForward.GetMinrank() <= b.pqBackward.GetMinrank() {
			if err := b.relaxForward(); err != nil {
				return NotFoundPath(), err
			}
		} else {
			if err := b.relaxBackward(); err != nil {
				return NotFoundPath(), err
			}
		}
	}

	if b.meetVertex == da.INVALID_VERTEX_ID {
		return NotFoundPath(), nil
	}

	vertices, edges := b.buildPath()
	return NewPath(vertices, edges, b.bestWeight), nil
}

func (b *BidirectionalAStar) relaxForward() error {
	minNode, err := b.pqForward.ExtractMin()
	if err != nil {
		return err
	}
	u := minNode.GetItem()
	uInfo, _ := b.forward.Get(u)
	uInfo.heapNode = nil
	uInfo.settled = true
	b.numVisitedVertices++

	du := uInfo.dist
	b.graph.ForOutArcsOf(u, func(arc da.Arc) {
		v := arc.GetAdjVertex()
		vInfo := b.forward.GetOrInit(v)
		if vInfo.settled {
			return
		}
		newDist := du + b.costFunction.GetWeight(arc)

		if newDist < vInfo.dist {
			vInfo.dist = newDist
			vInfo.parent = newVertexEdgePair(u, arc.GetEdgeId())

			rank := newDist + b.forwardPotential.Approximate(v)
			if vInfo.heapNode != nil {
				b.pqForward.DecreaseKey(vInfo.heapNode, rank)
			} else {
				node := da.NewPriorityQueueNode(rank, v)
				b.pqForward.Insert(node)
				vInfo.heapNode = node
			}
		}

		if other, ok := b.backward.Get(v); ok && vInfo.dist+other.dist < b.bestWeight {
			b.bestWeight = vInfo.dist + other.dist
			b.meetVertex = v
		}
	})
	return nil
}

func (b *BidirectionalAStar) relaxBackward() error {
	minNode, err := b.pqBackward.ExtractMin()
	if err != nil {
		return err
	}
	u := minNode.GetItem()
	uInfo, _ := b.backward.Get(u)
	uInfo.heapNode = nil
	uInfo.settled = true
	b.numVisitedVertices++

	du := uInfo.dist
	b.graph.ForInArcsOf(u, func(arc da.Arc) {
		v := arc.GetAdjVertex()
		vInfo := b.backward.GetOrInit(v)
		if vInfo.settled {
			return
		}
		newDist := du + b.costFunction.GetWeight(arc)

		if newDist < vInfo.dist {
			vInfo.dist = newDist
			vInfo.parent = newVertexEdgePair(u, arc.GetEdgeId())

			rank := newDist + b.backwardPotential.Approximate(v)
			if vInfo.heapNode != nil {
				b.pqBackward.DecreaseKey(vInfo.heapNode, rank)
			} else {
				node := da.NewPriorityQueueNode(rank, v)
				b.pqBackward.Insert(node)
				vInfo.heapNode = node
			}
		}

		if other, ok := b.forward.Get(v); ok && other.dist+vInfo.dist < b.bestWeight {
			b.bestWeight = other.dist + vInfo.dist
			b.meetVertex = v
		}
	})
	return nil
}

func (b *BidirectionalAStar) buildPath() ([]da.Index, []da.Index) {
	forwardVertices, forwardEdges := unwindParents(b.forward, b.meetVertex)

	backwardVertices, backwardEdges := unwindParents(b.backward, b.meetVertex)
	reverseIndices(backwardVertices)
	reverseIndices(backwardEdges)

	// backwardVertices starts at the meeting vertex, skip the duplicate.
	vertices := append(forwardVertices, backwardVertices[1:]...)
	edges := append(forwardEdges, backwardEdges...)
	return vertices, edges
}
