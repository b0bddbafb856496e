package routing

import (
	"github.com/lintang-b-s/altroute/pkg"
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
)

// VertexInfo is the per-vertex label of one search direction: tentative
// distance, the parent hop for path unwinding and the heap node while the
// vertex sits in the queue.
type VertexInfo struct {
	dist     float64
	parent   vertexEdgePair
	heapNode *da.PriorityQueueNode[da.Index]
	settled  bool
}

// SearchSpace holds the labels of every vertex a search direction has
// touched. Point-to-point queries on road networks settle a tiny fraction of
// the graph, so labels are stored sparsely instead of preallocating O(|V|)
// slices on every query.
type SearchSpace struct {
	labels map[da.Index]*VertexInfo
}

func NewSearchSpace() *SearchSpace {
	return &SearchSpace{labels: make(map[da.Index]*VertexInfo)}
}

// Get returns the label of id, or (nil, false) if the search has not touched
// id yet.
func (s *SearchSpace) Get(id da.Index) (*VertexInfo, bool) {
	info, ok := s.labels[id]
	return info, ok
}

// GetOrInit returns the label of id, creating an unreached label (infinite
// distance, no parent) on first touch.
func (s *SearchSpace) GetOrInit(id da.Index) *VertexInfo {
	if info, ok := s.labels[id]; ok {
		return info
	}
	info := &VertexInfo{
		dist:   pkg.INF_WEIGHT,
		parent: newVertexEdgePair(da.INVALID_VERTEX_ID, da.INVALID_EDGE_ID),
	}
	s.labels[id] = info
	return info
}

// unwindParents walks the parent pointers from v back to the search root and
// returns the vertices/edges in root-to-v order.
func unwindParents(space *SearchSpace, v da.Index) ([]da.Index, []da.Index) {
	vertices := make([]da.Index, 0)
	edges := make([]da.Index, 0)

	cur := v
	for {
		vertices = append(vertices, cur)
		info, ok := space.Get(cur)
		if !ok || info.parent.vertex == da.INVALID_VERTEX_ID {
			break
		}
		edges = append(edges, info.parent.edge)
		cur = info.parent.vertex
	}

	reverseIndices(vertices)
	reverseIndices(edges)
	return vertices, edges
}
