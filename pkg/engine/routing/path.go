package routing

import (
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
)

// Path is the result of a point-to-point query.
type Path struct {
	vertices []da.Index
	edges    []da.Index
	weight   float64
	found    bool
}

func NewPath(vertices []da.Index, edges []da.Index, weight float64) Path {
	return Path{
		vertices: vertices,
		edges:    edges,
		weight:   weight,
		found:    true,
	}
}

func NotFoundPath() Path {
	return Path{found: false}
}

func (p Path) IsFound() bool {
	return p.found
}

func (p Path) GetWeight() float64 {
	return p.weight
}

// GetVertices returns the path vertices from source to target inclusive.
func (p Path) GetVertices() []da.Index {
	return p.vertices
}

// GetEdges returns the edge ids along the path, one per hop.
func (p Path) GetEdges() []da.Index {
	return p.edges
}

type vertexEdgePair struct {
	vertex da.Index
	edge   da.Index
}

func newVertexEdgePair(vertex, edge da.Index) vertexEdgePair {
	return vertexEdgePair{vertex: vertex, edge: edge}
}

func reverseIndices(s []da.Index) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
