package querygraph

import (
	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/geo"
	"github.com/lintang-b-s/altroute/pkg/spatialindex"
	"github.com/lintang-b-s/altroute/pkg/util"
)

// snaps closer than this to an edge endpoint collapse onto the vertex, in
// meters.
const vertexSnapToleranceM = 5.0

// Snapper matches raw coordinates onto the closest edge of the network
// using the r-tree index.
type Snapper struct {
	graph *da.Graph
	index *spatialindex.Rtree
}

func NewSnapper(graph *da.Graph, index *spatialindex.Rtree) *Snapper {
	return &Snapper{graph: graph, index: index}
}

// Snap projects (lat, lon) onto the nearest edge within radius meters.
func (s *Snapper) Snap(lat, lon, radius float64) (Snap, error) {
	query := geo.NewCoordinate(lat, lon)
	candidates := s.index.SearchWithinRadius(lat, lon, radius)
	if len(candidates) == 0 {
		return Snap{}, util.WrapErrorf(nil, util.ErrNotFound,
			"no road within %.0fm of (%f, %f)", radius, lat, lon)
	}

	best := Snap{DistanceToEdge: -1}
	for _, edgeID := range candidates {
		e := s.graph.GetEdge(edgeID)
		fromLat, fromLon := s.graph.GetVertexCoordinates(e.From)
		toLat, toLon := s.graph.GetVertexCoordinates(e.To)

		from := geo.NewCoordinate(fromLat, fromLon)
		to := geo.NewCoordinate(toLat, toLon)
		proj := geo.ProjectPointToSegment(from, to, query)
		dist := geo.CalculateHaversineDistance(proj.GetLat(), proj.GetLon(), lat, lon)

		if best.DistanceToEdge >= 0 && dist >= best.DistanceToEdge {
			continue
		}

		snap := Snap{
			EdgeID:         edgeID,
			Point:          proj,
			Query:          query,
			DistanceToEdge: dist,
		}
		if geo.CalculateHaversineDistance(proj.GetLat(), proj.GetLon(), fromLat, fromLon) < vertexSnapToleranceM {
			snap.OnVertex = true
			snap.Vertex = e.From
			snap.Point = from
		} else if geo.CalculateHaversineDistance(proj.GetLat(), proj.GetLon(), toLat, toLon) < vertexSnapToleranceM {
			snap.OnVertex = true
			snap.Vertex = e.To
			snap.Point = to
		}
		best = snap
	}

	if best.DistanceToEdge > radius {
		return Snap{}, util.WrapErrorf(nil, util.ErrNotFound,
			"no road within %.0fm of (%f, %f)", radius, lat, lon)
	}
	return best, nil
}
