package osmparser

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	da "github.com/lintang-b-s/altroute/pkg/datastructure"
	"github.com/lintang-b-s/altroute/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type wayNodeType uint8

const (
	betweenNode wayNodeType = iota + 1
	endNode
	junctionNode
)

var acceptedHighway = map[string]struct{}{
	"motorway":         {},
	"motorway_link":    {},
	"trunk":            {},
	"trunk_link":       {},
	"primary":          {},
	"primary_link":     {},
	"secondary":        {},
	"secondary_link":   {},
	"residential":      {},
	"residential_link": {},
	"service":          {},
	"tertiary":         {},
	"tertiary_link":    {},
	"road":             {},
	"unclassified":     {},
	"living_street":    {},
}

type nodeCoord struct {
	lat float64
	lon float64
}

// OsmParser turns an openstreetmap pbf extract into the routing graph. Ways
// are cut into edges at junction nodes, intermediate way nodes only
// contribute to the edge length.
type OsmParser struct {
	wayNodeMap map[int64]wayNodeType
	nodeCoords map[int64]nodeCoord
	vertexID   map[int64]da.Index

	lat []float64
	lon []float64
}

func NewOsmParser() *OsmParser {
	return &OsmParser{
		wayNodeMap: make(map[int64]wayNodeType),
		nodeCoords: make(map[int64]nodeCoord),
		vertexID:   make(map[int64]da.Index),
	}
}

// Parse reads the pbf file twice: the first scan classifies way nodes, the
// second collects coordinates and emits the edges.
func (p *OsmParser) Parse(mapFile string, logger *zap.Logger) (*da.Graph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 0)
	// must not be parallel, node classification depends on scan order
	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || len(way.Nodes) < 2 || !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		for i, node := range way.Nodes {
			id := int64(node.ID)
			if _, seen := p.wayNodeMap[id]; seen {
				p.wayNodeMap[id] = junctionNode
			} else if i == 0 || i == len(way.Nodes)-1 {
				p.wayNodeMap[id] = endNode
			} else {
				p.wayNodeMap[id] = betweenNode
			}
		}
	}
	scanner.Close()

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	scanner = osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	edges := make([]da.Edge, 0)
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if _, ok := p.wayNodeMap[int64(o.ID)]; ok {
				p.nodeCoords[int64(o.ID)] = nodeCoord{lat: o.Lat, lon: o.Lon}
			}
		case *osm.Way:
			if len(o.Nodes) < 2 || !acceptOsmWay(o) {
				continue
			}
			edges = p.processWay(o, edges)
		}
	}

	logger.Info("done scanning openstreetmap pbf",
		zap.Int("ways", countWays),
		zap.Int("vertices", len(p.lat)),
		zap.Int("edges", len(edges)))

	return da.NewGraph(p.lat, p.lon, edges), nil
}

// processWay cuts one way into edges between consecutive junction/end nodes
// and appends them, both directions unless the way is oneway.
func (p *OsmParser) processWay(way *osm.Way, edges []da.Edge) []da.Edge {
	speed := waySpeed(way)
	oneway, reversed := wayDirection(way)

	segStart := 0
	segDist := 0.0
	for i := 1; i < len(way.Nodes); i++ {
		prev, ok1 := p.nodeCoords[int64(way.Nodes[i-1].ID)]
		cur, ok2 := p.nodeCoords[int64(way.Nodes[i].ID)]
		if !ok1 || !ok2 {
			// node missing from the extract, drop the whole segment
			segStart = i
			segDist = 0
			continue
		}
		segDist += geo.CalculateHaversineDistance(prev.lat, prev.lon, cur.lat, cur.lon)

		id := int64(way.Nodes[i].ID)
		if p.wayNodeMap[id] != junctionNode && p.wayNodeMap[id] != endNode {
			continue
		}

		from := p.vertexOf(int64(way.Nodes[segStart].ID))
		to := p.vertexOf(id)
		if from != to && segDist > 0 {
			if reversed {
				from, to = to, from
			}
			edges = append(edges, da.NewEdge(from, to, segDist, speed))
			if !oneway {
				edges = append(edges, da.NewEdge(to, from, segDist, speed))
			}
		}
		segStart = i
		segDist = 0
	}
	return edges
}

func (p *OsmParser) vertexOf(osmID int64) da.Index {
	if v, ok := p.vertexID[osmID]; ok {
		return v
	}
	v := da.Index(len(p.lat))
	p.vertexID[osmID] = v
	coord := p.nodeCoords[osmID]
	p.lat = append(p.lat, coord.lat)
	p.lon = append(p.lon, coord.lon)
	return v
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		_, ok := acceptedHighway[highway]
		return ok
	}
	return junction != ""
}

func wayDirection(way *osm.Way) (oneway, reversed bool) {
	switch way.Tags.Find("oneway") {
	case "yes", "1", "true":
		return true, false
	case "-1":
		return true, true
	case "no":
		return false, false
	}
	hw := way.Tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" ||
		way.Tags.Find("junction") == "roundabout" {
		return true, false
	}
	return false, false
}

// waySpeed returns the travel speed in km/h, from the maxspeed tag when
// present and parsable, otherwise from the highway class.
func waySpeed(way *osm.Way) float64 {
	if ms := way.Tags.Find("maxspeed"); ms != "" {
		if speed, ok := parseMaxSpeed(ms); ok {
			return speed
		}
	}
	return roadTypeSpeed(way.Tags.Find("highway"))
}

func parseMaxSpeed(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	mph := false
	if strings.HasSuffix(value, "mph") {
		mph = true
		value = strings.TrimSpace(strings.TrimSuffix(value, "mph"))
	}
	speed, err := strconv.ParseFloat(value, 64)
	if err != nil || speed <= 0 {
		return 0, false
	}
	if mph {
		speed *= 1.609344
	}
	return speed, true
}

func roadTypeSpeed(roadType string) float64 {
	switch roadType {
	case "motorway":
		return 100
	case "motorway_link":
		return 60
	case "trunk":
		return 70
	case "trunk_link":
		return 50
	case "primary":
		return 65
	case "primary_link":
		return 50
	case "secondary":
		return 60
	case "secondary_link":
		return 50
	case "tertiary":
		return 50
	case "tertiary_link":
		return 40
	case "residential", "residential_link":
		return 30
	case "living_street":
		return 10
	case "service":
		return 20
	default:
		return 40
	}
}
