package datastructure

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// binary graph layout: vertex count, edge count, then the coordinate arrays
// and the flat edge records, all little-endian.

func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	n := uint32(g.NumberOfVertices())
	m := uint32(g.NumberOfEdges())
	if err := binary.Write(w, binary.LittleEndian, n); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, g.lat); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, g.lon); err != nil {
		return err
	}

	for _, e := range g.edges {
		if err := binary.Write(w, binary.LittleEndian, e.From); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.To); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.Distance); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.Speed); err != nil {
			return err
		}
	}

	return w.Flush()
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var n, m uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &m); err != nil {
		return nil, err
	}

	lat := make([]float64, n)
	lon := make([]float64, n)
	if err := binary.Read(r, binary.LittleEndian, &lat); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &lon); err != nil {
		return nil, err
	}

	edges := make([]Edge, m)
	for i := range edges {
		if err := binary.Read(r, binary.LittleEndian, &edges[i].From); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &edges[i].To); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &edges[i].Distance); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &edges[i].Speed); err != nil {
			return nil, err
		}
	}

	return NewGraph(lat, lon, edges), nil
}
