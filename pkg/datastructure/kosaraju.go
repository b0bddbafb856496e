package datastructure

import "sort"

// StronglyConnectedComponents runs kosaraju's algorithm to find the strongly
// connected components of the graph. Vertices of small disconnected road
// islands end up in their own component so landmark assignment can skip them.
// Components are returned sorted by their lowest vertex id, members ascending,
// so subnetwork numbering is deterministic across runs.
func (g *Graph) StronglyConnectedComponents() [][]Index {
	n := Index(g.NumberOfVertices())

	order := make([]Index, 0, n)
	visited := make([]bool, n)
	for v := Index(0); v < n; v++ {
		if !visited[v] {
			g.dfs(v, &order, visited, false)
		}
	}

	order = reverseIndexSlice(order)

	visited = make([]bool, n)
	components := make([][]Index, 0)
	for _, v := range order {
		if !visited[v] {
			component := make([]Index, 0)
			g.dfs(v, &component, visited, true)
			sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
			components = append(components, component)
		}
	}

	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}

type dfsFrame struct {
	vertex Index
	arc    Index
}

// dfs is an iterative depth-first search emitting vertices in finish order.
// iterative because road networks overflow the goroutine stack with the
// recursive variant.
func (g *Graph) dfs(start Index, output *[]Index, visited []bool, reversed bool) {
	first := g.firstOut
	arcs := g.outArcs
	if reversed {
		first = g.firstIn
		arcs = g.inArcs
	}

	stack := []dfsFrame{{vertex: start, arc: first[start]}}
	visited[start] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.arc < first[top.vertex+1] {
			w := arcs[top.arc].adjVertex
			top.arc++
			if !visited[w] {
				visited[w] = true
				stack = append(stack, dfsFrame{vertex: w, arc: first[w]})
			}
			continue
		}

		*output = append(*output, top.vertex)
		stack = stack[:len(stack)-1]
	}
}

func reverseIndexSlice(arr []Index) []Index {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
	return arr
}
