package network

import (
	"fmt"
	"sort"
)

// Graph is an adjacency list over bus names.
type Graph struct {
	adjacencyList map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() Graph {
	return Graph{make(map[string][]string)}
}

// AddNode adds a bus to the graph.
func (g *Graph) AddNode(n string) error {
	if _, exists := g.adjacencyList[n]; exists {
		return fmt.Errorf("node %q already exists in graph", n)
	}
	g.adjacencyList[n] = make([]string, 0)
	return nil
}

// AddDirectedEdge connects n1 to n2.
func (g *Graph) AddDirectedEdge(n1, n2 string) error {
	edges, exists := g.adjacencyList[n1]
	if !exists {
		return fmt.Errorf("start node %q does not exist in graph", n1)
	}
	if _, exists := g.adjacencyList[n2]; !exists {
		return fmt.Errorf("end node %q does not exist in graph", n2)
	}
	g.adjacencyList[n1] = append(edges, n2)
	return nil
}

// AddEdge connects n1 and n2 in both directions.
func (g *Graph) AddEdge(n1, n2 string) error {
	if err := g.AddDirectedEdge(n1, n2); err != nil {
		return err
	}
	return g.AddDirectedEdge(n2, n1)
}

// Edges lists the neighbours of n.
func (g Graph) Edges(n string) []string {
	if edges, exists := g.adjacencyList[n]; exists {
		return edges
	}
	return make([]string, 0)
}

// Components returns the connected components, each sorted, ordered by their
// first member.
func (g Graph) Components() [][]string {
	nodes := make([]string, 0, len(g.adjacencyList))
	for n := range g.adjacencyList {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	seen := make(map[string]bool, len(nodes))
	components := make([][]string, 0)
	for _, start := range nodes {
		if seen[start] {
			continue
		}
		component := []string{}
		queue := []string{start}
		seen[start] = true
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			component = append(component, n)
			for _, m := range g.adjacencyList[n] {
				if !seen[m] {
					seen[m] = true
					queue = append(queue, m)
				}
			}
		}
		sort.Strings(component)
		components = append(components, component)
	}
	return components
}

// Topology builds the bus graph with one undirected edge per line.
func (n *Network) Topology() (Graph, error) {
	g := NewGraph()
	for _, b := range n.Buses {
		if err := g.AddNode(b.Name); err != nil {
			return Graph{}, err
		}
	}
	for _, l := range n.Lines {
		if err := g.AddEdge(l.Bus0, l.Bus1); err != nil {
			return Graph{}, fmt.Errorf("line %q: %w", l.Name, err)
		}
	}
	return g, nil
}

// Islands lists the electrically connected groups of buses.
func (n *Network) Islands() ([][]string, error) {
	g, err := n.Topology()
	if err != nil {
		return nil, err
	}
	return g.Components(), nil
}
