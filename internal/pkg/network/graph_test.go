package network

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestAddNode(t *testing.T) {
	g := NewGraph()
	assert.NilError(t, g.AddNode("Bus 1"))
	assert.ErrorContains(t, g.AddNode("Bus 1"), "already exists")

	_, ok := g.adjacencyList["Bus 1"]
	assert.Assert(t, ok, "Node not found in Graph")
}

func TestAddDirectedEdge(t *testing.T) {
	g := NewGraph()
	assert.NilError(t, g.AddNode("Bus 1"))
	assert.NilError(t, g.AddNode("Bus 2"))

	assert.NilError(t, g.AddDirectedEdge("Bus 1", "Bus 2"))
	assert.DeepEqual(t, g.Edges("Bus 1"), []string{"Bus 2"})
	assert.DeepEqual(t, g.Edges("Bus 2"), []string{})

	assert.ErrorContains(t, g.AddDirectedEdge("Bus 3", "Bus 1"), "start node")
	assert.ErrorContains(t, g.AddDirectedEdge("Bus 1", "Bus 3"), "end node")
	assert.DeepEqual(t, g.Edges("Bus 3"), []string{})
}

func TestIslands(t *testing.T) {
	n := threeBus(t)
	islands, err := n.Islands()
	assert.NilError(t, err)
	assert.DeepEqual(t, islands, [][]string{{"Bus 1", "Bus 2", "Bus 3"}})

	assert.NilError(t, n.AddBus(Bus{Name: "Bus 5", VNom: 22}))
	assert.NilError(t, n.AddBus(Bus{Name: "Bus 4", VNom: 22}))
	assert.NilError(t, n.AddLine(Line{Name: "Line 45", Bus0: "Bus 4", Bus1: "Bus 5", R: 1, X: 1}))

	islands, err = n.Islands()
	assert.NilError(t, err)
	assert.DeepEqual(t, islands, [][]string{{"Bus 1", "Bus 2", "Bus 3"}, {"Bus 4", "Bus 5"}})
}
