// File: internal/monitor/graph_test.go
package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentralityOnEmptyGraph(t *testing.T) {
	g := NewInteractionGraph()
	assert.Empty(t, g.CentralityMetrics())
}

func TestCentralityDegradesOnTrivialGraph(t *testing.T) {
	g := NewInteractionGraph()
	g.AddInteraction("a", "a", "self_check", time.Now())

	metrics := g.CentralityMetrics()
	require.Len(t, metrics, 1)
	assert.Zero(t, metrics["a"].Betweenness)
	assert.Zero(t, metrics["a"].Closeness)
	assert.Zero(t, metrics["a"].Degree)
}

func TestCentralityOnChain(t *testing.T) {
	g := NewInteractionGraph()
	now := time.Now()
	g.AddInteraction("a", "b", "delegate", now)
	g.AddInteraction("b", "c", "delegate", now)

	metrics := g.CentralityMetrics()
	require.Len(t, metrics, 3)

	// b sits on the only a->c shortest path: raw 1, normalized by (n-1)(n-2).
	assert.InDelta(t, 0.5, metrics["b"].Betweenness, 1e-9)
	assert.Zero(t, metrics["a"].Betweenness)
	assert.Zero(t, metrics["c"].Betweenness)

	// b touches both edges.
	assert.InDelta(t, 1.0, metrics["b"].Degree, 1e-9)
	assert.InDelta(t, 0.5, metrics["a"].Degree, 1e-9)

	// c is reached by a (dist 2) and b (dist 1): (2/3)*(2/2).
	assert.InDelta(t, 2.0/3.0, metrics["c"].Closeness, 1e-9)
	// Nothing reaches a.
	assert.Zero(t, metrics["a"].Closeness)
}

func TestRepeatedInteractionsCollapseIntoOneEdge(t *testing.T) {
	g := NewInteractionGraph()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		g.AddInteraction("saboteur", "task_board", "request_task", base.Add(time.Duration(i)*time.Minute))
	}

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())

	heavy := g.HeavyEdges(3)
	require.Len(t, heavy, 1)
	assert.Equal(t, "saboteur", heavy[0].Source)
	assert.Equal(t, 3.0, heavy[0].Weight)
	assert.Equal(t, base.Add(2*time.Minute), heavy[0].LastSeen)

	assert.Empty(t, g.HeavyEdges(4))
}

func TestUnusualPathsRequireThreeNodes(t *testing.T) {
	g := NewInteractionGraph()
	now := time.Now()
	g.AddInteraction("a", "b", "act", now)

	assert.Empty(t, g.UnusualPaths(5), "a two-node hop is not a path anomaly")

	g.AddInteraction("b", "c", "act", now)
	paths := g.UnusualPaths(5)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"a", "b", "c"}, paths[0])
}

func TestUnusualPathsAreCapped(t *testing.T) {
	// Dense layered graph with far more than 10 simple paths.
	g := NewInteractionGraph()
	now := time.Now()
	layer1 := []string{"a1", "a2", "a3"}
	layer2 := []string{"b1", "b2", "b3"}
	layer3 := []string{"c1", "c2", "c3"}
	for _, a := range layer1 {
		for _, b := range layer2 {
			g.AddInteraction(a, b, "act", now)
		}
	}
	for _, b := range layer2 {
		for _, c := range layer3 {
			g.AddInteraction(b, c, "act", now)
		}
	}

	paths := g.UnusualPaths(5)
	assert.Len(t, paths, 10)
	for _, p := range paths {
		assert.GreaterOrEqual(t, len(p), 3)
	}
}

func TestTargetPromotedToAgent(t *testing.T) {
	g := NewInteractionGraph()
	now := time.Now()
	g.AddInteraction("a", "b", "act", now)
	assert.False(t, g.IsAgent("b"))
	g.AddInteraction("b", "c", "act", now)
	assert.True(t, g.IsAgent("b"))
}
