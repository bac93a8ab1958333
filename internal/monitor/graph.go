// File: internal/monitor/graph.go
package monitor

import (
	"sort"
	"time"

	"github.com/xkilldash9x/chimera/api/schemas"
)

// Node roles within the interaction graph.
const (
	nodeTypeAgent    = "agent"
	nodeTypeResource = "resource"
)

type edgeInfo struct {
	actionType string
	weight     float64
	firstSeen  time.Time
	lastSeen   time.Time
}

// HeavyEdge describes a repeatedly exercised edge, a signal that one agent
// keeps hammering the same target.
type HeavyEdge struct {
	Source     string
	Target     string
	ActionType string
	Weight     float64
	LastSeen   time.Time
}

// InteractionGraph is a directed weighted graph of agent-to-target
// interactions. Repeated interactions collapse into one edge with an
// incremented weight and refreshed timestamp; there are no parallel edges.
//
// The graph is deliberately small (bounded by the recorder's history cap),
// so the exact centrality algorithms are affordable on every step.
type InteractionGraph struct {
	nodes     map[string]string // node id -> node type
	nodeOrder []string
	adj       map[string]map[string]*edgeInfo
	edgeCount int
}

// NewInteractionGraph creates an empty graph.
func NewInteractionGraph() *InteractionGraph {
	return &InteractionGraph{
		nodes: make(map[string]string),
		adj:   make(map[string]map[string]*edgeInfo),
	}
}

// AddInteraction upserts the directed edge source->target, creating nodes as
// needed. Sources are agents; targets default to resources unless already
// known as agents.
func (g *InteractionGraph) AddInteraction(source, target, actionType string, timestamp time.Time) {
	g.ensureNode(source, nodeTypeAgent)
	g.ensureNode(target, nodeTypeResource)

	edges, ok := g.adj[source]
	if !ok {
		edges = make(map[string]*edgeInfo)
		g.adj[source] = edges
	}
	if e, exists := edges[target]; exists {
		e.weight++
		e.lastSeen = timestamp
		return
	}
	edges[target] = &edgeInfo{
		actionType: actionType,
		weight:     1.0,
		firstSeen:  timestamp,
		lastSeen:   timestamp,
	}
	g.edgeCount++
}

func (g *InteractionGraph) ensureNode(id, nodeType string) {
	if _, exists := g.nodes[id]; exists {
		// A target later seen acting becomes an agent.
		if nodeType == nodeTypeAgent {
			g.nodes[id] = nodeTypeAgent
		}
		return
	}
	g.nodes[id] = nodeType
	g.nodeOrder = append(g.nodeOrder, id)
}

// NodeCount reports the number of nodes.
func (g *InteractionGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount reports the number of collapsed edges.
func (g *InteractionGraph) EdgeCount() int { return g.edgeCount }

// IsAgent reports whether the node was ever seen as an interaction source.
func (g *InteractionGraph) IsAgent(id string) bool { return g.nodes[id] == nodeTypeAgent }

// sortedNodes returns node ids in deterministic order.
func (g *InteractionGraph) sortedNodes() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	sort.Strings(out)
	return out
}

// HeavyEdges returns edges with weight >= minWeight in deterministic order.
func (g *InteractionGraph) HeavyEdges(minWeight float64) []HeavyEdge {
	var heavy []HeavyEdge
	for _, source := range g.sortedNodes() {
		targets := make([]string, 0, len(g.adj[source]))
		for target := range g.adj[source] {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		for _, target := range targets {
			e := g.adj[source][target]
			if e.weight >= minWeight {
				heavy = append(heavy, HeavyEdge{
					Source:     source,
					Target:     target,
					ActionType: e.actionType,
					Weight:     e.weight,
					LastSeen:   e.lastSeen,
				})
			}
		}
	}
	return heavy
}

// CentralityMetrics computes betweenness, closeness and degree centrality
// over the current snapshot. An empty graph yields an empty map; trivial or
// disconnected graphs degrade each metric to 0.0 rather than erroring.
func (g *InteractionGraph) CentralityMetrics() map[string]schemas.CentralityScores {
	metrics := make(map[string]schemas.CentralityScores, len(g.nodes))
	n := len(g.nodes)
	if n == 0 {
		return metrics
	}

	nodes := g.sortedNodes()
	between := g.betweenness(nodes)
	for _, node := range nodes {
		metrics[node] = schemas.CentralityScores{
			Betweenness: between[node],
			Closeness:   g.closeness(node, n),
			Degree:      g.degreeCentrality(node, n),
		}
	}
	return metrics
}

// degreeCentrality is (in-degree + out-degree) / (n-1).
func (g *InteractionGraph) degreeCentrality(node string, n int) float64 {
	if n <= 1 {
		return 0.0
	}
	degree := len(g.adj[node])
	for _, edges := range g.adj {
		if _, ok := edges[node]; ok {
			degree++
		}
	}
	return float64(degree) / float64(n-1)
}

// closeness computes incoming closeness centrality with the Wasserman-Faust
// scaling: (r/s) * (r/(n-1)) where r is the count of nodes that can reach
// the target and s the sum of their hop distances. Unreachable graphs
// degrade to 0.0.
func (g *InteractionGraph) closeness(node string, n int) float64 {
	dist := g.bfsIncoming(node)
	reach := 0
	sum := 0
	for other, d := range dist {
		if other == node {
			continue
		}
		reach++
		sum += d
	}
	if sum == 0 || n <= 1 {
		return 0.0
	}
	base := float64(reach) / float64(sum)
	return base * (float64(reach) / float64(n-1))
}

// bfsIncoming returns hop distances from every node that can reach target,
// following edges in reverse.
func (g *InteractionGraph) bfsIncoming(target string) map[string]int {
	// Reverse adjacency on the fly; the graph stays small.
	incoming := make(map[string][]string)
	for source, edges := range g.adj {
		for to := range edges {
			incoming[to] = append(incoming[to], source)
		}
	}

	dist := map[string]int{target: 0}
	queue := []string{target}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, prev := range incoming[current] {
			if _, seen := dist[prev]; !seen {
				dist[prev] = dist[current] + 1
				queue = append(queue, prev)
			}
		}
	}
	return dist
}

// betweenness runs Brandes' algorithm on the directed unweighted graph,
// normalized by 1/((n-1)(n-2)). Fewer than three nodes means no node can sit
// between two others, so everything is 0.0.
func (g *InteractionGraph) betweenness(nodes []string) map[string]float64 {
	scores := make(map[string]float64, len(nodes))
	for _, node := range nodes {
		scores[node] = 0.0
	}
	n := len(nodes)
	if n < 3 {
		return scores
	}

	for _, source := range nodes {
		// Single-source shortest paths (BFS).
		var stack []string
		preds := make(map[string][]string)
		sigma := map[string]float64{source: 1}
		dist := map[string]int{source: 0}
		queue := []string{source}

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			neighbors := make([]string, 0, len(g.adj[v]))
			for w := range g.adj[v] {
				neighbors = append(neighbors, w)
			}
			sort.Strings(neighbors)
			for _, w := range neighbors {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		// Dependency accumulation.
		delta := make(map[string]float64)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
			if w != source {
				scores[w] += delta[w]
			}
		}
	}

	norm := 1.0 / (float64(n-1) * float64(n-2))
	for node := range scores {
		scores[node] *= norm
	}
	return scores
}

// UnusualPaths enumerates simple paths of up to maxLength edges between all
// node pairs and returns up to 10 paths of at least 3 nodes. A multi-hop
// path is a structural proxy for one agent routing influence through an
// intermediary; the count is a heuristic signal, not a statistically
// validated anomaly test.
func (g *InteractionGraph) UnusualPaths(maxLength int) [][]string {
	if maxLength <= 0 {
		maxLength = 5
	}
	const maxPaths = 10

	var found [][]string
	nodes := g.sortedNodes()
	for _, source := range nodes {
		for _, target := range nodes {
			if source == target {
				continue
			}
			g.simplePaths(source, target, maxLength, &found, maxPaths)
			if len(found) >= maxPaths {
				return found
			}
		}
	}
	return found
}

// simplePaths collects simple paths from source to target via bounded DFS.
func (g *InteractionGraph) simplePaths(source, target string, maxLength int, found *[][]string, maxPaths int) {
	visited := map[string]bool{source: true}
	path := []string{source}

	var dfs func(current string)
	dfs = func(current string) {
		if len(*found) >= maxPaths {
			return
		}
		if len(path)-1 >= maxLength {
			return
		}
		neighbors := make([]string, 0, len(g.adj[current]))
		for next := range g.adj[current] {
			neighbors = append(neighbors, next)
		}
		sort.Strings(neighbors)
		for _, next := range neighbors {
			if visited[next] {
				continue
			}
			path = append(path, next)
			if next == target {
				if len(path) >= 3 {
					candidate := make([]string, len(path))
					copy(candidate, path)
					*found = append(*found, candidate)
				}
			} else {
				visited[next] = true
				dfs(next)
				visited[next] = false
			}
			path = path[:len(path)-1]
			if len(*found) >= maxPaths {
				return
			}
		}
	}
	dfs(source)
}
