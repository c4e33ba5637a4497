package network

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Stats summarizes the live connection graph.
type Stats struct {
	TotalConnections   int     `json:"totalConnections"`
	AverageConnections float64 `json:"averageConnections"`
	ClusterCount       int     `json:"clusterCount"`
}

// Stats reports the current network summary.
func (s *Simulation) Stats() Stats {
	return NetworkStats(s.nodes)
}

// NetworkStats counts undirected live edges, the average per node and the
// number of connected components (isolated nodes count as their own).
func NetworkStats(nodes []*Node) Stats {
	if len(nodes) == 0 {
		return Stats{}
	}

	g := simple.NewUndirectedGraph()
	for _, n := range nodes {
		g.AddNode(simple.Node(n.id))
	}
	edges := 0
	for _, n := range nodes {
		for _, id := range n.links {
			if id == n.id || g.Node(int64(id)) == nil {
				continue
			}
			if g.HasEdgeBetween(int64(n.id), int64(id)) {
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(n.id), simple.Node(id)))
			edges++
		}
	}

	return Stats{
		TotalConnections:   edges,
		AverageConnections: float64(edges) / float64(len(nodes)),
		ClusterCount:       len(topo.ConnectedComponents(g)),
	}
}
