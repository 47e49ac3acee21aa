package container

import (
	"strings"

	"github.com/shuldan/chassis/pkg/contracts"
)

// graphEdge is one dependency edge of the start-time cycle scan. Eager
// edges cover plain requirements and depends-on hints; deferred edges are
// the ones bound through early references.
type graphEdge struct {
	from  string
	to    string
	eager bool
}

// collectEdges resolves every requirement and depends-on hint of the active
// definitions to the candidate a build would pick. Requirements that do not
// resolve yield no edge and fail later with their own unsatisfied error.
func collectEdges(defs []*contracts.Definition, active map[string]bool, res *resolver) []graphEdge {
	var edges []graphEdge
	for _, def := range defs {
		if !active[def.ID] {
			continue
		}
		for _, dep := range def.DependsOn {
			if active[dep] {
				edges = append(edges, graphEdge{from: def.ID, to: dep, eager: true})
			}
		}
		for _, req := range def.Requires {
			targetID, err := res.resolveCandidate(requestFor(req))
			if err != nil || targetID == "" {
				continue
			}
			edges = append(edges, graphEdge{from: def.ID, to: targetID, eager: !req.Deferred})
		}
	}
	return edges
}

// rejectEagerCycles fails the start when any dependency cycle contains an
// eager edge, no matter which definition a traversal would enter first.
// Deferred-only cycles pass the scan; construction completes them through
// early references. The scan covers lazy definitions too, so an illegal
// cycle surfaces at start instead of on the first resolve that hits it.
func rejectEagerCycles(defs []*contracts.Definition, active map[string]bool, res *resolver) error {
	edges := collectEdges(defs, active, res)

	adjacency := make(map[string][]string, len(edges))
	for _, e := range edges {
		adjacency[e.from] = append(adjacency[e.from], e.to)
	}

	for _, e := range edges {
		if !e.eager {
			continue
		}
		back := pathBetween(adjacency, e.to, e.from)
		if back == nil {
			continue
		}
		cycle := append([]string{e.from}, back...)
		return ErrCircularDependency.WithDetail("path", strings.Join(cycle, " -> "))
	}
	return nil
}

// pathBetween returns the node sequence from start to goal, both included,
// or nil when goal is unreachable.
func pathBetween(adjacency map[string][]string, start, goal string) []string {
	if start == goal {
		return []string{start}
	}

	parent := map[string]string{start: ""}
	queue := []string{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[node] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = node
			if next == goal {
				path := []string{goal}
				for at := node; at != ""; at = parent[at] {
					path = append(path, at)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}
