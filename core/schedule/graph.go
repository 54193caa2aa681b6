package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrItemNotFound       = errors.New("schedule item not found")
	ErrDependencyNotFound = errors.New("dependency not found")
	ErrDuplicateEdge      = errors.New("dependency already exists")
	ErrSelfDependency     = errors.New("an item cannot depend on itself")
)

// CycleError is returned when the dependency edges do not form a DAG.
// Path holds the item IDs along the cycle, normalized to start at the
// smallest ID so the same cycle always renders the same way; the first ID is
// repeated at the end.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}

type edge struct {
	dep   *Dependency
	other string // the node on the far end
}

type node struct {
	item  *Item
	preds []edge // edges whose successor is this node
	succs []edge // edges whose predecessor is this node
}

type graph struct {
	nodes map[string]*node
}

// buildGraph indexes items and validates every edge against them.
func buildGraph(items []Item, deps []Dependency) (*graph, error) {
	g := &graph{nodes: make(map[string]*node, len(items))}
	for i := range items {
		g.nodes[items[i].ID] = &node{item: &items[i]}
	}
	for i := range deps {
		dep := &deps[i]
		if dep.PredecessorID == dep.SuccessorID {
			return nil, errors.Wrapf(ErrSelfDependency, "item %s", dep.PredecessorID)
		}
		pred, ok := g.nodes[dep.PredecessorID]
		if !ok {
			return nil, errors.Wrapf(ErrItemNotFound, "predecessor %s", dep.PredecessorID)
		}
		succ, ok := g.nodes[dep.SuccessorID]
		if !ok {
			return nil, errors.Wrapf(ErrItemNotFound, "successor %s", dep.SuccessorID)
		}
		pred.succs = append(pred.succs, edge{dep: dep, other: dep.SuccessorID})
		succ.preds = append(succ.preds, edge{dep: dep, other: dep.PredecessorID})
	}
	return g, nil
}

// topoOrder returns the item IDs in topological order (Kahn). Ties are broken
// by ID so the order is deterministic. A CycleError is returned when edges
// form a cycle.
func (g *graph) topoOrder() ([]string, error) {
	indeg := make(map[string]int, len(g.nodes))
	var ready []string
	for id, n := range g.nodes {
		indeg[id] = len(n.preds)
		if len(n.preds) == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var freed []string
		for _, e := range g.nodes[id].succs {
			indeg[e.other]--
			if indeg[e.other] == 0 {
				freed = append(freed, e.other)
			}
		}
		if len(freed) > 0 {
			ready = append(ready, freed...)
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.nodes) {
		if cycle := g.findCycle(); cycle != nil {
			return nil, &CycleError{Path: cycle}
		}
		return nil, &CycleError{} // unreachable; findCycle finds one when Kahn stalls
	}
	return order, nil
}

// findCycle runs a DFS over all nodes and extracts the first cycle path found.
func (g *graph) findCycle() []string {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(g.nodes))

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var cycle []string
	var path []string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		path = append(path, id)
		for _, e := range g.nodes[id].succs {
			switch state[e.other] {
			case visiting:
				// found a cycle; extract the portion of path from e.other
				start := -1
				for i, p := range path {
					if p == e.other {
						start = i
						break
					}
				}
				if start >= 0 {
					cycle = make([]string, len(path)-start)
					copy(cycle, path[start:])
				}
				return true
			case unvisited:
				if dfs(e.other) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return false
	}

	for _, id := range ids {
		if state[id] == unvisited && dfs(id) {
			return normalizeCycle(cycle)
		}
	}
	return nil
}

// normalizeCycle rotates the cycle to start at its smallest ID and closes it
// by repeating the first ID at the end.
func normalizeCycle(cycle []string) []string {
	if len(cycle) == 0 {
		return nil
	}
	min := 0
	for i, id := range cycle {
		if id < cycle[min] {
			min = i
		}
	}
	out := make([]string, 0, len(cycle)+1)
	out = append(out, cycle[min:]...)
	out = append(out, cycle[:min]...)
	return append(out, out[0])
}

// wouldCycle reports whether adding predID -> succID to deps would close a
// cycle, i.e. whether predID is already reachable from succID. When it is,
// the connecting path (succID .. predID) is returned.
func wouldCycle(deps []Dependency, predID, succID string) (bool, []string) {
	adj := make(map[string][]string)
	for _, dep := range deps {
		adj[dep.PredecessorID] = append(adj[dep.PredecessorID], dep.SuccessorID)
	}
	for _, succs := range adj {
		sort.Strings(succs)
	}

	seen := map[string]bool{succID: true}
	var path []string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		path = append(path, id)
		if id == predID {
			return true
		}
		for _, next := range adj[id] {
			if !seen[next] {
				seen[next] = true
				if dfs(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if dfs(succID) {
		return true, path
	}
	return false, nil
}
