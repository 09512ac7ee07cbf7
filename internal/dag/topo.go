package dag

import (
	"slices"
)

type Topo struct {
	Order   []NodeID   // зависимости раньше использующих
	Batches [][]NodeID // волны независимых объявлений
	Cyclic  bool
	Cycles  []NodeID // узлы, оставшиеся в цикле
}

// ToposortKahn orders declarations so each comes after everything it uses.
// Inside a batch declarations keep source order.
func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	users := make([][]NodeID, nodeCount)
	for from, tos := range g.Edges {
		for _, to := range tos {
			users[to] = append(users[to], NodeID(from))
		}
	}

	topo := &Topo{
		Order: make([]NodeID, 0, nodeCount),
	}

	active := 0
	current := make([]NodeID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, NodeID(i))
		}
	}

	visited := 0
	for len(current) > 0 {
		batch := make([]NodeID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]NodeID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, user := range users[id] {
				if !g.Present[user] {
					continue
				}
				indeg[user]--
				if indeg[user] == 0 {
					next = append(next, user)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, NodeID(i))
			}
		}
	}
	return topo
}
