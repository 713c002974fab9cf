package world

import (
	"errors"

	"github.com/zyedidia/generic/mapset"
)

// ErrUnreachable reports that no legal path joins two tiles.
var ErrUnreachable = errors.New("unreachable")

// CoordSet is a set of hex coordinates.
type CoordSet = mapset.Set[HexCoord]

// NewCoordSet returns a set holding coords.
func NewCoordSet(coords ...HexCoord) CoordSet {
	s := mapset.New[HexCoord]()
	for _, c := range coords {
		s.Put(c)
	}
	return s
}

// CanStep reports whether a unit standing on from may step onto to.
// The target must be on the map, unblocked, passable, and within one
// elevation level of the current tile.
func (m *Map) CanStep(from, to HexCoord, blocked CoordSet) bool {
	if !m.Inside(to) || blocked.Has(to) {
		return false
	}
	next := m.tiles[to]
	if !next.Passable {
		return false
	}
	cur := m.tiles[from]
	return abs(cur.Elevation-next.Elevation) <= 1
}

type frontierEntry struct {
	coord     HexCoord
	remaining int
}

// Reachable returns every tile a unit at start can enter with budget move
// points, paying each tile's move cost on entry.
//
// A tile is re-expanded whenever it is reached with strictly more budget left
// than recorded before, so the result does not depend on visiting order.
// The start tile is always part of the result.
func (m *Map) Reachable(start HexCoord, budget int, blocked CoordSet) CoordSet {
	best := map[HexCoord]int{start: budget}
	frontier := []frontierEntry{{start, budget}}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		// A better entry for this coord was queued after this one.
		if cur.remaining < best[cur.coord] {
			continue
		}

		for _, n := range cur.coord.Neighbors() {
			if !m.CanStep(cur.coord, n, blocked) {
				continue
			}
			left := cur.remaining - max(m.tiles[n].MoveCost, 0)
			if left < 0 {
				continue
			}
			if prev, seen := best[n]; seen && prev >= left {
				continue
			}
			best[n] = left
			frontier = append(frontier, frontierEntry{n, left})
		}
	}

	out := mapset.New[HexCoord]()
	for h := range best {
		out.Put(h)
	}
	return out
}

// ShortestPath returns the fewest-steps route from start to goal, both ends
// included, ignoring move costs. It returns nil when goal cannot be reached.
func (m *Map) ShortestPath(start, goal HexCoord, blocked CoordSet) []HexCoord {
	if start == goal {
		return []HexCoord{start}
	}

	cameFrom := map[HexCoord]HexCoord{start: start}
	queue := []HexCoord{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, n := range cur.Neighbors() {
			if _, seen := cameFrom[n]; seen {
				continue
			}
			if !m.CanStep(cur, n, blocked) {
				continue
			}
			cameFrom[n] = cur
			if n == goal {
				return rebuildPath(cameFrom, start, goal)
			}
			queue = append(queue, n)
		}
	}
	return nil
}

func rebuildPath(cameFrom map[HexCoord]HexCoord, start, goal HexCoord) []HexCoord {
	var path []HexCoord
	for c := goal; c != start; c = cameFrom[c] {
		path = append(path, c)
	}
	path = append(path, start)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ValidatePath checks that path is a connected walk of legal steps starting
// at path[0].
func (m *Map) ValidatePath(path []HexCoord, blocked CoordSet) bool {
	if len(path) == 0 || !m.Inside(path[0]) {
		return false
	}
	for i := 1; i < len(path); i++ {
		if !IsNeighbor(path[i-1], path[i]) || !m.CanStep(path[i-1], path[i], blocked) {
			return false
		}
	}
	return true
}

// PathCost sums the move cost of every tile entered along path.
func (m *Map) PathCost(path []HexCoord) int {
	cost := 0
	for _, h := range path[min(1, len(path)):] {
		cost += max(m.tiles[h].MoveCost, 0)
	}
	return cost
}
