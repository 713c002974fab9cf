// Package world provides the hex grid, terrain, and path search for the battlefield.
// Uses axial coordinates (q, r) for the hex grid.
package world

import (
	"fmt"
	"strconv"
	"strings"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns the coordinate offset by d.
func (h HexCoord) Add(d HexCoord) HexCoord {
	return HexCoord{Q: h.Q + d.Q, R: h.R + d.R}
}

// String returns the coordinate in map key form, e.g. "4,7".
func (h HexCoord) String() string {
	return CoordKey(h)
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
// The result is not filtered by any map bounds.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = h.Add(dir)
	}
	return result
}

// IsNeighbor reports whether b is one step from a.
func IsNeighbor(a, b HexCoord) bool {
	return Distance(a, b) == 1
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	// Cube Manhattan distance halved.
	return (abs(a.Q-b.Q) + abs(a.R-b.R) + abs(a.S()-b.S())) / 2
}

// Range returns every coordinate within n steps of center, center included.
// The result is not filtered by any map bounds.
func Range(center HexCoord, n int) []HexCoord {
	if n < 0 {
		return nil
	}
	out := make([]HexCoord, 0, 1+3*n*(n+1))
	for dq := -n; dq <= n; dq++ {
		lo := max(-n, -dq-n)
		hi := min(n, -dq+n)
		for dr := lo; dr <= hi; dr++ {
			out = append(out, HexCoord{Q: center.Q + dq, R: center.R + dr})
		}
	}
	return out
}

// CoordKey formats a coordinate as the map document key "q,r".
func CoordKey(h HexCoord) string {
	return strconv.Itoa(h.Q) + "," + strconv.Itoa(h.R)
}

// ParseCoordKey parses a "q,r" key.
func ParseCoordKey(key string) (HexCoord, error) {
	qs, rs, ok := strings.Cut(key, ",")
	if !ok {
		return HexCoord{}, fmt.Errorf("coord key %q: missing comma", key)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return HexCoord{}, fmt.Errorf("coord key %q: %w", key, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return HexCoord{}, fmt.Errorf("coord key %q: %w", key, err)
	}
	return HexCoord{Q: q, R: r}, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
