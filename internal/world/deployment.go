// Deployment site selection: scores open tiles and spreads units across a zone.
package world

import (
	"math/rand"
	"sort"
)

// Site is a scored candidate tile for deploying a unit.
type Site struct {
	Coord HexCoord
	Score float64 // Desirability score
}

// DeploymentSites picks up to count passable, unblocked tiles for which in
// returns true, best first. Picked tiles keep at least minDist hexes apart;
// when the zone is too crowded for that the spacing is relaxed one step at a
// time. Ties are broken with a seeded jitter, so the same inputs always give
// the same sites.
func DeploymentSites(m *Map, in func(HexCoord) bool, blocked CoordSet, count, minDist int, seed int64) []Site {
	rng := rand.New(rand.NewSource(seed + 300))

	var candidates []Site
	m.Each(func(h HexCoord, t Tile) {
		if !t.Passable || blocked.Has(h) || !in(h) {
			return
		}
		candidates = append(candidates, Site{h, siteScore(m, h, t) + rng.Float64()*0.1})
	})

	// Sort by score descending.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	var sites []Site
	taken := make(map[HexCoord]bool)
	for dist := max(minDist, 1); dist >= 1 && len(sites) < count; dist-- {
		for _, c := range candidates {
			if len(sites) >= count {
				break
			}
			if taken[c.Coord] || tooClose(c.Coord, sites, dist) {
				continue
			}
			taken[c.Coord] = true
			sites = append(sites, c)
		}
	}
	return sites
}

// siteScore prefers tiles with room to move out and nearby cover.
func siteScore(m *Map, h HexCoord, t Tile) float64 {
	score := 1.0
	if t.Kind == TerrainForest {
		score += 0.5
	}
	for _, n := range h.Neighbors() {
		if !m.Inside(n) {
			continue
		}
		nt := m.tiles[n]
		if nt.Passable && abs(nt.Elevation-t.Elevation) <= 1 {
			score += 0.4 // Open exit
		}
		if nt.Kind == TerrainForest || nt.Kind == TerrainBuilding {
			score += 0.2 // Cover
		}
	}
	return score
}

func tooClose(coord HexCoord, existing []Site, minDist int) bool {
	for _, s := range existing {
		if Distance(coord, s.Coord) < minDist {
			return true
		}
	}
	return false
}
