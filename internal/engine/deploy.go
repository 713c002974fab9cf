package engine

import (
	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

// deploySpacing is the preferred hex distance between auto-deployed units.
const deploySpacing = 2

// SuggestPlacements returns free spawn-zone tiles for player's unplaced
// units, best first.
func (m *Match) SuggestPlacements(player int) []world.HexCoord {
	if player < 0 || player >= len(m.rosters) {
		return nil
	}
	need := len(m.rosters[player]) - m.placed[player]
	if need <= 0 {
		return nil
	}
	in := func(h world.HexCoord) bool { return m.InSpawnZone(player, h) }
	sites := world.DeploymentSites(m.board, in, m.blockers(nil), need, deploySpacing, int64(player))
	out := make([]world.HexCoord, len(sites))
	for i, s := range sites {
		out[i] = s.Coord
	}
	return out
}

// AutoDeploy places the current player's remaining units on suggested
// tiles. Nothing is placed when the zone lacks room for all of them.
func (m *Match) AutoDeploy() ([]*units.Unit, error) {
	if m.over {
		return nil, m.reject("place", ReasonMatchOver, nil)
	}
	if m.phase != PhasePlacement {
		return nil, m.reject("place", ReasonWrongPhase, nil)
	}
	sites := m.SuggestPlacements(m.current)
	if len(sites) < len(m.rosters[m.current])-m.placed[m.current] {
		return nil, m.reject("place", ReasonZoneFull, nil)
	}
	var placed []*units.Unit
	for _, at := range sites {
		u, err := m.PlaceNext(at)
		if err != nil {
			return placed, err
		}
		placed = append(placed, u)
	}
	return placed, nil
}
