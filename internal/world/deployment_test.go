package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topRows(n int) func(HexCoord) bool {
	return func(h HexCoord) bool { return h.R < n }
}

func TestDeploymentSites_SpreadInZone(t *testing.T) {
	m := newTestMap(t, 13, 13)
	sites := DeploymentSites(m, topRows(4), NewCoordSet(), 3, 2, 1)
	require.Len(t, sites, 3)
	for i, s := range sites {
		assert.Less(t, s.Coord.R, 4)
		for _, o := range sites[i+1:] {
			assert.GreaterOrEqual(t, Distance(s.Coord, o.Coord), 2)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, sites[i-1].Score, s.Score)
		}
	}
	assert.Equal(t, sites, DeploymentSites(m, topRows(4), NewCoordSet(), 3, 2, 1))
}

func TestDeploymentSites_SkipsBlockedAndImpassable(t *testing.T) {
	m := newTestMap(t, 4, 4)
	water := m.Catalog().Tile(TerrainWater)
	require.NoError(t, m.SetTile(HexCoord{Q: 0, R: 0}, water))
	require.NoError(t, m.SetTile(HexCoord{Q: 1, R: 0}, water))
	blocked := NewCoordSet(HexCoord{Q: 2, R: 0})

	sites := DeploymentSites(m, topRows(1), blocked, 3, 2, 9)
	require.Len(t, sites, 1)
	assert.Equal(t, HexCoord{Q: 3, R: 0}, sites[0].Coord)
}

func TestDeploymentSites_RelaxesSpacing(t *testing.T) {
	m := newTestMap(t, 13, 13)
	in := func(h HexCoord) bool { return h.R == 0 && h.Q < 3 }
	sites := DeploymentSites(m, in, NewCoordSet(), 3, 3, 4)
	assert.Len(t, sites, 3)
}
