package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

func TestAutoDeploy_BothPlayers(t *testing.T) {
	m := newTestMatch(t, Options{})
	for player := 0; player < 2; player++ {
		placed, err := m.AutoDeploy()
		require.NoError(t, err)
		require.Len(t, placed, 3)
		for _, u := range placed {
			assert.True(t, m.InSpawnZone(player, u.Position), u.String())
		}
		assert.Nil(t, m.SuggestPlacements(player))
		require.NoError(t, m.EndTurn())
	}
	assert.Equal(t, PhasePlay, m.Phase())
	assert.Len(t, m.Units(), 6)

	_, err := m.AutoDeploy()
	assert.Equal(t, ReasonWrongPhase, ReasonOf(err))
}

func TestAutoDeploy_ZoneFull(t *testing.T) {
	board, err := world.NewMap(5, 5, nil)
	require.NoError(t, err)
	water := board.Catalog().Tile(world.TerrainWater)
	for q := 0; q < 3; q++ {
		require.NoError(t, board.SetTile(world.HexCoord{Q: q, R: 0}, water))
	}
	b := units.NewBuilder(nil)
	p0, _ := b.DefaultRoster(0)
	p1, _ := b.DefaultRoster(1)
	m, err := NewMatch(board, [][]*units.Unit{p0, p1}, Options{SpawnRows: 1, Logger: quietLogger()})
	require.NoError(t, err)

	assert.Len(t, m.SuggestPlacements(0), 2)
	_, err = m.AutoDeploy()
	assert.Equal(t, ReasonZoneFull, ReasonOf(err))
	assert.Equal(t, 0, m.Placed(0))
	assert.Nil(t, m.SuggestPlacements(7))
}
