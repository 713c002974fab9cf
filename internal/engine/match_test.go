package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-skirmish/internal/combat"
	"github.com/talgya/hex-skirmish/internal/entropy"
	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hex(q, r int) world.HexCoord { return world.HexCoord{Q: q, R: r} }

// newTestMatch builds a 13×13 plain map with the default rosters:
// player 0 owns units 1-3 (captain, soldier, marksman), player 1 units 4-6.
func newTestMatch(t *testing.T, opts Options) *Match {
	t.Helper()
	board, err := world.NewMap(13, 13, nil)
	require.NoError(t, err)
	b := units.NewBuilder(nil)
	p0, err := b.DefaultRoster(0)
	require.NoError(t, err)
	p1, err := b.DefaultRoster(1)
	require.NoError(t, err)
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	m, err := NewMatch(board, [][]*units.Unit{p0, p1}, opts)
	require.NoError(t, err)
	return m
}

// deploy places both default rosters and starts the play phase.
func deploy(t *testing.T, m *Match) {
	t.Helper()
	for _, at := range []world.HexCoord{hex(0, 0), hex(1, 2), hex(2, 0)} {
		_, err := m.PlaceNext(at)
		require.NoError(t, err)
	}
	require.NoError(t, m.EndTurn())
	for _, at := range []world.HexCoord{hex(0, 12), hex(1, 12), hex(2, 12)} {
		_, err := m.PlaceNext(at)
		require.NoError(t, err)
	}
	require.NoError(t, m.EndTurn())
	require.Equal(t, PhasePlay, m.Phase())
}

func TestNewMatch_Validation(t *testing.T) {
	board, err := world.NewMap(5, 5, nil)
	require.NoError(t, err)
	b := units.NewBuilder(nil)
	p0, _ := b.DefaultRoster(0)
	p1, _ := b.DefaultRoster(1)

	_, err = NewMatch(nil, [][]*units.Unit{p0, p1}, Options{})
	assert.ErrorIs(t, err, ErrIllegalAction)

	_, err = NewMatch(board, [][]*units.Unit{p0}, Options{})
	assert.ErrorIs(t, err, ErrIllegalAction)

	_, err = NewMatch(board, [][]*units.Unit{p0, p0}, Options{})
	assert.ErrorIs(t, err, ErrIllegalAction, "duplicate ids")

	_, err = NewMatch(board, [][]*units.Unit{p0, {}}, Options{})
	assert.ErrorIs(t, err, ErrIllegalAction, "empty roster")

	_, err = NewMatch(board, [][]*units.Unit{p0, p1}, Options{SpawnRows: 6})
	assert.ErrorIs(t, err, ErrIllegalAction, "spawn rows taller than map")

	m, err := NewMatch(board, [][]*units.Unit{p0, p1}, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, PhasePlacement, m.Phase())
	assert.Equal(t, 0, m.CurrentPlayer())
	assert.Equal(t, 1, m.Turn())
	assert.Equal(t, -1, m.Winner())
	assert.Equal(t, DefaultSpawnRows, m.SpawnRows())
	assert.NotEqual(t, "", m.ID.String())
}

func TestSpawnZones(t *testing.T) {
	m := newTestMatch(t, Options{})
	assert.True(t, m.InSpawnZone(0, hex(4, 3)))
	assert.False(t, m.InSpawnZone(0, hex(4, 4)))
	assert.True(t, m.InSpawnZone(1, hex(4, 9)))
	assert.False(t, m.InSpawnZone(1, hex(4, 8)))
	assert.False(t, m.InSpawnZone(1, hex(4, 13)))
}

func TestPlacement_Rules(t *testing.T) {
	m := newTestMatch(t, Options{})
	require.NoError(t, m.Map().SetTile(hex(5, 1), m.Map().Catalog().Tile(world.TerrainWater)))

	cases := []struct {
		name   string
		player int
		id     units.ID
		at     world.HexCoord
		reason Reason
	}{
		{"outside zone", 0, 1, hex(3, 6), ReasonOutsideSpawnZone},
		{"wrong player", 1, 4, hex(3, 10), ReasonNotYourTurn},
		{"other roster", 0, 4, hex(3, 1), ReasonNotOwner},
		{"unknown unit", 0, 99, hex(3, 1), ReasonUnknownUnit},
		{"off the map", 0, 1, hex(0, -1), ReasonOutOfBounds},
		{"impassable", 0, 1, hex(5, 1), ReasonImpassable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := m.PlaceUnit(tc.player, tc.id, tc.at)
			require.Error(t, err)
			assert.Equal(t, tc.reason, ReasonOf(err))
			assert.Empty(t, m.Units())
			assert.Equal(t, 0, m.Placed(0))
		})
	}

	err := m.PlaceUnit(0, 1, hex(0, -1))
	assert.ErrorIs(t, err, world.ErrOutOfBounds)

	require.NoError(t, m.PlaceUnit(0, 1, hex(3, 1)))
	assert.Equal(t, ReasonOccupied, ReasonOf(m.PlaceUnit(0, 2, hex(3, 1))))
	assert.Equal(t, ReasonAlreadyPlaced, ReasonOf(m.PlaceUnit(0, 1, hex(3, 2))))
	assert.Equal(t, ReasonPlacementPending, ReasonOf(m.EndTurn()))
	assert.Equal(t, ReasonWrongPhase, ReasonOf(m.Select(1)))

	u, ok := m.UnitAt(hex(3, 1))
	require.True(t, ok)
	assert.Equal(t, units.ID(1), u.ID)
	assert.Equal(t, 1, m.Placed(0))
}

func TestPlacement_TransitionsOnce(t *testing.T) {
	m := newTestMatch(t, Options{})
	var transitions int
	last := m.Phase()
	m.Subscribe(func(e Event) {
		if e.Phase != last {
			transitions++
			last = e.Phase
		}
	})

	deploy(t, m)
	assert.Equal(t, 1, transitions)
	assert.Equal(t, 0, m.CurrentPlayer())
	assert.Equal(t, 3, m.Turn())

	_, err := m.PlaceNext(hex(5, 0))
	assert.Equal(t, ReasonWrongPhase, ReasonOf(err))

	require.NoError(t, m.EndTurn())
	require.NoError(t, m.EndTurn())
	assert.Equal(t, 1, transitions)
	assert.Equal(t, PhasePlay, m.Phase())
}

func TestPlaceNext_RosterComplete(t *testing.T) {
	m := newTestMatch(t, Options{})
	for _, at := range []world.HexCoord{hex(0, 0), hex(1, 0), hex(2, 0)} {
		_, err := m.PlaceNext(at)
		require.NoError(t, err)
	}
	_, err := m.PlaceNext(hex(3, 0))
	assert.Equal(t, ReasonRosterComplete, ReasonOf(err))
	assert.Equal(t, ReasonRosterComplete, ReasonOf(m.PlaceUnit(0, 1, hex(3, 0))))
}

func TestMatch_EndToEnd(t *testing.T) {
	m := newTestMatch(t, Options{})
	deploy(t, m)

	soldier, ok := m.Unit(2)
	require.True(t, ok)
	require.Equal(t, units.ClassSoldier, soldier.Class)
	require.Equal(t, hex(1, 2), soldier.Position)

	require.NoError(t, m.Select(soldier.ID))
	want := m.Map().Reachable(hex(1, 2), 3, world.NewCoordSet(hex(0, 0), hex(2, 0)))
	assert.Equal(t, sortedCoords(want), m.ReachableSet())

	require.NoError(t, m.MoveTo(soldier.ID, hex(1, 5)))
	assert.Equal(t, hex(1, 5), soldier.Position)
	assert.Equal(t, 1, soldier.ActionPoints)
	assert.Equal(t, 0, m.CurrentPlayer(), "turn continues while action points remain")
	assert.Same(t, soldier, m.Selected())

	// Spending the last point hands the turn over.
	require.NoError(t, m.MoveTo(soldier.ID, hex(1, 6)))
	assert.Equal(t, 0, soldier.ActionPoints)
	assert.Equal(t, 1, m.CurrentPlayer())
	assert.Equal(t, 4, m.Turn())
	assert.Nil(t, m.Selected())
	assert.Empty(t, m.ReachableSet())

	// Still spent while player 1 acts.
	require.NoError(t, m.MoveTo(5, hex(1, 11)))
	assert.Equal(t, 0, soldier.ActionPoints)
	assert.Equal(t, 1, m.CurrentPlayer())

	require.NoError(t, m.EndTurn())
	assert.Equal(t, 0, m.CurrentPlayer())
	assert.Equal(t, 2, soldier.ActionPoints)
}

func TestMove_Rejections(t *testing.T) {
	m := newTestMatch(t, Options{})
	deploy(t, m)
	soldier, _ := m.Unit(2)

	check := func(err error, reason Reason) {
		t.Helper()
		require.Error(t, err)
		assert.Equal(t, reason, ReasonOf(err))
		assert.Equal(t, hex(1, 2), soldier.Position)
		assert.Equal(t, 2, soldier.ActionPoints)
		assert.Equal(t, 0, m.CurrentPlayer())
	}

	check(m.Select(5), ReasonNotOwner)
	check(m.MoveTo(5, hex(1, 11)), ReasonNotOwner)
	check(m.MoveTo(42, hex(1, 3)), ReasonUnknownUnit)
	check(m.MoveTo(soldier.ID, hex(1, 2)), ReasonInvalidPath)
	check(m.MoveTo(soldier.ID, hex(1, 13)), ReasonOutOfBounds)

	err := m.MoveTo(soldier.ID, hex(1, 6))
	check(err, ReasonUnreachable)
	assert.ErrorIs(t, err, world.ErrUnreachable)

	check(m.MoveTo(soldier.ID, hex(0, 0)), ReasonUnreachable)
	check(m.Move(soldier.ID, []world.HexCoord{hex(1, 3), hex(1, 4)}), ReasonInvalidPath)
	check(m.Move(soldier.ID, []world.HexCoord{hex(1, 2), hex(1, 4)}), ReasonInvalidPath)
	check(m.Move(soldier.ID, []world.HexCoord{hex(1, 2)}), ReasonInvalidPath)

	// A winding walk ending on a reachable tile still costs every step.
	winding := []world.HexCoord{hex(1, 2), hex(1, 3), hex(1, 4), hex(1, 5), hex(2, 4), hex(2, 3), hex(2, 2), hex(2, 1)}
	err = m.Move(soldier.ID, winding)
	check(err, ReasonUnreachable)
	assert.ErrorIs(t, err, world.ErrUnreachable)

	require.NoError(t, m.Move(soldier.ID, []world.HexCoord{hex(1, 2), hex(1, 3), hex(1, 4)}))
	assert.Equal(t, hex(1, 4), soldier.Position)

	soldier.ActionPoints = 0
	err = m.MoveTo(soldier.ID, hex(1, 5))
	require.Error(t, err)
	assert.Equal(t, ReasonNoActionPoints, ReasonOf(err))
	assert.Equal(t, hex(1, 4), soldier.Position)
}

func TestAttack_FriendlyTarget(t *testing.T) {
	m := newTestMatch(t, Options{Dice: entropy.NewSequence(6)})
	deploy(t, m)
	_, err := m.Attack(1, 2)
	assert.Equal(t, ReasonFriendlyTarget, ReasonOf(err))
	_, err = m.Attack(1, 77)
	assert.Equal(t, ReasonUnknownUnit, ReasonOf(err))
}

// duelMatch sets up a 5×5 map with overlapping 3-row spawn zones:
// player 0 has a soldier (1) at (1,2), player 1 a soldier (2) at (2,2) and a
// captain (3) at (3,4).
func duelMatch(t *testing.T, dice entropy.Dice) *Match {
	t.Helper()
	board, err := world.NewMap(5, 5, nil)
	require.NoError(t, err)
	b := units.NewBuilder(nil)
	p0, err := b.Roster(0, []units.Class{units.ClassSoldier})
	require.NoError(t, err)
	p1, err := b.Roster(1, []units.Class{units.ClassSoldier, units.ClassCaptain})
	require.NoError(t, err)

	m, err := NewMatch(board, [][]*units.Unit{p0, p1}, Options{SpawnRows: 3, Dice: dice, Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, m.PlaceUnit(0, 1, hex(1, 2)))
	require.NoError(t, m.EndTurn())
	require.NoError(t, m.PlaceUnit(1, 2, hex(2, 2)))
	require.NoError(t, m.PlaceUnit(1, 3, hex(3, 4)))
	require.NoError(t, m.EndTurn())
	return m
}

func TestAttack_SlayAndWin(t *testing.T) {
	seq := entropy.NewSequence(6, 1)
	m := duelMatch(t, seq)
	attacker, _ := m.Unit(1)

	out, err := m.Attack(1, 2)
	require.NoError(t, err)
	assert.Equal(t, units.WeaponMelee, out.Weapon)
	assert.True(t, out.Slain)
	assert.Equal(t, 2, seq.Used())
	_, ok := m.UnitAt(hex(2, 2))
	assert.False(t, ok, "slain unit leaves the board")
	assert.Len(t, m.Units(), 2)
	assert.Equal(t, 1, attacker.ActionPoints)
	assert.False(t, m.Over())

	// Captain at distance 4 is beyond melee reach; no dice, no cost.
	_, err = m.Attack(1, 3)
	assert.Equal(t, ReasonOutOfRange, ReasonOf(err))
	assert.ErrorIs(t, err, combat.ErrOutOfRange)
	assert.Equal(t, 2, seq.Used())
	assert.Equal(t, 1, attacker.ActionPoints)

	require.NoError(t, m.MoveTo(1, hex(3, 3)))
	assert.Equal(t, 1, m.CurrentPlayer(), "last action point ends the turn")
	require.NoError(t, m.EndTurn())
	assert.Equal(t, 2, attacker.ActionPoints)

	out, err = m.Attack(1, 3)
	require.NoError(t, err)
	assert.True(t, out.Slain)
	assert.True(t, m.Over())
	assert.Equal(t, 0, m.Winner())

	assert.Equal(t, ReasonMatchOver, ReasonOf(m.EndTurn()))
	_, err = m.Attack(1, 3)
	assert.Equal(t, ReasonMatchOver, ReasonOf(err))

	var ended int
	for _, e := range m.Events() {
		if e.Kind == EventMatchEnded {
			ended++
		}
	}
	assert.Equal(t, 1, ended)
}

func TestEndTurn_ResetsOnlyNewPlayer(t *testing.T) {
	m := newTestMatch(t, Options{Policy: ManualEndTurn})
	deploy(t, m)
	soldier, _ := m.Unit(2)
	enemy, _ := m.Unit(5)

	require.NoError(t, m.MoveTo(soldier.ID, hex(1, 4)))
	require.NoError(t, m.MoveTo(soldier.ID, hex(1, 6)))
	assert.Equal(t, 0, soldier.ActionPoints)
	assert.Equal(t, 0, m.CurrentPlayer(), "manual policy keeps the turn")

	enemy.ActionPoints = 0
	require.NoError(t, m.EndTurn())
	assert.Equal(t, 2, enemy.ActionPoints)
	assert.Equal(t, 0, soldier.ActionPoints)
}

func TestPolicy_PlayerExhausted(t *testing.T) {
	m := duelMatch(t, entropy.NewSequence(1))
	m.policy = PlayerExhausted
	require.NoError(t, m.MoveTo(1, hex(1, 3)))
	assert.Equal(t, 0, m.CurrentPlayer())
	require.NoError(t, m.MoveTo(1, hex(1, 2)))
	assert.Equal(t, 1, m.CurrentPlayer())
}

func TestEvents_DrainAndSubscribe(t *testing.T) {
	m := newTestMatch(t, Options{})
	var seen []Event
	m.Subscribe(func(e Event) { seen = append(seen, e) })

	_, err := m.PlaceNext(hex(0, 0))
	require.NoError(t, err)
	first := m.Drain()
	require.Len(t, first, 1)
	assert.Equal(t, EventUnitPlaced, first[0].Kind)
	assert.Equal(t, hex(0, 0), first[0].Coord)
	assert.Empty(t, m.Drain())

	_ = m.EndTurn()
	rejected := m.Drain()
	require.Len(t, rejected, 1)
	assert.Equal(t, EventActionRejected, rejected[0].Kind)
	assert.Equal(t, ReasonPlacementPending, rejected[0].Reason)

	assert.Equal(t, m.Events(), seen)
	for i, e := range seen {
		assert.Equal(t, i+1, e.Seq)
	}
}

func TestEvents_TurnText(t *testing.T) {
	m := newTestMatch(t, Options{})
	deploy(t, m)
	var last Event
	for _, e := range m.Events() {
		if e.Kind == EventTurnEnded {
			last = e
		}
	}
	assert.Equal(t, "3rd turn: player 1 to act, battle begins", last.Description)
	assert.Equal(t, PhasePlay, last.Phase)
}
