package scenario

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-skirmish/internal/engine"
	"github.com/talgya/hex-skirmish/internal/entropy"
	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

const opening = `
name: opening
steps:
  - {op: place, at: "0,0"}
  - {op: place, at: "1,2"}
  - {op: end_turn, expect: placement_pending}
  - {op: place, at: "2,0"}
  - {op: end_turn}
  - {op: place, unit: 4, player: 1, at: "0,12"}
  - {op: place, at: "1,12"}
  - {op: place, at: "2,12"}
  - {op: end_turn}
  - {op: select, unit: 2}
  - {op: move, unit: 2, to: "1,5"}
  - {op: move, unit: 2, to: "1,9", expect: unreachable}
  - {op: deselect}
  - {op: move, unit: 2, path: ["1,5", "1,6"]}
  - {op: attack, unit: 5, target: 2, expect: out_of_range}
`

func newMatch(t *testing.T) *engine.Match {
	t.Helper()
	board, err := world.NewMap(13, 13, nil)
	require.NoError(t, err)
	b := units.NewBuilder(nil)
	p0, _ := b.DefaultRoster(0)
	p1, _ := b.DefaultRoster(1)
	m, err := engine.NewMatch(board, [][]*units.Unit{p0, p1}, engine.Options{
		Dice:   entropy.NewSeeded(1),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return m
}

func TestRun_Opening(t *testing.T) {
	sc, err := Parse([]byte(opening))
	require.NoError(t, err)
	require.Len(t, sc.Steps, 15)

	m := newMatch(t)
	res, err := Run(m, sc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, 12, res.Accepted)
	assert.Equal(t, 3, res.Rejected)
	assert.Equal(t, engine.ReasonPlacementPending, res.Steps[2].Reason)

	soldier, _ := m.Unit(2)
	assert.Equal(t, world.HexCoord{Q: 1, R: 6}, soldier.Position)
	assert.Equal(t, 1, m.CurrentPlayer(), "second move used the last action point")
}

func TestRun_UnexpectedRejectionStops(t *testing.T) {
	sc, err := Parse([]byte(`
steps:
  - {op: place, at: "0,0"}
  - {op: place, at: "0,8"}
  - {op: end_turn}
`))
	require.NoError(t, err)
	res, err := Run(newMatch(t), sc, nil)
	require.Error(t, err)
	assert.Equal(t, engine.ReasonOutsideSpawnZone, engine.ReasonOf(err))
	assert.Len(t, res.Steps, 2)
}

func TestRun_ExpectedRejectionAccepted(t *testing.T) {
	sc, err := Parse([]byte(`
steps:
  - {op: place, at: "0,0", expect: occupied}
`))
	require.NoError(t, err)
	_, err = Run(newMatch(t), sc, nil)
	assert.ErrorContains(t, err, "accepted, expected occupied")
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown op":    `steps: [{op: dance}]`,
		"bad coord":     `steps: [{op: place, at: "1;2"}]`,
		"move no dest":  `steps: [{op: move, unit: 1}]`,
		"move both":     `steps: [{op: move, unit: 1, to: "1,1", path: ["0,0", "1,1"]}]`,
		"attack target": `steps: [{op: attack, unit: 1}]`,
		"select":        `steps: [{op: select}]`,
		"not yaml":      `steps: {`,
	}
	for name, body := range cases {
		_, err := Parse([]byte(body))
		assert.Error(t, err, name)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opening.yaml")
	require.NoError(t, os.WriteFile(path, []byte(opening), 0644))
	sc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "opening", sc.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRun_Deploy(t *testing.T) {
	sc, err := Parse([]byte(`
steps:
  - {op: deploy}
  - {op: end_turn}
  - {op: deploy}
  - {op: end_turn}
  - {op: deploy, expect: wrong_phase}
`))
	require.NoError(t, err)
	m := newMatch(t)
	res, err := Run(m, sc, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Accepted)
	assert.Equal(t, engine.PhasePlay, m.Phase())
	assert.Len(t, m.Units(), 6)
}
