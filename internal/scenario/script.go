// Package scenario replays YAML intent scripts against a match.
package scenario

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hex-skirmish/internal/engine"
	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

// Op names a scripted intent.
type Op string

const (
	OpPlace    Op = "place"
	OpDeploy   Op = "deploy" // Auto-place the current player's remaining units
	OpSelect   Op = "select"
	OpDeselect Op = "deselect"
	OpMove     Op = "move"
	OpAttack   Op = "attack"
	OpEndTurn  Op = "end_turn"
)

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Map   string `yaml:"map,omitempty"` // Stored map name; empty generates one
	Steps []Step `yaml:"steps"`
}

// Step is one intent. Coordinates are "q,r" keys.
type Step struct {
	Op     Op       `yaml:"op"`
	Player *int     `yaml:"player,omitempty"` // Defaults to the current player
	Unit   units.ID `yaml:"unit,omitempty"`   // Omitted on place: next unplaced unit
	At     string   `yaml:"at,omitempty"`
	To     string   `yaml:"to,omitempty"`
	Path   []string `yaml:"path,omitempty"`
	Target units.ID `yaml:"target,omitempty"`
	Expect string   `yaml:"expect,omitempty"` // Reason code the step must be rejected with
}

// StepResult records how one step went.
type StepResult struct {
	Index  int
	Op     Op
	Reason engine.Reason // Empty when accepted
}

// Result summarizes a run.
type Result struct {
	Steps    []StepResult
	Accepted int
	Rejected int
}

// Parse decodes a script from YAML.
func Parse(data []byte) (Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	for i, st := range sc.Steps {
		if err := st.check(); err != nil {
			return Script{}, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return sc, nil
}

// LoadFile reads and parses a script file.
func LoadFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

func (st Step) check() error {
	switch st.Op {
	case OpPlace:
		_, err := world.ParseCoordKey(st.At)
		return err
	case OpSelect:
		if st.Unit == 0 {
			return fmt.Errorf("select needs a unit")
		}
	case OpMove:
		if st.Unit == 0 {
			return fmt.Errorf("move needs a unit")
		}
		if (st.To == "") == (len(st.Path) == 0) {
			return fmt.Errorf("move needs exactly one of to or path")
		}
		if _, err := st.coords(); err != nil {
			return err
		}
	case OpAttack:
		if st.Unit == 0 || st.Target == 0 {
			return fmt.Errorf("attack needs a unit and a target")
		}
	case OpDeploy, OpDeselect, OpEndTurn:
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

// coords parses the destination or path of a move.
func (st Step) coords() ([]world.HexCoord, error) {
	if st.To != "" {
		h, err := world.ParseCoordKey(st.To)
		if err != nil {
			return nil, err
		}
		return []world.HexCoord{h}, nil
	}
	path := make([]world.HexCoord, 0, len(st.Path))
	for _, key := range st.Path {
		h, err := world.ParseCoordKey(key)
		if err != nil {
			return nil, err
		}
		path = append(path, h)
	}
	return path, nil
}

// Run applies every step of sc to m in order. A step rejected with a reason
// other than its Expect, or accepted when a rejection was expected, stops
// the run with an error.
func Run(m *engine.Match, sc Script, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result
	for i, st := range sc.Steps {
		err := apply(m, st)
		reason := engine.ReasonOf(err)
		if err != nil && reason == "" {
			return res, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		res.Steps = append(res.Steps, StepResult{Index: i + 1, Op: st.Op, Reason: reason})
		if reason == "" {
			res.Accepted++
		} else {
			res.Rejected++
		}
		if string(reason) != st.Expect {
			if err == nil {
				return res, fmt.Errorf("step %d (%s): accepted, expected %s", i+1, st.Op, st.Expect)
			}
			return res, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		logger.Debug("scenario step", "script", sc.Name, "step", i+1, "op", st.Op, "reason", reason)
	}
	logger.Info("scenario finished", "script", sc.Name, "accepted", res.Accepted, "rejected", res.Rejected)
	return res, nil
}

func apply(m *engine.Match, st Step) error {
	switch st.Op {
	case OpPlace:
		at, err := world.ParseCoordKey(st.At)
		if err != nil {
			return err
		}
		if st.Unit == 0 {
			_, err = m.PlaceNext(at)
			return err
		}
		player := m.CurrentPlayer()
		if st.Player != nil {
			player = *st.Player
		}
		return m.PlaceUnit(player, st.Unit, at)
	case OpDeploy:
		_, err := m.AutoDeploy()
		return err
	case OpSelect:
		return m.Select(st.Unit)
	case OpDeselect:
		m.Deselect()
		return nil
	case OpMove:
		coords, err := st.coords()
		if err != nil {
			return err
		}
		if st.To != "" {
			return m.MoveTo(st.Unit, coords[0])
		}
		return m.Move(st.Unit, coords)
	case OpAttack:
		_, err := m.Attack(st.Unit, st.Target)
		return err
	case OpEndTurn:
		return m.EndTurn()
	}
	return fmt.Errorf("unknown op %q", st.Op)
}
