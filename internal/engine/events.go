package engine

import (
	"github.com/talgya/hex-skirmish/internal/combat"
	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

// EventKind classifies an Event.
type EventKind string

const (
	EventUnitPlaced       EventKind = "unit_placed"
	EventSelectionChanged EventKind = "selection_changed"
	EventReachableChanged EventKind = "reachable_changed"
	EventMoveCommitted    EventKind = "move_committed"
	EventAttackResolved   EventKind = "attack_resolved"
	EventUnitSlain        EventKind = "unit_slain"
	EventTurnEnded        EventKind = "turn_ended"
	EventMatchEnded       EventKind = "match_ended"
	EventActionRejected   EventKind = "action_rejected"
)

// Event is an observation for the presentation layer.
type Event struct {
	Seq         int              `json:"seq"`
	Turn        int              `json:"turn"`
	Kind        EventKind        `json:"kind"`
	Player      int              `json:"player"` // Acting player; the new current player for turn_ended
	Phase       Phase            `json:"phase"`
	UnitID      units.ID         `json:"unit_id,omitempty"`
	Coord       world.HexCoord   `json:"coord"`
	Path        []world.HexCoord `json:"path,omitempty"`
	Reachable   []world.HexCoord `json:"reachable,omitempty"`
	Outcome     *combat.Outcome  `json:"outcome,omitempty"`
	Reason      Reason           `json:"reason,omitempty"`
	Description string           `json:"description"`
}

// Subscribe registers fn to be called synchronously for every new event.
func (m *Match) Subscribe(fn func(Event)) {
	m.subscribers = append(m.subscribers, fn)
}

// Events returns every event recorded so far.
func (m *Match) Events() []Event {
	return append([]Event(nil), m.events...)
}

// Drain returns the events recorded since the previous Drain.
func (m *Match) Drain() []Event {
	out := append([]Event(nil), m.events[m.drained:]...)
	m.drained = len(m.events)
	return out
}

func (m *Match) emit(e Event) {
	m.seq++
	e.Seq = m.seq
	e.Turn = m.turn
	e.Phase = m.phase
	m.events = append(m.events, e)
	for _, fn := range m.subscribers {
		fn(e)
	}
}
