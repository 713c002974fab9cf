package engine

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hex-skirmish/internal/combat"
	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

// reject logs and records a refused intent and returns its error.
func (m *Match) reject(op string, reason Reason, err error) error {
	if err == nil {
		err = ErrIllegalAction
	}
	ae := &ActionError{Op: op, Reason: reason, Err: err}
	m.log.Debug("action rejected", "op", op, "reason", reason, "player", m.current)
	m.emit(Event{
		Kind:        EventActionRejected,
		Player:      m.current,
		Reason:      reason,
		Description: ae.Error(),
	})
	return ae
}

// actor resolves id to a board unit the current player may command in the
// play phase.
func (m *Match) actor(op string, id units.ID) (*units.Unit, error) {
	if m.over {
		return nil, m.reject(op, ReasonMatchOver, nil)
	}
	if m.phase != PhasePlay {
		return nil, m.reject(op, ReasonWrongPhase, nil)
	}
	u, ok := m.index[id]
	if !ok || !m.isOnBoard(u) {
		return nil, m.reject(op, ReasonUnknownUnit, nil)
	}
	if u.Owner != m.current {
		return nil, m.reject(op, ReasonNotOwner, nil)
	}
	return u, nil
}

// ── Placement ──────────────────────────────────────────────────────────

// PlaceUnit deploys one of player's roster units onto at.
func (m *Match) PlaceUnit(player int, id units.ID, at world.HexCoord) error {
	const op = "place"
	if m.over {
		return m.reject(op, ReasonMatchOver, nil)
	}
	if m.phase != PhasePlacement {
		return m.reject(op, ReasonWrongPhase, nil)
	}
	if player != m.current {
		return m.reject(op, ReasonNotYourTurn, nil)
	}
	if m.placed[player] >= len(m.rosters[player]) {
		return m.reject(op, ReasonRosterComplete, nil)
	}
	u, ok := m.index[id]
	if !ok {
		return m.reject(op, ReasonUnknownUnit, nil)
	}
	if u.Owner != player {
		return m.reject(op, ReasonNotOwner, nil)
	}
	if m.isOnBoard(u) {
		return m.reject(op, ReasonAlreadyPlaced, nil)
	}
	tile, err := m.board.TileAt(at)
	if err != nil {
		return m.reject(op, ReasonOutOfBounds, world.ErrOutOfBounds)
	}
	if !m.InSpawnZone(player, at) {
		return m.reject(op, ReasonOutsideSpawnZone, nil)
	}
	if !tile.Passable {
		return m.reject(op, ReasonImpassable, nil)
	}
	if m.occupied(at) {
		return m.reject(op, ReasonOccupied, nil)
	}

	u.Position = at
	m.onBoard = append(m.onBoard, u)
	m.placed[player]++

	m.log.Info("unit placed", "unit", u.String(), "at", at.String(),
		"placed", m.placed[player], "roster", len(m.rosters[player]))
	m.emit(Event{
		Kind:        EventUnitPlaced,
		Player:      player,
		UnitID:      u.ID,
		Coord:       at,
		Description: fmt.Sprintf("%s deployed at %s", u, at),
	})
	return nil
}

// PlaceNext deploys the current player's next unplaced unit in roster order.
func (m *Match) PlaceNext(at world.HexCoord) (*units.Unit, error) {
	if m.over {
		return nil, m.reject("place", ReasonMatchOver, nil)
	}
	if m.phase != PhasePlacement {
		return nil, m.reject("place", ReasonWrongPhase, nil)
	}
	u := m.nextUnplaced(m.current)
	if u == nil {
		return nil, m.reject("place", ReasonRosterComplete, nil)
	}
	if err := m.PlaceUnit(m.current, u.ID, at); err != nil {
		return nil, err
	}
	return u, nil
}

// ── Selection ──────────────────────────────────────────────────────────

// Select makes id the selected unit and recomputes its reachable set.
func (m *Match) Select(id units.ID) error {
	u, err := m.actor("select", id)
	if err != nil {
		return err
	}
	m.setSelected(u)
	return nil
}

// Deselect clears the selection.
func (m *Match) Deselect() {
	if m.selected == nil {
		return
	}
	m.setSelected(nil)
}

func (m *Match) setSelected(u *units.Unit) {
	changed := m.selected != u
	m.selected = u
	if changed {
		e := Event{Kind: EventSelectionChanged, Player: m.current, Description: "selection cleared"}
		if u != nil {
			e.UnitID = u.ID
			e.Coord = u.Position
			e.Description = fmt.Sprintf("%s selected", u)
		}
		m.emit(e)
	}
	m.refreshReachable()
}

// refreshReachable recomputes the selected unit's destinations. A unit
// without action points has none.
func (m *Match) refreshReachable() {
	set := world.NewCoordSet()
	u := m.selected
	if u != nil && u.ActionPoints > 0 {
		set = m.board.Reachable(u.Position, u.MoveRange, m.blockers(u))
	}
	m.reachable = set
	e := Event{
		Kind:        EventReachableChanged,
		Player:      m.current,
		Reachable:   sortedCoords(set),
		Description: fmt.Sprintf("%d reachable tiles", set.Size()),
	}
	if u != nil {
		e.UnitID = u.ID
		e.Coord = u.Position
	}
	m.emit(e)
}

// ── Movement ───────────────────────────────────────────────────────────

// Move commits a move of id along path. path[0] must be the unit's tile and
// the final tile must be reachable within its move range. Spends 1 action
// point.
func (m *Match) Move(id units.ID, path []world.HexCoord) error {
	const op = "move"
	u, err := m.actor(op, id)
	if err != nil {
		return err
	}
	if u.ActionPoints <= 0 {
		return m.reject(op, ReasonNoActionPoints, nil)
	}
	if len(path) < 2 || path[0] != u.Position || path[len(path)-1] == u.Position {
		return m.reject(op, ReasonInvalidPath, nil)
	}
	blocked := m.blockers(u)
	dest := path[len(path)-1]
	if !m.board.Inside(dest) {
		return m.reject(op, ReasonOutOfBounds, world.ErrOutOfBounds)
	}
	if !m.board.ValidatePath(path, blocked) {
		return m.reject(op, ReasonInvalidPath, nil)
	}
	if m.board.PathCost(path) > u.MoveRange || !m.board.Reachable(u.Position, u.MoveRange, blocked).Has(dest) {
		return m.reject(op, ReasonUnreachable, world.ErrUnreachable)
	}
	m.commitMove(u, path)
	return nil
}

// MoveTo moves id to dest along the shortest step path.
func (m *Match) MoveTo(id units.ID, dest world.HexCoord) error {
	const op = "move"
	u, err := m.actor(op, id)
	if err != nil {
		return err
	}
	if u.ActionPoints <= 0 {
		return m.reject(op, ReasonNoActionPoints, nil)
	}
	if dest == u.Position {
		return m.reject(op, ReasonInvalidPath, nil)
	}
	if !m.board.Inside(dest) {
		return m.reject(op, ReasonOutOfBounds, world.ErrOutOfBounds)
	}
	blocked := m.blockers(u)
	if !m.board.Reachable(u.Position, u.MoveRange, blocked).Has(dest) {
		return m.reject(op, ReasonUnreachable, world.ErrUnreachable)
	}
	path := m.board.ShortestPath(u.Position, dest, blocked)
	if path == nil {
		return m.reject(op, ReasonUnreachable, world.ErrUnreachable)
	}
	m.commitMove(u, path)
	return nil
}

func (m *Match) commitMove(u *units.Unit, path []world.HexCoord) {
	from := u.Position
	u.Position = path[len(path)-1]
	u.SpendAction()

	m.log.Info("unit moved", "unit", u.String(), "from", from.String(), "to", u.Position.String(),
		"steps", len(path)-1, "ap_left", u.ActionPoints)
	m.emit(Event{
		Kind:        EventMoveCommitted,
		Player:      m.current,
		UnitID:      u.ID,
		Coord:       u.Position,
		Path:        slices.Clone(path),
		Description: fmt.Sprintf("%s moves %s -> %s", u, from, u.Position),
	})
	m.setSelected(u)
	m.AutoEndTurn()
}

// ── Combat ─────────────────────────────────────────────────────────────

// Attack resolves an attack by attackerID on defenderID. Spends 1 action
// point; a target beyond both weapon ranges is rejected without cost.
func (m *Match) Attack(attackerID, defenderID units.ID) (combat.Outcome, error) {
	const op = "attack"
	a, err := m.actor(op, attackerID)
	if err != nil {
		return combat.Outcome{}, err
	}
	d, ok := m.index[defenderID]
	if !ok || !m.isOnBoard(d) {
		return combat.Outcome{}, m.reject(op, ReasonUnknownUnit, nil)
	}
	if d.Owner == a.Owner {
		return combat.Outcome{}, m.reject(op, ReasonFriendlyTarget, nil)
	}
	if a.ActionPoints <= 0 {
		return combat.Outcome{}, m.reject(op, ReasonNoActionPoints, nil)
	}
	out, err := m.resolver.Attack(a, d)
	if err != nil {
		return combat.Outcome{}, m.reject(op, ReasonOutOfRange, err)
	}
	a.SpendAction()

	for _, line := range out.Lines() {
		m.log.Info("combat", "line", line)
	}
	m.emit(Event{
		Kind:        EventAttackResolved,
		Player:      m.current,
		UnitID:      a.ID,
		Coord:       d.Position,
		Outcome:     &out,
		Description: out.Lines()[0],
	})

	if out.Slain {
		m.removeUnit(d)
		m.log.Info("unit slain", "unit", d.String(), "by", a.String())
		m.emit(Event{
			Kind:        EventUnitSlain,
			Player:      m.current,
			UnitID:      d.ID,
			Coord:       d.Position,
			Description: fmt.Sprintf("%s is slain", d),
		})
	}

	m.setSelected(a)
	m.checkWinner()
	if !m.over {
		m.AutoEndTurn()
	}
	return out, nil
}

// ── Turns ──────────────────────────────────────────────────────────────

// EndTurn passes control to the next player. During placement the current
// player must have deployed every unit first. The placement phase ends once
// all rosters are on the board; each new current player's units regain
// their action points.
func (m *Match) EndTurn() error {
	const op = "end_turn"
	if m.over {
		return m.reject(op, ReasonMatchOver, nil)
	}
	if m.phase == PhasePlacement && m.placed[m.current] < len(m.rosters[m.current]) {
		return m.reject(op, ReasonPlacementPending, nil)
	}
	m.endTurn()
	return nil
}

func (m *Match) endTurn() {
	prev := m.current
	m.Deselect()

	m.current = (m.current + 1) % len(m.rosters)
	m.turn++
	for _, u := range m.onBoard {
		if u.Owner == m.current {
			u.ResetActions()
		}
	}

	started := false
	if m.phase == PhasePlacement && m.allPlaced() {
		m.phase = PhasePlay
		started = true
	}

	m.log.Info("turn ended",
		"from", prev,
		"to", m.current,
		"turn", humanize.Ordinal(m.turn),
		"phase", m.phase.String(),
	)
	desc := fmt.Sprintf("%s turn: player %d to act", humanize.Ordinal(m.turn), m.current+1)
	if started {
		desc += ", battle begins"
	}
	m.emit(Event{Kind: EventTurnEnded, Player: m.current, Description: desc})
	if started {
		m.checkWinner()
	}
}
