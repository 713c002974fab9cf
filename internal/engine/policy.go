package engine

// EndTurnPolicy reports whether the current turn should end on its own.
type EndTurnPolicy func(m *Match) bool

// SelectedUnitExhausted ends the turn once the unit that just acted has no
// action points left.
func SelectedUnitExhausted(m *Match) bool {
	u := m.Selected()
	return u != nil && u.Owner == m.CurrentPlayer() && u.ActionPoints <= 0
}

// ManualEndTurn never ends a turn on its own.
func ManualEndTurn(*Match) bool { return false }

// PlayerExhausted ends the turn once none of the current player's units can
// act.
func PlayerExhausted(m *Match) bool {
	for _, u := range m.onBoard {
		if u.Owner == m.current && u.ActionPoints > 0 {
			return false
		}
	}
	return true
}

// AutoEndTurn applies the match policy and ends the turn when it fires. It
// runs after every intent that spends action points and reports whether the
// turn ended.
func (m *Match) AutoEndTurn() bool {
	if m.over || m.phase != PhasePlay || !m.policy(m) {
		return false
	}
	m.log.Debug("auto end turn", "player", m.current)
	m.endTurn()
	return true
}
