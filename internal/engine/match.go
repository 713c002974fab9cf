// Package engine runs a skirmish match: placement, turns, movement and
// attacks, driven by intents and reported through events.
package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/hex-skirmish/internal/combat"
	"github.com/talgya/hex-skirmish/internal/entropy"
	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

// DefaultSpawnRows is the depth of each spawn zone in rows.
const DefaultSpawnRows = 4

// Phase of a match.
type Phase uint8

const (
	PhasePlacement Phase = iota
	PhasePlay
)

var phaseNames = [...]string{"placement", "play"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Options tune a match. Zero values select defaults.
type Options struct {
	ID        uuid.UUID     // Generated when zero
	SpawnRows int           // Rows per spawn zone (default 4)
	Dice      entropy.Dice  // Combat dice (default crypto)
	Policy    EndTurnPolicy // Auto end-turn rule (default SelectedUnitExhausted)
	Logger    *slog.Logger  // Default slog.Default()
}

// Match is the authoritative state of one skirmish. It is not safe for
// concurrent use; intents must be serialized by the caller.
type Match struct {
	ID uuid.UUID

	board     *world.Map
	resolver  *combat.Resolver
	policy    EndTurnPolicy
	log       *slog.Logger
	spawnRows int

	rosters [][]*units.Unit
	index   map[units.ID]*units.Unit
	onBoard []*units.Unit // Placement order
	placed  []int         // Units placed per player

	phase     Phase
	current   int
	turn      int
	selected  *units.Unit
	reachable world.CoordSet

	over   bool
	winner int

	events      []Event
	drained     int
	seq         int
	subscribers []func(Event)
}

// NewMatch sets up a match in the placement phase with player 0 to act.
// rosters[i] holds player i's units; unit owners are set to match.
func NewMatch(m *world.Map, rosters [][]*units.Unit, opts Options) (*Match, error) {
	if m == nil {
		return nil, fmt.Errorf("new match: nil map: %w", ErrIllegalAction)
	}
	if len(rosters) < 2 {
		return nil, fmt.Errorf("new match: need at least 2 players, got %d: %w", len(rosters), ErrIllegalAction)
	}
	if opts.SpawnRows <= 0 {
		opts.SpawnRows = DefaultSpawnRows
	}
	if opts.SpawnRows > m.Height {
		return nil, fmt.Errorf("new match: %d spawn rows on a map %d rows high: %w", opts.SpawnRows, m.Height, ErrIllegalAction)
	}
	if opts.ID == uuid.Nil {
		opts.ID = uuid.New()
	}
	if opts.Policy == nil {
		opts.Policy = SelectedUnitExhausted
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	match := &Match{
		ID:        opts.ID,
		board:     m,
		resolver:  combat.NewResolver(opts.Dice),
		policy:    opts.Policy,
		log:       opts.Logger.With("match", opts.ID.String()),
		spawnRows: opts.SpawnRows,
		rosters:   make([][]*units.Unit, len(rosters)),
		index:     make(map[units.ID]*units.Unit),
		placed:    make([]int, len(rosters)),
		turn:      1,
		winner:    -1,
		reachable: world.NewCoordSet(),
	}

	for player, roster := range rosters {
		if len(roster) == 0 {
			return nil, fmt.Errorf("new match: player %d has no units: %w", player, ErrIllegalAction)
		}
		for _, u := range roster {
			if u == nil {
				return nil, fmt.Errorf("new match: player %d has a nil unit: %w", player, ErrIllegalAction)
			}
			if _, dup := match.index[u.ID]; dup {
				return nil, fmt.Errorf("new match: duplicate unit id %d: %w", u.ID, ErrIllegalAction)
			}
			u.Owner = player
			u.ResetActions()
			match.index[u.ID] = u
		}
		match.rosters[player] = slices.Clone(roster)
	}

	match.log.Info("match created",
		"players", len(rosters),
		"units", len(match.index),
		"map", m.String(),
		"spawn_rows", opts.SpawnRows,
	)
	return match, nil
}

// ── Queries ────────────────────────────────────────────────────────────

// Map returns the board.
func (m *Match) Map() *world.Map { return m.board }

// Phase returns the current phase.
func (m *Match) Phase() Phase { return m.phase }

// CurrentPlayer returns the index of the player to act.
func (m *Match) CurrentPlayer() int { return m.current }

// Players returns the number of players.
func (m *Match) Players() int { return len(m.rosters) }

// Turn returns the 1-based turn counter. Each EndTurn advances it.
func (m *Match) Turn() int { return m.turn }

// Over reports whether a single player remains.
func (m *Match) Over() bool { return m.over }

// Winner returns the winning player, or -1 while the match is running.
func (m *Match) Winner() int { return m.winner }

// SpawnRows returns the spawn zone depth.
func (m *Match) SpawnRows() int { return m.spawnRows }

// Units returns the units on the board in placement order.
func (m *Match) Units() []*units.Unit {
	return slices.Clone(m.onBoard)
}

// Roster returns player's full roster, placed or not.
func (m *Match) Roster(player int) []*units.Unit {
	if player < 0 || player >= len(m.rosters) {
		return nil
	}
	return slices.Clone(m.rosters[player])
}

// Unit returns the unit with id, on the board or not.
func (m *Match) Unit(id units.ID) (*units.Unit, bool) {
	u, ok := m.index[id]
	return u, ok
}

// UnitAt returns the board unit standing on h.
func (m *Match) UnitAt(h world.HexCoord) (*units.Unit, bool) {
	for _, u := range m.onBoard {
		if u.Position == h {
			return u, true
		}
	}
	return nil, false
}

// Placed reports how many of player's units are on the board.
func (m *Match) Placed(player int) int {
	if player < 0 || player >= len(m.placed) {
		return 0
	}
	return m.placed[player]
}

// Selected returns the selected unit, or nil.
func (m *Match) Selected() *units.Unit { return m.selected }

// ReachableSet returns the destinations of the selected unit.
func (m *Match) ReachableSet() []world.HexCoord {
	return sortedCoords(m.reachable)
}

// InSpawnZone reports whether h lies in player's spawn zone. Player 0 deploys
// along the top rows; every other player along the bottom rows.
func (m *Match) InSpawnZone(player int, h world.HexCoord) bool {
	if !m.board.Inside(h) {
		return false
	}
	if player == 0 {
		return h.R < m.spawnRows
	}
	return h.R >= m.board.Height-m.spawnRows
}

// ── Internals ──────────────────────────────────────────────────────────

func (m *Match) isOnBoard(u *units.Unit) bool {
	return slices.Contains(m.onBoard, u)
}

// blockers returns the positions of every board unit except self.
func (m *Match) blockers(self *units.Unit) world.CoordSet {
	set := world.NewCoordSet()
	for _, u := range m.onBoard {
		if u != self {
			set.Put(u.Position)
		}
	}
	return set
}

func (m *Match) occupied(h world.HexCoord) bool {
	_, ok := m.UnitAt(h)
	return ok
}

func (m *Match) nextUnplaced(player int) *units.Unit {
	for _, u := range m.rosters[player] {
		if !m.isOnBoard(u) {
			return u
		}
	}
	return nil
}

func (m *Match) allPlaced() bool {
	for player, roster := range m.rosters {
		if m.placed[player] < len(roster) {
			return false
		}
	}
	return true
}

func (m *Match) removeUnit(u *units.Unit) {
	m.onBoard = slices.DeleteFunc(m.onBoard, func(x *units.Unit) bool { return x == u })
	if m.selected == u {
		m.selected = nil
	}
}

// checkWinner ends the match once at most one player has units left.
func (m *Match) checkWinner() {
	if m.phase != PhasePlay || m.over {
		return
	}
	alive := make(map[int]bool)
	for _, u := range m.onBoard {
		alive[u.Owner] = true
	}
	if len(alive) > 1 {
		return
	}
	m.over = true
	for player := range alive {
		m.winner = player
	}
	m.log.Info("match ended", "winner", m.winner, "turn", m.turn)
	m.emit(Event{
		Kind:        EventMatchEnded,
		Player:      m.winner,
		Description: fmt.Sprintf("Player %d wins", m.winner+1),
	})
}

func sortedCoords(set world.CoordSet) []world.HexCoord {
	out := make([]world.HexCoord, 0, set.Size())
	set.Each(func(h world.HexCoord) {
		out = append(out, h)
	})
	slices.SortFunc(out, func(a, b world.HexCoord) int {
		if a.R != b.R {
			return a.R - b.R
		}
		return a.Q - b.Q
	})
	return out
}
