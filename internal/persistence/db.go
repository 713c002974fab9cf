// Package persistence provides SQLite storage for maps, matches and their
// event logs, plus JSON map files.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hex-skirmish/internal/engine"
	"github.com/talgya/hex-skirmish/internal/world"
)

// ErrNotFound reports a missing map or match.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		name TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		doc_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		map_name TEXT NOT NULL,
		players INTEGER NOT NULL,
		phase TEXT NOT NULL,
		turn INTEGER NOT NULL,
		current_player INTEGER NOT NULL,
		winner INTEGER NOT NULL,
		units_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS match_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		kind TEXT NOT NULL,
		player INTEGER NOT NULL,
		description TEXT NOT NULL,
		payload_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_match_events_seq ON match_events(match_id, seq);
	CREATE INDEX IF NOT EXISTS idx_matches_updated ON matches(updated_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ── Maps ───────────────────────────────────────────────────────────────

// MapInfo summarizes a stored map.
type MapInfo struct {
	Name      string `db:"name" json:"name"`
	Width     int    `db:"width" json:"width"`
	Height    int    `db:"height" json:"height"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// SaveMap stores m under name, replacing any previous version.
func (db *DB) SaveMap(name string, m *world.Map) error {
	doc, err := json.Marshal(m.Dump())
	if err != nil {
		return fmt.Errorf("encode map %s: %w", name, err)
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO maps (name, width, height, doc_json, updated_at) VALUES (?, ?, ?, ?, ?)",
		name, m.Width, m.Height, string(doc), now(),
	)
	if err != nil {
		return fmt.Errorf("save map %s: %w", name, err)
	}
	slog.Info("map saved", "name", name, "size", fmt.Sprintf("%dx%d", m.Width, m.Height))
	return nil
}

// LoadMap rebuilds the map stored under name.
func (db *DB) LoadMap(name string, catalog world.TerrainCatalog) (*world.Map, world.LoadReport, error) {
	var raw string
	err := db.conn.Get(&raw, "SELECT doc_json FROM maps WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, world.LoadReport{}, fmt.Errorf("map %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, world.LoadReport{}, fmt.Errorf("load map %s: %w", name, err)
	}
	doc, err := DecodeDocument([]byte(raw))
	if err != nil {
		return nil, world.LoadReport{}, fmt.Errorf("map %s: %w", name, err)
	}
	return world.MapFromDocument(doc, catalog)
}

// ListMaps returns every stored map, by name.
func (db *DB) ListMaps() ([]MapInfo, error) {
	var maps []MapInfo
	err := db.conn.Select(&maps, "SELECT name, width, height, updated_at FROM maps ORDER BY name")
	return maps, err
}

// DeleteMap removes a stored map.
func (db *DB) DeleteMap(name string) error {
	res, err := db.conn.Exec("DELETE FROM maps WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("map %s: %w", name, ErrNotFound)
	}
	return nil
}

// ── Matches ────────────────────────────────────────────────────────────

// MatchRecord is the stored summary of a match.
type MatchRecord struct {
	ID            string `db:"id" json:"id"`
	MapName       string `db:"map_name" json:"map_name"`
	Players       int    `db:"players" json:"players"`
	Phase         string `db:"phase" json:"phase"`
	Turn          int    `db:"turn" json:"turn"`
	CurrentPlayer int    `db:"current_player" json:"current_player"`
	Winner        int    `db:"winner" json:"winner"`
	UnitsJSON     string `db:"units_json" json:"-"`
	CreatedAt     string `db:"created_at" json:"created_at"`
	UpdatedAt     string `db:"updated_at" json:"updated_at"`
}

// SaveMatch upserts the summary of m, keeping the original creation time.
func (db *DB) SaveMatch(m *engine.Match, mapName string) error {
	unitsJSON, err := json.Marshal(m.Units())
	if err != nil {
		return fmt.Errorf("encode units: %w", err)
	}
	ts := now()
	_, err = db.conn.Exec(`INSERT INTO matches
		(id, map_name, players, phase, turn, current_player, winner, units_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phase = excluded.phase,
			turn = excluded.turn,
			current_player = excluded.current_player,
			winner = excluded.winner,
			units_json = excluded.units_json,
			updated_at = excluded.updated_at`,
		m.ID.String(), mapName, m.Players(), m.Phase().String(), m.Turn(),
		m.CurrentPlayer(), m.Winner(), string(unitsJSON), ts, ts,
	)
	if err != nil {
		return fmt.Errorf("save match %s: %w", m.ID, err)
	}
	return nil
}

// LoadMatch returns the stored summary of match id.
func (db *DB) LoadMatch(id uuid.UUID) (MatchRecord, error) {
	var rec MatchRecord
	err := db.conn.Get(&rec, "SELECT * FROM matches WHERE id = ?", id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	return rec, err
}

// RecentMatches returns the most recently updated matches.
func (db *DB) RecentMatches(limit int) ([]MatchRecord, error) {
	var recs []MatchRecord
	err := db.conn.Select(&recs, "SELECT * FROM matches ORDER BY updated_at DESC, id LIMIT ?", limit)
	return recs, err
}

// ── Events ─────────────────────────────────────────────────────────────

// EventRecord is one stored match event.
type EventRecord struct {
	MatchID     string `db:"match_id" json:"match_id"`
	Seq         int    `db:"seq" json:"seq"`
	Turn        int    `db:"turn" json:"turn"`
	Kind        string `db:"kind" json:"kind"`
	Player      int    `db:"player" json:"player"`
	Description string `db:"description" json:"description"`
	PayloadJSON string `db:"payload_json" json:"-"`
}

// Event decodes the full event from its payload.
func (r EventRecord) Event() (engine.Event, error) {
	var e engine.Event
	err := json.Unmarshal([]byte(r.PayloadJSON), &e)
	return e, err
}

// SaveEvents appends events for match id. Events already stored are skipped.
func (db *DB) SaveEvents(id uuid.UUID, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO match_events
		(match_id, seq, turn, kind, player, description, payload_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %d: %w", e.Seq, err)
		}
		_, err = stmt.Exec(id.String(), e.Seq, e.Turn, string(e.Kind), e.Player, e.Description, string(payload))
		if err != nil {
			return fmt.Errorf("insert event %d: %w", e.Seq, err)
		}
	}
	return tx.Commit()
}

// MatchEvents returns the events of match id in order.
func (db *DB) MatchEvents(id uuid.UUID) ([]EventRecord, error) {
	var events []EventRecord
	err := db.conn.Select(&events,
		`SELECT match_id, seq, turn, kind, player, description, payload_json
		FROM match_events WHERE match_id = ? ORDER BY seq`,
		id.String(),
	)
	return events, err
}

// RecentEvents returns the most recent N events across all matches.
func (db *DB) RecentEvents(limit int) ([]EventRecord, error) {
	var events []EventRecord
	err := db.conn.Select(&events,
		`SELECT match_id, seq, turn, kind, player, description, payload_json
		FROM match_events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	return events, err
}

// SaveMatchState stores the match summary and its pending events.
func (db *DB) SaveMatchState(m *engine.Match, mapName string, events []engine.Event) error {
	slog.Info("saving match state", "match", m.ID.String(), "turn", m.Turn(), "events", len(events))

	if err := db.SaveMatch(m, mapName); err != nil {
		return err
	}
	if err := db.SaveEvents(m.ID, events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}

	slog.Info("match state saved")
	return nil
}

// ── Meta ───────────────────────────────────────────────────────────────

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %s: %w", key, ErrNotFound)
	}
	return value, err
}
