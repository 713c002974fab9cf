// Package config loads skirmish settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hex-skirmish/internal/engine"
	"github.com/talgya/hex-skirmish/internal/entropy"
	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

// ErrInvalid reports settings that cannot run a match.
var ErrInvalid = errors.New("invalid settings")

// Environment overrides.
const (
	EnvDB       = "SKIRMISH_DB"
	EnvLogLevel = "SKIRMISH_LOG_LEVEL"
)

// Settings is the full runtime configuration.
type Settings struct {
	Grid       GridSettings                 `yaml:"grid"`
	Match      MatchSettings                `yaml:"match"`
	Generation GenSettings                  `yaml:"generation"`
	Terrain    map[string]world.TerrainSpec `yaml:"terrain"`    // Overrides by kind name
	Units      units.Catalog                `yaml:"units"`      // Replaces the built-in catalog when set
	Storage    StorageSettings              `yaml:"storage"`
	Log        LogSettings                  `yaml:"log"`
}

// GridSettings size the board and its pixel layout.
type GridSettings struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	HexSize float64 `yaml:"hex_size"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

// MatchSettings control players, rosters and the turn flow.
type MatchSettings struct {
	Players   int           `yaml:"players"`
	SpawnRows int           `yaml:"spawn_rows"`
	Seed      int64         `yaml:"seed"`     // Dice seed (0 = crypto dice)
	Roster    []units.Class `yaml:"roster"`   // Classes every player fields
	Budget    int           `yaml:"budget"`   // Draft points per player (0 = no limit)
	EndTurn   string        `yaml:"end_turn"` // "unit", "player" or "manual"
}

// GenSettings tune noise map generation.
type GenSettings struct {
	Seed        int64   `yaml:"seed"`
	SeaLevel    float64 `yaml:"sea_level"`
	HillLvl     float64 `yaml:"hill_level"`
	MountainLvl float64 `yaml:"mountain_level"`
	ForestLvl   float64 `yaml:"forest_level"`
	BuildingLvl float64 `yaml:"building_level"`
}

// StorageSettings locate the database and map files.
type StorageSettings struct {
	DB      string `yaml:"db"`
	MapsDir string `yaml:"maps_dir"`
}

// LogSettings select the log level: debug, info, warn or error.
type LogSettings struct {
	Level string `yaml:"level"`
}

// Default returns the built-in settings.
func Default() Settings {
	gen := world.DefaultGenConfig()
	return Settings{
		Grid: GridSettings{
			Width:   13,
			Height:  13,
			HexSize: 20,
			OffsetX: 20,
			OffsetY: 20,
		},
		Match: MatchSettings{
			Players:   2,
			SpawnRows: engine.DefaultSpawnRows,
			Roster:    append([]units.Class(nil), units.DefaultRosterClasses...),
			EndTurn:   "unit",
		},
		Generation: GenSettings{
			SeaLevel:    gen.SeaLevel,
			HillLvl:     gen.HillLvl,
			MountainLvl: gen.MountainLvl,
			ForestLvl:   gen.ForestLvl,
			BuildingLvl: gen.BuildingLvl,
		},
		Storage: StorageSettings{
			DB:      "data/skirmish.db",
			MapsDir: "maps",
		},
		Log: LogSettings{Level: "info"},
	}
}

// Load reads path on top of Default and applies environment overrides. An
// empty path skips the file.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	s.applyEnv()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		s.Storage.DB = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.Log.Level = v
	}
}

// Validate checks that the settings describe a playable match.
func (s Settings) Validate() error {
	g, m := s.Grid, s.Match
	switch {
	case g.Width <= 0 || g.Height <= 0 || g.Width > world.MaxMapSide || g.Height > world.MaxMapSide:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, g.Width, g.Height)
	case g.HexSize <= 0:
		return fmt.Errorf("%w: hex size %.1f", ErrInvalid, g.HexSize)
	case m.Players < 2:
		return fmt.Errorf("%w: %d players", ErrInvalid, m.Players)
	case m.SpawnRows <= 0 || m.SpawnRows > g.Height:
		return fmt.Errorf("%w: %d spawn rows on %d rows", ErrInvalid, m.SpawnRows, g.Height)
	case len(m.Roster) == 0:
		return fmt.Errorf("%w: empty roster", ErrInvalid)
	case m.Budget < 0:
		return fmt.Errorf("%w: negative budget", ErrInvalid)
	}
	if _, err := endTurnPolicy(m.EndTurn); err != nil {
		return err
	}
	if _, err := parseLevel(s.Log.Level); err != nil {
		return err
	}
	if _, err := s.TerrainCatalog(); err != nil {
		return err
	}
	cat := s.UnitCatalog()
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for _, class := range m.Roster {
		if _, err := cat.Lookup(class); err != nil {
			return fmt.Errorf("%w: roster: %v", ErrInvalid, err)
		}
	}
	return nil
}

// ── Conversions ────────────────────────────────────────────────────────

// TerrainCatalog returns the default terrain table with overrides applied.
func (s Settings) TerrainCatalog() (world.TerrainCatalog, error) {
	cat := world.DefaultTerrainCatalog()
	for name, spec := range s.Terrain {
		kind, err := world.ParseTerrain(name)
		if err != nil {
			return nil, fmt.Errorf("%w: terrain: %v", ErrInvalid, err)
		}
		if spec.MoveCost < 0 {
			return nil, fmt.Errorf("%w: terrain %s: negative move cost", ErrInvalid, name)
		}
		if spec.Passable && spec.MoveCost < 1 {
			return nil, fmt.Errorf("%w: terrain %s: passable terrain needs a positive move cost", ErrInvalid, name)
		}
		cat[kind] = spec
	}
	return cat, nil
}

// UnitCatalog returns the configured unit catalog, or the built-in one.
func (s Settings) UnitCatalog() units.Catalog {
	if len(s.Units) == 0 {
		return units.DefaultCatalog()
	}
	return s.Units
}

// Layout returns the pixel layout for the grid.
func (s Settings) Layout() world.Layout {
	return world.Layout{Size: s.Grid.HexSize, OriginX: s.Grid.OffsetX, OriginY: s.Grid.OffsetY}
}

// GenConfig returns generation parameters for the configured grid.
func (s Settings) GenConfig() world.GenConfig {
	cfg := world.DefaultGenConfig()
	cfg.Width = s.Grid.Width
	cfg.Height = s.Grid.Height
	cfg.Seed = s.Generation.Seed
	cfg.SeaLevel = s.Generation.SeaLevel
	cfg.HillLvl = s.Generation.HillLvl
	cfg.MountainLvl = s.Generation.MountainLvl
	cfg.ForestLvl = s.Generation.ForestLvl
	cfg.BuildingLvl = s.Generation.BuildingLvl
	cfg.ClearRows = s.Match.SpawnRows
	return cfg
}

// Rosters builds one roster per player from the configured classes.
func (s Settings) Rosters() ([][]*units.Unit, error) {
	b := units.NewBuilder(s.UnitCatalog())
	rosters := make([][]*units.Unit, s.Match.Players)
	for player := range rosters {
		var (
			roster []*units.Unit
			err    error
		)
		if s.Match.Budget > 0 {
			roster, err = b.Draft(player, s.Match.Roster, s.Match.Budget)
		} else {
			roster, err = b.Roster(player, s.Match.Roster)
		}
		if err != nil {
			return nil, err
		}
		rosters[player] = roster
	}
	return rosters, nil
}

// EngineOptions returns match options for the configured turn flow.
func (s Settings) EngineOptions(logger *slog.Logger) engine.Options {
	policy, _ := endTurnPolicy(s.Match.EndTurn)
	return engine.Options{
		SpawnRows: s.Match.SpawnRows,
		Dice:      entropy.FromSeed(s.Match.Seed),
		Policy:    policy,
		Logger:    logger,
	}
}

// LogLevel returns the configured slog level.
func (s Settings) LogLevel() slog.Level {
	lvl, _ := parseLevel(s.Log.Level)
	return lvl
}

func endTurnPolicy(name string) (engine.EndTurnPolicy, error) {
	switch name {
	case "", "unit":
		return engine.SelectedUnitExhausted, nil
	case "player":
		return engine.PlayerExhausted, nil
	case "manual":
		return engine.ManualEndTurn, nil
	}
	return nil, fmt.Errorf("%w: end_turn %q", ErrInvalid, name)
}

func parseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, name)
	}
	return lvl, nil
}
