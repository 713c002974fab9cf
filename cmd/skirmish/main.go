// Command skirmish plays a scripted hex skirmish headless and stores the
// match and its event log.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hex-skirmish/internal/config"
	"github.com/talgya/hex-skirmish/internal/engine"
	"github.com/talgya/hex-skirmish/internal/persistence"
	"github.com/talgya/hex-skirmish/internal/scenario"
	"github.com/talgya/hex-skirmish/internal/world"
)

func main() {
	settings, err := config.Load(os.Getenv("SKIRMISH_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: settings.LogLevel(),
	}))
	slog.SetDefault(logger)

	if seed := envIntOrDefault("SKIRMISH_SEED", 0); seed != 0 {
		settings.Match.Seed = int64(seed)
	}
	scriptPath := os.Getenv("SKIRMISH_SCENARIO")
	animate := envOrDefault("SKIRMISH_ANIMATE", "") != ""

	slog.Info("hex skirmish",
		"grid", fmt.Sprintf("%dx%d", settings.Grid.Width, settings.Grid.Height),
		"players", settings.Match.Players,
		"spawn_rows", settings.Match.SpawnRows,
	)

	// ── Scenario ──────────────────────────────────────────────────────
	var script scenario.Script
	if scriptPath != "" {
		script, err = scenario.LoadFile(scriptPath)
		if err != nil {
			slog.Error("failed to load scenario", "error", err)
			os.Exit(1)
		}
		slog.Info("scenario loaded", "name", script.Name, "steps", len(script.Steps))
	}

	// ── Database ──────────────────────────────────────────────────────
	dbPath := settings.Storage.DB
	os.MkdirAll(filepath.Dir(dbPath), 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Battlefield ───────────────────────────────────────────────────
	mapName := envOrDefault("SKIRMISH_MAP", script.Map)
	board, err := loadBoard(db, settings, mapName)
	if err != nil {
		slog.Error("failed to prepare map", "map", mapName, "error", err)
		os.Exit(1)
	}
	if mapName == "" {
		mapName = "generated"
	}
	for kind, n := range board.TerrainCounts() {
		slog.Info("terrain", "type", kind.String(), "count", n)
	}

	// ── Match ─────────────────────────────────────────────────────────
	rosters, err := settings.Rosters()
	if err != nil {
		slog.Error("failed to build rosters", "error", err)
		os.Exit(1)
	}
	match, err := engine.NewMatch(board, rosters, settings.EngineOptions(logger))
	if err != nil {
		slog.Error("failed to create match", "error", err)
		os.Exit(1)
	}

	var moves []*engine.Playback
	match.Subscribe(func(e engine.Event) {
		if e.Kind == engine.EventMoveCommitted && animate {
			moves = append(moves, engine.NewPlayback(e.Path, engine.DefaultStepDelay))
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Play ──────────────────────────────────────────────────────────
	var runErr error
	if len(script.Steps) > 0 {
		_, runErr = scenario.Run(match, script, logger)
		if runErr != nil {
			slog.Error("scenario stopped", "error", runErr)
		}
	} else {
		slog.Warn("SKIRMISH_SCENARIO not set, deploying both sides and stopping")
		for match.Phase() == engine.PhasePlacement {
			if _, runErr = match.AutoDeploy(); runErr != nil {
				slog.Error("auto deploy failed", "player", match.CurrentPlayer(), "error", runErr)
				break
			}
			if runErr = match.EndTurn(); runErr != nil {
				break
			}
		}
	}

	if animate && len(moves) > 0 {
		slog.Info("playing back moves", "count", len(moves))
		err := engine.NewTicker(nil).Animate(ctx, moves, func(i int, pb *engine.Playback) {
			slog.Info("move playback", "move", i+1, "at", pb.Current().String())
		})
		if err != nil {
			slog.Warn("playback interrupted", "error", err)
		}
	}

	// ── Save ──────────────────────────────────────────────────────────
	events := match.Drain()
	if err := db.SaveMatchState(match, mapName, events); err != nil {
		slog.Error("save failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nMatch %s on %s: %s turns, %s events.\n",
		match.ID, mapName, humanize.Comma(int64(match.Turn())), humanize.Comma(int64(len(events))))
	if match.Over() {
		fmt.Printf("Player %d wins with %d units standing.\n", match.Winner()+1, len(match.Units()))
	} else {
		fmt.Printf("Player %d to act (%s phase).\n", match.CurrentPlayer()+1, match.Phase())
	}
	if runErr != nil {
		os.Exit(2)
	}
}

// loadBoard resolves name to a JSON map file, a stored map, or a freshly
// generated battlefield when name is empty.
func loadBoard(db *persistence.DB, settings config.Settings, name string) (*world.Map, error) {
	catalog, err := settings.TerrainCatalog()
	if err != nil {
		return nil, err
	}

	var (
		board  *world.Map
		report world.LoadReport
	)
	switch {
	case name == "":
		cfg := settings.GenConfig()
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		slog.Info("generating battlefield", "seed", cfg.Seed)
		return world.Generate(cfg, catalog)
	case strings.HasSuffix(name, persistence.MapFileExt):
		board, report, err = persistence.LoadMapFile(name, catalog)
	default:
		board, report, err = db.LoadMap(name, catalog)
		if err != nil {
			path := persistence.MapFilePath(settings.Storage.MapsDir, name)
			slog.Debug("map not in database, trying maps dir", "path", path)
			board, report, err = persistence.LoadMapFile(path, catalog)
		}
	}
	if err != nil {
		return nil, err
	}
	if report.Skipped > 0 || report.Ignored > 0 {
		slog.Warn("map loaded with dropped tiles", "skipped", report.Skipped, "ignored", report.Ignored)
	}
	if board.Width != settings.Grid.Width || board.Height != settings.Grid.Height {
		slog.Warn("map size differs from config",
			"map", fmt.Sprintf("%dx%d", board.Width, board.Height),
			"config", fmt.Sprintf("%dx%d", settings.Grid.Width, settings.Grid.Height))
	}
	return board, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
