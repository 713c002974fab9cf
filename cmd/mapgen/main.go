// Command mapgen generates noise battlefields and stores them in the
// database and as JSON map files.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/talgya/hex-skirmish/internal/config"
	"github.com/talgya/hex-skirmish/internal/persistence"
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

	cfg := settings.GenConfig()
	cfg.Seed = int64(envIntOrDefault("MAPGEN_SEED", int(cfg.Seed)))
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	count := envIntOrDefault("MAPGEN_COUNT", 1)
	prefix := envOrDefault("MAPGEN_NAME", "field")
	toFiles := envOrDefault("MAPGEN_FILES", "1") != "0"
	toDB := envOrDefault("MAPGEN_DB", "1") != "0"

	catalog, err := settings.TerrainCatalog()
	if err != nil {
		slog.Error("bad terrain catalog", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	if toDB {
		os.MkdirAll(filepath.Dir(settings.Storage.DB), 0755)
		db, err = persistence.Open(settings.Storage.DB)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	// ── Generate ──────────────────────────────────────────────────────
	for i := 0; i < count; i++ {
		seed := cfg.Seed + int64(i)
		name := prefix
		if count > 1 {
			name = fmt.Sprintf("%s-%d", prefix, i+1)
		}

		c := cfg
		c.Seed = seed
		m, err := world.Generate(c, catalog)
		if err != nil {
			slog.Error("generation failed", "seed", seed, "error", err)
			os.Exit(1)
		}
		slog.Info("battlefield generated", "name", name, "seed", seed, "summary", summarize(m))

		if db != nil {
			if err := db.SaveMap(name, m); err != nil {
				slog.Error("failed to store map", "name", name, "error", err)
				os.Exit(1)
			}
			if err := db.SaveMeta("last_seed", strconv.FormatInt(seed, 10)); err != nil {
				slog.Warn("failed to record seed", "seed", seed, "error", err)
			}
		}
		if toFiles {
			path := persistence.MapFilePath(settings.Storage.MapsDir, name)
			if err := persistence.WriteMapFile(path, m); err != nil {
				slog.Error("failed to write map file", "path", path, "error", err)
				os.Exit(1)
			}
			slog.Info("map file written", "path", path)
		}
		if envOrDefault("MAPGEN_PRINT", "") != "" {
			fmt.Print(render(m))
		}
	}

	fmt.Printf("\n%s generated (%s tiles each).\n",
		english.Plural(count, "battlefield", ""), humanize.Comma(int64(cfg.Width*cfg.Height)))
}

// summarize lists terrain counts in a stable order.
func summarize(m *world.Map) string {
	counts := m.TerrainCounts()
	kinds := make([]world.Terrain, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

var glyphs = map[world.Terrain]byte{
	world.TerrainPlain:    '.',
	world.TerrainForest:   'f',
	world.TerrainMountain: '^',
	world.TerrainWater:    '~',
	world.TerrainBuilding: '#',
}

// render draws the map as text, shifting each row to show the axial skew.
func render(m *world.Map) string {
	var sb strings.Builder
	m.Each(func(h world.HexCoord, t world.Tile) {
		if h.Q == 0 {
			sb.WriteString(strings.Repeat(" ", h.R))
		}
		sb.WriteByte(glyphs[t.Kind])
		sb.WriteByte(' ')
		if h.Q == m.Width-1 {
			sb.WriteByte('\n')
		}
	})
	return sb.String()
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
