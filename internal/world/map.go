package world

import (
	"errors"
	"fmt"
)

// MaxMapSide bounds width and height so a hostile document cannot force a huge allocation.
const MaxMapSide = 256

var (
	// ErrOutOfBounds reports a coordinate outside the map.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrMalformedMap reports a map document that fails structural validation.
	ErrMalformedMap = errors.New("malformed map")
)

// Map holds the terrain for a rectangular axial grid.
// Every coordinate with 0 <= q < Width and 0 <= r < Height has exactly one tile.
type Map struct {
	Width   int
	Height  int
	tiles   map[HexCoord]Tile
	catalog TerrainCatalog
}

// NewMap creates a width×height map where every tile is plain.
func NewMap(width, height int, catalog TerrainCatalog) (*Map, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = DefaultTerrainCatalog()
	}
	m := &Map{
		Width:   width,
		Height:  height,
		catalog: catalog,
	}
	m.tiles = m.plainTiles(width, height)
	return m, nil
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxMapSide || height > MaxMapSide {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedMap, width, height)
	}
	return nil
}

func (m *Map) plainTiles(width, height int) map[HexCoord]Tile {
	plain := m.catalog.Tile(TerrainPlain)
	tiles := make(map[HexCoord]Tile, width*height)
	for r := 0; r < height; r++ {
		for q := 0; q < width; q++ {
			tiles[HexCoord{Q: q, R: r}] = plain
		}
	}
	return tiles
}

// Catalog returns the terrain catalog the map was built with.
func (m *Map) Catalog() TerrainCatalog {
	return m.catalog
}

// Inside reports whether h lies on the map.
func (m *Map) Inside(h HexCoord) bool {
	return h.Q >= 0 && h.Q < m.Width && h.R >= 0 && h.R < m.Height
}

// TileAt returns the tile at h.
func (m *Map) TileAt(h HexCoord) (Tile, error) {
	if !m.Inside(h) {
		return Tile{}, fmt.Errorf("tile %s: %w", h, ErrOutOfBounds)
	}
	return m.tiles[h], nil
}

// SetTile overwrites the tile at h. Only bounds are checked.
func (m *Map) SetTile(h HexCoord, t Tile) error {
	if !m.Inside(h) {
		return fmt.Errorf("set tile %s: %w", h, ErrOutOfBounds)
	}
	m.tiles[h] = t
	return nil
}

// Reset turns every tile back to plain, keeping the dimensions.
func (m *Map) Reset() {
	m.tiles = m.plainTiles(m.Width, m.Height)
}

// Each calls fn for every tile in row-major order.
func (m *Map) Each(fn func(h HexCoord, t Tile)) {
	for r := 0; r < m.Height; r++ {
		for q := 0; q < m.Width; q++ {
			h := HexCoord{Q: q, R: r}
			fn(h, m.tiles[h])
		}
	}
}

// TileCount returns the total number of tiles in the map.
func (m *Map) TileCount() int {
	return len(m.tiles)
}

// TerrainCounts returns a summary of terrain type distribution.
func (m *Map) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, t := range m.tiles {
		counts[t.Kind]++
	}
	return counts
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, tiles=%d)", m.Width, m.Height, m.TileCount())
}
