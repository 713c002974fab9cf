package world

// Brush describes an editor stroke.
type Brush struct {
	Kind      Terrain
	Radius    int // 0 paints a single hex
	Elevation int
	Passable  bool
}

// BrushFor returns a brush carrying the catalog defaults for kind.
func (m *Map) BrushFor(kind Terrain) Brush {
	t := m.catalog.Tile(kind)
	return Brush{Kind: kind, Elevation: t.Elevation, Passable: t.Passable}
}

// Paint applies b at center and returns how many tiles changed.
// The move cost always comes from the catalog; elevation and passability come
// from the brush so the editor can override them.
func (m *Map) Paint(center HexCoord, b Brush) int {
	tile := m.catalog.Tile(b.Kind)
	tile.Elevation = b.Elevation
	tile.Passable = b.Passable

	painted := 0
	for _, h := range Range(center, b.Radius) {
		if !m.Inside(h) {
			continue
		}
		m.tiles[h] = tile
		painted++
	}
	return painted
}

// Sample returns a brush matching the tile at h, for the eyedropper tool.
func (m *Map) Sample(h HexCoord) (Brush, error) {
	t, err := m.TileAt(h)
	if err != nil {
		return Brush{}, err
	}
	return Brush{Kind: t.Kind, Elevation: t.Elevation, Passable: t.Passable}, nil
}
