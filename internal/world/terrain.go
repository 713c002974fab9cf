package world

import (
	"fmt"
	"strings"
)

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlain    Terrain = iota // Open ground, cost 1
	TerrainForest                  // Slow going
	TerrainMountain                // Impassable peaks
	TerrainWater                   // Impassable
	TerrainBuilding                // Raised, blocks movement
)

// ImpassableCost is the move cost carried by terrain nobody may enter.
const ImpassableCost = 999

var terrainNames = [...]string{
	TerrainPlain:    "plain",
	TerrainForest:   "forest",
	TerrainMountain: "mountain",
	TerrainWater:    "water",
	TerrainBuilding: "building",
}

// AllTerrain lists every terrain kind in editor order.
var AllTerrain = []Terrain{TerrainPlain, TerrainForest, TerrainMountain, TerrainWater, TerrainBuilding}

// String returns the lowercase terrain name used in map documents.
func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return fmt.Sprintf("terrain(%d)", uint8(t))
}

// ParseTerrain resolves a terrain name, case-insensitively.
func ParseTerrain(name string) (Terrain, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range terrainNames {
		if n == name {
			return Terrain(i), nil
		}
	}
	return 0, fmt.Errorf("unknown terrain %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Terrain) MarshalText() ([]byte, error) {
	if int(t) >= len(terrainNames) {
		return nil, fmt.Errorf("unknown terrain %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Terrain) UnmarshalText(b []byte) error {
	v, err := ParseTerrain(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Tile is the terrain data stored for a single hex.
type Tile struct {
	Kind      Terrain `json:"type"`
	MoveCost  int     `json:"move_cost"`
	Elevation int     `json:"height"`
	Passable  bool    `json:"passable"`
}

// TerrainSpec holds the defaults for one terrain kind.
type TerrainSpec struct {
	MoveCost  int  `yaml:"move_cost" json:"move_cost"`
	Elevation int  `yaml:"height" json:"height"`
	Passable  bool `yaml:"passable" json:"passable"`
}

// TerrainCatalog maps each terrain kind to its defaults. Treated as read-only
// once handed to a Map.
type TerrainCatalog map[Terrain]TerrainSpec

// DefaultTerrainCatalog returns the built-in terrain table.
func DefaultTerrainCatalog() TerrainCatalog {
	return TerrainCatalog{
		TerrainPlain:    {MoveCost: 1, Elevation: 1, Passable: true},
		TerrainForest:   {MoveCost: 2, Elevation: 1, Passable: true},
		TerrainMountain: {MoveCost: ImpassableCost, Elevation: 3, Passable: false},
		TerrainWater:    {MoveCost: ImpassableCost, Elevation: 0, Passable: false},
		TerrainBuilding: {MoveCost: 1, Elevation: 2, Passable: false},
	}
}

// Tile builds the default tile for kind. Kinds missing from the catalog fall
// back to the built-in table.
func (c TerrainCatalog) Tile(kind Terrain) Tile {
	spec, ok := c[kind]
	if !ok {
		spec = DefaultTerrainCatalog()[kind]
	}
	return Tile{
		Kind:      kind,
		MoveCost:  spec.MoveCost,
		Elevation: spec.Elevation,
		Passable:  spec.Passable,
	}
}
