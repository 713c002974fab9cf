// Battlefield generation using layered simplex noise.
// Elevation and moisture layers decide the terrain of each hex; a third layer
// scatters buildings.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds battlefield generation parameters.
type GenConfig struct {
	Width       int
	Height      int
	Seed        int64   // Random seed (0 = random)
	SeaLevel    float64 // Elevation below this becomes water (0.0–1.0)
	HillLvl     float64 // Elevation above this raises open ground by one level
	MountainLvl float64 // Elevation above this becomes mountain
	ForestLvl   float64 // Moisture above this becomes forest
	BuildingLvl float64 // Structure noise above this places a building
	ClearRows   int     // Rows kept plain at the top and bottom edge for deployment
}

// DefaultGenConfig returns a reasonable starting configuration for a 13×13 field.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:       13,
		Height:      13,
		Seed:        0,
		SeaLevel:    0.28,
		HillLvl:     0.60,
		MountainLvl: 0.74,
		ForestLvl:   0.62,
		BuildingLvl: 0.80,
		ClearRows:   4,
	}
}

// Generate creates a complete battlefield from cfg.
func Generate(cfg GenConfig, catalog TerrainCatalog) (*Map, error) {
	m, err := NewMap(cfg.Width, cfg.Height, catalog)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Three noise generators for independent layers.
	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)
	structNoise := opensimplex.NewNormalized(seed + 2)

	for r := 0; r < cfg.Height; r++ {
		for q := 0; q < cfg.Width; q++ {
			coord := HexCoord{Q: q, R: r}
			if inClearRows(cfg, r) {
				continue
			}

			// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 3, 0.15, 0.5)
			moist := octaveNoise(moistNoise, x, y, 2, 0.12, 0.5)
			structure := structNoise.Eval2(x*0.9, y*0.9)

			m.tiles[coord] = deriveTile(m.catalog, elev, moist, structure, cfg)
		}
	}

	return m, nil
}

func inClearRows(cfg GenConfig, r int) bool {
	return r < cfg.ClearRows || r >= cfg.Height-cfg.ClearRows
}

// deriveTile determines the tile from environmental parameters.
func deriveTile(cat TerrainCatalog, elev, moist, structure float64, cfg GenConfig) Tile {
	switch {
	case elev < cfg.SeaLevel:
		return cat.Tile(TerrainWater)
	case elev > cfg.MountainLvl:
		return cat.Tile(TerrainMountain)
	case structure > cfg.BuildingLvl:
		return cat.Tile(TerrainBuilding)
	}

	t := cat.Tile(TerrainPlain)
	if moist > cfg.ForestLvl {
		t = cat.Tile(TerrainForest)
	}
	if elev > cfg.HillLvl {
		t.Elevation++
	}
	return t
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
