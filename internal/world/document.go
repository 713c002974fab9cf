package world

import (
	"fmt"
	"log/slog"
)

// Document is the flat persisted form of a map.
// Tiles are keyed by "q,r".
type Document struct {
	Width  int                `json:"width"`
	Height int                `json:"height"`
	Tiles  map[string]TileDoc `json:"tiles"`
}

// TileDoc is one tile entry of a Document.
type TileDoc struct {
	Type     string `json:"type"`
	MoveCost int    `json:"move_cost"`
	Height   int    `json:"height"`
	Passable bool   `json:"passable"`
}

// LoadReport summarizes what Load did with a document's tile entries.
type LoadReport struct {
	Applied int // Entries written to the map
	Skipped int // Entries rejected as invalid
	Ignored int // Valid keys outside the map bounds
}

// Dump exports every tile as a Document.
func (m *Map) Dump() Document {
	doc := Document{
		Width:  m.Width,
		Height: m.Height,
		Tiles:  make(map[string]TileDoc, len(m.tiles)),
	}
	for h, t := range m.tiles {
		doc.Tiles[CoordKey(h)] = TileDoc{
			Type:     t.Kind.String(),
			MoveCost: t.MoveCost,
			Height:   t.Elevation,
			Passable: t.Passable,
		}
	}
	return doc
}

// Load replaces the map contents with doc.
//
// The dimensions are validated first; on failure the map is left untouched.
// Tiles missing from doc become plain, invalid entries are skipped and keys
// outside the bounds are ignored. The new tile set is swapped in only after
// every entry has been processed.
func (m *Map) Load(doc Document) (LoadReport, error) {
	var report LoadReport
	if err := checkDimensions(doc.Width, doc.Height); err != nil {
		return report, err
	}

	next := &Map{Width: doc.Width, Height: doc.Height, catalog: m.catalog}
	next.tiles = next.plainTiles(doc.Width, doc.Height)

	for key, td := range doc.Tiles {
		h, err := ParseCoordKey(key)
		if err != nil {
			slog.Debug("map load: bad key", "key", key, "error", err)
			report.Skipped++
			continue
		}
		if !next.Inside(h) {
			report.Ignored++
			continue
		}
		t, err := td.tile()
		if err != nil {
			slog.Debug("map load: bad tile", "key", key, "error", err)
			report.Skipped++
			continue
		}
		next.tiles[h] = t
		report.Applied++
	}

	m.Width, m.Height, m.tiles = next.Width, next.Height, next.tiles
	return report, nil
}

func (td TileDoc) tile() (Tile, error) {
	kind, err := ParseTerrain(td.Type)
	if err != nil {
		return Tile{}, err
	}
	if td.MoveCost < 0 {
		return Tile{}, fmt.Errorf("negative move cost %d", td.MoveCost)
	}
	if td.Passable && td.MoveCost < 1 {
		return Tile{}, fmt.Errorf("passable tile needs a positive move cost, got %d", td.MoveCost)
	}
	return Tile{
		Kind:      kind,
		MoveCost:  td.MoveCost,
		Elevation: td.Height,
		Passable:  td.Passable,
	}, nil
}

// MapFromDocument builds a new map from doc.
func MapFromDocument(doc Document, catalog TerrainCatalog) (*Map, LoadReport, error) {
	if err := checkDimensions(doc.Width, doc.Height); err != nil {
		return nil, LoadReport{}, err
	}
	m, err := NewMap(doc.Width, doc.Height, catalog)
	if err != nil {
		return nil, LoadReport{}, err
	}
	report, err := m.Load(doc)
	if err != nil {
		return nil, report, err
	}
	return m, report, nil
}
