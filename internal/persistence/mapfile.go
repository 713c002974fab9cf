package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/talgya/hex-skirmish/internal/world"
)

// MapFileExt is the extension of map files in a maps directory.
const MapFileExt = ".json"

// DecodeDocument parses a JSON map document.
func DecodeDocument(data []byte) (world.Document, error) {
	var doc world.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return world.Document{}, fmt.Errorf("%w: %v", world.ErrMalformedMap, err)
	}
	return doc, nil
}

// ReadMapFile reads a map document from path.
func ReadMapFile(path string) (world.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return world.Document{}, fmt.Errorf("read map file: %w", err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return world.Document{}, fmt.Errorf("map file %s: %w", path, err)
	}
	return doc, nil
}

// LoadMapFile reads path into a new map.
func LoadMapFile(path string, catalog world.TerrainCatalog) (*world.Map, world.LoadReport, error) {
	doc, err := ReadMapFile(path)
	if err != nil {
		return nil, world.LoadReport{}, err
	}
	return world.MapFromDocument(doc, catalog)
}

// WriteMapFile writes m to path as indented JSON, creating parent
// directories as needed.
func WriteMapFile(path string, m *world.Map) error {
	data, err := json.MarshalIndent(m.Dump(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create map dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write map file: %w", err)
	}
	return nil
}

// ListMapFiles returns the map names (file names without extension) in
// dir, sorted. A missing directory yields no names.
func ListMapFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), MapFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), MapFileExt))
	}
	sort.Strings(names)
	return names, nil
}

// MapFilePath returns the path of map name inside dir.
func MapFilePath(dir, name string) string {
	return filepath.Join(dir, name+MapFileExt)
}
