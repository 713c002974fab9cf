package units

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownClass reports a class name missing from the catalog.
var ErrUnknownClass = errors.New("unknown unit class")

// Stats are the per-class combat numbers.
type Stats struct {
	MoveRange    int    `yaml:"move_range" json:"move_range"`
	HP           int    `yaml:"hp" json:"hp"`
	Save         int    `yaml:"save" json:"save"`
	Morale       int    `yaml:"morale" json:"morale"`
	Melee        Weapon `yaml:"melee" json:"melee"`
	Ranged       Weapon `yaml:"ranged" json:"ranged"`
	ActionPoints int    `yaml:"action_points" json:"action_points"`
}

// CatalogEntry describes one purchasable class.
type CatalogEntry struct {
	Cost     int      `yaml:"cost" json:"cost"`
	Category Category `yaml:"category,omitempty" json:"category,omitempty"`
	Icon     string   `yaml:"icon,omitempty" json:"icon,omitempty"` // Asset path for the presentation layer
	Stats    Stats    `yaml:"stats" json:"stats"`
}

// Catalog maps class names to their entries. Treated as read-only once built.
type Catalog map[Class]CatalogEntry

// DefaultCatalog returns the built-in unit table.
func DefaultCatalog() Catalog {
	return Catalog{
		ClassCaptain: {
			Cost:     100,
			Category: CategoryLeader,
			Icon:     "icons/captain.png",
			Stats: Stats{
				MoveRange:    3,
				HP:           2,
				Save:         3,
				Morale:       10,
				Melee:        Weapon{Attacks: 2, Hit: 3, Damage: 2, Range: 1},
				ActionPoints: 3,
			},
		},
		ClassSoldier: {
			Cost:     50,
			Category: CategoryHenchman,
			Icon:     "icons/soldier.png",
			Stats: Stats{
				MoveRange:    3,
				HP:           1,
				Save:         2,
				Morale:       8,
				Melee:        Weapon{Attacks: 2, Hit: 3, Damage: 2, Range: 1},
				ActionPoints: 2,
			},
		},
		ClassMarksman: {
			Cost:     75,
			Category: CategoryHenchman,
			Icon:     "icons/marksman.png",
			Stats: Stats{
				MoveRange:    3,
				HP:           1,
				Save:         1,
				Morale:       8,
				Melee:        Weapon{Attacks: 1, Hit: 1, Damage: 1, Range: 1},
				Ranged:       Weapon{Attacks: 1, Hit: 3, Damage: 1, Range: 10},
				ActionPoints: 2,
			},
		},
	}
}

// ParseCatalog decodes a catalog from YAML (JSON documents are accepted too).
func ParseCatalog(data []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Validate checks every entry for usable numbers.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return errors.New("catalog is empty")
	}
	for _, class := range c.Classes() {
		e := c[class]
		s := e.Stats
		switch {
		case e.Cost < 0:
			return fmt.Errorf("class %s: negative cost", class)
		case s.HP <= 0:
			return fmt.Errorf("class %s: hp must be positive", class)
		case s.Save < 1 || s.Save > 6:
			return fmt.Errorf("class %s: save %d outside 1-6", class, s.Save)
		case s.MoveRange < 0 || s.ActionPoints < 0:
			return fmt.Errorf("class %s: negative move range or action points", class)
		}
		if err := validateWeapon(s.Melee); err != nil {
			return fmt.Errorf("class %s melee: %w", class, err)
		}
		if err := validateWeapon(s.Ranged); err != nil {
			return fmt.Errorf("class %s ranged: %w", class, err)
		}
	}
	return nil
}

func validateWeapon(w Weapon) error {
	if w.Attacks < 0 || w.Damage < 0 || w.Range < 0 {
		return errors.New("negative weapon value")
	}
	if w.Attacks > 0 && (w.Hit < 1 || w.Hit > 6) {
		return fmt.Errorf("hit %d outside 1-6", w.Hit)
	}
	return nil
}

// Classes returns the catalog's class names, sorted.
func (c Catalog) Classes() []Class {
	out := make([]Class, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup returns the entry for class.
func (c Catalog) Lookup(class Class) (CatalogEntry, error) {
	e, ok := c[class]
	if !ok {
		return CatalogEntry{}, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	return e, nil
}

// Cost sums the price of a list of classes.
func (c Catalog) Cost(classes []Class) (int, error) {
	total := 0
	for _, class := range classes {
		e, err := c.Lookup(class)
		if err != nil {
			return 0, err
		}
		total += e.Cost
	}
	return total, nil
}
