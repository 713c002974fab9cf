// Roster construction: turns catalog entries into units ready for placement.
package units

import (
	"errors"
	"fmt"
)

// ErrOverBudget reports a draft that costs more than the points allowed.
var ErrOverBudget = errors.New("roster over budget")

// DefaultRosterClasses is the fixed starting roster each player gets.
var DefaultRosterClasses = []Class{ClassCaptain, ClassSoldier, ClassMarksman}

// Builder creates units for a match, issuing unique IDs.
type Builder struct {
	catalog Catalog
	nextID  ID
}

// NewBuilder creates a unit builder over catalog.
func NewBuilder(catalog Catalog) *Builder {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Builder{catalog: catalog, nextID: 1}
}

// New builds one unit of class for owner.
func (b *Builder) New(class Class, owner int) (*Unit, error) {
	e, err := b.catalog.Lookup(class)
	if err != nil {
		return nil, err
	}

	category := e.Category
	if category == "" {
		category = CategoryHenchman
		if class == ClassCaptain {
			category = CategoryLeader
		}
	}

	id := b.nextID
	b.nextID++

	s := e.Stats
	return &Unit{
		ID:              id,
		Class:           class,
		Category:        category,
		Owner:           owner,
		Cost:            e.Cost,
		HP:              s.HP,
		MaxHP:           s.HP,
		Save:            s.Save,
		Morale:          s.Morale,
		MoveRange:       s.MoveRange,
		Melee:           s.Melee,
		Ranged:          s.Ranged,
		ActionPoints:    s.ActionPoints,
		MaxActionPoints: s.ActionPoints,
	}, nil
}

// Roster builds one unit per class, in order.
func (b *Builder) Roster(owner int, classes []Class) ([]*Unit, error) {
	roster := make([]*Unit, 0, len(classes))
	for _, class := range classes {
		u, err := b.New(class, owner)
		if err != nil {
			return nil, fmt.Errorf("roster for player %d: %w", owner, err)
		}
		roster = append(roster, u)
	}
	return roster, nil
}

// DefaultRoster builds the fixed starting roster for owner.
func (b *Builder) DefaultRoster(owner int) ([]*Unit, error) {
	return b.Roster(owner, DefaultRosterClasses)
}

// Draft builds a roster from picked classes, refusing picks that cost more
// than budget points.
func (b *Builder) Draft(owner int, classes []Class, budget int) ([]*Unit, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("draft for player %d: no units picked", owner)
	}
	cost, err := b.catalog.Cost(classes)
	if err != nil {
		return nil, fmt.Errorf("draft for player %d: %w", owner, err)
	}
	if cost > budget {
		return nil, fmt.Errorf("draft for player %d: %w: %d > %d", owner, ErrOverBudget, cost, budget)
	}
	return b.Roster(owner, classes)
}
