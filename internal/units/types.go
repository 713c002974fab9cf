// Package units provides the unit data model, the unit catalog, and roster construction.
package units

import (
	"fmt"

	"github.com/talgya/hex-skirmish/internal/world"
)

// ID is a unique identifier for a unit within a match.
type ID uint64

// Class names a unit archetype. Every class present in the catalog is valid.
type Class string

const (
	ClassCaptain  Class = "captain"
	ClassSoldier  Class = "soldier"
	ClassMarksman Class = "marksman"
)

// Category separates leaders from rank-and-file.
type Category string

const (
	CategoryLeader   Category = "leader"
	CategoryHenchman Category = "henchman"
)

// WeaponKind says which profile an attack used.
type WeaponKind uint8

const (
	WeaponMelee WeaponKind = iota
	WeaponRanged
)

func (k WeaponKind) String() string {
	if k == WeaponRanged {
		return "ranged"
	}
	return "melee"
}

// Weapon is one attack profile. Range 0 means the unit has no such weapon.
type Weapon struct {
	Attacks int `yaml:"attack" json:"attack"` // Dice rolled per attack
	Hit     int `yaml:"hit" json:"hit"`       // Minimum d6 to hit (1–6)
	Damage  int `yaml:"damage" json:"damage"` // HP removed per unsaved hit
	Range   int `yaml:"range" json:"range"`   // Max hex distance
}

// Unit is a single piece on the board. All fields are filled from the catalog
// at construction.
type Unit struct {
	ID       ID       `json:"id"`
	Class    Class    `json:"class"`
	Category Category `json:"category"`
	Owner    int      `json:"owner"`
	Cost     int      `json:"cost"`

	Position world.HexCoord `json:"position"`

	HP        int `json:"hp"`
	MaxHP     int `json:"max_hp"`
	Save      int `json:"save"` // Save threshold (1–6)
	Morale    int `json:"morale"`
	MoveRange int `json:"move_range"`

	Melee  Weapon `json:"melee"`
	Ranged Weapon `json:"ranged"`

	ActionPoints    int `json:"action_points"`
	MaxActionPoints int `json:"max_action_points"`
}

// Alive reports whether the unit still has hit points.
func (u *Unit) Alive() bool {
	return u.HP > 0
}

// ResetActions refills the action point budget.
func (u *Unit) ResetActions() {
	u.ActionPoints = u.MaxActionPoints
}

// SpendAction consumes one action point. It returns false when none are left.
func (u *Unit) SpendAction() bool {
	if u.ActionPoints <= 0 {
		return false
	}
	u.ActionPoints--
	return true
}

// String returns a short label such as "soldier#4(P1)".
func (u *Unit) String() string {
	return fmt.Sprintf("%s#%d(P%d)", u.Class, u.ID, u.Owner+1)
}
