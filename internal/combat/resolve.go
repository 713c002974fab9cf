// Package combat resolves attacks between units with six-sided dice.
package combat

import (
	"errors"
	"fmt"

	"github.com/talgya/hex-skirmish/internal/entropy"
	"github.com/talgya/hex-skirmish/internal/units"
	"github.com/talgya/hex-skirmish/internal/world"
)

// ErrOutOfRange reports a target beyond both weapon ranges.
var ErrOutOfRange = errors.New("target out of range")

// DieResult is the trace of one attack die.
type DieResult struct {
	Index    int  `json:"index"`
	HitRoll  int  `json:"hit_roll"`
	Hit      bool `json:"hit"`
	SaveRoll int  `json:"save_roll,omitempty"` // 0 when the die missed
	Saved    bool `json:"saved"`
	Damage   int  `json:"damage"`
	HPAfter  int  `json:"hp_after"`
}

// Outcome captures a resolved attack.
type Outcome struct {
	Attacker units.ID         `json:"attacker"`
	Defender units.ID         `json:"defender"`
	Weapon   units.WeaponKind `json:"weapon"`
	Profile  units.Weapon     `json:"profile"`
	Distance int              `json:"distance"`
	Dice     []DieResult      `json:"dice"`
	Hits     int              `json:"hits"`
	Unsaved  int              `json:"unsaved"`
	Damage   int              `json:"damage"`
	Slain    bool             `json:"slain"`

	// Labels kept for log lines.
	attackerName string
	defenderName string
	saveNeeded   int
}

// Resolver rolls attacks with a dice source.
type Resolver struct {
	dice entropy.Dice
}

// NewResolver creates a resolver. A nil source falls back to crypto dice.
func NewResolver(dice entropy.Dice) *Resolver {
	if dice == nil {
		dice = entropy.Crypto{}
	}
	return &Resolver{dice: dice}
}

// SelectWeapon picks the profile for an attack at dist hexes: melee when in
// reach and armed, otherwise ranged when in range.
func SelectWeapon(attacker *units.Unit, dist int) (units.WeaponKind, units.Weapon, error) {
	if dist <= attacker.Melee.Range && attacker.Melee.Attacks > 0 {
		return units.WeaponMelee, attacker.Melee, nil
	}
	if dist <= attacker.Ranged.Range {
		return units.WeaponRanged, attacker.Ranged, nil
	}
	return 0, units.Weapon{}, ErrOutOfRange
}

// Attack picks a weapon by hex distance and resolves it against defender.
// Defender HP is reduced in place.
func (r *Resolver) Attack(attacker, defender *units.Unit) (Outcome, error) {
	dist := world.Distance(attacker.Position, defender.Position)
	kind, weapon, err := SelectWeapon(attacker, dist)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s attacks %s at %d: %w", attacker, defender, dist, err)
	}
	out := r.Resolve(attacker, kind, weapon, defender)
	out.Distance = dist
	return out, nil
}

// Resolve rolls weapon against defender.
//
// Each die hits on a roll >= weapon.Hit. A hit forces a save roll; a save
// roll <= defender.Save fails and costs weapon.Damage HP. Remaining dice are
// not rolled once the defender is down.
func (r *Resolver) Resolve(attacker *units.Unit, kind units.WeaponKind, weapon units.Weapon, defender *units.Unit) Outcome {
	out := Outcome{
		Attacker:     attacker.ID,
		Defender:     defender.ID,
		Weapon:       kind,
		Profile:      weapon,
		Distance:     world.Distance(attacker.Position, defender.Position),
		attackerName: attacker.String(),
		defenderName: defender.String(),
		saveNeeded:   defender.Save,
	}

	for i := 0; i < weapon.Attacks; i++ {
		if defender.HP <= 0 {
			break
		}
		die := DieResult{Index: i + 1, HitRoll: r.dice.D6()}
		if die.HitRoll >= weapon.Hit {
			die.Hit = true
			out.Hits++
			die.SaveRoll = r.dice.D6()
			if die.SaveRoll <= defender.Save {
				die.Damage = weapon.Damage
				defender.HP -= weapon.Damage
				out.Unsaved++
				out.Damage += weapon.Damage
			} else {
				die.Saved = true
			}
		}
		die.HPAfter = defender.HP
		out.Dice = append(out.Dice, die)
	}

	out.Slain = defender.HP <= 0
	return out
}

// Lines renders the outcome as log lines for the combat log.
func (o Outcome) Lines() []string {
	lines := []string{
		fmt.Sprintf("%s attacks %s with %s (range %d)", o.attackerName, o.defenderName, o.Weapon, o.Distance),
	}
	for _, d := range o.Dice {
		switch {
		case !d.Hit:
			lines = append(lines, fmt.Sprintf("Die %d: rolls %d to hit (needs %d+) -> MISS", d.Index, d.HitRoll, o.Profile.Hit))
		case d.Saved:
			lines = append(lines, fmt.Sprintf("Die %d: rolls %d to hit -> HIT, save %d -> SAVED", d.Index, d.HitRoll, d.SaveRoll))
		default:
			lines = append(lines, fmt.Sprintf("Die %d: rolls %d to hit -> HIT, save %d (fails on %d or less) -> %d damage, HP now %d",
				d.Index, d.HitRoll, d.SaveRoll, o.saveNeeded, d.Damage, d.HPAfter))
		}
	}
	lines = append(lines, fmt.Sprintf("Hits %d, unsaved %d, damage %d", o.Hits, o.Unsaved, o.Damage))
	if o.Slain {
		lines = append(lines, fmt.Sprintf("%s is slain!", o.defenderName))
	}
	return lines
}
