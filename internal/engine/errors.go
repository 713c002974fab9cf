package engine

import (
	"errors"
	"fmt"
)

// ErrIllegalAction reports an intent that breaks a phase, budget, zone or
// occupancy rule.
var ErrIllegalAction = errors.New("illegal action")

// Reason is a machine-readable code for a rejected intent.
type Reason string

const (
	ReasonWrongPhase       Reason = "wrong_phase"
	ReasonNotYourTurn      Reason = "not_your_turn"
	ReasonNoActionPoints   Reason = "no_action_points"
	ReasonOutsideSpawnZone Reason = "outside_spawn_zone"
	ReasonOccupied         Reason = "occupied"
	ReasonZoneFull         Reason = "zone_full"
	ReasonImpassable       Reason = "impassable"
	ReasonRosterComplete   Reason = "roster_complete"
	ReasonAlreadyPlaced    Reason = "already_placed"
	ReasonUnknownUnit      Reason = "unknown_unit"
	ReasonNotOwner         Reason = "not_owner"
	ReasonFriendlyTarget   Reason = "friendly_target"
	ReasonInvalidPath      Reason = "invalid_path"
	ReasonUnreachable      Reason = "unreachable"
	ReasonOutOfRange       Reason = "out_of_range"
	ReasonOutOfBounds      Reason = "out_of_bounds"
	ReasonPlacementPending Reason = "placement_pending"
	ReasonMatchOver        Reason = "match_over"
)

// ActionError describes a rejected intent. The match state is unchanged
// whenever one is returned.
type ActionError struct {
	Op     string // Intent name, e.g. "move"
	Reason Reason
	Err    error // ErrIllegalAction, world.ErrOutOfBounds, world.ErrUnreachable or combat.ErrOutOfRange
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s rejected (%s): %v", e.Op, e.Reason, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the reason code from err, or "" if err is not an ActionError.
func ReasonOf(err error) Reason {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Reason
	}
	return ""
}
