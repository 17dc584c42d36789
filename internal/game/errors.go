// internal/game/errors.go
//
// Typed failures of the game engine. Gameplay errors are client-caused and
// recoverable; placement errors surface as build failures.

package game

import (
	"errors"
	"fmt"
)

// Gameplay failures. Both leave the board untouched.
var (
	ErrOutOfBounds = errors.New("coordinates outside the board")
	ErrAlreadyHit  = errors.New("cell already hit")
)

// Placement failures.
var (
	// ErrPlacementExhausted means one ship instance used up its random
	// placement budget. The whole build is unusable; callers should start a
	// fresh build rather than retry this one.
	ErrPlacementExhausted = errors.New("ship placement attempts exhausted")

	// ErrEmptyShip guards the builder against a ship with no cells.
	ErrEmptyShip = errors.New("ship requires at least one point")
)

// CollisionError reports a placement attempt that occupied or neighbored an
// existing ship.
type CollisionError struct {
	Point Point
}

func (e CollisionError) Error() string {
	return fmt.Sprintf("ship collision at %s", e.Point)
}
