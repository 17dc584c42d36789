// internal/game/point.go
//
// Board coordinates and their wire encoding.
// A Point serializes to "x-y" (e.g. "3-7"). That string is both the move
// payload submitted by the client and the DOM id of the matching cell, so
// its shape is a compatibility contract with the front end.

package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a zero-based (x, y) cell coordinate. It carries no bounds of its
// own; the board that resolves it enforces them.
type Point struct {
	X int
	Y int
}

// String encodes the point in the "x-y" wire format.
func (p Point) String() string {
	return strconv.Itoa(p.X) + "-" + strconv.Itoa(p.Y)
}

// ParsePoint decodes the "x-y" wire format. It fails on a missing separator,
// extra segments, signs, or non-numeric halves. Range checking against a
// concrete board is the caller's job.
func ParsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(s, "-")
	if !ok {
		return Point{}, fmt.Errorf("point %q: expected format \"x-y\"", s)
	}
	x, err := parseCoord(xs)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := parseCoord(ys)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return Point{X: x, Y: y}, nil
}

// parseCoord accepts plain decimal digits only. strconv.Atoi alone would let
// "+3" or "-3" through, and a "-" inside ys would silently absorb a third
// segment like "1-1-1".
func parseCoord(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty coordinate")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid coordinate %q", s)
		}
	}
	return strconv.Atoi(s)
}

// offset returns the point shifted by (dx, dy). The result may land outside
// any particular board; callers bounds-check it.
func (p Point) offset(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}
