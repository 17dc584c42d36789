// internal/game/builder.go
//
// Board construction: allocates the water grid and places ships with a
// bounded randomized retry loop. Random placement with per-instance
// backtracking is plenty fast for small boards; the retry cap turns a
// potential infinite loop into a typed failure.

package game

import (
	"fmt"
	"math/rand/v2"
)

// placementTries bounds the random retry loop for a single ship instance.
// Exhausting it fails the whole build; callers start over with a new board
// instead of retrying the same one.
const placementTries = 1000

// ShipClass defines one class of the fleet: display name, segment length,
// and how many instances to place.
type ShipClass struct {
	Name   string
	Length int
	Count  int
}

// DefaultFleet is the classic 10x10 lineup.
var DefaultFleet = []ShipClass{
	{Name: "Battleship", Length: 4, Count: 1},
	{Name: "Cruiser", Length: 3, Count: 2},
	{Name: "Destroyer", Length: 2, Count: 3},
	{Name: "Submarine", Length: 1, Count: 4},
}

// Builder assembles one Board. Not safe for concurrent use; the finished
// board is published by Random (or Build) and only then shared.
type Builder struct {
	board *Board
	rng   *rand.Rand
}

// NewBuilder allocates a width x height board of hidden water.
func NewBuilder(width, height int) *Builder {
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i].Ship = noShip
	}
	return &Builder{
		board: &Board{width: width, height: height, cells: cells},
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Square is shorthand for an n x n builder.
func Square(n int) *Builder { return NewBuilder(n, n) }

// AddCounter registers a ship-class counter and returns its index for use
// with AddShip.
func (bld *Builder) AddCounter(name string, total int) int {
	bld.board.counters = append(bld.board.counters, Counter{
		Name:      name,
		Total:     total,
		Remaining: total,
	})
	return len(bld.board.counters) - 1
}

// AddShip places one ship occupying the given cells, reporting to the class
// counter at counterIdx. It fails with ErrOutOfBounds if any point is off
// the grid, and with CollisionError if any target cell is occupied or
// buffered by an existing ship, or if any cell of the deduplicated
// 8-neighborhood holds a ship segment. On success the target cells become
// ShipCell and the neighborhood becomes NearShip.
func (bld *Builder) AddShip(counterIdx int, points []Point) error {
	if len(points) == 0 {
		return ErrEmptyShip
	}
	b := bld.board

	// Seed with the ship's own points so they never count as neighbors and
	// so each neighbor is visited once even when shared between segments.
	seen := make(map[Point]bool, len(points)*4)
	for _, p := range points {
		seen[p] = true
	}

	occupied := make([]int, 0, len(points))
	var nearby []int
	for _, p := range points {
		if !b.inBounds(p) {
			return ErrOutOfBounds
		}
		if b.cells[b.index(p)].blocksPlacement() {
			return CollisionError{Point: p}
		}
		occupied = append(occupied, b.index(p))

		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				n := p.offset(dx, dy)
				if seen[n] || !b.inBounds(n) {
					continue
				}
				seen[n] = true
				i := b.index(n)
				if b.cells[i].ContainsShip() {
					return CollisionError{Point: n}
				}
				nearby = append(nearby, i)
			}
		}
	}

	ship := len(b.ships)
	b.ships = append(b.ships, Ship{
		remaining: len(points),
		cells:     occupied,
		nearby:    nearby,
		counter:   counterIdx,
	})
	for _, i := range occupied {
		b.cells[i].Content = ShipCell
		b.cells[i].Ship = ship
	}
	for _, i := range nearby {
		b.cells[i].Content = NearShip
		b.cells[i].Ship = ship
	}
	return nil
}

// addShipRandom tries up to placementTries random positions for one ship of
// the given length: coin-flip orientation, start point uniform over the
// range that keeps the ship inside the grid.
func (bld *Builder) addShipRandom(length, counterIdx int) error {
	for try := 0; try < placementTries; try++ {
		horizontal := bld.rng.IntN(2) == 0

		spanX, spanY := length, 1
		if !horizontal {
			spanX, spanY = 1, length
		}
		maxX := bld.board.width - spanX
		maxY := bld.board.height - spanY
		if maxX < 0 || maxY < 0 {
			// Does not fit in this orientation; the other may still work.
			continue
		}

		start := Point{X: bld.rng.IntN(maxX + 1), Y: bld.rng.IntN(maxY + 1)}
		points := make([]Point, length)
		for i := range points {
			if horizontal {
				points[i] = Point{X: start.X + i, Y: start.Y}
			} else {
				points[i] = Point{X: start.X, Y: start.Y + i}
			}
		}

		if err := bld.AddShip(counterIdx, points); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %d attempts for length %d", ErrPlacementExhausted, placementTries, length)
}

// Random places the whole fleet and returns the finished board. Class and
// instance order determine only RNG consumption, not game semantics.
func (bld *Builder) Random(fleet []ShipClass) (*Board, error) {
	for _, class := range fleet {
		counter := bld.AddCounter(class.Name, class.Count)
		for i := 0; i < class.Count; i++ {
			if err := bld.addShipRandom(class.Length, counter); err != nil {
				return nil, fmt.Errorf("placing %q: %w", class.Name, err)
			}
		}
	}
	return bld.board, nil
}

// Build returns the board as placed so far. Used for hand-built fixtures.
func (bld *Builder) Build() *Board { return bld.board }
