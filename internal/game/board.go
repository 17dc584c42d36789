// internal/game/board.go
//
// Core battleship board: the cell grid, the ships placed on it, and the
// per-class counters used for win detection.
//
// The object graph is arena-style: cells, ships and counters live in flat
// slices owned by the Board and refer to each other by index. A single
// RWMutex per board guards all of it, which makes one hit (expose + ship
// damage + counter update + sink cascade) atomic with respect to concurrent
// renders and other hits on the same board.

package game

import "sync"

// CellContent tags what occupies a cell. The set is closed: open water, a
// ship segment, or the one-cell buffer ring around a ship.
type CellContent uint8

const (
	Water CellContent = iota
	NearShip
	ShipCell
)

const noShip = -1

// Cell is one grid square. Exposed is monotonic: once revealed, a cell never
// goes back to hidden.
type Cell struct {
	Content CellContent
	Ship    int // index into Board.ships, noShip for open water
	Exposed bool
}

// ContainsShip reports whether the cell holds a ship segment.
func (c Cell) ContainsShip() bool { return c.Content == ShipCell }

// blocksPlacement reports whether a new ship may not occupy this cell.
// Ship segments and their buffer ring both block placement.
func (c Cell) blocksPlacement() bool { return c.Content != Water }

// Ship tracks the remaining unhit length of one placed ship, the indices of
// its own cells, the buffer cells revealed when it sinks, and the class
// counter it reports to.
type Ship struct {
	remaining int
	cells     []int
	nearby    []int
	counter   int
}

// Counter is the per-class score line: how many ships of the class were
// placed and how many are still afloat.
type Counter struct {
	Name      string
	Total     int
	Remaining int
}

// Defeated reports whether every ship of the class has been sunk.
func (c Counter) Defeated() bool { return c.Remaining == 0 }

// Board owns the whole arena. Its structure is fixed once the builder hands
// it out; only interior cell/ship/counter state mutates afterwards.
type Board struct {
	mu       sync.RWMutex
	width    int
	height   int
	cells    []Cell
	ships    []Ship
	counters []Counter
}

func (b *Board) index(p Point) int { return p.Y*b.width + p.X }

func (b *Board) point(i int) Point { return Point{X: i % b.width, Y: i / b.width} }

// inBounds uses the exclusive upper bound convention: 0 <= x < width.
func (b *Board) inBounds(p Point) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// CellReveal is one cell made visible by a hit, in render-ready form.
type CellReveal struct {
	Point Point
	Ship  bool
}

// CounterUpdate is the state of a class counter after a sink.
type CounterUpdate struct {
	Name      string
	Total     int
	Remaining int
}

// Defeated reports whether the class just lost its last ship.
func (c CounterUpdate) Defeated() bool { return c.Remaining == 0 }

// HitDiff describes everything one hit changed, so the presentation layer
// can repaint only the affected elements.
type HitDiff struct {
	Cell     CellReveal     // the cell that was hit
	Sunk     bool           // true when the hit sank a ship
	Revealed []CellReveal   // sink cascade: buffer cells forced open
	Counter  *CounterUpdate // changed class counter, nil unless Sunk
}

// Hit resolves one shot at p. ErrOutOfBounds and ErrAlreadyHit are returned
// without touching the board; otherwise the returned diff describes the
// atomically applied state change.
func (b *Board) Hit(p Point) (HitDiff, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inBounds(p) {
		return HitDiff{}, ErrOutOfBounds
	}
	cell := &b.cells[b.index(p)]
	if cell.Exposed {
		return HitDiff{}, ErrAlreadyHit
	}
	cell.Exposed = true

	diff := HitDiff{Cell: CellReveal{Point: p, Ship: cell.ContainsShip()}}
	if !cell.ContainsShip() {
		return diff, nil
	}

	ship := &b.ships[cell.Ship]
	if ship.remaining == 0 {
		// Already sunk: the shot exposes the cell but changes nothing else.
		return diff, nil
	}
	ship.remaining--
	if ship.remaining > 0 {
		return diff, nil
	}

	// Sink: report to the class counter exactly once, then force open the
	// buffer ring. Cells some earlier hit already exposed stay as they are.
	diff.Sunk = true
	ctr := &b.counters[ship.counter]
	ctr.Remaining--
	diff.Counter = &CounterUpdate{Name: ctr.Name, Total: ctr.Total, Remaining: ctr.Remaining}
	for _, i := range ship.nearby {
		c := &b.cells[i]
		if c.Exposed {
			continue
		}
		c.Exposed = true
		diff.Revealed = append(diff.Revealed, CellReveal{Point: b.point(i), Ship: c.ContainsShip()})
	}
	return diff, nil
}

// IsWin reports whether every ship class has been wiped out. Counters are
// scanned on every call; they can change on any sink, so there is nothing
// to cache.
func (b *Board) IsWin() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isWinLocked()
}

func (b *Board) isWinLocked() bool {
	for _, c := range b.counters {
		if !c.Defeated() {
			return false
		}
	}
	return true
}

// CellSnapshot is one cell as the player is allowed to see it: hidden cells
// reveal nothing about their content.
type CellSnapshot struct {
	Point   Point
	Exposed bool
	Ship    bool // meaningful only when Exposed
}

// Snapshot is a consistent, render-ready copy of the visible board state.
type Snapshot struct {
	Width    int
	Height   int
	Rows     [][]CellSnapshot
	Counters []Counter
	Won      bool
}

// Snapshot copies the visible state under the read lock so the view layer
// can render without holding it.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows := make([][]CellSnapshot, b.height)
	for y := 0; y < b.height; y++ {
		row := make([]CellSnapshot, b.width)
		for x := 0; x < b.width; x++ {
			cell := b.cells[b.index(Point{X: x, Y: y})]
			row[x] = CellSnapshot{
				Point:   Point{X: x, Y: y},
				Exposed: cell.Exposed,
				Ship:    cell.Exposed && cell.ContainsShip(),
			}
		}
		rows[y] = row
	}

	return Snapshot{
		Width:    b.width,
		Height:   b.height,
		Rows:     rows,
		Counters: append([]Counter(nil), b.counters...),
		Won:      b.isWinLocked(),
	}
}
