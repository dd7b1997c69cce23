package model

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-torus/rules"
)

// ErrInvalidEdgeSize is returned by Build for edge sizes below 1
var ErrInvalidEdgeSize = errors.New("edge size must be at least 1")

// Coord is an (x, y) position on the universe
type Coord struct {
	X, Y int
}

// Universe is a square toroidal Game of Life grid.
// A Universe is not safe for concurrent use.
type Universe struct {
	edgeSize   int
	cells      cellBits
	generation int
}

// Build creates a universe of edgeSize x edgeSize dead cells
func Build(edgeSize int) (*Universe, error) {
	if edgeSize < 1 {
		return nil, errors.Wrapf(ErrInvalidEdgeSize, "[Build] got edge size %d", edgeSize)
	}
	return &Universe{
		edgeSize: edgeSize,
		cells:    newCellBits(edgeSize * edgeSize),
	}, nil
}

// MustBuild is like Build but panics on an invalid edge size
func MustBuild(edgeSize int) *Universe {
	u, err := Build(edgeSize)
	if err != nil {
		panic(err)
	}
	return u
}

// EdgeSize returns the length of one side of the grid
func (u *Universe) EdgeSize() int {
	return u.edgeSize
}

// Width returns the width of the grid
func (u *Universe) Width() int {
	return u.edgeSize
}

// Height returns the height of the grid
func (u *Universe) Height() int {
	return u.edgeSize
}

// Generation returns the number of ticks since build or the last Clear
func (u *Universe) Generation() int {
	return u.generation
}

// wrap reduces v into [0, edgeSize)
func (u *Universe) wrap(v int) int {
	v %= u.edgeSize
	if v < 0 {
		v += u.edgeSize
	}
	return v
}

// Index translates wrapped coordinates to the row-major cell index
func (u *Universe) Index(x, y int) int {
	return u.edgeSize*u.wrap(y) + u.wrap(x)
}

// Get returns the state of the wrapped cell
func (u *Universe) Get(x, y int) rules.CellState {
	return u.stateAt(u.Index(x, y))
}

// Flip toggles the wrapped cell between alive and dead
func (u *Universe) Flip(x, y int) {
	u.flipAt(u.Index(x, y))
}

func (u *Universe) stateAt(i int) rules.CellState {
	if u.cells.get(i) {
		return rules.Alive
	}
	return rules.Dead
}

func (u *Universe) flipAt(i int) {
	u.cells.set(i, u.stateAt(i).Toggle() == rules.Alive)
}

// NeighborCoordinates returns the Moore neighborhood of (x, y), row above first,
// left to right, each coordinate wrapped
func (u *Universe) NeighborCoordinates(x, y int) [rules.MaxNeighbors]Coord {
	var (
		left, right = u.wrap(x - 1), u.wrap(x + 1)
		up, down    = u.wrap(y - 1), u.wrap(y + 1)
	)
	x, y = u.wrap(x), u.wrap(y)
	return [rules.MaxNeighbors]Coord{
		{left, up}, {x, up}, {right, up},
		{left, y}, {right, y},
		{left, down}, {x, down}, {right, down},
	}
}

// LiveNeighborCount returns the number of live cells around (x, y)
func (u *Universe) LiveNeighborCount(x, y int) (count int) {
	for _, c := range u.NeighborCoordinates(x, y) {
		count += u.Get(c.X, c.Y).Value()
	}
	return
}

/*
Tick advances the universe by one generation.

Every cell is evaluated against the current generation first, the indices of cells that
change state are collected, and only then are the changes applied.
*/
func (u *Universe) Tick() {
	changes := changeSets.Get(u.edgeSize)
	defer changeSets.Put(changes)

	for y := range u.edgeSize {
		for x := range u.edgeSize {
			state := u.Get(x, y)
			if rules.NextState(state, u.LiveNeighborCount(x, y)) != state {
				changes.add(u.Index(x, y))
			}
		}
	}

	for _, i := range changes.indices {
		u.flipAt(i)
	}
	u.generation++
}

// CountLivingCells returns the total number of living cells
func (u *Universe) CountLivingCells() int {
	return u.cells.count()
}

// LivingCells returns the coordinates of all living cells in row-major order
func (u *Universe) LivingCells() []Coord {
	var alive []Coord
	for y := range u.edgeSize {
		for x := range u.edgeSize {
			if u.Get(x, y) == rules.Alive {
				alive = append(alive, Coord{x, y})
			}
		}
	}
	return alive
}

// Cells returns a copy of the packed cell buffer, bit i at byte i>>3 under mask 1<<(i&7)
func (u *Universe) Cells() []byte {
	out := make([]byte, len(u.cells))
	copy(out, u.cells)
	return out
}

// Clear kills every cell and resets the generation counter
func (u *Universe) Clear() {
	u.cells.clear()
	u.generation = 0
}

// Clone returns an independent copy of the universe
func (u *Universe) Clone() *Universe {
	return &Universe{
		edgeSize:   u.edgeSize,
		cells:      cellBits(u.Cells()),
		generation: u.generation,
	}
}

// Hash returns an MD5 hash of the current cell states
func (u *Universe) Hash() string {
	return fmt.Sprintf("%x", md5.Sum(u.cells))
}

// String renders the grid one glyph per cell with a line break after every row
func (u *Universe) String() string {
	var b strings.Builder
	b.Grow(u.edgeSize * (u.edgeSize*len(aliveGlyph) + 1))
	for i := range u.edgeSize * u.edgeSize {
		if u.cells.get(i) {
			b.WriteString(aliveGlyph)
		} else {
			b.WriteString(deadGlyph)
		}
		if (i+1)%u.edgeSize == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
