package model

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-torus/rules"
)

// ErrUnknownPattern is returned when a pattern name is not registered
var ErrUnknownPattern = errors.New("unknown pattern")

// Pattern is a named seeding template, cells relative to its top-left corner
type Pattern struct {
	Name  string
	Descr string
	Cells []Coord
}

var (
	Glider = Pattern{
		Name:  "glider",
		Descr: "moves one cell diagonally every 4 generations",
		Cells: []Coord{{0, 2}, {1, 2}, {2, 2}, {2, 1}, {1, 0}},
	}
	Blinker = Pattern{
		Name:  "blinker",
		Descr: "period 2 oscillator",
		Cells: []Coord{{0, 0}, {1, 0}, {2, 0}},
	}
	Block = Pattern{
		Name:  "block",
		Descr: "2x2 still life",
		Cells: []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	}
	Toad = Pattern{
		Name:  "toad",
		Descr: "period 2 oscillator",
		Cells: []Coord{{1, 0}, {2, 0}, {3, 0}, {0, 1}, {1, 1}, {2, 1}},
	}
	Beacon = Pattern{
		Name:  "beacon",
		Descr: "period 2 oscillator made of two blocks",
		Cells: []Coord{{0, 0}, {1, 0}, {0, 1}, {3, 2}, {2, 3}, {3, 3}},
	}

	patterns = map[string]Pattern{
		Glider.Name:  Glider,
		Blinker.Name: Blinker,
		Block.Name:   Block,
		Toad.Name:    Toad,
		Beacon.Name:  Beacon,
	}
)

// PatternByName looks up a built-in pattern
func PatternByName(name string) (Pattern, error) {
	p, ok := patterns[name]
	if !ok {
		return Pattern{}, errors.Wrapf(ErrUnknownPattern, "[PatternByName] %q", name)
	}
	return p, nil
}

// PatternNames returns the sorted names of the built-in patterns
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Place brings every cell of the pattern to life with its corner at (x, y)
func (u *Universe) Place(p Pattern, x, y int) {
	for _, c := range p.Cells {
		if u.Get(x+c.X, y+c.Y) == rules.Dead {
			u.Flip(x+c.X, y+c.Y)
		}
	}
}

// Randomize flips each cell independently with the given probability
func (u *Universe) Randomize(rng *rand.Rand, density float64) {
	for y := range u.edgeSize {
		for x := range u.edgeSize {
			if rng.Float64() < density {
				u.Flip(x, y)
			}
		}
	}
}
