package rules

// CellState is the state of a single cell in the universe
type CellState uint8

const (
	Dead CellState = iota
	Alive
)

// MaxNeighbors is the size of the Moore neighborhood
const MaxNeighbors = 8

// Toggle returns the opposite state
func (s CellState) Toggle() CellState {
	return s ^ 1
}

// Value maps the state to 0 or 1 for neighbor summation
func (s CellState) Value() int {
	return int(s & 1)
}

func (s CellState) String() string {
	if s == Alive {
		return "alive"
	}
	return "dead"
}

// transitions holds the next state for every (state, live neighbors) pair.
var transitions = [2][MaxNeighbors + 1]CellState{
	Dead:  {Dead, Dead, Dead, Alive, Dead, Dead, Dead, Dead, Dead},
	Alive: {Dead, Dead, Alive, Alive, Dead, Dead, Dead, Dead, Dead},
}

/*
NextState applies Conway's Game of Life rules (B3/S23) to determine the next state of a cell.

A live cell survives with 2 or 3 live neighbors, a dead cell is born with exactly 3.
Counts above MaxNeighbors are treated as over-population, negative counts as isolation.
*/
func NextState(state CellState, neighbors int) CellState {
	neighbors = max(0, min(neighbors, MaxNeighbors))
	return transitions[state&1][neighbors]
}
