package model

import "slices"

// DefaultHistorySize covers still lifes and oscillators up to period 5
const DefaultHistorySize = 5

// History stores recent universe hashes for cycle detection
type History struct {
	size   int
	hashes []string
}

func NewHistory(size int) *History {
	if size < 1 {
		size = DefaultHistorySize
	}
	return &History{size: size}
}

// Record adds the current state to history and maintains size
func (h *History) Record(u *Universe) {
	h.hashes = append(h.hashes, u.Hash())
	if len(h.hashes) > h.size {
		h.hashes = h.hashes[1:]
	}
}

// IsStagnant reports whether the universe repeats one of the recorded states
func (h *History) IsStagnant(u *Universe) bool {
	return slices.Contains(h.hashes, u.Hash())
}

// Reset forgets all recorded states
func (h *History) Reset() {
	h.hashes = nil
}
