package model

import "math/bits"

// cellBits is a packed bit container, one bit per cell.
// Bit i lives in byte i>>3 under mask 1<<(i&7).
type cellBits []byte

func newCellBits(n int) cellBits {
	return make(cellBits, (n+7)/8)
}

func (b cellBits) get(i int) bool {
	return b[i>>3]&(1<<(i&7)) != 0
}

func (b cellBits) set(i int, alive bool) {
	if alive {
		b[i>>3] |= 1 << (i & 7)
	} else {
		b[i>>3] &^= 1 << (i & 7)
	}
}

func (b cellBits) count() (n int) {
	for _, v := range b {
		n += bits.OnesCount8(v)
	}
	return
}

func (b cellBits) clear() {
	for i := range b {
		b[i] = 0
	}
}
