package graph

import "math/bits"

type bitset []uint64

func (b bitset) has(i int) bool {
	w := i / 64
	return w < len(b) && b[w]&(1<<(uint(i)%64)) != 0
}

func (b *bitset) set(i int) {
	w := i / 64
	if w >= len(*b) {
		grown := make(bitset, w+1)
		copy(grown, *b)
		*b = grown
	}
	(*b)[w] |= 1 << (uint(i) % 64)
}

func (b *bitset) union(other bitset) {
	if len(other) > len(*b) {
		grown := make(bitset, len(other))
		copy(grown, *b)
		*b = grown
	}
	for i, w := range other {
		(*b)[i] |= w
	}
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}
