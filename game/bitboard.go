package game

import "math/bits"

const wordCount = (Cells + 63) / 64

// Bitboard is a fixed-size bit set with one bit per board cell, indexed y*BoardSize+x.
type Bitboard [wordCount]uint64

func (b Bitboard) Has(i int) bool {
	return b[i>>6]&(1<<(uint(i)&63)) != 0
}

func (b *Bitboard) Set(i int) {
	b[i>>6] |= 1 << (uint(i) & 63)
}

func (b *Bitboard) Union(other Bitboard) {
	for w := range b {
		b[w] |= other[w]
	}
}

// Count returns the number of set bits
func (b Bitboard) Count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}
