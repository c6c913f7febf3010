package dhash

import "strings"

const hexDigits = "0123456789abcdef"

// Bits is an ordered, growable sequence of bits. The zero value is empty and
// ready to use.
type Bits struct {
	words []uint64
	n     int
}

func NewBits(capacity int) Bits {
	return Bits{words: make([]uint64, 0, (capacity+63)/64)}
}

func (b *Bits) Push(bit bool) {
	if b.n%64 == 0 {
		b.words = append(b.words, 0)
	}
	if bit {
		b.words[b.n/64] |= 1 << (63 - uint(b.n%64))
	}
	b.n++
}

func (b Bits) Len() int { return b.n }

func (b Bits) At(i int) bool {
	if i < 0 || i >= b.n {
		panic("dhash: bit index out of range")
	}
	return b.words[i/64]&(1<<(63-uint(i%64))) != 0
}

func (b Bits) Equal(o Bits) bool {
	if b.n != o.n {
		return false
	}
	for i := range b.words {
		if b.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Hex packs the bits four at a time, most significant bit first, into
// lowercase hex characters. A trailing group shorter than four bits is
// shifted into the high end of its nibble.
func (b Bits) Hex() string {
	var sb strings.Builder
	sb.Grow(HexLen(b.n))

	var nibble byte
	count := 0
	for i := 0; i < b.n; i++ {
		nibble <<= 1
		if b.At(i) {
			nibble |= 1
		}
		count++
		if count == 4 {
			sb.WriteByte(hexDigits[nibble])
			nibble, count = 0, 0
		}
	}

	if count != 0 {
		nibble <<= 4 - count
		sb.WriteByte(hexDigits[nibble])
	}
	return sb.String()
}

// String renders the bits as 0/1 characters.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		if b.At(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// HexLen is the digest length for a fingerprint of n bits.
func HexLen(n int) int { return (n + 3) / 4 }
