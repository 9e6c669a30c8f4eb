package clustercrypt

import (
	"crypto/sha256"
	"encoding/binary"
)

// Block is a 256-bit unit of data: a plaintext/ciphertext block, a key, an
// IV, or a hash value. It is a plain byte array — spec.md §9 replaces the
// original's pointer-aliased struct with value semantics throughout.
type Block [BlockBytes]byte

// HalfBlock is one 128-bit Feistel side.
type HalfBlock [HalfBlockBytes]byte

// lanes64 returns the little-endian uint64 lanes backing b. The original
// implementation ran on little-endian x86 and the wire format is defined
// by that behavior, so every platform must interpret lanes this way to
// remain bit-compatible (spec.md §9).
func (b Block) lanes64() [4]uint64 {
	var l [4]uint64
	for i := range l {
		l[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	return l
}

func blockFromLanes64(l [4]uint64) Block {
	var b Block
	for i, v := range l {
		binary.LittleEndian.PutUint64(b[i*8:i*8+8], v)
	}
	return b
}

func (h HalfBlock) lanes64() [2]uint64 {
	var l [2]uint64
	for i := range l {
		l[i] = binary.LittleEndian.Uint64(h[i*8 : i*8+8])
	}
	return l
}

func halfBlockFromLanes64(l [2]uint64) HalfBlock {
	var h HalfBlock
	for i, v := range l {
		binary.LittleEndian.PutUint64(h[i*8:i*8+8], v)
	}
	return h
}

// XOR returns the lanewise XOR of b and rhs.
func (b Block) XOR(rhs Block) Block {
	var out Block
	for i := range b {
		out[i] = b[i] ^ rhs[i]
	}
	return out
}

// WrapAdd returns the lanewise 64-bit addition of b and rhs, with no carry
// between lanes — used only in key derivation (spec.md §4.1).
func (b Block) WrapAdd(rhs Block) Block {
	bl, rl := b.lanes64(), rhs.lanes64()
	var out [4]uint64
	for i := range out {
		out[i] = bl[i] + rl[i]
	}
	return blockFromLanes64(out)
}

// Equal reports whether b and rhs hold identical bytes.
func (b Block) Equal(rhs Block) bool {
	return b == rhs
}

// IsZero reports whether b is the all-zero block (the source's
// `_baseKey == Block()` check). Engine does not call it; it tracks an
// unset key with its own flag.
func (b Block) IsZero() bool {
	return b == Block{}
}

// hashInPlace replaces b's contents with SHA-256(b).
func (b *Block) hashInPlace() {
	sum := sha256.Sum256(b[:])
	*b = Block(sum)
}

// addToFirstByte adds v to b.data[0] with 8-bit wraparound. The source adds
// a full 64-bit round/block index into a single byte of the key block; this
// truncates to 8 bits and is intentional — see spec.md §4.2 and §9 open
// question 1. Preserved verbatim for byte-compatibility.
func (b *Block) addToFirstByte(v uint64) {
	b[0] = byte(uint64(b[0]) + v)
}

// split divides b into its left and right Feistel halves, in stream order.
func (b Block) split() (left, right HalfBlock) {
	copy(left[:], b[:HalfBlockBytes])
	copy(right[:], b[HalfBlockBytes:])
	return left, right
}

// join reassembles a Block from its two Feistel halves.
func join(left, right HalfBlock) Block {
	var b Block
	copy(b[:HalfBlockBytes], left[:])
	copy(b[HalfBlockBytes:], right[:])
	return b
}

// XOR returns the lanewise XOR of h and rhs.
func (h HalfBlock) XOR(rhs HalfBlock) HalfBlock {
	var out HalfBlock
	for i := range h {
		out[i] = h[i] ^ rhs[i]
	}
	return out
}

// rotateRight performs the source's "right circular shift" of a HalfBlock
// by n bits, 0 < n < 64. This is deliberately NOT a true 128-bit rotate:
// it treats h as two independent 64-bit lanes and cross-fills them,
//
//	out0 = (L0 >> n) | (L1 << (64-n))
//	out1 = (L1 >> n) | (L0 << (64-n))
//
// Reproduced verbatim per spec.md §4.1/§9 open question 3.
func (h HalfBlock) rotateRight(n uint) HalfBlock {
	l := h.lanes64()
	var out [2]uint64
	out[0] = (l[0] >> n) | (l[1] << (64 - n))
	out[1] = (l[1] >> n) | (l[0] << (64 - n))
	return halfBlockFromLanes64(out)
}
