package clustercrypt

import "crypto/sha256"

// deriveBaseKey computes the base key for a passphrase: SHA-256 of the
// passphrase bytes, then block-hashed HashingRepeats more times in place.
// Grounded on WilhelmCBC.cpp's setKey.
func deriveBaseKey(passphrase []byte) Block {
	base := Block(sha256.Sum256(passphrase))
	for i := 0; i < HashingRepeats; i++ {
		base.hashInPlace()
	}
	return base
}

// subkey derives the 128-bit Feistel round key for a given round and block
// index from the base key. Grounded on WilhelmCBC.cpp's permutationKey.
func subkey(base Block, round, blockNum uint64) HalfBlock {
	k := base
	k.addToFirstByte(blockNum)
	k.hashInPlace()
	k.addToFirstByte(round)
	k.hashInPlace()

	left, right := k.split()
	return left.XOR(right)
}
