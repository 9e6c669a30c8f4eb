package clustercrypt

// F is the Feistel round function: mix in the round's subkey, substitute
// every byte through the S-box, then rotate. The rotation amount grows
// with the round index (RorConstant+round, 27..42), which always stays
// below 64 for FeistelRounds=16. Grounded on WilhelmCBC.cpp's feistel().
func F(half HalfBlock, base Block, round, blockNum uint64) HalfBlock {
	x := half.XOR(subkey(base, round, blockNum))
	substitute(x[:])
	return x.rotateRight(RorConstant + uint(round))
}

// blockEncrypt runs the 16-round Feistel network forward over one block,
// using blockNum for every round's subkey derivation.
func blockEncrypt(b Block, base Block, blockNum uint64) Block {
	left, right := b.split()
	for round := uint64(0); round < FeistelRounds; round++ {
		left = left.XOR(F(right, base, round, blockNum))
		right = right.XOR(F(left, base, round, blockNum))
	}
	return join(left, right)
}

// blockDecrypt runs the 16-round Feistel network in reverse over one
// block. Rounds run from FeistelRounds-1 down to 0 inclusive — 16 rounds
// total, matching encryption (spec.md §9 open question 4).
func blockDecrypt(b Block, base Block, blockNum uint64) Block {
	left, right := b.split()
	for round := int64(FeistelRounds - 1); round >= 0; round-- {
		r := uint64(round)
		right = right.XOR(F(left, base, r, blockNum))
		left = left.XOR(F(right, base, r, blockNum))
	}
	return join(left, right)
}
