package clustercrypt

// Size and round constants for the block cipher and its on-disk layout.
// These are normative: changing any of them changes the wire format.
const (
	// BlockBytes is the size of one cipher block, key, IV, or hash value.
	BlockBytes = 32

	// HalfBlockBytes is the size of one Feistel side.
	HalfBlockBytes = BlockBytes / 2

	// ClusterBytes is the size of one CBC-chained cluster of blocks.
	ClusterBytes = 4096

	// ClusterBlocks is the number of blocks in a full cluster.
	ClusterBlocks = ClusterBytes / BlockBytes

	// FeistelRounds is the number of Feistel rounds per block.
	FeistelRounds = 16

	// HashingRepeats is the number of extra SHA-256 passes applied during
	// key derivation and IV generation.
	HashingRepeats = 2

	// RorConstant is the base rotation amount added to the round index in
	// the Feistel round function; see block.go's rotateRight.
	RorConstant = 27
)
