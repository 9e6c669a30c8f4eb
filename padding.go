package clustercrypt

import "crypto/rand"

// ivGenerator produces the random IV used at the start of a stream and as
// the random carrier for each padding block. It is a package variable, not
// a hardcoded call to generateIV, so tests can substitute a fixed-IV stub
// for deterministic round-trip vectors (spec.md §5: "Tests that need
// determinism must inject the IV").
var ivGenerator = generateIV

// generateIV reads BlockBytes of cryptographically random data and
// block-hashes it HashingRepeats times. Used both for the stream IV and
// as the random carrier for the padding block. Grounded on
// WilhelmCBC.cpp's IVGenerator.
func generateIV() (Block, error) {
	var b Block
	if _, err := rand.Read(b[:]); err != nil {
		return Block{}, err
	}
	for i := 0; i < HashingRepeats; i++ {
		b.hashInPlace()
	}
	return b, nil
}

// paddingBlock builds the final padding block appended after the last data
// block of a stream. It is mostly random; one byte, at a position derived
// from the hash of the last data block, is overwritten with residual (the
// count of meaningful bytes in that last data block). Grounded on
// WilhelmCBC.cpp's Padding.
func paddingBlock(lastDataBlock Block, residual byte) (Block, error) {
	h := lastDataBlock
	h.hashInPlace()
	pos := int(h[0]) % BlockBytes

	p, err := ivGenerator()
	if err != nil {
		return Block{}, err
	}
	p[pos] = residual
	return p, nil
}

// paddingPosition recomputes, from the encrypted form of the last data
// block, the byte offset inside the decrypted padding block that holds
// the residual count. Grounded on WilhelmCBC.cpp's decCBC padding-size
// recovery.
func paddingPosition(encryptedLastDataBlock Block) int {
	h := encryptedLastDataBlock
	h.hashInPlace()
	return int(h[0]) % BlockBytes
}
