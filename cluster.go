package clustercrypt

// encryptCluster CBC-encrypts one cluster of 1..ClusterBlocks plaintext
// blocks in place. lastPrev is the last ciphertext block of the previous
// cluster (or the stream IV, for the first cluster); blockNum is the
// running data-block counter, advanced once per block encrypted here
// (including the appended padding block on the final cluster).
//
// When isLast is true, a padding block encoding residual is appended and
// encrypted too: residual is the exact count (0..BlockBytes inclusive) of
// meaningful bytes in the last plaintext block, with 0 reserved for a
// wholly empty plaintext stream and BlockBytes meaning the block is
// entirely meaningful. This is a deliberate clarification of the source's
// "plaintext_len mod BLOCK_BYTES" residual, which cannot distinguish an
// empty stream from one whose length is an exact multiple of BlockBytes;
// see the decryptCluster doc comment. Grounded on WilhelmCBC.cpp's encCBC.
func encryptCluster(blocks []Block, lastPrev Block, blockNum *uint64, baseKey Block, isLast bool, residual byte) ([]Block, Block, error) {
	n := len(blocks)
	work := make([]Block, n)
	copy(work, blocks)

	work[0] = work[0].XOR(lastPrev)
	for i := 0; i < n-1; i++ {
		work[i] = blockEncrypt(work[i], baseKey, *blockNum)
		work[i+1] = work[i+1].XOR(work[i])
		*blockNum++
	}
	work[n-1] = blockEncrypt(work[n-1], baseKey, *blockNum)
	*blockNum++
	newLastPrev := work[n-1]

	if !isLast {
		return work, newLastPrev, nil
	}

	pad, err := paddingBlock(work[n-1], residual)
	if err != nil {
		return nil, Block{}, err
	}
	pad = pad.XOR(work[n-1])
	pad = blockEncrypt(pad, baseKey, *blockNum)
	*blockNum++

	work = append(work, pad)
	return work, newLastPrev, nil
}

// decryptCluster CBC-decrypts one ciphertext cluster. On the last cluster,
// ciphertext includes the trailing padding block (but never the trailer);
// the returned plain slice has the padding block stripped and
// lastBlockMeaningful reports how many of the final plaintext block's
// bytes are meaningful, 0..BlockBytes inclusive (0 only for a wholly
// empty original stream). Both the cluster's block count and the decoded
// residual are attacker-controlled whenever ciphertext comes from an
// untrusted file, so both are validated here (ValidateClusterSize,
// ValidateResidual) before they are used to index or size anything;
// a malformed value yields a FormatError, never a panic. Grounded on
// WilhelmCBC.cpp's decCBC.
func decryptCluster(ciphertext []Block, lastPrev Block, blockNum *uint64, baseKey Block, isLast bool) (plain []Block, newLastPrev Block, lastBlockMeaningful int, err error) {
	n := len(ciphertext)
	if n == 0 {
		return nil, Block{}, 0, NewFormatError("ciphertext", "cluster has no blocks", nil)
	}
	if isLast {
		// The final cluster needs at least one data block plus the
		// padding block; ce[n-2] below is only safe once this holds.
		if verr := ValidateClusterSize(n - 1); verr != nil {
			return nil, Block{}, 0, NewFormatError("ciphertext", "final cluster is too short to hold a data block and a padding block", verr)
		}
	}

	ce := make([]Block, n)
	copy(ce, ciphertext)

	out := make([]Block, n)
	out[0] = blockDecrypt(ciphertext[0], baseKey, *blockNum)
	*blockNum++
	out[0] = out[0].XOR(lastPrev)

	for i := 1; i < n; i++ {
		out[i] = blockDecrypt(ciphertext[i], baseKey, *blockNum)
		*blockNum++
		out[i] = out[i].XOR(ce[i-1])
	}

	if !isLast {
		return out, ce[n-1], BlockBytes, nil
	}

	pad := out[n-1]
	pos := paddingPosition(ce[n-2])
	residual := pad[pos]
	if verr := ValidateResidual(residual); verr != nil {
		return nil, Block{}, 0, NewFormatError("ciphertext", "padding block residual byte is out of range", verr)
	}

	return out[:n-1], ce[n-1], int(residual), nil
}
