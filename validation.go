package clustercrypt

import (
	"fmt"
)

// Input validation helpers for defensive programming.

// ValidateCiphertextLength checks that a ciphertext length is non-zero and
// a multiple of BlockBytes, per spec.md §6's FORMAT_ERROR rule.
func ValidateCiphertextLength(n int64) error {
	if n == 0 {
		return &ValidationError{Field: "ciphertext", Message: "ciphertext is empty", Err: ErrEmptyCiphertext}
	}
	if n%BlockBytes != 0 {
		return &ValidationError{
			Field:   "ciphertext",
			Value:   n,
			Message: fmt.Sprintf("length %d is not a multiple of %d bytes", n, BlockBytes),
			Err:     ErrMisalignedSize,
		}
	}
	return nil
}

// ValidateFilePath checks that a file path is non-empty.
func ValidateFilePath(path, field string) error {
	if path == "" {
		return &ValidationError{Field: field, Message: "path cannot be empty"}
	}
	return nil
}

// ValidateResidual checks that a residual byte is a legal "meaningful byte
// count" encoding: 0 (wholly empty stream) through BlockBytes (block fully
// meaningful), inclusive.
func ValidateResidual(residual byte) error {
	if int(residual) > BlockBytes {
		return &ValidationError{
			Field:   "residual",
			Value:   residual,
			Message: fmt.Sprintf("residual %d must be <= %d", residual, BlockBytes),
		}
	}
	return nil
}

// ValidateClusterSize checks that a cluster holds between 1 and
// ClusterBlocks blocks, per spec.md §3's Cluster invariant.
func ValidateClusterSize(n int) error {
	if n < 1 || n > ClusterBlocks {
		return &ValidationError{
			Field:   "cluster_blocks",
			Value:   n,
			Message: fmt.Sprintf("cluster must hold 1..%d blocks, got %d", ClusterBlocks, n),
		}
	}
	return nil
}
