package clustercrypt

import (
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/sha3"
)

// HashAlgorithm selects the digest used for per-cluster plaintext hashing
// and the final trailer. SHA-256 is the default and is required for
// byte-compatibility with the normative wire format; SHA3-512 is an
// opt-in alternative for callers who do not need that compatibility.
type HashAlgorithm uint8

const (
	// HashSHA256 is the default, normative cluster-hash/trailer algorithm.
	HashSHA256 HashAlgorithm = iota
	// HashSHA3_512 selects SHA3-512 in place of SHA-256.
	HashSHA3_512
)

// String returns the name of the hash algorithm.
func (h HashAlgorithm) String() string {
	switch h {
	case HashSHA256:
		return "sha256"
	case HashSHA3_512:
		return "sha3-512"
	default:
		return "unknown"
	}
}

// newHasher returns a fresh hash.Hash for h.
func (h HashAlgorithm) newHasher() hash.Hash {
	switch h {
	case HashSHA3_512:
		return sha3.New512()
	default:
		return sha256.New()
	}
}

// Valid reports whether h is one of the defined constants.
func (h HashAlgorithm) Valid() bool {
	return h == HashSHA256 || h == HashSHA3_512
}
