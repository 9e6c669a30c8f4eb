// Package clustercrypt implements a file-oriented symmetric encryption
// engine built around a custom 256-bit block cipher: a 16-round Feistel
// network composed with CBC-style chaining within and across clusters,
// a per-cluster plaintext-hash integrity trailer, and a self-describing
// length-padding scheme.
//
// # Overview
//
// The engine processes one file per pass: a passphrase derives a base
// key, the plaintext stream is split into 4096-byte clusters, each
// cluster is hashed before encryption, CBC-chained across block and
// cluster boundaries, and written out; a final trailer over the
// concatenation of per-cluster hashes lets decryption verify integrity
// without a separate MAC construction.
//
// This is not a vetted cryptographic primitive. The cipher is a
// from-scratch design documented here for byte-compatibility with an
// existing ciphertext format, not for security review.
//
// # Basic Usage
//
//	e := clustercrypt.NewEngine()
//	e.SetKey([]byte("my-secure-passphrase"))
//	if err := e.SetInput("plain.txt"); err != nil {
//	    panic(err)
//	}
//	if err := e.SetOutput("plain.txt.cc"); err != nil {
//	    panic(err)
//	}
//	if err := e.Encrypt(); err != nil {
//	    panic(err)
//	}
//
// Decryption mirrors this and additionally reports whether the
// integrity trailer verified:
//
//	ok, err := e.Decrypt()
//
// # Wire Format
//
// Ciphertext files use the following layout:
//   - IV (32 bytes): fresh random block, written first.
//   - Ciphertext clusters (variable): CBC-chained blocks, up to 4096
//     bytes each; the final cluster carries one extra padding block.
//   - Trailer (32 bytes with the default SHA-256; 64 bytes when
//     SHA3-512 is selected): hash of the concatenation of per-cluster
//     plaintext hashes, used to verify integrity on decrypt.
//
// # Key Derivation
//
// The default KeyProvider passes the passphrase through unmodified;
// HardenedKeyProvider pre-stretches it with Argon2id or PBKDF2 before
// it reaches the normative derivation. The normative derivation itself
// (SHA-256, repeated hashing) never changes.
//
// # Filesystem Boundary
//
// Input and output are addressed through absfs.FileSystem/absfs.File,
// defaulting to a local-disk adapter; tests can substitute an in-memory
// filesystem for fully deterministic, cleanup-free round trips.
package clustercrypt
