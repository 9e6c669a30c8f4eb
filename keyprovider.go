package clustercrypt

import (
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// KeyProvider produces the passphrase bytes that feed derive_base_key. The
// default, normative provider is the identity: whatever bytes the caller
// passed to SetKey go straight to derive_base_key unmodified.
type KeyProvider interface {
	Passphrase(raw []byte) ([]byte, error)
}

// PassphraseKeyProvider is the identity KeyProvider; using it keeps the
// engine byte-compatible with the normative §4.2 derivation.
type PassphraseKeyProvider struct{}

// Passphrase returns raw unmodified.
func (PassphraseKeyProvider) Passphrase(raw []byte) ([]byte, error) {
	return raw, nil
}

// KDFMode selects the pre-hardening function used by HardenedKeyProvider.
type KDFMode uint8

const (
	// KDFArgon2id pre-stretches the passphrase with Argon2id (preferred).
	KDFArgon2id KDFMode = iota
	// KDFPBKDF2 pre-stretches the passphrase with PBKDF2-HMAC-SHA512
	// (legacy/FIPS contexts).
	KDFPBKDF2
)

// HardenedKeyProvider wraps a passphrase with a memory-hard or
// iteration-hard KDF before it reaches derive_base_key. This never touches
// derive_base_key itself: it only changes what bytes are handed to it, so
// the normative algorithm of §4.2 stays untouched. Salt must be supplied by
// the caller, and decrypt needs the same salt to recover the same base key;
// neither the ciphertext nor the SealCiphertext sidecar records it.
type HardenedKeyProvider struct {
	Mode KDFMode
	Salt []byte

	// Argon2id parameters; zero values fall back to sane defaults.
	Time    uint32
	Memory  uint32
	Threads uint8

	// PBKDF2 iteration count; zero falls back to a sane default.
	Iterations int
}

// Passphrase runs raw through the configured KDF and returns a 32-byte key.
func (p *HardenedKeyProvider) Passphrase(raw []byte) ([]byte, error) {
	if len(p.Salt) == 0 {
		return nil, NewValidationError("salt", nil, "HardenedKeyProvider requires a non-empty salt")
	}

	switch p.Mode {
	case KDFPBKDF2:
		iterations := p.Iterations
		if iterations <= 0 {
			iterations = 210_000
		}
		var newHash func() hash.Hash = sha512.New
		return pbkdf2.Key(raw, p.Salt, iterations, BlockBytes, newHash), nil
	default:
		timeCost := p.Time
		if timeCost == 0 {
			timeCost = 3
		}
		memCost := p.Memory
		if memCost == 0 {
			memCost = 64 * 1024
		}
		threads := p.Threads
		if threads == 0 {
			threads = 4
		}
		return argon2.IDKey(raw, p.Salt, timeCost, memCost, threads, BlockBytes), nil
	}
}

func (m KDFMode) String() string {
	switch m {
	case KDFArgon2id:
		return "argon2id"
	case KDFPBKDF2:
		return "pbkdf2-sha512"
	default:
		return fmt.Sprintf("KDFMode(%d)", uint8(m))
	}
}
