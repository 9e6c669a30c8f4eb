package clustercrypt

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

// sealKey derives the ChaCha20-Poly1305 key for a seal from the engine's
// base key via a domain-separated SHA-256 hash, keeping it independent of
// every key the Feistel cipher itself derives from base via subkey().
func sealKey(base Block) [chacha20poly1305.KeySize]byte {
	h := sha256.New()
	h.Write([]byte("clustercrypt-seal-v1"))
	h.Write(base[:])
	var key [chacha20poly1305.KeySize]byte
	copy(key[:], h.Sum(nil))
	return key
}

// SealCiphertext computes a ChaCha20-Poly1305 AEAD tag over the full
// ciphertext file at path (IV through trailer) and writes it, together
// with its nonce, to path+".seal". The seal never participates in the
// normative wire layout of §6; a ciphertext produced without one is still
// fully valid. It exists as a cheap tamper check that avoids paying for a
// full Feistel decrypt just to discover corruption.
func SealCiphertext(path string, baseKey Block) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", NewIOError("read", path, err)
	}

	key := sealKey(baseKey)
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return "", NewAllocationError("failed to construct seal AEAD", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", NewAllocationError("failed to generate seal nonce", err)
	}

	tag := aead.Seal(nil, nonce, nil, data)

	sidecarPath := path + ".seal"
	sidecar := append(nonce, tag...)
	if err := os.WriteFile(sidecarPath, sidecar, 0o600); err != nil {
		return "", NewIOError("write", sidecarPath, err)
	}
	return sidecarPath, nil
}

// VerifySeal recomputes the AEAD tag for the ciphertext at path against
// the nonce and tag stored at sidecarPath and reports whether they match.
func VerifySeal(path, sidecarPath string, baseKey Block) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, NewIOError("read", path, err)
	}
	sidecar, err := os.ReadFile(sidecarPath)
	if err != nil {
		return false, NewIOError("read", sidecarPath, err)
	}
	if len(sidecar) < chacha20poly1305.NonceSize {
		return false, NewFormatError(sidecarPath, fmt.Sprintf("seal file too short: %d bytes", len(sidecar)), nil)
	}

	nonce := sidecar[:chacha20poly1305.NonceSize]
	tag := sidecar[chacha20poly1305.NonceSize:]

	key := sealKey(baseKey)
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return false, NewAllocationError("failed to construct seal AEAD", err)
	}

	_, err = aead.Open(nil, nonce, tag, data)
	return err == nil, nil
}
