package clustercrypt

import (
	"bytes"
	"testing"
)

func TestPassphraseKeyProviderIsIdentity(t *testing.T) {
	p := PassphraseKeyProvider{}
	got, err := p.Passphrase([]byte("hello"))
	if err != nil {
		t.Fatalf("Passphrase: %v", err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestHardenedKeyProviderRequiresSalt(t *testing.T) {
	p := &HardenedKeyProvider{Mode: KDFArgon2id}
	if _, err := p.Passphrase([]byte("secret")); !IsValidationError(err) {
		t.Fatalf("expected validation error for missing salt, got %v", err)
	}
}

func TestHardenedKeyProviderArgon2idDeterministic(t *testing.T) {
	p := &HardenedKeyProvider{Mode: KDFArgon2id, Salt: []byte("fixed-salt-value")}
	a, err := p.Passphrase([]byte("secret"))
	if err != nil {
		t.Fatalf("Passphrase: %v", err)
	}
	b, err := p.Passphrase([]byte("secret"))
	if err != nil {
		t.Fatalf("Passphrase: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("HardenedKeyProvider (argon2id) is not deterministic for identical inputs")
	}
	if len(a) != BlockBytes {
		t.Fatalf("derived key length = %d, want %d", len(a), BlockBytes)
	}
}

func TestHardenedKeyProviderPBKDF2Deterministic(t *testing.T) {
	p := &HardenedKeyProvider{Mode: KDFPBKDF2, Salt: []byte("fixed-salt-value"), Iterations: 1000}
	a, err := p.Passphrase([]byte("secret"))
	if err != nil {
		t.Fatalf("Passphrase: %v", err)
	}
	b, err := p.Passphrase([]byte("secret"))
	if err != nil {
		t.Fatalf("Passphrase: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("HardenedKeyProvider (pbkdf2) is not deterministic for identical inputs")
	}
}

func TestHardenedKeyProviderVariesWithSalt(t *testing.T) {
	p1 := &HardenedKeyProvider{Mode: KDFArgon2id, Salt: []byte("salt-one")}
	p2 := &HardenedKeyProvider{Mode: KDFArgon2id, Salt: []byte("salt-two")}
	a, err := p1.Passphrase([]byte("secret"))
	if err != nil {
		t.Fatalf("Passphrase: %v", err)
	}
	b, err := p2.Passphrase([]byte("secret"))
	if err != nil {
		t.Fatalf("Passphrase: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("different salts produced identical derived keys")
	}
}

// An Engine configured with a HardenedKeyProvider still round-trips, and
// both sides of the round trip must share the same provider (and salt) to
// agree on the base key, exactly as HardenedKeyProvider's doc comment says.
func TestEngineRoundTripWithHardenedKeyProvider(t *testing.T) {
	withZeroIV(t)

	kp := &HardenedKeyProvider{Mode: KDFArgon2id, Salt: []byte("engine-salt-test")}
	plain := []byte("hardened key provider round trip")

	e := newTestEngine(t)
	if err := e.SetKeyProvider(kp); err != nil {
		t.Fatalf("SetKeyProvider: %v", err)
	}
	if err := e.SetKey([]byte("passphrase")); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if err := writeFile(t, e, "plain.bin", plain); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	if err := e.SetInput("plain.bin"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	if err := e.SetOutput("cipher.bin"); err != nil {
		t.Fatalf("SetOutput: %v", err)
	}
	if err := e.Encrypt(); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	d := NewEngine()
	d.SetFileSystem(e.fs)
	if err := d.SetKeyProvider(kp); err != nil {
		t.Fatalf("SetKeyProvider: %v", err)
	}
	if err := d.SetKey([]byte("passphrase")); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if err := d.SetInput("cipher.bin"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	if err := d.SetOutput("recovered.bin"); err != nil {
		t.Fatalf("SetOutput: %v", err)
	}
	verified, err := d.Decrypt()
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !verified {
		t.Fatalf("expected verified=true")
	}

	f, err := d.fs.Open("recovered.bin")
	if err != nil {
		t.Fatalf("open recovered: %v", err)
	}
	defer f.Close()
	recovered, err := readAll(f)
	if err != nil {
		t.Fatalf("read recovered: %v", err)
	}
	if !bytes.Equal(recovered, plain) {
		t.Fatalf("recovered = %q, want %q", recovered, plain)
	}
}
