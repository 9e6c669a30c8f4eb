package clustercrypt

import (
	"bytes"
	"io"

	"github.com/absfs/absfs"
)

// Engine is the single-file encryption/decryption driver: it ties the key
// schedule, Feistel block cipher, and cluster-level CBC chaining together
// into the stream layout described in doc.go. One Engine processes one
// file per Encrypt/Decrypt call; its per-pass counters reset on every
// exit path. The base key, filesystem, key provider, and hash algorithm
// persist across calls on the same Engine value.
type Engine struct {
	fs          absfs.FileSystem
	keyProvider KeyProvider
	hashAlgo    HashAlgorithm

	inputPath  string
	outputPath string
	inputLen   int64

	haveInput  bool
	haveOutput bool

	baseKey Block
	haveKey bool
}

// NewEngine returns an Engine rooted at the local filesystem, using the
// identity KeyProvider and SHA-256 cluster hashing by default.
func NewEngine() *Engine {
	return &Engine{
		fs:          NewLocalFS(""),
		keyProvider: PassphraseKeyProvider{},
		hashAlgo:    HashSHA256,
	}
}

// SetFileSystem overrides the absfs.FileSystem used to resolve the paths
// given to SetInput/SetOutput. Tests typically install an absfs/memfs
// filesystem here to avoid touching disk.
func (e *Engine) SetFileSystem(fs absfs.FileSystem) {
	e.fs = fs
}

// SetKeyProvider overrides the KeyProvider consulted by SetKey. Defaults
// to PassphraseKeyProvider, the identity transform required for
// byte-compatible output.
func (e *Engine) SetKeyProvider(kp KeyProvider) error {
	if kp == nil {
		return NewValidationError("keyProvider", nil, "key provider cannot be nil")
	}
	e.keyProvider = kp
	return nil
}

// SetHashAlgorithm overrides the digest used for per-cluster hashing and
// the trailer. Defaults to SHA-256, the only byte-compatible choice.
func (e *Engine) SetHashAlgorithm(h HashAlgorithm) error {
	if !h.Valid() {
		return NewValidationError("hashAlgorithm", h, "unsupported hash algorithm")
	}
	e.hashAlgo = h
	return nil
}

// SetInput opens path for reading (failing with an IOError if it cannot
// be opened) and records its length for later use by Size and by the
// stream driver.
func (e *Engine) SetInput(path string) error {
	if err := ValidateFilePath(path, "input"); err != nil {
		return err
	}
	f, err := e.fs.Open(path)
	if err != nil {
		return NewIOError("open", path, err)
	}
	f.Close()
	info, err := e.fs.Stat(path)
	if err != nil {
		return NewIOError("stat", path, err)
	}
	e.inputPath = path
	e.inputLen = info.Size()
	e.haveInput = true
	return nil
}

// SetOutput records path as the destination for Encrypt/Decrypt; the file
// itself is opened lazily when the pass runs.
func (e *Engine) SetOutput(path string) error {
	if err := ValidateFilePath(path, "output"); err != nil {
		return err
	}
	e.outputPath = path
	e.haveOutput = true
	return nil
}

// SetKey derives the base key from passphrase via the configured
// KeyProvider and §4.2's derive_base_key. With the default
// PassphraseKeyProvider this never fails, matching spec.md §6's contract.
func (e *Engine) SetKey(passphrase []byte) error {
	processed, err := e.keyProvider.Passphrase(passphrase)
	if err != nil {
		return err
	}
	e.baseKey = deriveBaseKey(processed)
	e.haveKey = true
	return nil
}

// Size returns the length, in bytes, of whatever file SetInput last
// opened — the plaintext length after a call intended for Encrypt, or
// the ciphertext length after one intended for Decrypt.
func (e *Engine) Size() int64 {
	return e.inputLen
}

func (e *Engine) checkState(operation string) error {
	if !e.haveInput {
		return NewStateError(operation, "input")
	}
	if !e.haveOutput {
		return NewStateError(operation, "output")
	}
	if !e.haveKey {
		return NewStateError(operation, "key")
	}
	return nil
}

// Encrypt performs the full §4.7 encrypt pass: write the IV, CBC-encrypt
// the input in cluster-sized chunks while accumulating per-cluster
// plaintext hashes, append the padding block on the last cluster, and
// write the final trailer.
func (e *Engine) Encrypt() error {
	if err := e.checkState("encrypt"); err != nil {
		return err
	}

	in, err := e.fs.Open(e.inputPath)
	if err != nil {
		return NewIOError("open", e.inputPath, err)
	}
	defer in.Close()

	out, err := e.fs.Create(e.outputPath)
	if err != nil {
		return NewIOError("create", e.outputPath, err)
	}
	defer out.Close()

	iv, err := ivGenerator()
	if err != nil {
		return NewAllocationError("failed to generate IV", err)
	}
	if _, err := out.Write(iv[:]); err != nil {
		return NewIOError("write", e.outputPath, err)
	}

	lastPrev := iv
	var blockNum uint64
	hasher := e.hashAlgo.newHasher()
	var clusterHashes [][]byte

	remaining := e.inputLen
	readBuf := make([]byte, ClusterBytes)

	for {
		isLastChunk := remaining <= ClusterBytes
		chunkSize := ClusterBytes
		if isLastChunk {
			chunkSize = int(remaining)
		}

		chunk := readBuf[:chunkSize]
		if chunkSize > 0 {
			if _, err := io.ReadFull(in, chunk); err != nil {
				return NewIOError("read", e.inputPath, err)
			}
		}
		remaining -= int64(chunkSize)

		blocks, residual := bytesToBlocks(chunk, isLastChunk)

		hasher.Reset()
		for _, b := range blocks {
			hasher.Write(b[:])
		}
		clusterHashes = append(clusterHashes, hasher.Sum(nil))

		cipherBlocks, newLastPrev, err := encryptCluster(blocks, lastPrev, &blockNum, e.baseKey, isLastChunk, residual)
		if err != nil {
			return err
		}
		lastPrev = newLastPrev

		for _, cb := range cipherBlocks {
			if _, err := out.Write(cb[:]); err != nil {
				return NewIOError("write", e.outputPath, err)
			}
		}

		if isLastChunk {
			break
		}
	}

	trailerHasher := e.hashAlgo.newHasher()
	for _, h := range clusterHashes {
		trailerHasher.Write(h)
	}
	if _, err := out.Write(trailerHasher.Sum(nil)); err != nil {
		return NewIOError("write", e.outputPath, err)
	}

	return nil
}

// Decrypt performs the full §4.7 decrypt pass and reports whether the
// trailer verified. A false result with a nil error means decryption ran
// to completion but the integrity check failed (INTEGRITY_FAIL per
// spec.md §7); plaintext is still written to output in that case, as the
// source does, so callers can inspect what was recovered if they choose.
func (e *Engine) Decrypt() (bool, error) {
	if err := e.checkState("decrypt"); err != nil {
		return false, err
	}
	if err := ValidateCiphertextLength(e.inputLen); err != nil {
		return false, NewFormatError(e.inputPath, "ciphertext length is invalid", err)
	}

	in, err := e.fs.Open(e.inputPath)
	if err != nil {
		return false, NewIOError("open", e.inputPath, err)
	}
	defer in.Close()

	out, err := e.fs.Create(e.outputPath)
	if err != nil {
		return false, NewIOError("create", e.outputPath, err)
	}
	defer out.Close()

	var iv Block
	if _, err := io.ReadFull(in, iv[:]); err != nil {
		return false, NewIOError("read", e.inputPath, err)
	}
	lastPrev := iv
	var blockNum uint64

	trailerLen := e.hashAlgo.newHasher().Size()
	bodyLen := e.inputLen - BlockBytes - int64(trailerLen)
	if bodyLen <= 0 || bodyLen%BlockBytes != 0 {
		return false, NewFormatError(e.inputPath, "ciphertext body length is invalid for the configured hash algorithm", nil)
	}

	hasher := e.hashAlgo.newHasher()
	var clusterHashes [][]byte

	remaining := bodyLen
	readBuf := make([]byte, ClusterBytes+BlockBytes)

	for remaining > 0 {
		isLastChunk := remaining <= ClusterBytes+BlockBytes
		chunkSize := ClusterBytes
		if isLastChunk {
			chunkSize = int(remaining)
		}

		chunk := readBuf[:chunkSize]
		if _, err := io.ReadFull(in, chunk); err != nil {
			return false, NewIOError("read", e.inputPath, err)
		}
		remaining -= int64(chunkSize)

		cipherBlocks := blocksFromBytes(chunk)
		plainBlocks, newLastPrev, meaningful, err := decryptCluster(cipherBlocks, lastPrev, &blockNum, e.baseKey, isLastChunk)
		if err != nil {
			return false, err
		}
		lastPrev = newLastPrev

		hasher.Reset()
		for _, b := range plainBlocks {
			hasher.Write(b[:])
		}
		clusterHashes = append(clusterHashes, hasher.Sum(nil))

		last := len(plainBlocks) - 1
		for i, b := range plainBlocks {
			outBytes := b[:]
			if isLastChunk && i == last {
				outBytes = b[:meaningful]
			}
			if _, err := out.Write(outBytes); err != nil {
				return false, NewIOError("write", e.outputPath, err)
			}
		}
	}

	trailer := make([]byte, trailerLen)
	if _, err := io.ReadFull(in, trailer); err != nil {
		return false, NewIOError("read", e.inputPath, err)
	}

	trailerHasher := e.hashAlgo.newHasher()
	for _, h := range clusterHashes {
		trailerHasher.Write(h)
	}
	recomputed := trailerHasher.Sum(nil)

	return bytes.Equal(recomputed, trailer), nil
}

// bytesToBlocks splits chunk into BlockBytes-sized Blocks, zero-extending
// a short final block. When isLast is true it also returns the residual
// byte: the exact meaningful-byte count of the final block (0 only when
// chunk itself is empty, meaning the whole plaintext stream was empty).
func bytesToBlocks(chunk []byte, isLast bool) ([]Block, byte) {
	n := len(chunk)
	if n == 0 {
		return []Block{{}}, 0
	}

	numBlocks := (n + BlockBytes - 1) / BlockBytes
	blocks := make([]Block, numBlocks)
	for i := 0; i < numBlocks; i++ {
		start := i * BlockBytes
		end := start + BlockBytes
		if end > n {
			end = n
		}
		copy(blocks[i][:], chunk[start:end])
	}

	var residual byte
	if isLast {
		residual = byte(n - (numBlocks-1)*BlockBytes)
	}
	return blocks, residual
}

// blocksFromBytes splits a ciphertext chunk (a multiple of BlockBytes)
// into Blocks.
func blocksFromBytes(chunk []byte) []Block {
	n := len(chunk) / BlockBytes
	blocks := make([]Block, n)
	for i := 0; i < n; i++ {
		copy(blocks[i][:], chunk[i*BlockBytes:(i+1)*BlockBytes])
	}
	return blocks
}
