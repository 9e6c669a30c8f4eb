package clustercrypt

import (
	"bytes"
	"testing"

	"github.com/absfs/absfs"
)

func readFileOrFatal(t *testing.T, fs absfs.FileSystem, name string) []byte {
	t.Helper()
	f, err := fs.Open(name)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()
	data, err := readAll(f)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

// RunBatch's worker pool must produce byte-identical output to the same
// files run one at a time through a serial Engine, since each worker owns
// its own Engine for the full duration of one file's pass.
func TestRunBatchEncryptMatchesSerialEngine(t *testing.T) {
	withZeroIV(t)

	dir := t.TempDir()
	fs := NewLocalFS(dir)

	files := map[string][]byte{
		"a.txt": []byte("hello batch world"),
		"b.txt": bytes.Repeat([]byte{0x5A}, 200),
		"c.txt": {},
	}
	for name, data := range files {
		f, err := fs.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		f.Close()
	}

	var jobs []BatchJob
	for name := range files {
		jobs = append(jobs, BatchJob{InputPath: name, OutputPath: name + ".cc"})
	}

	results := RunBatch(fs, []byte("batch-pass"), BatchEncrypt, jobs, BatchConfig{MaxWorkers: 2}, nil, HashSHA256, nil)
	for _, job := range results {
		if job.Err != nil {
			t.Fatalf("%s: %v", job.InputPath, job.Err)
		}
	}

	for name := range files {
		serial := NewEngine()
		serial.SetFileSystem(fs)
		if err := serial.SetKey([]byte("batch-pass")); err != nil {
			t.Fatalf("SetKey: %v", err)
		}
		if err := serial.SetInput(name); err != nil {
			t.Fatalf("SetInput: %v", err)
		}
		if err := serial.SetOutput(name + ".serial.cc"); err != nil {
			t.Fatalf("SetOutput: %v", err)
		}
		if err := serial.Encrypt(); err != nil {
			t.Fatalf("Encrypt: %v", err)
		}

		batchOut := readFileOrFatal(t, fs, name+".cc")
		serialOut := readFileOrFatal(t, fs, name+".serial.cc")
		if !bytes.Equal(batchOut, serialOut) {
			t.Fatalf("%s: batch output differs from serial Engine output", name)
		}
	}
}

func TestRunBatchDecryptRoundTrip(t *testing.T) {
	withZeroIV(t)
	dir := t.TempDir()
	fs := NewLocalFS(dir)

	plain := []byte("round trip through the batch driver")
	f, err := fs.Create("plain.bin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.Write(plain); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	encJobs := []BatchJob{{InputPath: "plain.bin", OutputPath: "plain.cc"}}
	encResults := RunBatch(fs, []byte("batch-pass"), BatchEncrypt, encJobs, DefaultBatchConfig(), nil, HashSHA256, nil)
	if encResults[0].Err != nil {
		t.Fatalf("encrypt job failed: %v", encResults[0].Err)
	}

	decJobs := []BatchJob{{InputPath: "plain.cc", OutputPath: "plain.out"}}
	decResults := RunBatch(fs, []byte("batch-pass"), BatchDecrypt, decJobs, DefaultBatchConfig(), nil, HashSHA256, nil)
	if decResults[0].Err != nil {
		t.Fatalf("decrypt job failed: %v", decResults[0].Err)
	}
	if !decResults[0].Verified {
		t.Fatalf("expected batch-decrypted file to verify")
	}

	out := readFileOrFatal(t, fs, "plain.out")
	if !bytes.Equal(out, plain) {
		t.Fatalf("recovered = %q, want %q", out, plain)
	}
}

func TestBatchConfigValidate(t *testing.T) {
	if err := (BatchConfig{MaxWorkers: -1}).Validate(); !IsValidationError(err) {
		t.Fatalf("expected validation error for negative MaxWorkers, got %v", err)
	}
	if err := (BatchConfig{MaxWorkers: 0}).Validate(); err != nil {
		t.Fatalf("zero MaxWorkers should be valid (defaults to NumCPU): %v", err)
	}
}
