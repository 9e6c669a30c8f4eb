// Command clustercrypt encrypts and decrypts files with the clustercrypt
// engine: a custom Feistel block cipher, CBC-chained across blocks and
// clusters, with a per-cluster hash integrity trailer.
//
// Run with no flags for an interactive menu (encrypt / decrypt / quit),
// matching the original tool's flow. Pass -encrypt/-decrypt with -in,
// -out, and -pass for a scriptable, non-interactive invocation, or -batch
// to fan a directory of files out across a worker pool.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clustercrypt/clustercrypt"
)

func main() {
	var (
		doEncrypt = flag.Bool("encrypt", false, "encrypt -in to -out")
		doDecrypt = flag.Bool("decrypt", false, "decrypt -in to -out")
		in        = flag.String("in", "", "input file path")
		out       = flag.String("out", "", "output file path")
		pass      = flag.String("pass", "", "passphrase (prompted if omitted)")
		batch     = flag.String("batch", "", "process every file in this directory instead of a single -in/-out pair")
		outDir    = flag.String("outdir", "", "output directory for -batch (required with -batch)")
		sha3      = flag.Bool("sha3", false, "use SHA3-512 instead of SHA-256 for cluster hashing and the trailer")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	hashAlgo := clustercrypt.HashSHA256
	if *sha3 {
		hashAlgo = clustercrypt.HashSHA3_512
	}

	switch {
	case *batch != "":
		runBatchCLI(*batch, *outDir, *pass, *doEncrypt, *doDecrypt, hashAlgo, logger)
	case *doEncrypt || *doDecrypt:
		runNonInteractive(*doEncrypt, *in, *out, *pass, hashAlgo)
	default:
		menu(hashAlgo)
	}
}

func runNonInteractive(encrypt bool, in, out, pass string, hashAlgo clustercrypt.HashAlgorithm) {
	if in == "" || out == "" {
		fmt.Fprintln(os.Stderr, "-in and -out are required")
		os.Exit(2)
	}
	if pass == "" {
		pass = promptLine(bufio.NewReader(os.Stdin), "Passphrase: ")
	}

	e := clustercrypt.NewEngine()
	if err := e.SetHashAlgorithm(hashAlgo); err != nil {
		fatal(err)
	}
	if err := e.SetInput(in); err != nil {
		fatal(err)
	}
	if err := e.SetOutput(out); err != nil {
		fatal(err)
	}
	if err := e.SetKey([]byte(pass)); err != nil {
		fatal(err)
	}

	start := time.Now()
	if encrypt {
		if err := e.Encrypt(); err != nil {
			fatal(err)
		}
		printThroughput(start, time.Now(), e.Size())
		return
	}

	verified, err := e.Decrypt()
	if err != nil {
		fatal(err)
	}
	printThroughput(start, time.Now(), e.Size())
	if verified {
		fmt.Println("Successfully decrypted - trailer matched")
	} else {
		fmt.Println("Unsuccessful decryption - trailer mismatch")
		os.Exit(1)
	}
}

func runBatchCLI(dir, outDir, pass string, encrypt, decrypt bool, hashAlgo clustercrypt.HashAlgorithm, logger *slog.Logger) {
	if outDir == "" {
		fmt.Fprintln(os.Stderr, "-outdir is required with -batch")
		os.Exit(2)
	}
	if !encrypt && !decrypt {
		fmt.Fprintln(os.Stderr, "one of -encrypt or -decrypt is required with -batch")
		os.Exit(2)
	}
	if pass == "" {
		pass = promptLine(bufio.NewReader(os.Stdin), "Passphrase: ")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fatal(err)
	}

	mode := clustercrypt.BatchEncrypt
	suffix := ".cc"
	if decrypt {
		mode = clustercrypt.BatchDecrypt
		suffix = ""
	}

	var jobs []clustercrypt.BatchJob
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		outName := name + suffix
		if decrypt {
			outName = strings.TrimSuffix(name, ".cc")
		}
		jobs = append(jobs, clustercrypt.BatchJob{
			InputPath:  filepath.Join(dir, name),
			OutputPath: filepath.Join(outDir, outName),
		})
	}

	fs := clustercrypt.NewLocalFS("")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fatal(err)
	}

	results := clustercrypt.RunBatch(fs, []byte(pass), mode, jobs, clustercrypt.DefaultBatchConfig(), nil, hashAlgo, logger)

	failures := 0
	for _, job := range results {
		if job.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: %v\n", job.InputPath, job.Err)
			continue
		}
		if decrypt && !job.Verified {
			failures++
			fmt.Fprintf(os.Stderr, "%s: trailer mismatch\n", job.InputPath)
		}
	}
	fmt.Printf("Processed %d file(s), %d failure(s)\n", len(results), failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func menu(hashAlgo clustercrypt.HashAlgorithm) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Please make a selection:\n1. Encryption\n2. Decryption\n3. Exit\nSelection #: ")
		choice := promptLine(reader, "")

		switch strings.TrimSpace(choice) {
		case "1":
			menuEncrypt(reader, hashAlgo)
		case "2":
			menuDecrypt(reader, hashAlgo)
		case "3":
			return
		default:
			fmt.Println("Please choose from the choices below:")
		}
	}
}

func menuEncrypt(reader *bufio.Reader, hashAlgo clustercrypt.HashAlgorithm) {
	in := promptLine(reader, "\nPlease input the path to the file to be encrypted:\n")
	pass := promptLine(reader, "\nPlease input a passphrase to use:\n")
	out := promptLine(reader, "\nPlease input a path for the output file:\n")
	fmt.Println()

	e := clustercrypt.NewEngine()
	if err := e.SetHashAlgorithm(hashAlgo); err != nil {
		printErr(err)
		return
	}
	start := time.Now()
	if err := e.SetInput(in); err != nil {
		printErr(err)
		return
	}
	if err := e.SetKey([]byte(pass)); err != nil {
		printErr(err)
		return
	}
	if err := e.SetOutput(out); err != nil {
		printErr(err)
		return
	}
	if err := e.Encrypt(); err != nil {
		printErr(err)
		return
	}
	printThroughput(start, time.Now(), e.Size())
}

func menuDecrypt(reader *bufio.Reader, hashAlgo clustercrypt.HashAlgorithm) {
	in := promptLine(reader, "\nPlease input the path to the file to be decrypted:\n")
	pass := promptLine(reader, "\nPlease input a passphrase to use:\n")
	out := promptLine(reader, "\nPlease input a path for the output file:\n")
	fmt.Println()

	e := clustercrypt.NewEngine()
	if err := e.SetHashAlgorithm(hashAlgo); err != nil {
		printErr(err)
		return
	}
	start := time.Now()
	if err := e.SetInput(in); err != nil {
		printErr(err)
		return
	}
	if err := e.SetKey([]byte(pass)); err != nil {
		printErr(err)
		return
	}
	if err := e.SetOutput(out); err != nil {
		printErr(err)
		return
	}
	verified, err := e.Decrypt()
	if err != nil {
		printErr(err)
		return
	}
	printThroughput(start, time.Now(), e.Size())
	if verified {
		fmt.Println("\nSuccessfully decrypted - trailer matched\n")
	} else {
		fmt.Println("\nUnsuccessful decryption - trailer mismatch\n")
	}
}

// printThroughput reports bytes/sec for a pass, scaled to KB/MB/GB as
// appropriate. Grounded on the original tool's timePrint.
func printThroughput(start, end time.Time, dataSize int64) {
	elapsed := end.Sub(start).Seconds()
	if elapsed <= 0 {
		elapsed = 1e-9
	}
	rate := float64(dataSize) / elapsed

	unit := "B/s"
	if rate > 1024 {
		rate /= 1024
		unit = "KB/s"
	}
	if rate > 1024 {
		rate /= 1024
		unit = "MB/s"
	}
	if rate > 1024 {
		rate /= 1024
		unit = "GB/s"
	}
	fmt.Printf("\nProcessed at an average rate of: %.2f %s\n\n", rate, unit)
}

func promptLine(r interface{ ReadString(byte) (string, error) }, prompt string) string {
	if prompt != "" {
		fmt.Print(prompt)
	}
	line, _ := r.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func printErr(err error) {
	fmt.Printf("\n\n******\n%v\n******\n\n", err)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
