package clustercrypt

import (
	"log/slog"

	"github.com/google/uuid"
)

// OperationID correlates the log lines of a single encrypt/decrypt or
// batch-driver pass. It never appears in the wire format; it exists
// purely for log correlation across the CLI and batch driver.
type OperationID string

// NewOperationID returns a fresh, random OperationID.
func NewOperationID() OperationID {
	return OperationID(uuid.NewString())
}

// logPass emits one structured log line at the end of an Engine pass
// ("pass complete" or "pass failed"), tagged with op so concurrent batch-driver workers can be told apart in
// the log stream.
func logPass(logger *slog.Logger, op OperationID, action, path string, size int64, err error, verified *bool) {
	attrs := []any{
		slog.String("op", string(op)),
		slog.String("action", action),
		slog.String("path", path),
		slog.Int64("bytes", size),
	}
	if verified != nil {
		attrs = append(attrs, slog.Bool("verified", *verified))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		logger.Error("pass failed", attrs...)
		return
	}
	logger.Info("pass complete", attrs...)
}
