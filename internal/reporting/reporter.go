// File: internal/reporting/reporter.go

// Package reporting writes run results to stdout or a file.
package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Reporter serializes run results.
type Reporter interface {
	Write(result any) error
	Close() error
}

// New creates a reporter for the given format and output path. An empty path
// writes to stdout. Only JSON is supported today.
func New(format, outputPath string, logger *zap.Logger) (Reporter, error) {
	switch format {
	case "", "json":
	default:
		return nil, fmt.Errorf("unsupported report format: %q", format)
	}

	var (
		out     io.Writer = os.Stdout
		closeFn func() error
	)
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create report file: %w", err)
		}
		out = f
		closeFn = f.Close
		logger.Info("Writing report", zap.String("path", outputPath))
	}

	return &jsonReporter{out: out, closeFn: closeFn}, nil
}

type jsonReporter struct {
	out     io.Writer
	closeFn func() error
}

func (r *jsonReporter) Write(result any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func (r *jsonReporter) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return nil
}
