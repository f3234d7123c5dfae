package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(stdout io.Writer, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// writeOutput writes data to path, or to stdout when path is empty.
// Text written to stdout gets a trailing newline if it lacks one.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	w, err := openOutput(stdout, path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if path == "" && len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	if path != "" {
		printFile(path)
	}
	return nil
}

// diagramExt returns the file extension for a diagram format.
func diagramExt(format string) string {
	switch format {
	case pipeline.FormatDOT:
		return ".dot"
	case pipeline.FormatSVG:
		return ".svg"
	default:
		return ".mmd"
	}
}

// reportExt returns the file extension for a report format.
func reportExt(format string) string {
	if format == pipeline.FormatJSON {
		return ".json"
	}
	return ".md"
}

// outputPath joins dir and name, creating dir when needed.
func outputPath(dir, name string) (string, error) {
	if err := apperrors.ValidatePath(dir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return filepath.Join(dir, name), nil
}
