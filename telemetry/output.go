package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Writer appends window statistics to a csv file. The header goes out
// with the first row only.
type Writer struct {
	file        *os.File
	wroteHeader bool
}

// NewWriter creates or truncates the stats file. An empty path disables
// the writer; every method on the returned nil is a no-op.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating stats file: %w", err)
	}
	return &Writer{file: f}, nil
}

// Append writes one window row.
func (w *Writer) Append(ws WindowStats) error {
	if w == nil {
		return nil
	}
	records := []WindowStats{ws}

	if !w.wroteHeader {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		w.wroteHeader = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	return w.file.Close()
}
