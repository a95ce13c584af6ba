package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/deepgram/intake/pkg/logger"
)

// ErrSchemaMismatch is returned when a record's columns differ from the
// header already in the file
var ErrSchemaMismatch = errors.New("record columns do not match file header")

// CSVWriter appends records to a CSV file, writing the header only when it
// creates the file.
type CSVWriter struct {
	mu   sync.Mutex
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Path() string {
	return w.path
}

func (w *CSVWriter) Write(_ context.Context, record models.ExtractedRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	columns := record.Columns()

	header, err := readHeader(w.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", w.path, err)
	}
	exists := err == nil

	if exists && len(header) > 0 && !slices.Equal(header, columns) {
		logger.Error(logger.RECORDS, "Header of %s is %v, record has %v", w.path, header, columns)
		return fmt.Errorf("%s: %w", w.path, ErrSchemaMismatch)
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if !exists || len(header) == 0 {
		if err := cw.Write(columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := cw.Write(record.Values()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", w.path, err)
	}

	logger.Info(logger.RECORDS, "Record appended to %s", w.path)
	return nil
}

// readHeader returns the first row of path, or nil for an empty file
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return header, err
}
