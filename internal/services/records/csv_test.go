package records

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func jane() models.ExtractedRecord {
	return models.ExtractedRecord{
		Name: "Jane Doe", Email: "jane@x.com", Education: "BSc, Maths",
		Phone: "555-0100", Location: "Leeds", DateOfBirth: "1990-01-01",
	}
}

func TestCSVWriterFirstWriteAddsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	w := NewCSVWriter(path)

	require.NoError(t, w.Write(context.Background(), jane()))

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "name,email,education,phone,location,date_of_birth", lines[0])
	assert.Equal(t, `Jane Doe,jane@x.com,"BSc, Maths",555-0100,Leeds,1990-01-01`, lines[1])
}

func TestCSVWriterAppendsWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	w := NewCSVWriter(path)

	require.NoError(t, w.Write(context.Background(), jane()))
	second := models.NewExtractedRecord(map[string]string{models.FieldName: "John Roe"})
	require.NoError(t, w.Write(context.Background(), second))

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Equal(t, "name,email,education,phone,location,date_of_birth", lines[0])
	assert.Equal(t, "John Roe,Not Provided,Not Provided,Not Provided,Not Provided,Not Provided", lines[2])
}

func TestCSVWriterCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "output.csv")

	require.NoError(t, NewCSVWriter(path).Write(context.Background(), jane()))
	assert.Len(t, readLines(t, path), 2)
}

func TestCSVWriterRejectsSchemaDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,email\nJane,jane@x.com\n"), 0o644))

	err := NewCSVWriter(path).Write(context.Background(), jane())

	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Len(t, readLines(t, path), 2)
}

func TestCSVWriterConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	w := NewCSVWriter(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Write(context.Background(), jane()))
		}()
	}
	wg.Wait()

	lines := readLines(t, path)
	assert.Len(t, lines, 21)
	assert.Equal(t, 1, strings.Count(strings.Join(lines, "\n"), "date_of_birth"))
}
