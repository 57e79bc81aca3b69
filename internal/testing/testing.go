// package testing contains shared testing utilities
package testing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/songs/internal/models"
)

// ErrSaveFailed is returned by [FailingPersister.Save].
var ErrSaveFailed = errors.New("save failed")

// CatalogCSV builds a table file with n songs. Song i (1-based) has id "song-i", title "Song i",
// artist "Artist i%3" and is unrated.
func CatalogCSV(n int) string {
	var b strings.Builder
	b.WriteString("index,id,title,artist,duration_ms,star_rating\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d,song-%d,Song %d,Artist %d,%d,-1\n", i-1, i, i, i%3, 180000+i)
	}
	return b.String()
}

// WriteCatalog writes contents to catalog.csv in a fresh temporary directory and returns its path.
func WriteCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write catalog %s: %v", path, err)
	}
	return path
}

// MemoryPersister keeps the table in memory and counts saves.
type MemoryPersister struct {
	mu    sync.Mutex
	table *models.Table
	saves int
}

func NewMemoryPersister(table *models.Table) *MemoryPersister {
	return &MemoryPersister{table: table}
}

func (m *MemoryPersister) Load() (*models.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.Clone(), nil
}

func (m *MemoryPersister) Save(table *models.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = table.Clone()
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Table returns a copy of the last saved table.
func (m *MemoryPersister) Table() *models.Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.Clone()
}

// FailingPersister loads a fixed table and fails every save.
type FailingPersister struct {
	table *models.Table
}

func NewFailingPersister(table *models.Table) *FailingPersister {
	return &FailingPersister{table: table}
}

func (f *FailingPersister) Load() (*models.Table, error) { return f.table.Clone(), nil }
func (f *FailingPersister) Save(*models.Table) error     { return ErrSaveFailed }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// NewTable builds a table with the required columns from (id, title, rating) triples.
func NewTable(rows ...[3]any) *models.Table {
	table := &models.Table{Columns: []string{models.FieldID, models.FieldTitle, models.FieldRating}}
	for _, row := range rows {
		song := models.NewSong()
		song.Set(models.FieldID, row[0])
		song.Set(models.FieldTitle, row[1])
		song.SetRating(row[2].(int))
		table.Songs = append(table.Songs, song)
	}
	return table
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
