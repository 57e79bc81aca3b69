package repositories

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/desertthunder/songs/internal/formatter"
	"github.com/desertthunder/songs/internal/models"
	"github.com/desertthunder/songs/internal/shared"
	"github.com/juju/utils/v4"
)

// Persister loads and saves the whole song table.
type Persister interface {
	Load() (*models.Table, error)
	Save(table *models.Table) error
}

// FileStore persists the table as a CSV file.
type FileStore struct {
	path string
}

// NewFileStore creates a [FileStore] for the CSV file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the table file.
func (s *FileStore) Load() (*models.Table, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", s.path, err)
	}

	table, err := formatter.DecodeTable(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode table %s: %w", s.path, err)
	}

	return table, nil
}

// Save encodes the table and replaces the file atomically: the new content is written to a
// temporary file in the same directory and renamed over the old one.
func (s *FileStore) Save(table *models.Table) error {
	data, err := formatter.ExportToCSV(table)
	if err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}

	perms := os.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		perms = info.Mode().Perm()
	}

	if err := utils.AtomicWriteFile(s.path, data, perms); err != nil {
		return fmt.Errorf("failed to write table %s: %w", s.path, err)
	}

	return nil
}

// SongRepository owns the in-memory song table.
//
// A single RWMutex guards both the table and its persisted copy: readers share the lock, while
// an update holds it exclusively across the mutation and the save.
type SongRepository struct {
	mu        sync.RWMutex
	table     *models.Table
	persister Persister
}

// NewSongRepository loads the table through p.
func NewSongRepository(p Persister) (*SongRepository, error) {
	table, err := p.Load()
	if err != nil {
		return nil, err
	}

	return &SongRepository{table: table, persister: p}, nil
}

// Len returns the number of songs.
func (r *SongRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table.Len()
}

// View runs fn with shared access to the table. fn must not modify the table or retain rows.
func (r *SongRepository) View(fn func(table *models.Table) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(r.table)
}

// Update runs fn with exclusive access and then saves the table.
//
// When fn returns an error nothing is saved. When fn or the save fails the in-memory table is
// restored, so memory never diverges from disk. Save failures wrap [shared.ErrPersistence].
func (r *SongRepository) Update(fn func(table *models.Table) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.table.Clone()

	if err := fn(r.table); err != nil {
		r.table = snapshot
		return err
	}

	if err := r.persister.Save(r.table); err != nil {
		r.table = snapshot
		return fmt.Errorf("%w: %v", shared.ErrPersistence, err)
	}

	return nil
}

// Snapshot returns a deep copy of the current table.
func (r *SongRepository) Snapshot() *models.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table.Clone()
}
