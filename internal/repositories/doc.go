// Package repositories implements persistence for the song catalog.
//
// Key Implementations:
//   - [SongRepository] : the in-memory song table behind one reader/writer lock, saved through a [Persister]
//   - [FileStore] : the CSV [Persister], replacing the file atomically on every save
//   - [RatingEventRepository] : SQLite audit trail of applied rating changes
//
// The song table is the system of record. Every successful update rewrites the whole file while
// the write lock is held, and a failed save rolls the in-memory table back to its previous state.
package repositories
