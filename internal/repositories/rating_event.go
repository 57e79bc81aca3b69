package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/songs/internal/models"
	"github.com/desertthunder/songs/internal/shared"
)

var _ models.EventLog[*models.RatingEvent] = (*RatingEventRepository)(nil)

// RatingEventRepository implements [models.EventLog] for [models.RatingEvent] persistence.
type RatingEventRepository struct {
	db *sql.DB
}

// NewRatingEventRepository creates a new [RatingEventRepository] with the given database connection
func NewRatingEventRepository(db *sql.DB) *RatingEventRepository {
	return &RatingEventRepository{db: db}
}

// Create inserts a rating event with a generated ID
func (r *RatingEventRepository) Create(event *models.RatingEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO rating_events (id, song_id, previous_rating, rating, created_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, id, event.SongID(), event.Previous(), event.Rating(), event.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert rating event: %w", err)
	}

	event.SetID(id)
	return nil
}

// Get retrieves a rating event by ID
func (r *RatingEventRepository) Get(id string) (*models.RatingEvent, error) {
	query := `
		SELECT id, song_id, previous_rating, rating, created_at
		FROM rating_events
		WHERE id = ?
	`

	event, err := scanEvent(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: rating event %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rating event: %w", err)
	}

	return event, nil
}

// List retrieves rating events newest first.
//
// Supported criteria: "song_id" (string) filters by song, "limit" (int) caps the result.
func (r *RatingEventRepository) List(criteria map[string]any) ([]*models.RatingEvent, error) {
	query := `
		SELECT id, song_id, previous_rating, rating, created_at
		FROM rating_events
		WHERE 1 = 1
	`

	args := []any{}

	if songID, ok := criteria["song_id"].(string); ok && songID != "" {
		query += " AND song_id = ?"
		args = append(args, songID)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating events: %w", err)
	}
	defer rows.Close()

	var events []*models.RatingEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*models.RatingEvent, error) {
	var (
		id        string
		songID    string
		previous  int
		rating    int
		createdAt time.Time
	)

	if err := s.Scan(&id, &songID, &previous, &rating, &createdAt); err != nil {
		return nil, err
	}

	event := models.NewRatingEvent(songID, previous, rating)
	event.SetID(id)
	event.SetCreatedAt(createdAt)
	return event, nil
}
