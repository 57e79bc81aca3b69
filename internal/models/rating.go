package models

import (
	"encoding/json"
	"fmt"
	"time"
)

var _ Model = (*RatingEvent)(nil)

// RatingEvent records one applied rating change for one row.
type RatingEvent struct {
	id        string
	songID    string
	previous  int
	rating    int
	createdAt time.Time
}

// NewRatingEvent creates an unsaved [RatingEvent]; the repository assigns its ID.
func NewRatingEvent(songID string, previous, rating int) *RatingEvent {
	return &RatingEvent{
		songID:    songID,
		previous:  previous,
		rating:    rating,
		createdAt: time.Now().UTC(),
	}
}

func (e *RatingEvent) ID() string           { return e.id }
func (e *RatingEvent) SongID() string       { return e.songID }
func (e *RatingEvent) Previous() int        { return e.previous }
func (e *RatingEvent) Rating() int          { return e.rating }
func (e *RatingEvent) CreatedAt() time.Time { return e.createdAt }

func (e *RatingEvent) SetID(id string)          { e.id = id }
func (e *RatingEvent) SetCreatedAt(t time.Time) { e.createdAt = t }

// Validate checks the song id and that both ratings are inside the stored domain.
func (e *RatingEvent) Validate() error {
	if e.songID == "" {
		return fmt.Errorf("song id is required")
	}
	if e.rating < MinRating || e.rating > MaxRating {
		return fmt.Errorf("rating %d out of range", e.rating)
	}
	if e.previous < Unrated || e.previous > MaxRating {
		return fmt.Errorf("previous rating %d out of range", e.previous)
	}
	return nil
}

func (e *RatingEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string    `json:"id"`
		SongID    string    `json:"song_id"`
		Previous  int       `json:"previous_rating"`
		Rating    int       `json:"rating"`
		CreatedAt time.Time `json:"created_at"`
	}{e.id, e.songID, e.previous, e.rating, e.createdAt})
}
