// package services defines interface Catalog and its table-backed implementation
package services

import (
	"context"

	"github.com/desertthunder/songs/internal/models"
)

// Default paging values used when a request omits them.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// OutOfBoundsMessage describes a page that starts past the end of the table.
const OutOfBoundsMessage = "No songs found, page or limit exceeds dataset bounds."

// Catalog defines the operations exposed over HTTP, the CLI and the TUI.
type Catalog interface {
	// ListPage returns the songs on a 1-based page of the given size.
	ListPage(ctx context.Context, page, limit int) (*Page, error)

	// FindByTitle returns every song whose title matches case-insensitively.
	FindByTitle(ctx context.Context, title string) ([]*models.Song, error)

	// UpdateRating validates rating and stores it on the song with the given id.
	UpdateRating(ctx context.Context, id string, rating any) error

	// History lists applied rating changes, newest first, optionally for one song.
	History(ctx context.Context, songID string, limit int) ([]*models.RatingEvent, error)

	// Count returns the number of songs.
	Count() int
}

// Page is the result of a list request. Exactly one of Songs and OutOfBounds is set.
type Page struct {
	Number      int
	Limit       int
	Total       int
	Songs       []*models.Song
	OutOfBounds *OutOfBounds
}

// OutOfBounds describes the valid range when a requested page starts past the end of the table.
type OutOfBounds struct {
	Message  string `json:"message"`
	MaxLimit int    `json:"max_limit"`
	MaxPage  int    `json:"max_page"`
}
