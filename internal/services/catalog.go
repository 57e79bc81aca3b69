package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songs/internal/formatter"
	"github.com/desertthunder/songs/internal/models"
	"github.com/desertthunder/songs/internal/repositories"
	"github.com/desertthunder/songs/internal/shared"
)

var _ Catalog = (*CatalogService)(nil)

// CatalogService implements [Catalog] over the in-memory song table.
type CatalogService struct {
	songs   *repositories.SongRepository
	history models.EventLog[*models.RatingEvent]
	logger  *log.Logger
}

// CatalogOpts contains the dependencies of a [CatalogService]. History may be nil.
type CatalogOpts struct {
	Songs   *repositories.SongRepository
	History models.EventLog[*models.RatingEvent]
	Logger  *log.Logger
}

// NewCatalogService creates a [CatalogService].
func NewCatalogService(opts CatalogOpts) *CatalogService {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &CatalogService{
		songs:   opts.Songs,
		history: opts.History,
		logger:  opts.Logger,
	}
}

// ParsePageParams converts raw page and limit values.
//
// Surrounding whitespace and a leading sign are accepted. Integers too large for int saturate
// rather than failing, so they are still classified by sign.
func ParsePageParams(page, limit string) (int, int, error) {
	p, err := parseInt(page)
	if err != nil {
		return 0, 0, shared.ErrParameterNotInteger
	}
	l, err := parseInt(limit)
	if err != nil {
		return 0, 0, shared.ErrParameterNotInteger
	}
	if p <= 0 || l <= 0 {
		return 0, 0, shared.ErrParameterNotPositive
	}
	return p, l, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(strings.TrimSpace(s), "-") {
			return math.MinInt, nil
		}
		return math.MaxInt, nil
	}
	return n, err
}

// ValidateRating checks that v is an integer rating between [models.MinRating] and [models.MaxRating].
//
// Accepted inputs are int, int64 and [json.Number] values written without a fraction or exponent.
// Anything else (strings, floats, booleans, nil) is [shared.ErrInvalidInput]; integers outside the
// range are [shared.ErrInvalidRange].
func ValidateRating(v any) (int, error) {
	var n int64
	switch v := v.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case json.Number:
		s := v.String()
		if strings.ContainsAny(s, ".eE") {
			return 0, fmt.Errorf("%w: rating %s is not an integer", shared.ErrInvalidInput, s)
		}
		i, err := v.Int64()
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: rating %s", shared.ErrInvalidRange, s)
		}
		if err != nil {
			return 0, fmt.Errorf("%w: rating %s is not an integer", shared.ErrInvalidInput, s)
		}
		n = i
	case nil:
		return 0, fmt.Errorf("%w: rating is required", shared.ErrInvalidInput)
	default:
		return 0, fmt.Errorf("%w: rating must be an integer, got %T", shared.ErrInvalidInput, v)
	}

	if n < models.MinRating || n > models.MaxRating {
		return 0, fmt.Errorf("%w: rating %d", shared.ErrInvalidRange, n)
	}
	return int(n), nil
}

// ListPage returns rows [(page-1)*limit, min(page*limit, total)) in table order.
func (s *CatalogService) ListPage(ctx context.Context, page, limit int) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page <= 0 || limit <= 0 {
		return nil, shared.ErrParameterNotPositive
	}

	result := &Page{Number: page, Limit: limit}
	err := s.songs.View(func(table *models.Table) error {
		total := table.Len()
		result.Total = total

		maxPage := total / limit
		if total%limit != 0 {
			maxPage++
		}

		// (page-1)*limit >= total exactly when page-1 >= maxPage; comparing pages avoids overflow.
		if page-1 >= maxPage {
			result.OutOfBounds = &OutOfBounds{
				Message:  OutOfBoundsMessage,
				MaxLimit: total,
				MaxPage:  maxPage,
			}
			return nil
		}

		start := (page - 1) * limit
		end := start + min(limit, total-start)
		for _, song := range table.Songs[start:end] {
			result.Songs = append(result.Songs, song.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.OutOfBounds == nil && len(result.Songs) == 0 {
		return nil, fmt.Errorf("%w: no songs on page %d", shared.ErrNotFound, page)
	}

	return result, nil
}

// FindByTitle returns copies of every song whose title equals title ignoring case.
func (s *CatalogService) FindByTitle(ctx context.Context, title string) ([]*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	want := strings.ToLower(title)

	var matches []*models.Song
	_ = s.songs.View(func(table *models.Table) error {
		for _, song := range table.Songs {
			if strings.ToLower(song.Title()) == want {
				matches = append(matches, song.Clone())
			}
		}
		return nil
	})

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: song titled %q", shared.ErrNotFound, title)
	}

	return matches, nil
}

// UpdateRating sets the star rating of every song whose id equals id and saves the table.
//
// Nothing is written when validation fails or no song matches.
func (s *CatalogService) UpdateRating(ctx context.Context, id string, rating any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := ValidateRating(rating)
	if err != nil {
		return err
	}

	var events []*models.RatingEvent
	err = s.songs.Update(func(table *models.Table) error {
		events = events[:0]
		for _, song := range table.Songs {
			if song.ID() != id {
				continue
			}
			events = append(events, models.NewRatingEvent(id, song.Rating(), value))
			song.SetRating(value)
		}
		if len(events) == 0 {
			return fmt.Errorf("%w: song id %s", shared.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(events) > 1 {
		s.logger.Warn("rating applied to duplicate song ids", "id", id, "rows", len(events))
	}

	s.record(events)
	return nil
}

// record appends events to the history. The table is already saved, so failures are only logged.
func (s *CatalogService) record(events []*models.RatingEvent) {
	if s.history == nil {
		return
	}
	for _, event := range events {
		if err := s.history.Create(event); err != nil {
			s.logger.Warn("failed to record rating event", "id", event.SongID(), "error", err)
		}
	}
}

// History lists rating events newest first. An empty songID lists every song; limit <= 0 means no limit.
func (s *CatalogService) History(ctx context.Context, songID string, limit int) ([]*models.RatingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.history == nil {
		return nil, shared.ErrHistoryDisabled
	}

	criteria := map[string]any{}
	if songID != "" {
		criteria["song_id"] = songID
	}
	if limit > 0 {
		criteria["limit"] = limit
	}

	return s.history.List(criteria)
}

// Count returns the number of songs in the table.
func (s *CatalogService) Count() int {
	return s.songs.Len()
}

// Export renders a snapshot of the table in the given format.
func (s *CatalogService) Export(ctx context.Context, format string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return formatter.Export(s.songs.Snapshot(), format)
}
