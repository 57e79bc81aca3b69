package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/songs/internal/formatter"
	"github.com/desertthunder/songs/internal/models"
	"github.com/desertthunder/songs/internal/shared"
	"github.com/urfave/cli/v3"
)

// List prints one page of songs.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	page, limit := int(cmd.Int("page")), int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")

	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	result, err := catalog.ListPage(ctx, page, limit)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if result.OutOfBounds != nil {
		if useJSON {
			return r.writeJSON(result.OutOfBounds, true)
		}
		return r.writePlain("%s (max_limit=%d, max_page=%d)\n",
			result.OutOfBounds.Message, result.OutOfBounds.MaxLimit, result.OutOfBounds.MaxPage)
	}

	if useJSON {
		return r.writeJSON(result.Songs, true)
	}

	maxPage := result.Total / limit
	if result.Total%limit != 0 {
		maxPage++
	}
	r.writePlainHeader(fmt.Sprintf("Songs • page %d of %d (%d total)", page, maxPage, result.Total))
	r.writeSongs(result.Songs)
	return nil
}

// Find prints every song whose title matches the argument.
func (r *Runner) Find(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	songs, err := catalog.FindByTitle(ctx, title)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	r.writePlainHeader(fmt.Sprintf("%d song(s) titled %q", len(songs), title))
	r.writeSongs(songs)
	return nil
}

// Rate validates and stores a rating the same way PUT /songs/{id}/rating does.
func (r *Runner) Rate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	rating := cmd.StringArg("rating")
	if id == "" || rating == "" {
		return fmt.Errorf("%w: usage: songs rate <id> <rating>", shared.ErrMissingArgument)
	}

	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	if err := catalog.UpdateRating(ctx, id, json.Number(rating)); err != nil {
		return fmt.Errorf("failed to rate %s: %w", id, err)
	}

	r.logger.Info("rating updated", "id", id, "rating", rating)
	return r.writePlain("✓ Rated %s %s/%d\n", id, rating, models.MaxRating)
}

// History prints recorded rating changes.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	events, err := catalog.History(ctx, cmd.String("id"), int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(events, true)
	}

	if len(events) == 0 {
		return r.writePlain("No rating changes recorded\n")
	}

	r.writePlainHeader(fmt.Sprintf("%d rating change(s)", len(events)))
	for _, e := range events {
		r.writePlain("%s  %-20s %s → %s\n", e.CreatedAt().Local().Format("2006-01-02 15:04:05"),
			e.SongID(), formatter.RatingLabel(e.Previous()), formatter.RatingLabel(e.Rating()))
	}
	return nil
}

// Export renders the catalog to stdout or a file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	outputPath := cmd.String("output")

	catalog, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}

	data, err := catalog.Export(ctx, format)
	if err != nil {
		return err
	}

	if outputPath == "" {
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	r.logger.Info("catalog exported", "format", format, "path", outputPath, "songs", catalog.Count())
	return r.writePlain("✓ Exported %d songs to %s\n", catalog.Count(), outputPath)
}

func (r *Runner) writeSongs(songs []*models.Song) {
	for _, song := range songs {
		r.writePlain("%-12s %s  %s\n", song.ID(), formatter.Stars(song.Rating()), song.Title())
	}
}
