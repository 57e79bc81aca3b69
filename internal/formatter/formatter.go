// package formatter converts the song table to and from its on-disk CSV form and renders it for export
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/songs/internal/models"
	"github.com/desertthunder/songs/internal/shared"
)

// IndexColumn is the header of the positional row index written as the first CSV column.
const IndexColumn = "index"

// DecodeTable reads a CSV table.
//
// A leading column headed "index" (or left unnamed) is the positional index and is dropped. Cells
// are typed with [models.ParseValue]. The id, title and star_rating columns are required; an empty
// star_rating loads as unrated and any other non-integer or out-of-domain rating is rejected.
func DecodeTable(r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header", shared.ErrMalformedTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedTable, err)
	}

	offset := 0
	if len(header) > 0 && (header[0] == IndexColumn || header[0] == "") {
		offset = 1
	}
	columns := header[offset:]

	for _, required := range models.RequiredColumns {
		if !slices.Contains(columns, required) {
			return nil, fmt.Errorf("%w: missing %q column", shared.ErrMalformedTable, required)
		}
	}
	seen := make(map[string]bool, len(columns))
	for _, column := range columns {
		if seen[column] {
			return nil, fmt.Errorf("%w: duplicate %q column", shared.ErrMalformedTable, column)
		}
		seen[column] = true
	}

	table := &models.Table{Columns: slices.Clone(columns)}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformedTable, err)
		}

		song := models.NewSong()
		for i, column := range columns {
			cell := record[i+offset]
			if column == models.FieldRating {
				rating, err := parseRating(cell)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", shared.ErrMalformedTable, line, err)
				}
				song.SetRating(rating)
				continue
			}
			song.Set(column, models.ParseValue(cell))
		}
		table.Songs = append(table.Songs, song)
	}

	return table, nil
}

func parseRating(cell string) (int, error) {
	if cell == "" {
		return models.Unrated, nil
	}
	rating, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("star_rating %q is not an integer", cell)
	}
	if rating < models.Unrated || rating > models.MaxRating {
		return 0, fmt.Errorf("star_rating %d out of range", rating)
	}
	return rating, nil
}

// EncodeTable writes the table as CSV with a freshly numbered index column first.
func EncodeTable(w io.Writer, table *models.Table) error {
	writer := csv.NewWriter(w)

	header := append([]string{IndexColumn}, table.Columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range table.Songs {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(i))
		for _, column := range table.Columns {
			v, _ := song.Get(column)
			record = append(record, models.FormatValue(v))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}

	return nil
}

// ExportToCSV converts the table to its on-disk CSV form.
func ExportToCSV(table *models.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTable(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders the catalog as a Markdown document with one numbered line per song.
func ExportToMarkdown(table *models.Table) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Songs\n\n")
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", table.Len()))
	buf.WriteString(fmt.Sprintf("**Rated**: %d\n\n", countRated(table)))

	buf.WriteString("## Catalog\n\n")
	for i, song := range table.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s `%s` %s\n", i+1, song.Title(), song.ID(), Stars(song.Rating())))
	}

	return buf.Bytes(), nil
}

// ExportToText renders the catalog as plain text.
func ExportToText(table *models.Table) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs: %d\n", table.Len()))
	buf.WriteString(fmt.Sprintf("Rated: %d\n\n", countRated(table)))

	for i, song := range table.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s [%s] %s\n", i+1, song.Title(), song.ID(), RatingLabel(song.Rating())))
	}

	return buf.Bytes(), nil
}

// Export renders the table in the named format: csv, markdown (md) or text (txt).
func Export(table *models.Table, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "csv":
		return ExportToCSV(table)
	case "markdown", "md":
		return ExportToMarkdown(table)
	case "text", "txt":
		return ExportToText(table)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, format)
	}
}

// Stars draws a rating as five filled or empty stars, or a dash when unrated.
func Stars(rating int) string {
	if rating < models.MinRating || rating > models.MaxRating {
		return "-"
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", models.MaxRating-rating)
}

// RatingLabel renders a rating as "n/5" or "unrated".
func RatingLabel(rating int) string {
	if rating < models.MinRating || rating > models.MaxRating {
		return "unrated"
	}
	return fmt.Sprintf("%d/%d", rating, models.MaxRating)
}

func countRated(table *models.Table) int {
	n := 0
	for _, song := range table.Songs {
		if song.Rating() != models.Unrated {
			n++
		}
	}
	return n
}
