package formatter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/songs/internal/models"
	"github.com/desertthunder/songs/internal/shared"
)

const sampleTable = `index,id,title,danceability,explicit,star_rating
0,5vYA1mW9g2Coh1HUFUSmlb,3AM,0.521,False,-1
1,2klCjJcucgGQysgH170npL,4 Walls,0.735,False,3
2,093PI3mdUvOSlvMYDwnV1e,Yesterday,,True,
`

func decodeSample(t *testing.T) *models.Table {
	t.Helper()
	table, err := DecodeTable(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("DecodeTable failed: %v", err)
	}
	return table
}

func TestDecodeTable(t *testing.T) {
	t.Run("drops the index column and types cells", func(t *testing.T) {
		table := decodeSample(t)

		wantColumns := []string{"id", "title", "danceability", "explicit", "star_rating"}
		if strings.Join(table.Columns, ",") != strings.Join(wantColumns, ",") {
			t.Errorf("columns = %v, want %v", table.Columns, wantColumns)
		}

		if table.Len() != 3 {
			t.Fatalf("expected 3 songs, got %d", table.Len())
		}

		first := table.Songs[0]
		if first.ID() != "5vYA1mW9g2Coh1HUFUSmlb" || first.Title() != "3AM" {
			t.Errorf("unexpected first song %s / %s", first.ID(), first.Title())
		}
		if v, _ := first.Get("danceability"); v != 0.521 {
			t.Errorf("danceability = %#v, want 0.521", v)
		}
		if v, _ := first.Get("explicit"); v != false {
			t.Errorf("explicit = %#v, want false", v)
		}
		if _, ok := first.Get(IndexColumn); ok {
			t.Error("index column should not be a song field")
		}

		if table.Songs[1].Rating() != 3 {
			t.Errorf("expected rating 3, got %d", table.Songs[1].Rating())
		}
		if table.Songs[2].Rating() != models.Unrated {
			t.Errorf("empty rating should load as unrated, got %d", table.Songs[2].Rating())
		}
		if v, ok := table.Songs[2].Get("danceability"); !ok || v != nil {
			t.Errorf("empty cell should load as nil, got %#v", v)
		}
	})

	t.Run("unnamed index column", func(t *testing.T) {
		table, err := DecodeTable(strings.NewReader(",id,title,star_rating\n0,1,One,2\n"))
		if err != nil {
			t.Fatalf("DecodeTable failed: %v", err)
		}
		if table.Columns[0] != "id" {
			t.Errorf("expected index to be dropped, columns = %v", table.Columns)
		}
		if table.Songs[0].ID() != "1" {
			t.Errorf("expected id 1, got %s", table.Songs[0].ID())
		}
	})

	t.Run("table without index column", func(t *testing.T) {
		table, err := DecodeTable(strings.NewReader("id,title,star_rating\na,One,-1\n"))
		if err != nil {
			t.Fatalf("DecodeTable failed: %v", err)
		}
		if len(table.Columns) != 3 {
			t.Errorf("expected 3 columns, got %v", table.Columns)
		}
	})

	t.Run("header only", func(t *testing.T) {
		table, err := DecodeTable(strings.NewReader("index,id,title,star_rating\n"))
		if err != nil {
			t.Fatalf("DecodeTable failed: %v", err)
		}
		if table.Len() != 0 {
			t.Errorf("expected empty table, got %d rows", table.Len())
		}
	})

	t.Run("malformed", func(t *testing.T) {
		tc := []struct {
			name  string
			input string
		}{
			{name: "empty file", input: ""},
			{name: "missing id column", input: "index,title,star_rating\n0,a,1\n"},
			{name: "missing title column", input: "index,id,star_rating\n0,a,1\n"},
			{name: "missing rating column", input: "index,id,title\n0,a,b\n"},
			{name: "duplicate column", input: "index,id,title,title,star_rating\n0,a,b,c,1\n"},
			{name: "ragged row", input: "index,id,title,star_rating\n0,a,b\n"},
			{name: "non-integer rating", input: "index,id,title,star_rating\n0,a,b,4.5\n"},
			{name: "rating out of domain", input: "index,id,title,star_rating\n0,a,b,9\n"},
			{name: "bad quoting", input: "index,id,title,star_rating\n0,a,\"b,1\n"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := DecodeTable(strings.NewReader(tt.input))
				if !errors.Is(err, shared.ErrMalformedTable) {
					t.Errorf("expected ErrMalformedTable, got %v", err)
				}
			})
		}
	})
}

func TestEncodeTable(t *testing.T) {
	t.Run("round trip is byte-for-byte", func(t *testing.T) {
		table := decodeSample(t)

		var buf bytes.Buffer
		if err := EncodeTable(&buf, table); err != nil {
			t.Fatalf("EncodeTable failed: %v", err)
		}

		want := strings.Replace(sampleTable, "Yesterday,,True,\n", "Yesterday,,True,-1\n", 1)
		if buf.String() != want {
			t.Errorf("EncodeTable() =\n%s\nwant\n%s", buf.String(), want)
		}
	})

	t.Run("regenerates the index", func(t *testing.T) {
		table, err := DecodeTable(strings.NewReader("index,id,title,star_rating\n7,a,A,1\n3,b,B,2\n"))
		if err != nil {
			t.Fatalf("DecodeTable failed: %v", err)
		}

		data, err := ExportToCSV(table)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		if string(data) != "index,id,title,star_rating\n0,a,A,1\n1,b,B,2\n" {
			t.Errorf("unexpected CSV:\n%s", data)
		}
	})

	t.Run("quotes cells with commas", func(t *testing.T) {
		song := models.NewSong()
		song.Set("id", "x")
		song.Set("title", "Hello, Goodbye")
		song.SetRating(5)
		table := &models.Table{Columns: []string{"id", "title", "star_rating"}, Songs: []*models.Song{song}}

		data, err := ExportToCSV(table)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), `"Hello, Goodbye"`) {
			t.Errorf("expected quoted title, got %s", data)
		}

		back, err := DecodeTable(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("DecodeTable failed: %v", err)
		}
		if back.Songs[0].Title() != "Hello, Goodbye" {
			t.Errorf("title did not survive round trip: %s", back.Songs[0].Title())
		}
	})
}

func TestExporters(t *testing.T) {
	table := decodeSample(t)

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(table)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Songs") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Songs**: 3") {
			t.Errorf("Markdown missing song count")
		}
		if !strings.Contains(output, "**Rated**: 1") {
			t.Errorf("Markdown missing rated count")
		}
		if !strings.Contains(output, "2. 4 Walls `2klCjJcucgGQysgH170npL` ★★★☆☆") {
			t.Errorf("Markdown missing rated song line, got:\n%s", output)
		}
		if !strings.Contains(output, "1. 3AM `5vYA1mW9g2Coh1HUFUSmlb` -") {
			t.Errorf("Markdown missing unrated song line, got:\n%s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(table)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Songs: 3") {
			t.Errorf("text missing song count")
		}
		if !strings.Contains(output, "2. 4 Walls [2klCjJcucgGQysgH170npL] 3/5") {
			t.Errorf("text missing rated line, got:\n%s", output)
		}
		if !strings.Contains(output, "3. Yesterday [093PI3mdUvOSlvMYDwnV1e] unrated") {
			t.Errorf("text missing unrated line, got:\n%s", output)
		}
	})

	t.Run("Export", func(t *testing.T) {
		for _, format := range []string{"csv", "markdown", "md", "text", "txt", "CSV"} {
			if _, err := Export(table, format); err != nil {
				t.Errorf("Export(%q) failed: %v", format, err)
			}
		}

		if _, err := Export(table, "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for xml, got %v", err)
		}
	})
}

func TestStars(t *testing.T) {
	tc := []struct {
		rating int
		stars  string
		label  string
	}{
		{rating: -1, stars: "-", label: "unrated"},
		{rating: 0, stars: "☆☆☆☆☆", label: "0/5"},
		{rating: 5, stars: "★★★★★", label: "5/5"},
	}

	for _, tt := range tc {
		if got := Stars(tt.rating); got != tt.stars {
			t.Errorf("Stars(%d) = %q, want %q", tt.rating, got, tt.stars)
		}
		if got := RatingLabel(tt.rating); got != tt.label {
			t.Errorf("RatingLabel(%d) = %q, want %q", tt.rating, got, tt.label)
		}
	}
}
