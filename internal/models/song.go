package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Reserved column names and rating bounds.
const (
	FieldID     = "id"
	FieldTitle  = "title"
	FieldRating = "star_rating"

	Unrated   = -1
	MinRating = 0
	MaxRating = 5
)

// RequiredColumns lists the columns every catalog table must carry.
var RequiredColumns = []string{FieldID, FieldTitle, FieldRating}

// Song is a single catalog row.
//
// Fields keep the order they were set in, which is the table's column order. Values are one of
// nil, string, int64, float64 or bool; columns other than id, title and star_rating are carried
// through untouched.
type Song struct {
	keys   []string
	values map[string]any
}

// NewSong creates an empty [Song].
func NewSong() *Song {
	return &Song{values: make(map[string]any)}
}

// Set assigns a field, appending the key if it is new.
func (s *Song) Set(key string, value any) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the raw value of a field.
func (s *Song) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the field names in order.
func (s *Song) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// ID returns the string form of the id field.
func (s *Song) ID() string {
	return FormatValue(s.values[FieldID])
}

// Title returns the string form of the title field.
func (s *Song) Title() string {
	return FormatValue(s.values[FieldTitle])
}

// Rating returns the star rating, or [Unrated] when the field is absent or not an integer.
func (s *Song) Rating() int {
	switch v := s.values[FieldRating].(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return Unrated
	}
}

// SetRating replaces the star rating.
func (s *Song) SetRating(rating int) {
	s.Set(FieldRating, int64(rating))
}

// Clone returns a deep copy. Values are immutable scalars so copying the map is enough.
func (s *Song) Clone() *Song {
	c := &Song{
		keys:   make([]string, len(s.keys)),
		values: make(map[string]any, len(s.values)),
	}
	copy(c.keys, s.keys)
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON encodes the song as an object whose keys follow column order.
func (s *Song) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table is the full catalog: the field columns (without the positional index) and every row.
type Table struct {
	Columns []string
	Songs   []*Song
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Songs)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: make([]string, len(t.Columns)),
		Songs:   make([]*Song, len(t.Songs)),
	}
	copy(c.Columns, t.Columns)
	for i, song := range t.Songs {
		c.Songs[i] = song.Clone()
	}
	return c
}

// ParseValue infers a cell's type: empty is nil, then integer, float, True/False, falling back to the raw string.
func ParseValue(cell string) any {
	if cell == "" {
		return nil
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	switch cell {
	case "True":
		return true
	case "False":
		return false
	}
	return cell
}

// FormatValue renders a value the way [ParseValue] reads it back.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".") {
			s += ".0"
		}
		return s
	case bool:
		if v {
			return "True"
		}
		return "False"
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
