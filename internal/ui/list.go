package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songs/internal/formatter"
	"github.com/desertthunder/songs/internal/models"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.Title() }
func (i songItem) Title() string       { return i.song.Title() }
func (i songItem) Description() string {
	desc := fmt.Sprintf("%s  %s", formatter.Stars(i.song.Rating()), i.song.ID())
	if artist, ok := i.song.Get("artist"); ok && artist != nil {
		desc = fmt.Sprintf("%s • %s", desc, models.FormatValue(artist))
	}
	return desc
}

func songItems(songs []*models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = songItem{song: song}
	}
	return items
}
