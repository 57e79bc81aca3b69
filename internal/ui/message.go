package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songs/internal/models"
	"github.com/desertthunder/songs/internal/services"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPageFetched MsgKind = iota
	MsgRatingUpdated
	MsgHistoryFetched
)

type pageFetched struct {
	page *services.Page
	err  error
}

type ratingUpdated struct {
	song   *models.Song
	rating int
	err    error
}

type historyFetched struct {
	events []*models.RatingEvent
	err    error
}

// pageFetchedMsg is the constructor for [MsgPageFetched]
func pageFetchedMsg(page *services.Page, err error) Msg {
	return Msg{kind: MsgPageFetched, data: pageFetched{page, err}}
}

// ratingUpdatedMsg is the constructor for [MsgRatingUpdated]
func ratingUpdatedMsg(song *models.Song, rating int, err error) Msg {
	return Msg{kind: MsgRatingUpdated, data: ratingUpdated{song, rating, err}}
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]
func historyFetchedMsg(events []*models.RatingEvent, err error) Msg {
	return Msg{kind: MsgHistoryFetched, data: historyFetched{events, err}}
}
