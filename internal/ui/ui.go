package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songs/internal/formatter"
	"github.com/desertthunder/songs/internal/models"
	"github.com/desertthunder/songs/internal/services"
	"github.com/desertthunder/songs/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongListView ViewState = iota
	DetailView
)

// historyLimit caps the events shown in [DetailView].
const historyLimit = 10

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	catalog  services.Catalog
	page     int
	limit    int
	total    int
	width    int
	height   int
	songList list.Model
	selected *models.Song
	events   []*models.RatingEvent
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model that pages through catalog limit songs at a time.
func NewModel(ctx context.Context, catalog services.Catalog, limit int) *Model {
	if limit <= 0 {
		limit = services.DefaultLimit
	}

	songList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	songList.SetFilteringEnabled(false)
	songList.SetShowHelp(false)

	return &Model{
		ctx:      ctx,
		view:     SongListView,
		catalog:  catalog,
		page:     services.DefaultPage,
		limit:    limit,
		songList: songList,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init fetches the first page.
func (m *Model) Init() tea.Cmd {
	return m.fetchPage(m.page)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SongListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPageFetched:
		data := msg.data.(pageFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		if data.page.OutOfBounds != nil {
			m.total = data.page.OutOfBounds.MaxLimit
			m.status = data.page.OutOfBounds.Message
			if data.page.OutOfBounds.MaxPage > 0 && m.page > data.page.OutOfBounds.MaxPage {
				m.page = data.page.OutOfBounds.MaxPage
				return m, m.fetchPage(m.page)
			}
			m.songList.SetItems(nil)
			return m, nil
		}
		m.page = data.page.Number
		m.total = data.page.Total

		cursor := m.songList.Index()
		m.songList.Title = fmt.Sprintf("Songs • page %d of %d", m.page, m.maxPage())
		cmd := m.songList.SetItems(songItems(data.page.Songs))
		if cursor < len(data.page.Songs) {
			m.songList.Select(cursor)
		}
		m.refreshSelected(data.page.Songs)
		return m, cmd

	case MsgRatingUpdated:
		data := msg.data.(ratingUpdated)
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Failed to rate %s: %v", data.song.Title(), data.err))
			return m, nil
		}
		m.status = styles.ok.Render(fmt.Sprintf("Rated %s %s", data.song.Title(), formatter.RatingLabel(data.rating)))
		cmds := []tea.Cmd{m.fetchPage(m.page)}
		if m.view == DetailView {
			cmds = append(cmds, m.fetchHistory(data.song.ID()))
		}
		return m, tea.Batch(cmds...)

	case MsgHistoryFetched:
		data := msg.data.(historyFetched)
		switch {
		case errors.Is(data.err, shared.ErrHistoryDisabled):
			m.events = nil
		case data.err != nil:
			m.status = styles.err.Render(fmt.Sprintf("Failed to load history: %v", data.err))
		default:
			m.events = data.events
		}
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SongListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.rate):
		if song := m.selectedSong(); song != nil {
			return m, m.rate(song, int(msg.String()[0]-'0'))
		}
		return m, nil
	case key.Matches(msg, m.keys.next):
		if m.page < m.maxPage() {
			return m, m.fetchPage(m.page + 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.prev):
		if m.page > 1 {
			return m, m.fetchPage(m.page - 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if song := m.selectedSong(); song != nil {
			m.selected = song
			m.events = nil
			m.view = DetailView
			return m, m.fetchHistory(song.ID())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = SongListView
		m.selected = nil
		m.events = nil
		return m, nil
	case key.Matches(msg, m.keys.rate):
		return m, m.rate(m.selected, int(msg.String()[0]-'0'))
	}
	return m, nil
}

func (m *Model) selectedSong() *models.Song {
	if item, ok := m.songList.SelectedItem().(songItem); ok {
		return item.song
	}
	return nil
}

// refreshSelected swaps the detail view's song for its reloaded copy.
func (m *Model) refreshSelected(songs []*models.Song) {
	if m.selected == nil {
		return
	}
	for _, song := range songs {
		if song.ID() == m.selected.ID() {
			m.selected = song
			return
		}
	}
}

func (m *Model) maxPage() int {
	if m.total == 0 {
		return 1
	}
	return (m.total + m.limit - 1) / m.limit
}

func (m *Model) fetchPage(page int) tea.Cmd {
	return func() tea.Msg {
		result, err := m.catalog.ListPage(m.ctx, page, m.limit)
		return pageFetchedMsg(result, err)
	}
}

func (m *Model) rate(song *models.Song, rating int) tea.Cmd {
	return func() tea.Msg {
		err := m.catalog.UpdateRating(m.ctx, song.ID(), rating)
		return ratingUpdatedMsg(song, rating, err)
	}
}

func (m *Model) fetchHistory(id string) tea.Cmd {
	return func() tea.Msg {
		events, err := m.catalog.History(m.ctx, id, historyLimit)
		return historyFetchedMsg(events, err)
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.rate, m.keys.next, m.keys.prev, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.songList.View(), m.status, helpView)
}

func (m *Model) renderDetail() string {
	song := m.selected
	var b strings.Builder

	b.WriteString(styles.title.Render(song.Title()))
	b.WriteString("\n")
	for _, k := range song.Keys() {
		v, _ := song.Get(k)
		value := models.FormatValue(v)
		if k == models.FieldRating {
			value = styles.star.Render(formatter.Stars(song.Rating())) + " " + formatter.RatingLabel(song.Rating())
		}
		fmt.Fprintf(&b, "%s %s\n", styles.field.Render(k), value)
	}

	if len(m.events) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render("History"))
		b.WriteString("\n")
		for _, e := range m.events {
			fmt.Fprintf(&b, "  %s  %s → %s\n", e.CreatedAt().Local().Format("2006-01-02 15:04"),
				formatter.RatingLabel(e.Previous()), formatter.RatingLabel(e.Rating()))
		}
	}

	helpKeys := []key.Binding{m.keys.rate, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", styles.detail.Render(b.String()), m.status, helpView)
}
