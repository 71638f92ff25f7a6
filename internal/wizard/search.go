package wizard

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/tessro/serenade/internal/catalog"
	"github.com/tessro/serenade/internal/core"
	"github.com/tessro/serenade/internal/tui/styles"
)

// SearchType represents the field a search matches against.
type SearchType int

const (
	SearchAll SearchType = iota
	SearchTitles
	SearchArtists
	SearchLyrics
)

var searchTabs = []string{"All", "Titles", "Artists", "Lyrics"}

// SearchResult represents a search result item.
type SearchResult struct {
	Song    core.Song
	Snippet string // matching lyric line, if any
}

// SearchFunc is a function that performs a search.
type SearchFunc func(query string, searchType SearchType) ([]SearchResult, error)

// CatalogSearch returns a SearchFunc over the songs in c.
func CatalogSearch(c *catalog.Catalog) SearchFunc {
	fields := map[SearchType]catalog.Field{
		SearchAll:     catalog.FieldAny,
		SearchTitles:  catalog.FieldTitle,
		SearchArtists: catalog.FieldArtist,
		SearchLyrics:  catalog.FieldLyrics,
	}
	return func(query string, searchType SearchType) ([]SearchResult, error) {
		songs := c.Search(query, fields[searchType])
		return lo.Map(songs, func(s core.Song, _ int) SearchResult {
			r := SearchResult{Song: s}
			if searchType == SearchAll || searchType == SearchLyrics {
				if line, ok := lo.Find(s.Lyrics, func(l core.LyricLine) bool {
					return strings.Contains(strings.ToLower(l.Text), strings.ToLower(query))
				}); ok {
					r.Snippet = line.Text
				}
			}
			return r
		}), nil
	}
}

// SearchModel is the bubbletea model for the search wizard.
type SearchModel struct {
	input      textinput.Model
	results    []SearchResult
	cursor     int
	searchType SearchType
	searchFunc SearchFunc
	selected   *core.Song
	err        error
	debounce   time.Duration
	lastQuery  string
	searching  bool
	width      int
	height     int
}

// NewSearchModel creates a new search wizard model.
func NewSearchModel(searchFunc SearchFunc) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Search titles, artists, lyrics..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return SearchModel{
		input:      ti,
		searchFunc: searchFunc,
		debounce:   150 * time.Millisecond,
		searchType: SearchAll,
		width:      80,
		height:     20,
	}
}

// Init initializes the model.
func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// debounceMsg is sent after the debounce period.
type debounceMsg struct {
	query string
}

// searchResultsMsg contains search results.
type searchResultsMsg struct {
	query   string
	results []SearchResult
	err     error
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if len(m.results) > 0 && m.cursor < len(m.results) {
				song := m.results[m.cursor].Song
				m.selected = &song
				return m, tea.Quit
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil

		case "tab":
			m.searchType = (m.searchType + 1) % SearchType(len(searchTabs))
			return m, m.doSearch(m.input.Value())

		case "shift+tab":
			if m.searchType == 0 {
				m.searchType = SearchType(len(searchTabs) - 1)
			} else {
				m.searchType--
			}
			return m, m.doSearch(m.input.Value())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4

	case debounceMsg:
		if msg.query == m.input.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = true
			return m, m.doSearch(msg.query)
		}
		return m, nil

	case searchResultsMsg:
		// Drop results for a query the user has already typed past
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.searching = false
		m.results = msg.results
		m.err = msg.err
		m.cursor = 0
		return m, nil
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	if query := m.input.Value(); query != m.lastQuery {
		cmds = append(cmds, tea.Tick(m.debounce, func(time.Time) tea.Msg {
			return debounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

// doSearch performs the search.
func (m SearchModel) doSearch(query string) tea.Cmd {
	searchType := m.searchType
	return func() tea.Msg {
		if query == "" {
			return searchResultsMsg{query: query}
		}
		results, err := m.searchFunc(query, searchType)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

// View renders the model.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("♥ Find a song"))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, tab := range searchTabs {
		if SearchType(i) == m.searchType {
			b.WriteString(styles.Button.Padding(0, 2).Render(tab))
		} else {
			b.WriteString(styles.Dim.Padding(0, 2).Render(tab))
		}
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.ErrorText.Render("Error: " + m.err.Error()))
	case m.searching:
		b.WriteString(styles.Muted.Render("Searching..."))
	case len(m.results) == 0 && m.input.Value() != "":
		b.WriteString(styles.Muted.Render("No songs found"))
	default:
		maxResults := max(m.height-10, 5)
		for i, result := range m.results {
			if i >= maxResults {
				b.WriteString(styles.Dim.Render("  ...and more"))
				break
			}

			line := result.Song.Title
			if result.Song.Artist != "" {
				line += " " + styles.Subtitle.Render(result.Song.Artist)
			}
			if result.Snippet != "" {
				line += " " + styles.Dim.Render("“"+styles.Truncate(result.Snippet, 40)+"”")
			}

			if i == m.cursor {
				b.WriteString(styles.Selected.Render("▸ ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("↑/↓ navigate • tab switch field • enter select • esc quit"))

	return b.String()
}

// Selected returns the selected song, or nil if none.
func (m SearchModel) Selected() *core.Song {
	return m.selected
}

// RunSearch runs the search wizard and returns the selected song.
func RunSearch(searchFunc SearchFunc) (*core.Song, error) {
	model := NewSearchModel(searchFunc)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(SearchModel).Selected(), nil
}
