package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/tessro/serenade/internal/core"
	"github.com/tessro/serenade/internal/tui/styles"
)

// PlaylistHeader is the summary shown above the song list.
type PlaylistHeader struct {
	Title    string
	Count    int
	Duration float64 // seconds
}

// Playlist displays the catalog as a selectable list with a filter.
type Playlist struct {
	songs     []core.Song
	cursor    int
	offset    int
	input     textinput.Model
	filtering bool
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	ti := textinput.New()
	ti.Placeholder = "Filter by title or artist..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 40

	return &Playlist{input: ti}
}

// SetSongs replaces the visible songs, keeping the cursor in range.
func (p *Playlist) SetSongs(songs []core.Song) {
	p.songs = songs
	if p.cursor >= len(songs) {
		p.cursor = max(len(songs)-1, 0)
	}
}

// Songs returns the visible songs.
func (p *Playlist) Songs() []core.Song {
	return p.songs
}

// Down moves the cursor down
func (p *Playlist) Down() {
	if p.cursor < len(p.songs)-1 {
		p.cursor++
	}
}

// Up moves the cursor up
func (p *Playlist) Up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// Cursor returns the cursor index
func (p *Playlist) Cursor() int {
	return p.cursor
}

// SetCursor moves the cursor to index i when it is in range.
func (p *Playlist) SetCursor(i int) {
	if i >= 0 && i < len(p.songs) {
		p.cursor = i
	}
}

// Selected returns the song under the cursor.
func (p *Playlist) Selected() (core.Song, bool) {
	if p.cursor < 0 || p.cursor >= len(p.songs) {
		return core.Song{}, false
	}
	return p.songs[p.cursor], true
}

// StartFilter focuses the filter input.
func (p *Playlist) StartFilter() tea.Cmd {
	p.filtering = true
	return p.input.Focus()
}

// StopFilter blurs the filter input. With clear the query is dropped.
func (p *Playlist) StopFilter(clear bool) {
	p.filtering = false
	p.input.Blur()
	if clear {
		p.input.SetValue("")
	}
}

// Filtering reports whether the filter input has focus.
func (p *Playlist) Filtering() bool {
	return p.filtering
}

// Query returns the filter text.
func (p *Playlist) Query() string {
	return p.input.Value()
}

// Update forwards a message to the filter input.
func (p *Playlist) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// Render renders the playlist screen
func (p *Playlist) Render(header PlaylistHeader, currentID string, playing bool, width, height int) string {
	title := styles.PanelTitle(header.Title, true)
	summary := styles.Muted.Render(fmt.Sprintf("%d songs · %s", header.Count, FormatTime(header.Duration)))

	filter := styles.Dim.Render("/ to filter")
	if p.filtering || p.input.Value() != "" {
		filter = p.input.View()
	}

	var content string
	if len(p.songs) == 0 {
		if p.input.Value() != "" {
			content = styles.Muted.Render("No songs match")
		} else {
			content = styles.Muted.Render("No songs yet")
		}
	} else {
		content = p.renderSongs(currentID, playing, width-4, height-8)
	}

	panel := styles.FocusedBorder.
		Padding(0, 1).
		Width(width - 2).
		Height(height - 2)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"  "+summary,
		"",
		content,
		"",
		filter,
	))
}

func (p *Playlist) renderSongs(currentID string, playing bool, width, maxLines int) string {
	songs := p.songs

	visibleCount := max(maxLines-1, 1) // Leave room for "more" indicator

	// Keep the cursor on screen
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+visibleCount {
		p.offset = p.cursor - visibleCount + 1
	}

	start := p.offset
	end := min(start+visibleCount, len(songs))

	lines := make([]string, 0, end-start+1)

	// Fixed overhead: "XX. " (4) + marker (2) + " — " (3) + " m:ss" (6)
	const overhead = 15

	for i := start; i < end; i++ {
		song := songs[i]

		num := fmt.Sprintf("%2d.", i+1)
		length := FormatTime(song.Duration)

		available := width - overhead
		titleLen := runewidth.StringWidth(song.Title)
		artistLen := runewidth.StringWidth(song.Artist)

		title, artist := song.Title, song.Artist
		if titleLen+artistLen > available {
			// Give artist at least 1/3 of space (min 8 cells)
			artistSpace := min(max(available/3, 8), artistLen)
			titleSpace := available - artistSpace

			title = styles.Truncate(song.Title, titleSpace)
			artist = styles.Truncate(song.Artist, artistSpace)
		}

		marker := "  "
		if song.ID == currentID {
			marker = styles.StatusIcon(playing) + " "
		}

		var line string
		if i == p.cursor {
			line = styles.Selected.Render(fmt.Sprintf("%s ", num)) + marker +
				styles.Selected.Render(fmt.Sprintf("%s — %s", title, artist)) +
				styles.Dim.Render(" "+length)
		} else {
			line = styles.Dim.Render(num+" ") + marker +
				fmt.Sprintf("%s — %s", title, styles.Muted.Render(artist)) +
				styles.Dim.Render(" "+length)
		}

		lines = append(lines, line)
	}

	if end < len(songs) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(songs)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
