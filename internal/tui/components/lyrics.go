package components

import (
	"strings"

	"github.com/tessro/serenade/internal/core"
	"github.com/tessro/serenade/internal/lyrics"
	"github.com/tessro/serenade/internal/tui/styles"
)

// Lyrics renders synced lyrics with the current line in the middle row.
type Lyrics struct{}

// NewLyrics creates a new Lyrics component
func NewLyrics() *Lyrics {
	return &Lyrics{}
}

// Render returns exactly rows lines of width cells.
func (l *Lyrics) Render(lines []core.LyricLine, position float64, width, rows int) string {
	if rows <= 0 {
		return ""
	}

	out := make([]string, rows)
	if len(lines) == 0 {
		out[rows/2] = styles.Center(styles.Dim.Render("♪ instrumental ♪"), width)
		return strings.Join(out, "\n")
	}

	current := lyrics.CurrentIndex(lines, position)
	for _, v := range lyrics.Window(lines, current, rows) {
		text := styles.Truncate(v.Text, width-4)
		if v.Emphasis == lyrics.EmphasisCurrent {
			text = "♥ " + text + " ♥"
		}
		out[v.Row] = styles.Center(styles.Lyric(v.Emphasis).Render(text), width)
	}
	return strings.Join(out, "\n")
}
