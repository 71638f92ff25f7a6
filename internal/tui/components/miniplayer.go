package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/serenade/internal/core"
	"github.com/tessro/serenade/internal/tui/styles"
)

// MiniPlayerRows is the height of the mini player overlay.
const MiniPlayerRows = 2

// MiniPlayer is the compact player docked at the bottom of non-player
// screens while a song is loaded.
type MiniPlayer struct{}

// NewMiniPlayer creates a new MiniPlayer component
func NewMiniPlayer() *MiniPlayer {
	return &MiniPlayer{}
}

// Visible reports whether the mini player should be shown.
func (p *MiniPlayer) Visible(state core.PlaybackState, onPlayer bool) bool {
	return state.HasSong() && !onPlayer
}

// Render renders a thin progress line and a title row.
func (p *MiniPlayer) Render(state core.PlaybackState, width int) string {
	song := state.CurrentSong
	if song == nil {
		return ""
	}

	progress := styles.ProgressBar(state.Progress(), width)

	hints := styles.Dim.Render("space ⏯  o open")
	hintsWidth := lipgloss.Width(hints)

	available := width - 4 - hintsWidth - 2
	info := song.Title
	if song.Artist != "" {
		info += " — " + song.Artist
	}
	info = styles.Truncate(info, available)

	left := " " + styles.StatusIcon(state.IsPlaying) + " " + styles.Title.Render(info)
	gap := max(width-lipgloss.Width(left)-hintsWidth-1, 1)

	return progress + "\n" + left + strings.Repeat(" ", gap) + hints
}
