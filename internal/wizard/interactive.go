package wizard

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/tessro/serenade/internal/core"
	"golang.org/x/term"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled    bool
	searchFunc SearchFunc
	songs      []core.Song
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// SetSearchFunc sets the search function for the search wizard.
func (i *Interactive) SetSearchFunc(fn SearchFunc) {
	i.searchFunc = fn
}

// SetSongs sets the songs offered by the song picker.
func (i *Interactive) SetSongs(songs []core.Song) {
	i.songs = songs
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptSearch launches the search wizard if interactive mode is available.
// Returns the selected song, or nil if cancelled or not interactive.
func (i *Interactive) PromptSearch() (*core.Song, error) {
	if !i.CanInteract() || i.searchFunc == nil {
		return nil, nil
	}
	return RunSearch(i.searchFunc)
}

// PromptSong shows a picker over the songs if interactive mode is
// available. Returns the selected song, or nil if cancelled or not
// interactive.
func (i *Interactive) PromptSong(title string) (*core.Song, error) {
	if !i.CanInteract() || len(i.songs) == 0 {
		return nil, nil
	}

	var selectedID string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description("Pick a song to play").
				Options(SongOptions(i.songs)...).
				Filtering(len(i.songs) > 8).
				Value(&selectedID),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	for idx := range i.songs {
		if i.songs[idx].ID == selectedID {
			return &i.songs[idx], nil
		}
	}
	return nil, nil
}

// SongOptions builds picker options labelled "Title — Artist (m:ss)".
func SongOptions(songs []core.Song) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(songs))
	for _, s := range songs {
		options = append(options, huh.NewOption(songLabel(s), s.ID))
	}
	return options
}

func songLabel(s core.Song) string {
	label := s.Title
	if s.Artist != "" {
		label += " — " + s.Artist
	}
	if s.Duration > 0 {
		d := int(s.Duration)
		label += fmt.Sprintf(" (%d:%02d)", d/60, d%60)
	}
	return label
}

// NeedsSong returns true if a song argument is required but missing.
func NeedsSong(args []string) bool {
	return len(args) == 0
}
