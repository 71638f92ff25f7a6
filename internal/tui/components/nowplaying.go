package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tessro/serenade/internal/core"
	"github.com/tessro/serenade/internal/tui/styles"
)

// Player screen geometry. Rows are counted from the top of the screen.
const (
	PlayerIndent     = 2
	playerHeaderRows = 6 // title block above the lyrics
	playerFooterRows = 4 // blank, progress, blank, controls
)

// PlayerLyricRows returns how many lyric rows fit in a player screen of
// height rows.
func PlayerLyricRows(height int) int {
	return max(height-playerHeaderRows-playerFooterRows, 1)
}

// PlayerProgressRow returns the row of the progress bar in a player screen
// of height rows.
func PlayerProgressRow(height int) int {
	return playerHeaderRows + PlayerLyricRows(height) + 1
}

// PlayerProps is what the player screen shows.
type PlayerProps struct {
	Song     *core.Song
	State    core.PlaybackState
	Position float64 // shown position; differs from State while dragging
	Loading  bool
	Spinner  string
	Repeat   bool
	Liked    bool
	Skip     int // seconds per skip
}

// NowPlaying displays the player screen
type NowPlaying struct {
	lyrics *Lyrics
}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{lyrics: NewLyrics()}
}

// Render renders the player screen as height lines.
func (n *NowPlaying) Render(props PlayerProps, width, height int) string {
	indent := strings.Repeat(" ", PlayerIndent)
	inner := width - 2*PlayerIndent
	song := props.Song

	lines := make([]string, 0, height)
	lines = append(lines,
		styles.PanelTitle("Now Playing", true)+"  "+styles.Dim.Render("esc back"),
		"",
	)

	if song == nil {
		lines = append(lines, indent+styles.Muted.Render("Nothing to play"), "", "", "")
	} else {
		icon := styles.StatusIcon(props.State.IsPlaying)
		if props.Loading {
			icon = props.Spinner
		}
		heart := ""
		if props.Liked {
			heart = " " + styles.Love.Render("♥")
		}

		cover := "no cover"
		if song.CoverSrc != "" {
			cover = filepath.Base(song.CoverSrc)
		}

		lines = append(lines,
			indent+icon+" "+styles.Title.Render(styles.Truncate(song.Title, inner-4))+heart,
			indent+"  "+styles.Subtitle.Render(styles.Truncate(song.Artist, inner-2)),
			indent+"  "+styles.Dim.Render("🖼 "+styles.Truncate(cover, inner-5)),
			"",
		)
	}

	rows := PlayerLyricRows(height)
	if song != nil {
		lines = append(lines, n.lyrics.Render(song.Lyrics, props.Position, width, rows))
	} else {
		lines = append(lines, strings.Repeat("\n", rows-1))
	}

	duration := props.State.Duration
	if duration <= 0 && song != nil {
		duration = song.Duration
	}

	lines = append(lines,
		"",
		ProgressLine(PlayerIndent, width, props.Position, duration),
		"",
		styles.Center(n.renderControls(props), width),
	)

	return strings.Join(lines, "\n")
}

func (n *NowPlaying) renderControls(props PlayerProps) string {
	skip := FormatSkip(props.Skip)
	controls := styles.Dim.Render("⏪ "+skip+"   ")

	if props.State.IsPlaying {
		controls += styles.Playing.Render("⏸")
	} else {
		controls += styles.Paused.Render("▶")
	}

	controls += styles.Dim.Render("   " + skip + " ⏩")

	repeat := styles.Dim.Render("🔁 repeat")
	if props.Repeat {
		repeat = styles.Highlight.Render("🔁 repeat")
	}
	like := styles.Dim.Render("♡ like")
	if props.Liked {
		like = styles.Love.Render("♥ liked")
	}

	return controls + "     " + repeat + "  " + like
}

// FormatSkip formats a skip length like "5s".
func FormatSkip(seconds int) string {
	return fmt.Sprintf("%ds", seconds)
}
