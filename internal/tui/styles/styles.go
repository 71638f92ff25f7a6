package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/tessro/serenade/internal/lyrics"
)

// Colors, taken from the active catppuccin flavor
var (
	Primary   lipgloss.Color // Mauve
	Accent    lipgloss.Color // Pink
	Heart     lipgloss.Color // Red
	Success   lipgloss.Color // Green
	Warning   lipgloss.Color // Peach
	Error     lipgloss.Color // Red
	Border    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color
	TextFaint lipgloss.Color
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	Love      lipgloss.Style
	ErrorText lipgloss.Style
	Button    lipgloss.Style
	Selected  lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

// Lyric line styles by emphasis
var (
	LyricCurrent lipgloss.Style
	LyricNear    lipgloss.Style
	LyricFaint   lipgloss.Style
	LyricMinimal lipgloss.Style
)

func init() {
	SetTheme("dark")
}

// Flavor returns the catppuccin flavor for a theme name. "auto" follows
// the terminal background.
func Flavor(theme string) catppuccin.Flavor {
	switch theme {
	case "light":
		return catppuccin.Latte
	case "dark":
		return catppuccin.Mocha
	default:
		if lipgloss.HasDarkBackground() {
			return catppuccin.Mocha
		}
		return catppuccin.Latte
	}
}

// SetTheme rebuilds every style from the flavor for theme.
func SetTheme(theme string) {
	f := Flavor(theme)
	hex := func(c catppuccin.Color) lipgloss.Color { return lipgloss.Color(c.Hex) }

	Primary = hex(f.Mauve())
	Accent = hex(f.Pink())
	Heart = hex(f.Red())
	Success = hex(f.Green())
	Warning = hex(f.Peach())
	Error = hex(f.Red())
	Border = hex(f.Surface2())
	Text = hex(f.Text())
	TextMuted = hex(f.Subtext0())
	TextDim = hex(f.Overlay1())
	TextFaint = hex(f.Surface1())

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Success)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	Love = lipgloss.NewStyle().Foreground(Heart)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
	Button = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 3).
		Foreground(hex(f.Base())).
		Background(Accent)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(Accent)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)

	LyricCurrent = lipgloss.NewStyle().Bold(true).Foreground(Text)
	LyricNear = lipgloss.NewStyle().Foreground(TextMuted)
	LyricFaint = lipgloss.NewStyle().Foreground(TextDim)
	LyricMinimal = lipgloss.NewStyle().Foreground(TextFaint)
}

// Lyric returns the style for a lyric line of the given emphasis.
func Lyric(e lyrics.Emphasis) lipgloss.Style {
	switch e {
	case lyrics.EmphasisCurrent:
		return LyricCurrent
	case lyrics.EmphasisNear:
		return LyricNear
	case lyrics.EmphasisFaint:
		return LyricFaint
	default:
		return LyricMinimal
	}
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string of exactly width cells.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Accent)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// Truncate shortens s to at most width display cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// Center pads s on both sides to center it in width cells.
func Center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s
}
