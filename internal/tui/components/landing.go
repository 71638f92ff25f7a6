package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/serenade/internal/tui/styles"
)

// LandingContent is the copy shown on the landing screen.
type LandingContent struct {
	Recipient string
	Headline  string
	Message   string
	Button    string
	Footer    string
}

const heart = `  ▄▄▄   ▄▄▄
 █████ █████
 ███████████
  █████████
    █████
      █`

// Landing is the welcome screen.
type Landing struct{}

// NewLanding creates a new Landing component
func NewLanding() *Landing {
	return &Landing{}
}

// Render renders the landing screen centered in width x height.
func (l *Landing) Render(c LandingContent, width, height int) string {
	headline := c.Headline
	if c.Recipient != "" {
		headline = c.Recipient + ", " + lowerFirst(c.Headline)
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.Love.Render(heart),
		"",
		styles.Highlight.Render(headline),
		"",
		styles.Muted.Width(min(width-4, 60)).Align(lipgloss.Center).Render(c.Message),
		"",
		styles.Button.Render(c.Button+"  ⏎"),
		"",
		styles.Dim.Render(c.Footer),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// lowerFirst lowercases the first letter, leaving the pronoun I alone.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] == 'I' && (len(r) == 1 || r[1] == ' ' || r[1] == '\'') {
		return s
	}
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}
