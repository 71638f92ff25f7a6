package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/serenade/internal/core"
)

func TestPositionAt(t *testing.T) {
	tests := []struct {
		name     string
		x        int
		barX     int
		width    int
		duration float64
		want     float64
	}{
		{"start", 10, 10, 11, 100, 0},
		{"end", 20, 10, 11, 100, 100},
		{"middle", 15, 10, 11, 100, 50},
		{"left of bar", 2, 10, 11, 100, 0},
		{"right of bar", 50, 10, 11, 100, 100},
		{"no duration", 15, 10, 11, 0, 0},
		{"zero width", 15, 10, 0, 100, 0},
		{"single cell", 10, 10, 1, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PositionAt(tt.x, tt.barX, tt.width, tt.duration); got != tt.want {
				t.Errorf("PositionAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressLineMatchesLayout(t *testing.T) {
	for _, width := range []int{30, 80, 120} {
		barX, barWidth := ProgressLayout(PlayerIndent, width)
		line := ProgressLine(PlayerIndent, width, 30, 120)

		if got := lipgloss.Width(line); got != barX+barWidth+1+timeWidth {
			t.Errorf("width %d: line is %d cells, want %d", width, got, barX+barWidth+1+timeWidth)
		}
		if !strings.HasPrefix(line, strings.Repeat(" ", PlayerIndent)+" 0:30 ") {
			t.Errorf("width %d: line = %q", width, line)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := map[float64]string{
		0:      "0:00",
		-1:     "0:00",
		9.99:   "0:09",
		61:     "1:01",
		3600.5: "60:00",
	}
	for in, want := range tests {
		if got := FormatTime(in); got != want {
			t.Errorf("FormatTime(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestLyricsRenderRows(t *testing.T) {
	lines := []core.LyricLine{
		{Time: 0, Text: "first"},
		{Time: 5, Text: "second"},
		{Time: 10, Text: "third"},
	}
	l := NewLyrics()

	out := l.Render(lines, 6, 40, 5)
	rows := strings.Split(out, "\n")
	if len(rows) != 5 {
		t.Fatalf("rendered %d rows, want 5", len(rows))
	}
	if !strings.Contains(rows[2], "second") {
		t.Errorf("middle row = %q, want the current line", rows[2])
	}
	if !strings.Contains(rows[1], "first") || !strings.Contains(rows[3], "third") {
		t.Errorf("neighbors misplaced: %q", rows)
	}

	// Before the first line the list rests with line 0 in the middle
	rows = strings.Split(l.Render(lines, -1, 40, 5), "\n")
	if !strings.Contains(rows[2], "first") {
		t.Errorf("middle row before start = %q", rows[2])
	}

	rows = strings.Split(l.Render(nil, 0, 40, 3), "\n")
	if len(rows) != 3 || !strings.Contains(rows[1], "instrumental") {
		t.Errorf("empty lyrics = %q", rows)
	}
}

func TestMiniPlayerVisibility(t *testing.T) {
	p := NewMiniPlayer()
	loaded := core.PlaybackState{CurrentSong: &core.Song{ID: "song-2", Title: "Second"}}

	tests := []struct {
		name     string
		state    core.PlaybackState
		onPlayer bool
		want     bool
	}{
		{"nothing loaded", core.PlaybackState{}, false, false},
		{"loaded elsewhere", loaded, false, true},
		{"loaded on player", loaded, true, false},
	}
	for _, tt := range tests {
		if got := p.Visible(tt.state, tt.onPlayer); got != tt.want {
			t.Errorf("%s: Visible() = %v, want %v", tt.name, got, tt.want)
		}
	}

	out := p.Render(loaded, 60)
	if strings.Count(out, "\n")+1 != MiniPlayerRows {
		t.Errorf("mini player has %d rows, want %d", strings.Count(out, "\n")+1, MiniPlayerRows)
	}
	if !strings.Contains(out, "Second") {
		t.Errorf("mini player = %q", out)
	}
}

func TestPlayerGeometry(t *testing.T) {
	n := NewNowPlaying()
	song := &core.Song{ID: "s", Title: "Song", Artist: "Us", Duration: 100,
		Lyrics: []core.LyricLine{{Time: 0, Text: "la"}}}

	for _, height := range []int{12, 23, 40} {
		out := n.Render(PlayerProps{
			Song:     song,
			State:    core.PlaybackState{CurrentSong: song, Duration: 100},
			Position: 50,
			Skip:     5,
		}, 80, height)

		rows := strings.Split(out, "\n")
		if len(rows) != height {
			t.Errorf("height %d: rendered %d rows", height, len(rows))
			continue
		}
		if row := rows[PlayerProgressRow(height)]; !strings.Contains(row, "0:50") {
			t.Errorf("height %d: progress row = %q", height, row)
		}
	}
}

func TestLowerFirst(t *testing.T) {
	tests := map[string]string{
		"I made you something": "I made you something",
		"I'm here":             "I'm here",
		"Here is a song":       "here is a song",
		"":                     "",
	}
	for in, want := range tests {
		if got := lowerFirst(in); got != want {
			t.Errorf("lowerFirst(%q) = %q, want %q", in, got, want)
		}
	}
}
