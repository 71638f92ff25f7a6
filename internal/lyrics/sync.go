// Package lyrics maps playback time to lyric lines and parses LRC files.
package lyrics

import "github.com/tessro/serenade/internal/core"

// NoLine is returned when no lyric line is active yet.
const NoLine = -1

// CurrentIndex returns the index of the last line whose time is at or
// before t, or NoLine if t is negative, precedes the first line or lines
// is empty. Lines must be sorted by time; for equal times the later line
// wins.
func CurrentIndex(lines []core.LyricLine, t float64) int {
	if t < 0 {
		return NoLine
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if t >= lines[i].Time {
			return i
		}
	}
	return NoLine
}

// ScrollOffset returns the vertical offset that brings the line at index
// to the center of the view. With NoLine the list rests at center.
func ScrollOffset(index, lineHeight, center int) int {
	if index < 0 {
		return center
	}
	return -index*lineHeight + center
}

// Emphasis is the visual weight of a line relative to the current one.
type Emphasis int

const (
	EmphasisMinimal Emphasis = iota
	EmphasisFaint
	EmphasisNear
	EmphasisCurrent
)

// EmphasisFor returns the weight of line index when current is active.
func EmphasisFor(index, current int) Emphasis {
	d := index - current
	if d < 0 {
		d = -d
	}
	switch {
	case current >= 0 && d == 0:
		return EmphasisCurrent
	case current >= 0 && d == 1:
		return EmphasisNear
	case current >= 0 && d == 2:
		return EmphasisFaint
	default:
		return EmphasisMinimal
	}
}

// Opacity returns the relative brightness for the emphasis level.
func (e Emphasis) Opacity() float64 {
	switch e {
	case EmphasisCurrent:
		return 1
	case EmphasisNear:
		return 0.4
	case EmphasisFaint:
		return 0.25
	default:
		return 0.2
	}
}

// VisibleLine is a lyric line placed in a viewport row.
type VisibleLine struct {
	Index    int
	Row      int
	Text     string
	Emphasis Emphasis
}

// Window returns the lines that fall inside a viewport of rows rows when
// the list is scrolled so the current line sits in the middle row.
func Window(lines []core.LyricLine, current, rows int) []VisibleLine {
	if rows <= 0 || len(lines) == 0 {
		return nil
	}

	offset := ScrollOffset(current, 1, rows/2)
	visible := make([]VisibleLine, 0, rows)
	for i, line := range lines {
		row := i + offset
		if row < 0 {
			continue
		}
		if row >= rows {
			break
		}
		visible = append(visible, VisibleLine{
			Index:    i,
			Row:      row,
			Text:     line.Text,
			Emphasis: EmphasisFor(i, current),
		})
	}
	return visible
}
