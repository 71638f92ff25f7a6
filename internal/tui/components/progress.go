package components

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/tessro/serenade/internal/core"
	"github.com/tessro/serenade/internal/tui/styles"
)

// timeWidth is the cells reserved for each time label around the bar.
const timeWidth = 5

// minBarWidth keeps the bar usable on narrow terminals.
const minBarWidth = 10

// ProgressLayout returns where the bar sits in a progress line of width
// cells that starts indent cells from the left edge.
func ProgressLayout(indent, width int) (barX, barWidth int) {
	barX = indent + timeWidth + 1
	barWidth = max(width-2*indent-2*(timeWidth+1), minBarWidth)
	return barX, barWidth
}

// ProgressLine renders "m:ss ━━━━──── m:ss" laid out by ProgressLayout.
func ProgressLine(indent, width int, position, duration float64) string {
	_, barWidth := ProgressLayout(indent, width)

	fraction := 0.0
	if duration > 0 {
		fraction = lo.Clamp(position/duration, 0, 1)
	}

	return fmt.Sprintf("%*s%*s %s %-*s",
		indent, "",
		timeWidth, FormatTime(position),
		styles.ProgressBar(fraction, barWidth),
		timeWidth, FormatTime(duration))
}

// PositionAt maps a column on the bar to a playback position. Columns left
// of the bar give 0 and columns right of it give duration.
func PositionAt(x, barX, width int, duration float64) float64 {
	if duration <= 0 || width <= 0 {
		return 0
	}
	if width == 1 {
		if x < barX {
			return 0
		}
		return duration
	}
	fraction := float64(x-barX) / float64(width-1)
	return lo.Clamp(fraction, 0, 1) * duration
}

// FormatTime formats seconds as m:ss.
func FormatTime(seconds float64) string {
	return formatDuration(core.Seconds(max(seconds, 0)))
}

func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
