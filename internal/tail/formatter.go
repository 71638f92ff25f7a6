package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/serenade/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is
// ignored.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, describe(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if song := songOf(e); song != nil {
		data.ID = song.ID
		data.Title = song.Title
		data.Artist = song.Artist
	}
	if e.Current != nil {
		data.Position = Clock(e.Current.CurrentTime)
	}
	if e.Line != nil {
		data.Line = e.Line.Text
		data.Position = Clock(e.Line.Time)
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	ID        string
	Title     string
	Artist    string
	Line      string
	Position  string
	Error     string
}

// songOf returns the song an event is about. Completion, skip and stop
// events describe the previous song.
func songOf(e Event) *core.Song {
	switch e.Type {
	case EventSongSkip, EventStop:
		if e.Previous != nil {
			return e.Previous.CurrentSong
		}
		return nil
	}
	if e.Current != nil {
		return e.Current.CurrentSong
	}
	return nil
}

func describe(e Event) string {
	song := songOf(e)
	name := func() string {
		if song.Artist == "" {
			return song.Title
		}
		return fmt.Sprintf("%s - %s", song.Artist, song.Title)
	}

	switch e.Type {
	case EventSongChange:
		if song != nil {
			return "Now playing: " + name()
		}
		return "Song changed"

	case EventSongComplete:
		if song != nil {
			return "Finished: " + name()
		}
		return "Song finished"

	case EventSongSkip:
		if song != nil {
			return "Skipped: " + name()
		}
		return "Song skipped"

	case EventStop:
		return "Stopped"

	case EventPause:
		if e.Current != nil {
			return "Paused at " + Clock(e.Current.CurrentTime)
		}
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventLyric:
		if e.Line != nil {
			return fmt.Sprintf("[%s] %s", Clock(e.Line.Time), e.Line.Text)
		}
		return ""

	case EventError:
		if e.Err != nil {
			return "Error: " + e.Err.Error()
		}
		return "Error"

	default:
		return "Unknown event"
	}
}

// Clock formats seconds as m:ss.
func Clock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func eventEmoji(t EventType) string {
	switch t {
	case EventSongChange:
		return "🎵"
	case EventSongComplete:
		return "✅"
	case EventSongSkip:
		return "⏭️"
	case EventStop:
		return "⏹️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventLyric:
		return "💬"
	case EventError:
		return "⚠️"
	default:
		return "❓"
	}
}

func (t EventType) String() string {
	switch t {
	case EventSongChange:
		return "song_change"
	case EventSongComplete:
		return "song_complete"
	case EventSongSkip:
		return "song_skip"
	case EventStop:
		return "stop"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventLyric:
		return "lyric"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
