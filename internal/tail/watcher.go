package tail

import (
	"context"
	"sync"
	"time"

	"github.com/tessro/serenade/internal/core"
	"github.com/tessro/serenade/internal/lyrics"
	"github.com/tessro/serenade/internal/playback"
)

// EventType represents the type of tail event.
type EventType int

const (
	EventSongChange EventType = iota
	EventSongComplete
	EventSongSkip
	EventStop
	EventPause
	EventResume
	EventLyric
	EventError
)

// Event represents something worth printing.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
	Line      *core.LyricLine // set for EventLyric
	Err       error           // set for EventError
}

// Source publishes playback state changes.
type Source interface {
	Subscribe(fn func(playback.Event)) (unsubscribe func())
}

// Watcher turns playback notifications into tail events.
type Watcher struct {
	in          chan playback.Event
	unsubscribe func()
	events      chan Event
	done        chan struct{}
	stopOnce    sync.Once
}

// NewWatcher creates a watcher subscribed to source. Notifications that
// arrive before Start are buffered.
func NewWatcher(source Source) *Watcher {
	w := &Watcher{
		in:     make(chan playback.Event, 64),
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	w.unsubscribe = source.Subscribe(func(ev playback.Event) {
		select {
		case w.in <- ev:
		default:
			// Drop event if channel is full
		}
	})
	return w
}

// Events returns the channel of tail events. It is closed when Start returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start forwards events until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.events)
	defer w.unsubscribe()

	t := newTracker()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case ev := <-w.in:
			for _, e := range t.apply(ev, time.Now()) {
				select {
				case w.events <- e:
				case <-ctx.Done():
					return ctx.Err()
				case <-w.done:
					return nil
				}
			}
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

// tracker remembers enough of the previous state to classify changes.
type tracker struct {
	prev    core.PlaybackState
	lyric   int
	started bool // a play notification arrived for the current song
	ended   bool
}

func newTracker() *tracker {
	return &tracker{lyric: lyrics.NoLine}
}

// endSlack is how close to the end a pause must be to count as the end of
// the song rather than a user pause.
const endSlack = 0.5

func (t *tracker) apply(ev playback.Event, now time.Time) []Event {
	prev := t.prev
	curr := ev.State
	t.prev = curr

	event := func(typ EventType) Event {
		p, c := prev, curr
		return Event{Type: typ, Timestamp: now, Previous: &p, Current: &c}
	}

	var events []Event
	switch ev.Type {
	case playback.EventSongChange:
		if prev.HasSong() && !t.ended {
			events = append(events, event(EventSongSkip))
		}
		if curr.HasSong() {
			events = append(events, event(EventSongChange))
		} else if prev.HasSong() {
			events = append(events, event(EventStop))
		}
		t.lyric = lyrics.NoLine
		t.started = false
		t.ended = false

	case playback.EventPlay:
		if t.started && !t.ended {
			events = append(events, event(EventResume))
		}
		t.started = true
		t.ended = false

	case playback.EventPause:
		if curr.Duration <= 0 || curr.CurrentTime < curr.Duration-endSlack {
			events = append(events, event(EventPause))
		}

	case playback.EventEnded:
		t.ended = true
		t.started = false
		t.lyric = lyrics.NoLine
		events = append(events, event(EventSongComplete))

	case playback.EventTimeUpdate:
		if !curr.HasSong() || t.ended {
			break
		}
		idx := lyrics.CurrentIndex(curr.CurrentSong.Lyrics, curr.CurrentTime)
		if idx != t.lyric && idx != lyrics.NoLine {
			e := event(EventLyric)
			line := curr.CurrentSong.Lyrics[idx]
			e.Line = &line
			events = append(events, e)
		}
		t.lyric = idx

	case playback.EventError:
		e := event(EventError)
		e.Err = ev.Err
		events = append(events, e)
	}
	return events
}
