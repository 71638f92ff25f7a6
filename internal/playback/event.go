package playback

import "github.com/tessro/serenade/internal/core"

// EventType identifies a playback state change.
type EventType int

const (
	EventTimeUpdate EventType = iota
	EventDurationChange
	EventPlay
	EventPause
	EventEnded
	EventSongChange
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventTimeUpdate:
		return "time_update"
	case EventDurationChange:
		return "duration_change"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	case EventSongChange:
		return "song_change"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is published to subscribers after every state change. State is a
// snapshot taken right after the change.
type Event struct {
	Type  EventType
	State core.PlaybackState
	Err   error // set for EventError
}
