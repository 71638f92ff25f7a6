package core

// MediaEvent is a notification emitted by a media element.
type MediaEvent int

const (
	MediaTimeUpdate MediaEvent = iota
	MediaLoadedMetadata
	MediaEnded
	MediaPlay
	MediaPause
)

func (e MediaEvent) String() string {
	switch e {
	case MediaTimeUpdate:
		return "timeupdate"
	case MediaLoadedMetadata:
		return "loadedmetadata"
	case MediaEnded:
		return "ended"
	case MediaPlay:
		return "play"
	case MediaPause:
		return "pause"
	default:
		return "unknown"
	}
}

// Media is a single audio playback element.
//
// Listeners may be invoked from any goroutine and must not block.
type Media interface {
	// Load replaces the current source. Any pending play request is
	// rejected with an aborted error.
	Load(src string)

	// Play requests playback start. The returned channel receives exactly
	// one value: nil once playback has started, or the reason it failed.
	Play() <-chan error
	Pause()

	CurrentTime() float64
	SetCurrentTime(seconds float64)
	Duration() float64

	// AddListener registers fn for every notification. The returned
	// function removes it.
	AddListener(fn func(MediaEvent)) (remove func())
}
