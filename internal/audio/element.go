// Package audio implements a media element over beep: one source at a
// time, asynchronous play requests, and browser-style notifications.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/tessro/serenade/internal/core"
	serrors "github.com/tessro/serenade/internal/errors"
	"github.com/tessro/serenade/internal/logging"
)

// DefaultSampleRate is the rate sources are resampled to for output.
const DefaultSampleRate = beep.SampleRate(44100)

// DefaultTimeUpdateInterval matches the cadence browsers use for timeupdate.
const DefaultTimeUpdateInterval = 250 * time.Millisecond

type decodeFunc func(src string) (beep.StreamSeekCloser, beep.Format, error)

// Element is a single audio playback element. It satisfies core.Media.
type Element struct {
	mu sync.Mutex

	out    output
	rate   beep.SampleRate
	decode decodeFunc
	logger *slog.Logger

	// Source
	src         string
	gen         uint64        // bumped on every Load; stale work checks it
	loading     chan struct{} // closed when decoding for gen finished
	abort       chan struct{} // closed to reject pending play requests
	stream      beep.StreamSeekCloser
	format      beep.Format
	loadErr     error
	pendingSeek float64

	// Playback
	ctrl       *beep.Ctrl
	playing    bool
	tick       time.Duration
	tickerStop chan struct{}

	requireGesture bool
	activated      bool

	listeners map[int]func(core.MediaEvent)
	nextID    int
}

// Option configures an Element.
type Option func(*Element)

// Muted plays without a sound device. Time still advances in real time.
func Muted() Option {
	return func(e *Element) {
		e.out = newSilentOutput(e.rate)
	}
}

// RequireGesture makes Play fail with ErrPlaybackNotAllowed until Activate
// has been called.
func RequireGesture(required bool) Option {
	return func(e *Element) {
		e.requireGesture = required
	}
}

// WithTimeUpdateInterval sets how often TimeUpdate fires while playing.
func WithTimeUpdateInterval(d time.Duration) Option {
	return func(e *Element) {
		if d > 0 {
			e.tick = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Element) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an element with no source.
func New(opts ...Option) *Element {
	loading := make(chan struct{})
	close(loading)

	e := &Element{
		rate:      DefaultSampleRate,
		decode:    openFile,
		logger:    logging.Discard(),
		loading:   loading,
		abort:     make(chan struct{}),
		tick:      DefaultTimeUpdateInterval,
		listeners: make(map[int]func(core.MediaEvent)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.out == nil {
		e.out = newDeviceOutput(e.rate)
	}
	return e
}

// Activate records a user gesture, allowing playback to start.
func (e *Element) Activate() {
	e.mu.Lock()
	e.activated = true
	e.mu.Unlock()
}

// Src returns the current source.
func (e *Element) Src() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

// Paused reports whether the element is not playing.
func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.playing
}

// Load stops the current source and starts decoding src in the background.
// LoadedMetadata fires once the new source's duration is known.
func (e *Element) Load(src string) {
	e.mu.Lock()
	wasPlaying := e.releaseLocked()
	e.cancelPendingLocked()

	e.gen++
	gen := e.gen
	e.src = src
	e.loadErr = nil
	e.pendingSeek = 0
	loading := make(chan struct{})
	e.loading = loading
	e.mu.Unlock()

	if wasPlaying {
		e.emit(core.MediaPause)
	}
	e.emit(core.MediaTimeUpdate)

	go e.load(gen, src, loading)
}

func (e *Element) load(gen uint64, src string, loading chan struct{}) {
	stream, format, err := e.decode(src)

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		if err == nil {
			_ = stream.Close()
		}
		return
	}

	e.loadErr = err
	if err == nil {
		e.stream = stream
		e.format = format
		if e.pendingSeek > 0 {
			if serr := e.seekLocked(e.pendingSeek); serr != nil {
				e.logger.Warn("seek after load failed", "src", src, "error", serr)
			}
		}
	}
	close(loading)
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("failed to load source", "src", src, "error", err)
		return
	}
	e.logger.Debug("source loaded", "src", src, "duration", format.SampleRate.D(stream.Len()))
	e.emit(core.MediaLoadedMetadata)
}

// Play requests playback. The result arrives on the returned channel once
// the source has been decoded and output has started.
func (e *Element) Play() <-chan error {
	result := make(chan error, 1)

	e.mu.Lock()
	if e.requireGesture && !e.activated {
		e.mu.Unlock()
		result <- serrors.ErrPlaybackNotAllowed
		return result
	}
	if e.src == "" {
		e.mu.Unlock()
		result <- fmt.Errorf("%w: no source", serrors.ErrMediaNotReady)
		return result
	}
	gen, loading, abort := e.gen, e.loading, e.abort
	e.mu.Unlock()

	go func() {
		select {
		case <-loading:
		case <-abort:
			result <- serrors.ErrPlaybackAborted
			return
		}
		result <- e.start(gen, abort)
	}()
	return result
}

func (e *Element) start(gen uint64, abort chan struct{}) error {
	e.mu.Lock()

	select {
	case <-abort:
		e.mu.Unlock()
		return serrors.ErrPlaybackAborted
	default:
	}
	if gen != e.gen {
		e.mu.Unlock()
		return serrors.ErrPlaybackAborted
	}
	if e.loadErr != nil {
		err := e.loadErr
		e.mu.Unlock()
		return err
	}
	if e.playing {
		e.mu.Unlock()
		return nil
	}

	if e.ctrl == nil {
		// Not attached to the output: first play, or replay after the end.
		if e.stream.Position() >= e.stream.Len() {
			if err := e.stream.Seek(0); err != nil {
				e.mu.Unlock()
				return err
			}
		}

		ctrl := &beep.Ctrl{Streamer: e.stream}
		var s beep.Streamer = ctrl
		if e.format.SampleRate != e.rate {
			s = beep.Resample(4, e.format.SampleRate, e.rate, ctrl)
		}
		done := beep.Callback(func() {
			// The output holds its lock while streaming
			go e.ended(gen, ctrl)
		})
		if err := e.out.start(beep.Seq(s, done)); err != nil {
			e.mu.Unlock()
			return err
		}
		e.ctrl = ctrl
	} else {
		e.out.lock()
		e.ctrl.Paused = false
		e.out.unlock()
	}

	e.playing = true
	e.startTickerLocked()
	e.mu.Unlock()

	e.emit(core.MediaPlay)
	return nil
}

func (e *Element) ended(gen uint64, ctrl *beep.Ctrl) {
	e.mu.Lock()
	if gen != e.gen || e.ctrl != ctrl {
		e.mu.Unlock()
		return
	}
	e.ctrl = nil
	wasPlaying := e.playing
	e.playing = false
	e.stopTickerLocked()
	e.mu.Unlock()

	e.emit(core.MediaTimeUpdate)
	if wasPlaying {
		e.emit(core.MediaPause)
	}
	e.emit(core.MediaEnded)
}

// Pause pauses playback and rejects any pending play request.
func (e *Element) Pause() {
	e.mu.Lock()
	e.cancelPendingLocked()
	if !e.playing {
		e.mu.Unlock()
		return
	}

	e.out.lock()
	e.ctrl.Paused = true
	e.out.unlock()

	e.playing = false
	e.stopTickerLocked()
	e.mu.Unlock()

	e.emit(core.MediaPause)
}

// CurrentTime returns the playback position in seconds.
func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stream == nil {
		return e.pendingSeek
	}
	return e.format.SampleRate.D(e.positionLocked()).Seconds()
}

// SetCurrentTime moves the playback position. Before the source has been
// decoded the position is remembered and applied afterwards.
func (e *Element) SetCurrentTime(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}

	e.mu.Lock()
	if e.stream == nil {
		e.pendingSeek = seconds
		e.mu.Unlock()
		return
	}
	err := e.seekLocked(seconds)
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("seek failed", "seconds", seconds, "error", err)
	}
	e.emit(core.MediaTimeUpdate)
}

// Duration returns the source duration in seconds, or 0 before metadata.
func (e *Element) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stream == nil {
		return 0
	}
	return e.format.SampleRate.D(e.stream.Len()).Seconds()
}

// AddListener registers fn for every notification.
func (e *Element) AddListener(fn func(core.MediaEvent)) (remove func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

// Close stops playback and releases the output.
func (e *Element) Close() error {
	e.mu.Lock()
	e.releaseLocked()
	e.cancelPendingLocked()
	e.gen++
	e.src = ""
	e.mu.Unlock()

	e.out.close()
	return nil
}

func (e *Element) emit(ev core.MediaEvent) {
	e.mu.Lock()
	fns := make([]func(core.MediaEvent), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// releaseLocked detaches and closes the current stream. It reports whether
// the element was playing.
func (e *Element) releaseLocked() bool {
	wasPlaying := e.playing
	e.playing = false
	e.stopTickerLocked()

	if e.ctrl != nil {
		e.out.lock()
		e.ctrl.Streamer = nil
		e.out.unlock()
		e.ctrl = nil
	}
	if e.stream != nil {
		_ = e.stream.Close()
		e.stream = nil
	}
	return wasPlaying
}

func (e *Element) cancelPendingLocked() {
	close(e.abort)
	e.abort = make(chan struct{})
}

func (e *Element) positionLocked() int {
	if e.ctrl != nil {
		e.out.lock()
		defer e.out.unlock()
	}
	return e.stream.Position()
}

func (e *Element) seekLocked(seconds float64) error {
	n := e.format.SampleRate.N(core.Seconds(seconds))
	if n < 0 {
		n = 0
	}
	if l := e.stream.Len(); n > l {
		n = l
	}

	if e.ctrl != nil {
		e.out.lock()
		defer e.out.unlock()
	}
	return e.stream.Seek(n)
}

func (e *Element) startTickerLocked() {
	if e.tickerStop != nil {
		return
	}
	stop := make(chan struct{})
	e.tickerStop = stop

	go func() {
		ticker := time.NewTicker(e.tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.emit(core.MediaTimeUpdate)
			}
		}
	}()
}

func (e *Element) stopTickerLocked() {
	if e.tickerStop != nil {
		close(e.tickerStop)
		e.tickerStop = nil
	}
}

var _ core.Media = (*Element)(nil)
