// Package playback holds the single shared playback state and the
// operations that change it.
package playback

import (
	"log/slog"
	"sync"

	"github.com/tessro/serenade/internal/core"
	serrors "github.com/tessro/serenade/internal/errors"
	"github.com/tessro/serenade/internal/logging"
)

// Context is the single source of truth for what is playing and where.
//
// Operations are serialized among themselves. Media notifications may arrive
// on any goroutine and only touch state under mu, so the media element is
// never called while mu is held.
type Context struct {
	ops sync.Mutex // serializes operations

	mu      sync.RWMutex
	media   core.Media
	release func()
	state   core.PlaybackState
	lastErr error
	loadGen uint64 // bumped whenever state is reset for a new source

	subsMu  sync.Mutex
	subs    map[int]func(Event)
	nextSub int

	logger *slog.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Context with nothing loaded and no media element attached.
func New(opts ...Option) *Context {
	c := &Context{
		subs:   make(map[int]func(Event)),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach binds the context to a media element and subscribes to its
// notifications. Attaching again replaces the previous element.
func (c *Context) Attach(media core.Media) {
	c.ops.Lock()
	defer c.ops.Unlock()

	c.mu.Lock()
	old := c.release
	c.media = media
	c.mu.Unlock()
	if old != nil {
		old()
	}

	remove := media.AddListener(func(ev core.MediaEvent) {
		c.handleMedia(media, ev)
	})

	c.mu.Lock()
	c.release = remove
	c.mu.Unlock()
}

// Ready reports whether a media element is attached.
func (c *Context) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.media != nil
}

// Close pauses playback and detaches from the media element.
func (c *Context) Close() error {
	c.ops.Lock()
	defer c.ops.Unlock()

	c.mu.Lock()
	media, release := c.media, c.release
	c.media, c.release = nil, nil
	c.mu.Unlock()

	if media == nil {
		return nil
	}
	media.Pause()
	if release != nil {
		release()
	}
	return nil
}

// State returns a snapshot of the playback state.
func (c *Context) State() core.PlaybackState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LastError returns the most recent unexpected playback failure.
func (c *Context) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Subscribe registers fn for every state change. fn runs on the goroutine
// that caused the change and must not block or call back into the Context.
func (c *Context) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, id)
			c.subsMu.Unlock()
		})
	}
}

// LoadSong makes song the current song without starting it. Loading the
// song that is already current does nothing.
func (c *Context) LoadSong(song *core.Song) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	media, err := c.attached()
	if err != nil {
		return err
	}
	c.load(media, song)
	return nil
}

// PlaySong loads song if it is not current, then requests playback.
func (c *Context) PlaySong(song *core.Song) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	media, err := c.attached()
	if err != nil {
		return err
	}
	c.load(media, song)
	c.play(media)
	return nil
}

// TogglePlayPause pauses when playing and resumes otherwise. It does
// nothing when no song is loaded.
func (c *Context) TogglePlayPause() error {
	c.ops.Lock()
	defer c.ops.Unlock()

	media, err := c.attached()
	if err != nil {
		return err
	}

	c.mu.RLock()
	hasSong, playing := c.state.HasSong(), c.state.IsPlaying
	c.mu.RUnlock()

	switch {
	case !hasSong:
	case playing:
		media.Pause()
	default:
		c.play(media)
	}
	return nil
}

// Seek moves playback to seconds. Callers clamp to [0, duration]. The new
// position is visible in State immediately.
func (c *Context) Seek(seconds float64) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	media, err := c.attached()
	if err != nil {
		return err
	}

	c.mu.RLock()
	hasSong := c.state.HasSong()
	c.mu.RUnlock()
	if !hasSong {
		return nil
	}

	media.SetCurrentTime(seconds)

	c.mu.Lock()
	c.state.CurrentTime = seconds
	state := c.state
	c.mu.Unlock()

	c.publish(Event{Type: EventTimeUpdate, State: state})
	return nil
}

// StopSong pauses, rewinds and unloads the current song.
func (c *Context) StopSong() error {
	c.ops.Lock()
	defer c.ops.Unlock()

	media, err := c.attached()
	if err != nil {
		return err
	}

	media.Pause()
	media.SetCurrentTime(0)

	c.mu.Lock()
	hadSong := c.state.HasSong()
	c.state = core.PlaybackState{}
	c.loadGen++
	state := c.state
	c.mu.Unlock()

	if hadSong {
		c.logger.Info("song stopped")
		c.publish(Event{Type: EventSongChange, State: state})
	}
	return nil
}

func (c *Context) attached() (core.Media, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.media == nil {
		return nil, serrors.ErrMediaNotReady
	}
	return c.media, nil
}

// load switches the source when song differs from the current one. The
// outgoing source is paused before the new one is assigned.
func (c *Context) load(media core.Media, song *core.Song) {
	c.mu.RLock()
	same := c.state.HasSong() && song != nil && c.state.CurrentSong.ID == song.ID
	c.mu.RUnlock()
	if same || song == nil {
		return
	}

	media.Pause()

	c.mu.Lock()
	c.state = core.PlaybackState{CurrentSong: song}
	c.loadGen++
	state := c.state
	c.mu.Unlock()

	media.Load(song.AudioSrc)

	c.logger.Info("song loaded", "id", song.ID, "title", song.Title, "src", song.AudioSrc)
	c.publish(Event{Type: EventSongChange, State: state})
}

// play requests playback and settles the result in the background.
func (c *Context) play(media core.Media) {
	result := media.Play()

	c.mu.RLock()
	id := c.state.SongID()
	c.mu.RUnlock()

	go func() {
		err := <-result
		if err == nil {
			return
		}
		if serrors.IsTransientPlayback(err) {
			c.logger.Debug("play request not fulfilled", "id", id, "error", err)
			return
		}
		c.fail(id, err)
	}()
}

func (c *Context) fail(id string, err error) {
	c.logger.Error("playback failed", "id", id, "error", err)

	c.mu.Lock()
	c.lastErr = err
	state := c.state
	c.mu.Unlock()

	c.publish(Event{Type: EventError, State: state, Err: err})
}

func (c *Context) handleMedia(media core.Media, ev core.MediaEvent) {
	c.mu.RLock()
	gen := c.loadGen
	c.mu.RUnlock()

	// Read from the element before taking mu
	var position, duration float64
	switch ev {
	case core.MediaTimeUpdate:
		position = media.CurrentTime()
	case core.MediaLoadedMetadata:
		duration = media.Duration()
	}

	c.mu.Lock()
	if c.media != media {
		c.mu.Unlock()
		return
	}

	// A reading taken before the state was reset belongs to the old source
	stale := gen != c.loadGen

	var typ EventType
	switch ev {
	case core.MediaTimeUpdate:
		if stale {
			c.mu.Unlock()
			return
		}
		c.state.CurrentTime = position
		typ = EventTimeUpdate
	case core.MediaLoadedMetadata:
		if stale {
			c.mu.Unlock()
			return
		}
		c.state.Duration = duration
		typ = EventDurationChange
	case core.MediaPlay:
		c.state.IsPlaying = true
		c.lastErr = nil
		typ = EventPlay
	case core.MediaPause:
		c.state.IsPlaying = false
		typ = EventPause
	case core.MediaEnded:
		c.state.IsPlaying = false
		c.state.CurrentTime = 0
		typ = EventEnded
	default:
		c.mu.Unlock()
		return
	}
	state := c.state
	c.mu.Unlock()

	if typ == EventEnded {
		c.logger.Debug("song ended", "id", state.SongID())
	}
	c.publish(Event{Type: typ, State: state})
}

func (c *Context) publish(ev Event) {
	c.subsMu.Lock()
	fns := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
