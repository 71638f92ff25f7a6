package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tessro/serenade/internal/catalog"
	"github.com/tessro/serenade/internal/config"
	"github.com/tessro/serenade/internal/core"
	serrors "github.com/tessro/serenade/internal/errors"
	"github.com/tessro/serenade/internal/playback"
	"github.com/tessro/serenade/internal/router"
	"github.com/tessro/serenade/internal/tui/components"
)

// fakeMedia starts and stops instantly and reports the song as loaded as
// soon as it is assigned.
type fakeMedia struct {
	mu        sync.Mutex
	src       string
	playing   bool
	position  float64
	duration  float64
	playErr   error
	listeners []func(core.MediaEvent)
}

func (f *fakeMedia) emit(ev core.MediaEvent) {
	f.mu.Lock()
	fns := append(([]func(core.MediaEvent))(nil), f.listeners...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (f *fakeMedia) Load(src string) {
	f.mu.Lock()
	f.src = src
	f.position = 0
	f.duration = 200
	f.mu.Unlock()
	f.emit(core.MediaLoadedMetadata)
}

func (f *fakeMedia) Play() <-chan error {
	ch := make(chan error, 1)

	f.mu.Lock()
	err := f.playErr
	f.playing = err == nil
	f.mu.Unlock()
	if err == nil {
		f.emit(core.MediaPlay)
	}

	ch <- err
	return ch
}

func (f *fakeMedia) failPlay(err error) {
	f.mu.Lock()
	f.playErr = err
	f.mu.Unlock()
}

func (f *fakeMedia) Pause() {
	f.mu.Lock()
	was := f.playing
	f.playing = false
	f.mu.Unlock()
	if was {
		f.emit(core.MediaPause)
	}
}

func (f *fakeMedia) CurrentTime() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *fakeMedia) SetCurrentTime(seconds float64) {
	f.mu.Lock()
	f.position = seconds
	f.mu.Unlock()
}

func (f *fakeMedia) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *fakeMedia) AddListener(fn func(core.MediaEvent)) func() {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeMedia) isPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeMedia) at(position float64) {
	f.mu.Lock()
	f.position = position
	f.mu.Unlock()
	f.emit(core.MediaTimeUpdate)
}

func (f *fakeMedia) end() {
	f.mu.Lock()
	f.playing = false
	f.position = f.duration
	f.mu.Unlock()
	f.emit(core.MediaPause)
	f.emit(core.MediaEnded)
}

type activator struct{ calls int }

func (a *activator) Activate() { a.calls++ }

type harness struct {
	t        *testing.T
	m        Model
	media    *fakeMedia
	ctx      *playback.Context
	act      *activator
	copied   string
	notified []string
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New("Songs for you", []core.Song{
		{ID: "song-1", Title: "First Light", Artist: "Us", AudioSrc: "one.mp3", Duration: 200,
			Lyrics: []core.LyricLine{{Time: 0, Text: "hello"}, {Time: 10, Text: "you"}}},
		{ID: "song-2", Title: "Second Wind", Artist: "Us", AudioSrc: "two.mp3", Duration: 200},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newHarness(t *testing.T, cat *catalog.Catalog, startPath string) *harness {
	t.Helper()
	ctx := playback.New()
	media := &fakeMedia{}
	ctx.Attach(media)
	return newHarnessWith(t, cat, startPath, ctx, media)
}

// newHarnessWith builds the model over a context the test has already used.
func newHarnessWith(t *testing.T, cat *catalog.Catalog, startPath string, ctx *playback.Context, media *fakeMedia) *harness {
	t.Helper()

	h := &harness{t: t, media: media, ctx: ctx, act: &activator{}}

	cfg := config.Default()
	cfg.TUI.Notify = true

	h.m = NewModel(Options{
		Catalog:   cat,
		Playback:  h.ctx,
		Activator: h.act,
		Config:    cfg,
		StartPath: startPath,
		Notify: func(title, message string) error {
			h.notified = append(h.notified, message)
			return nil
		},
		Copy: func(text string) error {
			h.copied = text
			return nil
		},
	})
	t.Cleanup(h.m.Close)

	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	return h
}

// send delivers msg, then feeds every pending playback event back in.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	model, cmd := h.m.Update(msg)
	h.m = model.(Model)
	h.drain()
	return cmd
}

func (h *harness) drain() {
	for {
		select {
		case ev := <-h.m.events:
			model, _ := h.m.Update(playbackMsg(ev))
			h.m = model.(Model)
		default:
			return
		}
	}
}

func (h *harness) key(k tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: k})
}

func (h *harness) runes(s string) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) screen() router.Screen {
	return h.m.router.Screen()
}

func TestLandingToPlayerAndBack(t *testing.T) {
	h := newHarness(t, testCatalog(t), "")

	if h.screen() != router.ScreenLanding {
		t.Fatalf("initial screen = %s, want landing", h.screen())
	}
	if !strings.Contains(h.m.View(), "Carolina, I made you something special.") {
		t.Error("landing view missing headline")
	}

	h.key(tea.KeyEnter)
	if h.screen() != router.ScreenPlaylist {
		t.Fatalf("screen = %s, want playlist", h.screen())
	}

	h.key(tea.KeyDown)
	h.key(tea.KeyEnter)
	if h.screen() != router.ScreenPlayer {
		t.Fatalf("screen = %s, want player", h.screen())
	}
	if id, _ := h.m.router.Query("id"); id != "song-2" {
		t.Errorf("route id = %q, want song-2", id)
	}

	state := h.ctx.State()
	if state.SongID() != "song-2" {
		t.Errorf("current song = %q, want song-2", state.SongID())
	}
	if !state.IsPlaying || !h.media.isPlaying() {
		t.Error("player did not start playback")
	}
	if h.media.src != "two.mp3" {
		t.Errorf("media src = %q, want two.mp3", h.media.src)
	}

	h.key(tea.KeyEsc)
	if h.screen() != router.ScreenPlaylist {
		t.Fatalf("screen after back = %s, want playlist", h.screen())
	}
	if h.m.router.Depth() != 2 {
		t.Errorf("history depth = %d, want 2", h.m.router.Depth())
	}
	if !h.m.miniPlayerVisible(h.ctx.State()) {
		t.Error("mini player hidden after leaving the player")
	}

	view := h.m.View()
	lines := strings.Split(view, "\n")
	mini := strings.Join(lines[len(lines)-1-components.MiniPlayerRows:len(lines)-1], "\n")
	if !strings.Contains(mini, "Second Wind") {
		t.Errorf("mini player does not show song-2:\n%s", mini)
	}
	if statePtr(h.ctx.State()).SongID() != "song-2" {
		t.Errorf("current song after back = %q, want song-2", statePtr(h.ctx.State()).SongID())
	}
}

func TestPlayerMountDoesNotReload(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-1"))
	h.media.at(42)
	h.drain()

	h.key(tea.KeyEsc)
	h.runes("o")

	if h.screen() != router.ScreenPlayer {
		t.Fatalf("screen = %s, want player", h.screen())
	}
	if got := h.ctx.State().CurrentTime; got != 42 {
		t.Errorf("CurrentTime = %v, want 42 (song reloaded)", got)
	}
}

func TestStartPathUnknownSongFallsBackToFirst(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("missing"))

	if h.screen() != router.ScreenPlayer {
		t.Fatalf("screen = %s, want player", h.screen())
	}
	if id, _ := h.m.router.Query("id"); id != "song-1" {
		t.Errorf("route id = %q, want song-1", id)
	}
	if statePtr(h.ctx.State()).SongID() != "song-1" {
		t.Errorf("current song = %q, want song-1", statePtr(h.ctx.State()).SongID())
	}
}

func TestEmptyCatalogRedirectsToPlaylist(t *testing.T) {
	empty, err := catalog.New("", nil)
	if err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, empty, router.PathPlayer)

	if h.screen() != router.ScreenPlaylist {
		t.Errorf("screen = %s, want playlist", h.screen())
	}
	if h.m.lastError == nil {
		t.Error("no error shown for empty catalog")
	}
	if statePtr(h.ctx.State()).HasSong() {
		t.Error("a song was loaded from an empty catalog")
	}
}

func TestFirstKeyActivates(t *testing.T) {
	h := newHarness(t, testCatalog(t), "")
	h.key(tea.KeyDown)
	h.key(tea.KeyDown)
	if h.act.calls != 1 {
		t.Errorf("Activate called %d times, want 1", h.act.calls)
	}
}

func TestSkipIsClamped(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-1"))

	h.media.at(3)
	h.drain()
	h.key(tea.KeyLeft)
	if got := h.ctx.State().CurrentTime; got != 0 {
		t.Errorf("after rewind CurrentTime = %v, want 0", got)
	}

	h.media.at(198)
	h.drain()
	h.key(tea.KeyRight)
	if got := h.ctx.State().CurrentTime; got != 200 {
		t.Errorf("after forward CurrentTime = %v, want 200", got)
	}

	h.media.at(100)
	h.drain()
	h.key(tea.KeyRight)
	if got := h.ctx.State().CurrentTime; got != 105 {
		t.Errorf("after forward CurrentTime = %v, want 105", got)
	}
}

func TestToggleOnPlayer(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-1"))

	h.key(tea.KeySpace)
	if h.ctx.State().IsPlaying {
		t.Error("space did not pause")
	}
	h.key(tea.KeySpace)
	if !h.ctx.State().IsPlaying {
		t.Error("space did not resume")
	}
}

func TestRepeatOnEnd(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-1"))

	h.media.end()
	h.drain()
	if h.ctx.State().IsPlaying {
		t.Fatal("still playing after end without repeat")
	}
	if got := h.ctx.State().CurrentTime; got != 0 {
		t.Errorf("CurrentTime after end = %v, want 0", got)
	}

	h.runes("r")
	if !h.m.repeat {
		t.Fatal("repeat not enabled")
	}
	h.key(tea.KeySpace)
	h.media.end()
	h.drain()

	if !h.ctx.State().IsPlaying || !h.media.isPlaying() {
		t.Error("song did not restart with repeat on")
	}
	if got := h.media.CurrentTime(); got != 0 {
		t.Errorf("media position after repeat = %v, want 0", got)
	}
}

func TestRepeatOnlyOnPlayerScreen(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-1"))
	h.runes("r")
	h.key(tea.KeyEsc)

	h.media.end()
	h.drain()
	if h.ctx.State().IsPlaying {
		t.Error("repeat restarted playback outside the player screen")
	}
}

func TestDragProgressBarSeeks(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-1"))

	body := h.m.height - 1
	row := components.PlayerProgressRow(body)
	barX, barWidth := components.ProgressLayout(components.PlayerIndent, h.m.width)

	h.send(tea.MouseMsg{X: barX, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !h.m.dragging {
		t.Fatal("press on the bar did not start a drag")
	}

	mid := barX + barWidth/2
	h.send(tea.MouseMsg{X: mid, Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	want := components.PositionAt(mid, barX, barWidth, 200)
	if h.m.dragPos != want {
		t.Errorf("drag preview = %v, want %v", h.m.dragPos, want)
	}
	if h.ctx.State().CurrentTime != 0 {
		t.Error("seeked before release")
	}

	h.send(tea.MouseMsg{X: mid, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if h.m.dragging {
		t.Error("still dragging after release")
	}
	if got := h.ctx.State().CurrentTime; got != want {
		t.Errorf("CurrentTime = %v, want %v", got, want)
	}
}

func TestPressOffBarDoesNotDrag(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-1"))
	h.send(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if h.m.dragging {
		t.Error("press outside the bar started a drag")
	}
}

func TestCopyLyricLine(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-1"))
	h.media.at(12)
	h.drain()

	cmd := h.runes("y")
	if cmd == nil {
		t.Fatal("no copy command")
	}
	msg := cmd()
	if h.copied != "you" {
		t.Errorf("copied %q, want %q", h.copied, "you")
	}
	h.send(msg)
	if !strings.Contains(h.m.status, "you") {
		t.Errorf("status = %q", h.m.status)
	}
}

func TestPlaylistFilterAndStop(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.PathPlaylist)

	h.runes("/")
	if !h.m.playlist.Filtering() {
		t.Fatal("filter not focused")
	}
	h.runes("second")
	if songs := h.m.playlist.Songs(); len(songs) != 1 || songs[0].ID != "song-2" {
		t.Errorf("filtered songs = %+v", songs)
	}
	h.key(tea.KeyEsc)
	if len(h.m.playlist.Songs()) != 2 {
		t.Error("clearing the filter did not restore the list")
	}

	h.runes("p")
	if statePtr(h.ctx.State()).SongID() != "song-1" || !h.ctx.State().IsPlaying {
		t.Error("p did not play the first song")
	}
	h.key(tea.KeyEsc)
	h.runes("x")
	if statePtr(h.ctx.State()).HasSong() {
		t.Error("x did not stop playback")
	}
}

func TestSongChangeNotifies(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.PathPlaylist)

	cmd := h.m.notifySong(&core.Song{ID: "x", Title: "Tune", Artist: "Us"})
	if cmd == nil {
		t.Fatal("no notification command")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("notify returned %v", msg)
	}
	if len(h.notified) != 1 || h.notified[0] != "Tune — Us" {
		t.Errorf("notifications = %v", h.notified)
	}

	h.m.cfg.TUI.Notify = false
	if cmd := h.m.notifySong(&core.Song{ID: "x", Title: "Tune"}); cmd != nil {
		t.Error("notification sent with notify disabled")
	}
}

func TestPlayAllOpensPlayer(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.PathPlaylist)
	h.key(tea.KeyDown)

	h.runes("p")
	if h.screen() != router.ScreenPlayer {
		t.Fatalf("screen = %s, want player", h.screen())
	}
	if id, _ := h.m.router.Query("id"); id != "song-1" {
		t.Errorf("route id = %q, want song-1", id)
	}
	if s := h.ctx.State(); s.SongID() != "song-1" || !s.IsPlaying {
		t.Errorf("state = %+v, want song-1 playing", s)
	}

	// A paused first song resumes
	h.key(tea.KeySpace)
	h.key(tea.KeyEsc)
	h.runes("p")
	if !h.ctx.State().IsPlaying {
		t.Error("p did not resume the paused first song")
	}
	if h.m.router.Depth() != 3 {
		t.Errorf("history depth = %d, want 3", h.m.router.Depth())
	}
}

func TestMiniPlayerHiddenOnPlayer(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-1"))
	if h.m.miniPlayerVisible(h.ctx.State()) {
		t.Error("mini player visible on the player screen")
	}
	h.key(tea.KeyEsc)
	if !h.m.miniPlayerVisible(h.ctx.State()) {
		t.Error("mini player hidden on the playlist")
	}
}

func TestBackToPlaylistSelectsCurrentSong(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.SongPath("song-2"))
	h.key(tea.KeyEsc)

	if h.screen() != router.ScreenPlaylist {
		t.Fatalf("screen = %s, want playlist", h.screen())
	}
	if got := h.m.playlist.Cursor(); got != 1 {
		t.Errorf("cursor = %d, want 1", got)
	}
}

// waitForError polls until the context records a playback failure.
func waitForError(t *testing.T, ctx *playback.Context) error {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := ctx.LastError(); err != nil {
			return err
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("playback never failed")
	return nil
}

func TestErrorBeforeStartIsShown(t *testing.T) {
	ctx := playback.New()
	media := &fakeMedia{}
	media.failPlay(errors.New("device busy"))
	ctx.Attach(media)

	song, _ := testCatalog(t).First()
	if err := ctx.PlaySong(song); err != nil {
		t.Fatal(err)
	}
	waitForError(t, ctx)

	h := newHarnessWith(t, testCatalog(t), router.PathPlaylist, ctx, media)
	if !strings.Contains(h.m.View(), "device busy") {
		t.Errorf("status bar does not show the earlier error:\n%s", h.m.View())
	}
}

func TestDroppedErrorEventIsShown(t *testing.T) {
	h := newHarness(t, testCatalog(t), router.PathPlaylist)
	h.media.failPlay(errors.New("device busy"))

	// Fill the event buffer so the error event is dropped
	for len(h.m.events) < cap(h.m.events) {
		h.m.events <- playback.Event{Type: playback.EventTimeUpdate}
	}
	model, _ := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	h.m = model.(Model)
	waitForError(t, h.ctx)

	if h.m.lastError != nil {
		t.Fatalf("lastError = %v before the buffered events were read", h.m.lastError)
	}
	h.drain()
	if h.m.lastError == nil || h.m.lastError.Error() != "device busy" {
		t.Errorf("lastError = %v, want device busy", h.m.lastError)
	}
}

func TestRunRequiresAttachedPlayback(t *testing.T) {
	err := Run(Options{Catalog: testCatalog(t), Playback: playback.New()})
	if !errors.Is(err, serrors.ErrMediaNotReady) {
		t.Errorf("Run() error = %v, want ErrMediaNotReady", err)
	}
}

// statePtr makes a State() snapshot addressable for its pointer-receiver methods.
func statePtr(s core.PlaybackState) *core.PlaybackState { return &s }
