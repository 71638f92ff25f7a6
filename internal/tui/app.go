package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gen2brain/beeep"
	"github.com/samber/lo"
	"github.com/tessro/serenade/internal/catalog"
	"github.com/tessro/serenade/internal/config"
	"github.com/tessro/serenade/internal/core"
	serrors "github.com/tessro/serenade/internal/errors"
	"github.com/tessro/serenade/internal/logging"
	"github.com/tessro/serenade/internal/lyrics"
	"github.com/tessro/serenade/internal/playback"
	"github.com/tessro/serenade/internal/router"
	"github.com/tessro/serenade/internal/tui/components"
	"github.com/tessro/serenade/internal/tui/styles"
)

// errorDuration is how long a playback error stays in the status bar.
const errorDuration = 5 * time.Second

// Activator receives the first user gesture. Media elements that refuse to
// start before one implement it.
type Activator interface {
	Activate()
}

// Options wires a Model to its collaborators.
type Options struct {
	Catalog   *catalog.Catalog
	Playback  *playback.Context
	Activator Activator // optional
	Config    *config.Config
	Logger    *slog.Logger

	// StartPath is the first route, "/" when empty.
	StartPath string

	// Notify shows a desktop notification. Defaults to beeep.
	Notify func(title, message string) error
	// Copy writes to the system clipboard. Defaults to atotto/clipboard.
	Copy func(text string) error
}

// Model is the main TUI model
type Model struct {
	catalog   *catalog.Catalog
	playback  *playback.Context
	activator Activator
	router    *router.Router
	cfg       *config.Config
	logger    *slog.Logger

	events      chan playback.Event
	unsubscribe func()

	width  int
	height int

	// Components
	landing    *components.Landing
	playlist   *components.Playlist
	nowPlaying *components.NowPlaying
	miniPlayer *components.MiniPlayer
	spinner    spinner.Model
	help       help.Model

	// Player screen
	repeat   bool
	liked    map[string]bool
	dragging bool
	dragPos  float64

	// Overlays
	showHelp bool

	activated bool

	// Status bar
	lastError   error
	errorExpiry time.Time
	playbackErr error // last failure read from the playback context
	status      string

	notify func(title, message string) error
	copy   func(text string) error

	quitting bool
}

// NewModel creates a new TUI model subscribed to the playback context.
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Highlight

	m := Model{
		catalog:    opts.Catalog,
		playback:   opts.Playback,
		activator:  opts.Activator,
		router:     router.New(),
		cfg:        cfg,
		logger:     logger,
		events:     make(chan playback.Event, 64),
		landing:    components.NewLanding(),
		playlist:   components.NewPlaylist(),
		nowPlaying: components.NewNowPlaying(),
		miniPlayer: components.NewMiniPlayer(),
		spinner:    s,
		help:       help.New(),
		repeat:     cfg.Player.Repeat,
		liked:      make(map[string]bool),
		notify:     opts.Notify,
		copy:       opts.Copy,
	}
	if m.notify == nil {
		m.notify = func(title, message string) error {
			return beeep.Notify(title, message, "")
		}
	}
	if m.copy == nil {
		m.copy = clipboard.WriteAll
	}

	m.playlist.SetSongs(m.catalog.Songs())
	// An error from before the UI started has no event left to report it
	m.playbackErr = m.playback.LastError()
	m.setError(m.playbackErr)

	events := m.events
	m.unsubscribe = m.playback.Subscribe(func(ev playback.Event) {
		select {
		case events <- ev:
		default:
			// The view reads state directly, so a dropped event only
			// delays a redraw
		}
	})

	if opts.StartPath != "" && opts.StartPath != router.PathLanding {
		if route, err := router.Parse(opts.StartPath); err != nil {
			m.setError(err)
		} else {
			if route.Screen == router.ScreenPlayer {
				_ = m.router.Navigate(router.PathPlaylist)
			}
			_ = m.router.Navigate(opts.StartPath)
			m.mount() // the spinner starts from Init
		}
	}

	return m
}

// Messages
type playbackMsg playback.Event
type errMsg error
type statusMsg string

// Commands
func waitForEvent(events <-chan playback.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return playbackMsg(ev)
	}
}

func (m Model) notifySong(song *core.Song) tea.Cmd {
	if !m.cfg.TUI.Notify || song == nil {
		return nil
	}
	notify := m.notify
	title, body := "Now playing", song.Title
	if song.Artist != "" {
		body += " — " + song.Artist
	}
	return func() tea.Msg {
		if err := notify(title, body); err != nil {
			return errMsg(fmt.Errorf("notification: %w", err))
		}
		return nil
	}
}

func (m Model) copyLine(text string) tea.Cmd {
	write := m.copy
	return func() tea.Msg {
		if err := write(text); err != nil {
			return errMsg(fmt.Errorf("copy to clipboard: %w", err))
		}
		return statusMsg("Copied: " + text)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), m.spinner.Tick)
}

// Close releases the playback subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case playbackMsg:
		return m.handlePlayback(playback.Event(msg))

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case errMsg:
		m.setError(msg)
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handlePlayback(ev playback.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForEvent(m.events)}

	switch ev.Type {
	case playback.EventSongChange:
		m.dragging = false
		if ev.State.HasSong() {
			cmds = append(cmds, m.spinner.Tick, m.notifySong(ev.State.CurrentSong))
		}

	case playback.EventEnded:
		// Repeat belongs to the player screen
		if m.repeat && m.router.Screen() == router.ScreenPlayer && ev.State.HasSong() {
			if err := m.playback.Seek(0); err != nil {
				m.setError(err)
			} else if err := m.playback.PlaySong(ev.State.CurrentSong); err != nil {
				m.setError(err)
			}
		}

	case playback.EventError:
		m.playbackErr = ev.Err
		m.setError(ev.Err)
	}

	// Catches an error event dropped while the channel was full
	if err := m.playback.LastError(); err != nil && !errors.Is(err, m.playbackErr) {
		m.playbackErr = err
		m.setError(err)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.lastError = err
	m.errorExpiry = time.Now().Add(errorDuration)
}

func (m Model) loading() bool {
	s := m.playback.State()
	return s.HasSong() && s.Duration <= 0
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key counts as the user gesture that unlocks playback
	if !m.activated && m.activator != nil {
		m.activator.Activate()
		m.activated = true
	}

	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	// The filter input gets every key
	if m.router.Screen() == router.ScreenPlaylist && m.playlist.Filtering() {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil
	}

	switch m.router.Screen() {
	case router.ScreenLanding:
		return m.handleLandingKey(msg)
	case router.ScreenPlaylist:
		return m.handlePlaylistKey(msg)
	case router.ScreenPlayer:
		return m.handlePlayerKey(msg)
	}
	return m, nil
}

func (m Model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		return m, m.navigate(router.PathPlaylist)
	}
	return m.handleMiniPlayerKey(msg)
}

func (m Model) handlePlaylistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.back(router.ScreenLanding, router.PathLanding)
		return m, nil

	case key.Matches(msg, keys.Up):
		m.playlist.Up()
		return m, nil

	case key.Matches(msg, keys.Down):
		m.playlist.Down()
		return m, nil

	case key.Matches(msg, keys.Enter):
		if song, ok := m.playlist.Selected(); ok {
			return m, m.navigate(router.SongPath(song.ID))
		}
		return m, nil

	case key.Matches(msg, keys.Filter):
		return m, m.playlist.StartFilter()

	case key.Matches(msg, keys.PlayAll):
		song, ok := m.catalog.First()
		if !ok {
			return m, nil
		}
		// Resume a paused first song too; mount skips songs already loaded
		if err := m.playback.PlaySong(song); err != nil {
			m.setError(err)
			return m, nil
		}
		return m, m.navigate(router.SongPath(song.ID))

	case key.Matches(msg, keys.Stop):
		if err := m.playback.StopSong(); err != nil {
			m.setError(err)
		}
		return m, nil
	}
	return m.handleMiniPlayerKey(msg)
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.playlist.StopFilter(true)
		m.playlist.SetSongs(m.catalog.Songs())
		return m, nil
	case "enter":
		m.playlist.StopFilter(false)
		return m, nil
	case "up":
		m.playlist.Up()
		return m, nil
	case "down":
		m.playlist.Down()
		return m, nil
	}

	cmd := m.playlist.Update(msg)
	m.playlist.SetSongs(m.catalog.Filter(m.playlist.Query()))
	return m, cmd
}

// handleMiniPlayerKey handles the mini player controls on screens that show it.
func (m Model) handleMiniPlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.playback.State()
	if !state.HasSong() {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Toggle):
		if err := m.playback.TogglePlayPause(); err != nil {
			m.setError(err)
		}
	case key.Matches(msg, keys.Open):
		return m, m.navigate(router.SongPath(state.SongID()))
	}
	return m, nil
}

func (m Model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.playback.State()

	switch {
	case key.Matches(msg, keys.Back):
		m.dragging = false
		m.back(router.ScreenPlaylist, router.PathPlaylist)
		// Unfiltered, the playlist lists the catalog in order
		if m.playlist.Query() == "" {
			m.playlist.SetCursor(m.catalog.Index(state.SongID()))
		}
		return m, nil

	case key.Matches(msg, keys.Toggle):
		if err := m.playback.TogglePlayPause(); err != nil {
			m.setError(err)
		}

	case key.Matches(msg, keys.Rewind):
		m.seek(state.CurrentTime - float64(m.cfg.Player.SkipSeconds))

	case key.Matches(msg, keys.Forward):
		m.seek(state.CurrentTime + float64(m.cfg.Player.SkipSeconds))

	case key.Matches(msg, keys.Repeat):
		m.repeat = !m.repeat
		m.status = "Repeat " + lo.Ternary(m.repeat, "on", "off")

	case key.Matches(msg, keys.Like):
		if id := state.SongID(); id != "" {
			m.liked[id] = !m.liked[id]
		}

	case key.Matches(msg, keys.Copy):
		song := state.CurrentSong
		if song == nil {
			return m, nil
		}
		idx := lyrics.CurrentIndex(song.Lyrics, state.CurrentTime)
		if idx == lyrics.NoLine {
			m.status = "No lyric yet"
			return m, nil
		}
		return m, m.copyLine(song.Lyrics[idx].Text)
	}
	return m, nil
}

// seek moves playback, clamped to the song.
func (m *Model) seek(seconds float64) {
	if err := m.playback.Seek(lo.Clamp(seconds, 0, m.duration())); err != nil {
		m.setError(err)
	}
}

// duration is the known length of the current song in seconds.
func (m Model) duration() float64 {
	state := m.playback.State()
	if state.Duration > 0 {
		return state.Duration
	}
	if state.CurrentSong != nil {
		return state.CurrentSong.Duration
	}
	return 0
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.height == 0 {
		return m, nil
	}

	body := m.height - 1

	if m.router.Screen() == router.ScreenPlayer {
		barX, barWidth := components.ProgressLayout(components.PlayerIndent, m.width)
		row := components.PlayerProgressRow(body)

		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button != tea.MouseButtonLeft || msg.Y != row {
				return m, nil
			}
			if msg.X < barX || msg.X >= barX+barWidth {
				return m, nil
			}
			m.dragging = true
			m.dragPos = components.PositionAt(msg.X, barX, barWidth, m.duration())

		case tea.MouseActionMotion:
			if m.dragging {
				m.dragPos = components.PositionAt(msg.X, barX, barWidth, m.duration())
			}

		case tea.MouseActionRelease:
			if m.dragging {
				m.dragging = false
				m.seek(m.dragPos)
			}
		}
		return m, nil
	}

	// A click on the mini player opens the player
	state := m.playback.State()
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
		m.miniPlayerVisible(state) && msg.Y >= body-components.MiniPlayerRows && msg.Y < body {
		return m, m.navigate(router.SongPath(state.SongID()))
	}
	return m, nil
}

// miniPlayerVisible reports whether the mini player shows on the current
// screen.
func (m Model) miniPlayerVisible(state core.PlaybackState) bool {
	return m.miniPlayer.Visible(state, m.router.Screen() == router.ScreenPlayer)
}

// navigate pushes path and mounts the new screen.
func (m *Model) navigate(path string) tea.Cmd {
	if err := m.router.Navigate(path); err != nil {
		m.setError(err)
		return nil
	}
	m.logger.Debug("navigate", "path", path, "depth", m.router.Depth())
	return m.mount()
}

// back returns to screen, replacing the current route with path when the
// history does not lead there.
func (m *Model) back(screen router.Screen, path string) {
	if prev, ok := m.router.Previous(); ok && prev.Screen == screen {
		m.router.Back()
		return
	}
	_ = m.router.Replace(path)
}

// mount runs the on-enter behavior of the current screen.
func (m *Model) mount() tea.Cmd {
	if m.router.Screen() != router.ScreenPlayer {
		return nil
	}

	id, _ := m.router.Query("id")
	song, ok := m.catalog.Resolve(id)
	if !ok {
		m.setError(serrors.ErrEmptyCatalog)
		_ = m.router.Replace(router.PathPlaylist)
		return nil
	}
	if song.ID != id {
		_ = m.router.Replace(router.SongPath(song.ID))
	}

	m.dragging = false
	if st := m.playback.State(); st.SongID() == song.ID {
		return nil
	}
	if err := m.playback.PlaySong(song); err != nil {
		m.setError(err)
		return nil
	}
	return m.spinner.Tick
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	body := m.height - 1
	state := m.playback.State()

	var main string
	if m.router.Screen() == router.ScreenPlayer {
		main = m.renderPlayer(state, body)
	} else {
		mini := m.miniPlayerVisible(state)
		height := body
		if mini {
			height -= components.MiniPlayerRows
		}

		switch m.router.Screen() {
		case router.ScreenLanding:
			main = m.landing.Render(m.landingContent(), m.width, height)
		default:
			header := components.PlaylistHeader{
				Title:    m.catalog.Title(),
				Count:    m.catalog.Len(),
				Duration: m.catalog.TotalDuration(),
			}
			main = m.playlist.Render(header, state.SongID(), state.IsPlaying, m.width, height)
		}

		if mini {
			main = lipgloss.JoinVertical(lipgloss.Left, main, m.miniPlayer.Render(state, m.width))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) landingContent() components.LandingContent {
	l := m.cfg.Landing
	return components.LandingContent{
		Recipient: l.Recipient,
		Headline:  l.Headline,
		Message:   l.Message,
		Button:    l.Button,
		Footer:    l.Footer,
	}
}

func (m Model) renderPlayer(state core.PlaybackState, height int) string {
	position := state.CurrentTime
	if m.dragging {
		position = m.dragPos
	}

	return m.nowPlaying.Render(components.PlayerProps{
		Song:     state.CurrentSong,
		State:    state,
		Position: position,
		Loading:  m.loading(),
		Spinner:  m.spinner.View(),
		Repeat:   m.repeat,
		Liked:    m.liked[state.SongID()],
		Skip:     m.cfg.Player.SkipSeconds,
	}, m.width, height)
}

func (m Model) renderStatusBar() string {
	status := m.help.ShortHelpView(keys.ShortHelp())

	if m.lastError != nil && time.Now().Before(m.errorExpiry) {
		status = styles.ErrorText.Render("Error: " + m.lastError.Error())
	} else if m.status != "" {
		status = styles.Muted.Render(m.status)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(1).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Serenade - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	h := m.help
	h.ShowAll = true

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.Highlight.Render(title),
		styles.Dim.Render(divider),
		"",
		h.FullHelpView(keys.FullHelp()),
		"",
		styles.Dim.Render("Press ? or Esc to close"),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(1, 2).Render(content))
}

// Run starts the TUI application
func Run(opts Options) error {
	if opts.Playback == nil || !opts.Playback.Ready() {
		return fmt.Errorf("%w: playback has no media element", serrors.ErrMediaNotReady)
	}

	model := NewModel(opts)
	defer model.Close()

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if model.cfg.TUI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, progOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
