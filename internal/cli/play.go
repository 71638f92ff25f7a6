package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/serenade/internal/catalog"
	"github.com/tessro/serenade/internal/core"
	serrors "github.com/tessro/serenade/internal/errors"
	"github.com/tessro/serenade/internal/tail"
	"github.com/tessro/serenade/internal/wizard"
)

var (
	playRepeat    bool
	playMute      bool
	playSearch    bool
	playNoEmoji   bool
	playTimestamp bool
	playFormat    string
)

var playCmd = &cobra.Command{
	Use:   "play [song-id]",
	Short: "Play a song and follow its lyrics",
	Long: `Play a song without the full player and print each lyric line as it
is sung, along with pauses, completions and errors.

Without a song id, a picker is shown when running in a terminal; otherwise
the first song in the catalog plays.

Format templates can use: {{.Type}} {{.Emoji}} {{.Time}} {{.ID}}
{{.Title}} {{.Artist}} {{.Line}} {{.Position}} {{.Error}}

Examples:
  serenade play                       # Pick a song
  serenade play song-2                # Play a specific song
  serenade play --search              # Search titles, artists and lyrics
  serenade play song-1 --repeat       # Loop until Ctrl+C
  serenade play -f '{{.Position}} {{.Line}}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&playRepeat, "repeat", "r", false, "replay the song when it ends")
	playCmd.Flags().BoolVarP(&playMute, "mute", "m", false, "run without audio output")
	playCmd.Flags().BoolVar(&playSearch, "search", false, "search for a song interactively")
	playCmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji output")
	playCmd.Flags().BoolVarP(&playTimestamp, "timestamp", "t", false, "show timestamps")
	playCmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom format template")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	song, err := pickSong(cat, args)
	if err != nil {
		return err
	}
	if song == nil {
		// Picker cancelled
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := newSession(playMute || cfg.Player.Mute, false)
	defer s.Close()
	// Running the command is the gesture
	s.media.Activate()

	formatter := tail.NewFormatter(
		tail.WithEmoji(!playNoEmoji),
		tail.WithTimestamp(playTimestamp),
		tail.WithTemplate(playFormat),
	)

	watcher := tail.NewWatcher(s.playback)
	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	logger.Info("playing", "id", song.ID, "repeat", playRepeat, "silent", s.silent)
	if err := s.playback.PlaySong(song); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			printEvent(formatter, event)

			switch event.Type {
			case tail.EventSongComplete:
				if !playRepeat {
					watcher.Stop()
					return nil
				}
				if err := s.playback.PlaySong(song); err != nil {
					return err
				}
			case tail.EventError:
				watcher.Stop()
				return event.Err
			}

		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// pickSong resolves the song to play from args, the wizard, or the
// catalog's first song.
func pickSong(cat *catalog.Catalog, args []string) (*core.Song, error) {
	if cat.IsEmpty() {
		return nil, serrors.ErrEmptyCatalog
	}
	if !wizard.NeedsSong(args) {
		return cat.Lookup(args[0])
	}

	interactive := wizard.NewInteractive()
	interactive.SetEnabled(!JSONOutput())
	if interactive.CanInteract() {
		if playSearch {
			interactive.SetSearchFunc(wizard.CatalogSearch(cat))
			return interactive.PromptSearch()
		}
		interactive.SetSongs(cat.Songs())
		return interactive.PromptSong(cat.Title())
	}

	song, _ := cat.First()
	return song, nil
}

// eventJSON is the --json form of a tail event.
type eventJSON struct {
	Type     string    `json:"type"`
	Time     time.Time `json:"time"`
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title,omitempty"`
	Line     string    `json:"line,omitempty"`
	Position float64   `json:"position"`
	Error    string    `json:"error,omitempty"`
}

func printEvent(f *tail.Formatter, e tail.Event) {
	if !JSONOutput() {
		fmt.Println(f.Format(e))
		return
	}

	out := eventJSON{Type: e.Type.String(), Time: e.Timestamp}
	state := e.Current
	if e.Type == tail.EventSongComplete || e.Type == tail.EventSongSkip || e.Type == tail.EventStop {
		state = e.Previous
	}
	if state != nil && state.CurrentSong != nil {
		out.ID = state.CurrentSong.ID
		out.Title = state.CurrentSong.Title
		out.Position = state.CurrentTime
	}
	if e.Line != nil {
		out.Line = e.Line.Text
		out.Position = e.Line.Time
	}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	_ = json.NewEncoder(os.Stdout).Encode(out)
}
