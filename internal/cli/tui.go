package cli

import (
	"github.com/spf13/cobra"
	"github.com/tessro/serenade/internal/router"
	"github.com/tessro/serenade/internal/tui"
	"github.com/tessro/serenade/internal/tui/styles"
)

var (
	tuiSong string
	tuiMute bool
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Open the player",
	Long: `Open the interactive player.

Screens:
  • Landing  - the welcome note
  • Playlist - every song in the catalog
  • Player   - synced lyrics, progress and controls

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  Enter        Open / select
  Esc          Back
  /            Filter songs
  Space        Play/Pause
  ←/→          Skip back/forward
  r            Repeat
  l            Like
  y            Copy lyric line
  o            Open the mini player song`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	addTUIFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func addTUIFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&tuiSong, "song", "s", "", "open the player on this song id")
	cmd.Flags().BoolVarP(&tuiMute, "mute", "m", false, "run without audio output")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	start := ""
	if tuiSong != "" {
		if _, err := cat.Lookup(tuiSong); err != nil {
			return err
		}
		start = router.SongPath(tuiSong)
	}

	styles.SetTheme(cfg.TUI.Theme)

	s := newSession(tuiMute || cfg.Player.Mute, cfg.Player.RequireGesture)
	defer s.Close()

	logger.Info("starting ui", "songs", cat.Len(), "start", start)
	return tui.Run(tui.Options{
		Catalog:   cat,
		Playback:  s.playback,
		Activator: s.media,
		Config:    cfg,
		Logger:    logger.With("component", "tui"),
		StartPath: start,
	})
}
