package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/tessro/serenade/internal/core"
	"github.com/tessro/serenade/internal/lyrics"
)

var lyricsAt float64

var lyricsCmd = &cobra.Command{
	Use:   "lyrics <song-id>",
	Short: "Print a song's lyrics",
	Long: `Print a song's timed lyrics.

With --at, the line being sung at that many seconds is highlighted.

Examples:
  serenade lyrics song-2
  serenade lyrics song-2 --at 42.5`,
	Args: cobra.ExactArgs(1),
	RunE: runLyrics,
}

func init() {
	lyricsCmd.Flags().Float64Var(&lyricsAt, "at", -1, "highlight the line at this position in seconds")
	rootCmd.AddCommand(lyricsCmd)
}

func runLyrics(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	song, err := cat.Lookup(args[0])
	if err != nil {
		return err
	}

	current := lyrics.NoLine
	if cmd.Flags().Changed("at") {
		current = lyrics.CurrentIndex(song.Lyrics, lyricsAt)
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"id":      song.ID,
			"lyrics":  song.Lyrics,
			"current": current,
		})
	}

	writeLyrics(cmd.OutOrStdout(), song, current)
	return nil
}

// writeLyrics prints "m:ss  text" per line, marking line current.
func writeLyrics(w io.Writer, song *core.Song, current int) {
	fmt.Fprintf(w, "%s — %s\n\n", song.Title, song.Artist)
	if len(song.Lyrics) == 0 {
		fmt.Fprintln(w, "♪ instrumental ♪")
		return
	}

	for i, line := range song.Lyrics {
		row := fmt.Sprintf("%5s  %s", FormatDuration(line.Time), line.Text)
		switch {
		case i == current:
			fmt.Fprintln(w, text.Colors{text.Bold, text.FgMagenta}.Sprint("♥ "+row))
		case current == lyrics.NoLine:
			fmt.Fprintln(w, "  "+row)
		default:
			fmt.Fprintln(w, text.FgHiBlack.Sprint("  "+row))
		}
	}
}
