package cli

import (
	"fmt"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/tessro/serenade/internal/audio"
	"github.com/tessro/serenade/internal/catalog"
	"github.com/tessro/serenade/internal/core"
	serrors "github.com/tessro/serenade/internal/errors"
)

var songsCmd = &cobra.Command{
	Use:     "songs",
	Aliases: []string{"ls", "playlist"},
	Short:   "List the songs in the catalog",
	Args:    cobra.NoArgs,
	RunE:    runSongs,
}

func init() {
	rootCmd.AddCommand(songsCmd)
}

// songInfo is a catalog entry plus what was found on disk.
type songInfo struct {
	core.Song
	Size        int64   `json:"size"`
	Missing     bool    `json:"missing"`
	Decoded     float64 `json:"decoded_duration,omitempty"`
	DecodeError string  `json:"decode_error,omitempty"`
}

// inspectSongs stats and decodes each song's audio file. Missing files are
// reported as errors alongside the full list; files that exist but do not
// decode only carry DecodeError.
func inspectSongs(cat *catalog.Catalog) serrors.PartialResult[[]songInfo] {
	var result serrors.PartialResult[[]songInfo]
	for _, s := range cat.Songs() {
		info := songInfo{Song: s}
		st, err := os.Stat(s.AudioSrc)
		if err != nil {
			info.Missing = true
			result.AddError(fmt.Errorf("%s: %w", s.ID, err))
			result.Data = append(result.Data, info)
			continue
		}
		info.Size = st.Size()

		if d, err := audio.Probe(s.AudioSrc); err != nil {
			info.DecodeError = err.Error()
			logger.Debug("audio does not decode", "id", s.ID, "error", err)
		} else {
			info.Decoded = d
		}
		result.Data = append(result.Data, info)
	}
	return result
}

// lengthColumn shows the catalog duration, followed by the decoded one
// when the file disagrees by a second or more.
func lengthColumn(info songInfo) string {
	length := FormatDuration(info.Duration)
	if info.Decoded > 0 && math.Abs(info.Decoded-info.Duration) >= 1 {
		length += text.FgHiYellow.Sprintf(" (%s)", FormatDuration(info.Decoded))
	}
	return length
}

func runSongs(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	result := inspectSongs(cat)
	if result.HasErrors() {
		logger.Warn("audio files missing", "count", len(result.Errors))
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"title": cat.Title(),
			"songs": result.Data,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cat.Title())

	t := newTable(out, "#", "ID", "Title", "Artist", "Length", "Lyrics", "Audio")
	var totalSize int64
	for i, info := range result.Data {
		file := humanize.Bytes(uint64(info.Size))
		switch {
		case info.Missing:
			file = text.FgHiRed.Sprint("missing")
		case info.DecodeError != "":
			file = text.FgHiRed.Sprintf("%s, unreadable", file)
		}
		totalSize += info.Size

		lyrics := text.FgHiBlack.Sprint("none")
		if n := len(info.Lyrics); n > 0 {
			lyrics = fmt.Sprintf("%d lines", n)
		}

		t.AppendRow(table.Row{i + 1, info.ID, info.Title, info.Artist,
			lengthColumn(info), lyrics, file})
	}
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d songs", cat.Len()),
		FormatDuration(cat.TotalDuration()), "", humanize.Bytes(uint64(totalSize))})
	t.Render()

	if result.HasErrors() && Verbose() {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, result.ErrorSummary())
	}
	return nil
}
