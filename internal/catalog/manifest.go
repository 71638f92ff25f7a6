package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tessro/serenade/internal/core"
	"github.com/tessro/serenade/internal/lyrics"
)

//go:embed default.toml
var defaultManifest string

// manifest is the on-disk catalog format.
type manifest struct {
	Title string         `toml:"title"`
	Songs []manifestSong `toml:"songs"`
}

type manifestSong struct {
	ID       string           `toml:"id"`
	Title    string           `toml:"title"`
	Artist   string           `toml:"artist"`
	Cover    string           `toml:"cover"`
	Audio    string           `toml:"audio"`
	Duration float64          `toml:"duration"`
	LRC      string           `toml:"lrc"`
	Lyrics   []core.LyricLine `toml:"lyrics"`
}

// Load reads a catalog manifest. Relative cover, audio and lrc paths are
// resolved against the manifest's directory.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data), filepath.Dir(abs))
}

// Default returns the built-in catalog with media paths resolved against
// baseDir.
func Default(baseDir string) (*Catalog, error) {
	return Parse(defaultManifest, baseDir)
}

// Parse decodes a manifest held in memory.
func Parse(data, baseDir string) (*Catalog, error) {
	var m manifest
	if _, err := toml.Decode(data, &m); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	songs := make([]core.Song, 0, len(m.Songs))
	for _, ms := range m.Songs {
		song := core.Song{
			ID:       ms.ID,
			Title:    ms.Title,
			Artist:   ms.Artist,
			CoverSrc: resolve(baseDir, ms.Cover),
			AudioSrc: resolve(baseDir, ms.Audio),
			Duration: ms.Duration,
			Lyrics:   ms.Lyrics,
		}

		if ms.LRC != "" {
			lines, err := loadLRC(resolve(baseDir, ms.LRC))
			if err != nil {
				return nil, fmt.Errorf("song %q: %w", ms.ID, err)
			}
			song.Lyrics = lines
		}

		songs = append(songs, song)
	}

	return New(m.Title, songs)
}

func loadLRC(path string) ([]core.LyricLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	lines, err := lyrics.ParseLRC(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
