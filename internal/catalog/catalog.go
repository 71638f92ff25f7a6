// Package catalog holds the static, immutable list of playable songs.
package catalog

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/tessro/serenade/internal/core"
	serrors "github.com/tessro/serenade/internal/errors"
)

// DefaultTitle is used when a manifest does not name its playlist.
const DefaultTitle = "Songs for you"

// Catalog is an ordered, read-only set of songs.
type Catalog struct {
	title string
	songs []core.Song
	byID  map[string]int
}

// New validates songs and builds a catalog. Song ids must be unique and
// every lyric sequence must be sorted by non-negative time.
func New(title string, songs []core.Song) (*Catalog, error) {
	if title == "" {
		title = DefaultTitle
	}

	for i, s := range songs {
		if s.ID == "" {
			return nil, fmt.Errorf("song %d: missing id", i+1)
		}
		if s.Duration < 0 {
			return nil, fmt.Errorf("song %q: negative duration", s.ID)
		}
		if lo.ContainsBy(s.Lyrics, func(l core.LyricLine) bool { return l.Time < 0 || math.IsNaN(l.Time) }) {
			return nil, fmt.Errorf("song %q: lyric time must be a non-negative number", s.ID)
		}
		if !lo.IsSortedByKey(s.Lyrics, func(l core.LyricLine) float64 { return l.Time }) {
			return nil, fmt.Errorf("song %q: lyrics are not sorted by time", s.ID)
		}
	}

	if dups := lo.FindDuplicatesBy(songs, func(s core.Song) string { return s.ID }); len(dups) > 0 {
		return nil, fmt.Errorf("duplicate song id %q", dups[0].ID)
	}

	c := &Catalog{
		title: title,
		songs: make([]core.Song, len(songs)),
		byID:  make(map[string]int, len(songs)),
	}
	copy(c.songs, songs)
	for i, s := range c.songs {
		c.byID[s.ID] = i
	}
	return c, nil
}

// Title returns the playlist title.
func (c *Catalog) Title() string {
	return c.title
}

// Songs returns the songs in catalog order. The slice must not be modified.
func (c *Catalog) Songs() []core.Song {
	return c.songs
}

// Len returns the number of songs.
func (c *Catalog) Len() int {
	return len(c.songs)
}

// IsEmpty returns true if the catalog has no songs.
func (c *Catalog) IsEmpty() bool {
	return c.Len() == 0
}

// Get returns the song with the given id.
func (c *Catalog) Get(id string) (*core.Song, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.songs[i], true
}

// Lookup is Get with an error for callers that report failures.
func (c *Catalog) Lookup(id string) (*core.Song, error) {
	if s, ok := c.Get(id); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", serrors.ErrSongNotFound, id)
}

// First returns the first song.
func (c *Catalog) First() (*core.Song, bool) {
	if c.IsEmpty() {
		return nil, false
	}
	return &c.songs[0], true
}

// Resolve picks the song for a player view: the song with id, or the first
// song when id is empty or unknown. It returns false only when the catalog
// is empty.
func (c *Catalog) Resolve(id string) (*core.Song, bool) {
	if id != "" {
		if s, ok := c.Get(id); ok {
			return s, true
		}
	}
	return c.First()
}

// Index returns the position of id in the catalog, or -1.
func (c *Catalog) Index(id string) int {
	if i, ok := c.byID[id]; ok {
		return i
	}
	return -1
}

// TotalDuration returns the sum of declared durations in seconds.
func (c *Catalog) TotalDuration() float64 {
	return lo.SumBy(c.songs, func(s core.Song) float64 { return s.Duration })
}

// Field selects what Search matches against.
type Field int

const (
	FieldAny Field = iota
	FieldTitle
	FieldArtist
	FieldLyrics
)

// Filter returns the songs whose title or artist contains query,
// case-insensitively. An empty query returns every song.
func (c *Catalog) Filter(query string) []core.Song {
	if query == "" {
		return c.songs
	}
	return lo.Filter(c.songs, func(s core.Song, _ int) bool {
		return containsFold(s.Title, query) || containsFold(s.Artist, query)
	})
}

// Search returns the songs whose field contains query, case-insensitively.
// FieldAny also matches lyric text.
func (c *Catalog) Search(query string, field Field) []core.Song {
	if query == "" {
		return nil
	}
	return lo.Filter(c.songs, func(s core.Song, _ int) bool {
		title := containsFold(s.Title, query)
		artist := containsFold(s.Artist, query)
		words := lo.ContainsBy(s.Lyrics, func(l core.LyricLine) bool {
			return containsFold(l.Text, query)
		})
		switch field {
		case FieldTitle:
			return title
		case FieldArtist:
			return artist
		case FieldLyrics:
			return words
		default:
			return title || artist || words
		}
	})
}
