package core

import "time"

// LyricLine is a timestamped fragment of a song's lyrics.
type LyricLine struct {
	Time float64 `json:"time" toml:"time"` // seconds from the start of the song
	Text string  `json:"text" toml:"text"`
}

// Song is an immutable catalog entry.
type Song struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Artist   string      `json:"artist"`
	CoverSrc string      `json:"cover_src,omitempty"`
	AudioSrc string      `json:"audio_src"`
	Duration float64     `json:"duration"` // seconds
	Lyrics   []LyricLine `json:"lyrics,omitempty"`
}

// DurationTime returns the declared duration as a time.Duration.
func (s *Song) DurationTime() time.Duration {
	if s == nil {
		return 0
	}
	return Seconds(s.Duration)
}

// Seconds converts floating point seconds to a time.Duration.
func Seconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
