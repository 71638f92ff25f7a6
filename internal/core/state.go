package core

// PlaybackState is the single shared record of what is loaded and where
// playback currently is.
type PlaybackState struct {
	CurrentSong *Song   `json:"current_song"`
	IsPlaying   bool    `json:"is_playing"`
	CurrentTime float64 `json:"current_time"` // seconds
	Duration    float64 `json:"duration"`     // seconds, 0 until metadata is known
}

// HasSong returns true if a song is loaded.
func (s *PlaybackState) HasSong() bool {
	return s != nil && s.CurrentSong != nil
}

// SongID returns the id of the loaded song, or "" when nothing is loaded.
func (s *PlaybackState) SongID() string {
	if !s.HasSong() {
		return ""
	}
	return s.CurrentSong.ID
}

// Progress returns playback progress as a fraction (0-1).
func (s *PlaybackState) Progress() float64 {
	if s == nil || s.Duration <= 0 {
		return 0
	}
	p := s.CurrentTime / s.Duration
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
