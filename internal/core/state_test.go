package core

import (
	"testing"
	"time"
)

func TestPlaybackStateProgress(t *testing.T) {
	tests := []struct {
		name  string
		state *PlaybackState
		want  float64
	}{
		{"nil", nil, 0},
		{"no duration", &PlaybackState{CurrentTime: 5}, 0},
		{"half", &PlaybackState{CurrentTime: 50, Duration: 100}, 0.5},
		{"past end", &PlaybackState{CurrentTime: 120, Duration: 100}, 1},
		{"negative", &PlaybackState{CurrentTime: -1, Duration: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaybackStateSong(t *testing.T) {
	var nilState *PlaybackState
	if nilState.HasSong() || nilState.SongID() != "" {
		t.Error("nil state reports a song")
	}

	s := &PlaybackState{}
	if s.HasSong() {
		t.Error("empty state reports a song")
	}

	s.CurrentSong = &Song{ID: "song-2"}
	if !s.HasSong() || s.SongID() != "song-2" {
		t.Errorf("SongID() = %q", s.SongID())
	}
}

func TestSongDuration(t *testing.T) {
	var nilSong *Song
	if nilSong.DurationTime() != 0 {
		t.Error("nil song has a duration")
	}
	s := &Song{Duration: 1.5}
	if got := s.DurationTime(); got != 1500*time.Millisecond {
		t.Errorf("DurationTime() = %v", got)
	}
}

func TestMediaEventString(t *testing.T) {
	if MediaLoadedMetadata.String() != "loadedmetadata" || MediaEvent(99).String() != "unknown" {
		t.Error("MediaEvent.String mismatch")
	}
}
