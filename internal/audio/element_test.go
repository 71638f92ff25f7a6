package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/tessro/serenade/internal/core"
	serrors "github.com/tessro/serenade/internal/errors"
)

// writeSilence writes a stereo wav file of the given length.
func writeSilence(t *testing.T, seconds float64) string {
	t.Helper()

	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	remaining := format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	silence := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if remaining <= 0 {
			return 0, false
		}
		n := min(len(samples), remaining)
		for i := range samples[:n] {
			samples[i] = [2]float64{}
		}
		remaining -= n
		return n, true
	})

	path := filepath.Join(t.TempDir(), "song.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.Encode(f, silence, format); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

type recorder struct {
	events chan core.MediaEvent
}

func record(e *Element) *recorder {
	r := &recorder{events: make(chan core.MediaEvent, 256)}
	e.AddListener(func(ev core.MediaEvent) {
		select {
		case r.events <- ev:
		default:
		}
	})
	return r
}

func (r *recorder) waitFor(t *testing.T, want core.MediaEvent) {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-r.events:
			if ev == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func waitPlay(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("play request never settled")
		return nil
	}
}

func TestLoadReportsDuration(t *testing.T) {
	path := writeSilence(t, 0.5)
	e := New(Muted())
	defer e.Close()
	r := record(e)

	if d := e.Duration(); d != 0 {
		t.Errorf("Duration() before load = %v, want 0", d)
	}

	e.Load(path)
	r.waitFor(t, core.MediaLoadedMetadata)

	if d := e.Duration(); math.Abs(d-0.5) > 0.01 {
		t.Errorf("Duration() = %v, want 0.5", d)
	}
	if e.Src() != path {
		t.Errorf("Src() = %q, want %q", e.Src(), path)
	}
}

func TestPlayUntilEnded(t *testing.T) {
	path := writeSilence(t, 0.2)
	e := New(Muted(), WithTimeUpdateInterval(20*time.Millisecond))
	defer e.Close()
	r := record(e)

	e.Load(path)
	if err := waitPlay(t, e.Play()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if e.Paused() {
		t.Error("Paused() = true after successful play")
	}

	r.waitFor(t, core.MediaPlay)
	r.waitFor(t, core.MediaTimeUpdate)
	r.waitFor(t, core.MediaEnded)

	if !e.Paused() {
		t.Error("Paused() = false after end of stream")
	}
	if ct := e.CurrentTime(); math.Abs(ct-0.2) > 0.01 {
		t.Errorf("CurrentTime() after end = %v, want 0.2", ct)
	}

	// Playing again after the end starts over
	if err := waitPlay(t, e.Play()); err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if ct := e.CurrentTime(); ct > 0.15 {
		t.Errorf("CurrentTime() after replay = %v, want near 0", ct)
	}
}

func TestPauseAndResume(t *testing.T) {
	path := writeSilence(t, 2)
	e := New(Muted())
	defer e.Close()
	r := record(e)

	e.Load(path)
	if err := waitPlay(t, e.Play()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	e.Pause()
	r.waitFor(t, core.MediaPause)

	paused := e.CurrentTime()
	time.Sleep(100 * time.Millisecond)
	if got := e.CurrentTime(); got != paused {
		t.Errorf("CurrentTime() moved while paused: %v -> %v", paused, got)
	}

	if err := waitPlay(t, e.Play()); err != nil {
		t.Fatalf("resume error = %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if got := e.CurrentTime(); got <= paused {
		t.Errorf("CurrentTime() = %v after resume, want > %v", got, paused)
	}
}

func TestSetCurrentTimeBeforeLoad(t *testing.T) {
	path := writeSilence(t, 1)
	release := make(chan struct{})

	e := New(Muted())
	defer e.Close()
	e.decode = func(src string) (beep.StreamSeekCloser, beep.Format, error) {
		<-release
		return openFile(src)
	}
	r := record(e)

	e.Load(path)
	e.SetCurrentTime(0.5)
	if ct := e.CurrentTime(); ct != 0.5 {
		t.Errorf("CurrentTime() before metadata = %v, want 0.5", ct)
	}

	close(release)
	r.waitFor(t, core.MediaLoadedMetadata)

	if ct := e.CurrentTime(); math.Abs(ct-0.5) > 0.01 {
		t.Errorf("CurrentTime() after metadata = %v, want 0.5", ct)
	}
}

func TestLoadAbortsPendingPlay(t *testing.T) {
	path := writeSilence(t, 1)
	release := make(chan struct{})

	e := New(Muted())
	defer e.Close()
	e.decode = func(src string) (beep.StreamSeekCloser, beep.Format, error) {
		<-release
		return openFile(src)
	}

	e.Load(path)
	first := e.Play()
	e.Load(path)
	second := e.Play()

	if err := waitPlay(t, first); !errors.Is(err, serrors.ErrPlaybackAborted) {
		t.Errorf("first Play() error = %v, want ErrPlaybackAborted", err)
	}

	close(release)
	if err := waitPlay(t, second); err != nil {
		t.Errorf("second Play() error = %v", err)
	}
}

func TestPauseAbortsPendingPlay(t *testing.T) {
	path := writeSilence(t, 1)
	release := make(chan struct{})

	e := New(Muted())
	defer e.Close()
	e.decode = func(src string) (beep.StreamSeekCloser, beep.Format, error) {
		<-release
		return openFile(src)
	}

	e.Load(path)
	pending := e.Play()
	e.Pause()
	close(release)

	if err := waitPlay(t, pending); !errors.Is(err, serrors.ErrPlaybackAborted) {
		t.Errorf("Play() error = %v, want ErrPlaybackAborted", err)
	}
	if !e.Paused() {
		t.Error("Paused() = false, want true")
	}
}

func TestRequireGesture(t *testing.T) {
	path := writeSilence(t, 1)
	e := New(Muted(), RequireGesture(true))
	defer e.Close()

	e.Load(path)
	if err := waitPlay(t, e.Play()); !errors.Is(err, serrors.ErrPlaybackNotAllowed) {
		t.Fatalf("Play() error = %v, want ErrPlaybackNotAllowed", err)
	}

	e.Activate()
	if err := waitPlay(t, e.Play()); err != nil {
		t.Errorf("Play() after Activate error = %v", err)
	}
}

func TestPlayWithoutSource(t *testing.T) {
	e := New(Muted())
	defer e.Close()

	if err := waitPlay(t, e.Play()); !errors.Is(err, serrors.ErrMediaNotReady) {
		t.Errorf("Play() error = %v, want ErrMediaNotReady", err)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	e := New(Muted())
	defer e.Close()

	e.Load(filepath.Join(t.TempDir(), "song.ogg"))
	if err := waitPlay(t, e.Play()); !errors.Is(err, serrors.ErrUnsupportedFormat) {
		t.Errorf("Play() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRemoveListener(t *testing.T) {
	e := New(Muted())
	defer e.Close()

	calls := 0
	remove := e.AddListener(func(core.MediaEvent) { calls++ })
	e.emit(core.MediaTimeUpdate)
	remove()
	remove()
	e.emit(core.MediaTimeUpdate)

	if calls != 1 {
		t.Errorf("listener called %d times, want 1", calls)
	}
}

func TestSupported(t *testing.T) {
	tests := map[string]bool{
		"a.mp3":      true,
		"b.WAV":      true,
		"c.ogg":      false,
		"no-ext":     false,
		"dir/d.flac": false,
	}
	for src, want := range tests {
		if got := Supported(src); got != want {
			t.Errorf("Supported(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestProbe(t *testing.T) {
	path := writeSilence(t, 0.75)
	d, err := Probe(path)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d-0.75) > 0.01 {
		t.Errorf("Probe() = %v, want 0.75", d)
	}

	if _, err := Probe("song.ogg"); !errors.Is(err, serrors.ErrUnsupportedFormat) {
		t.Errorf("Probe(ogg) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Probe(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Probe(missing) error = %v, want ErrNotExist", err)
	}
}
