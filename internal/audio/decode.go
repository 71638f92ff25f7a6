package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
	serrors "github.com/tessro/serenade/internal/errors"
)

// Supported reports whether src has a playable extension.
func Supported(src string) bool {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".mp3", ".wav":
		return true
	}
	return false
}

// openFile decodes an mp3 or wav file.
func openFile(src string) (beep.StreamSeekCloser, beep.Format, error) {
	if !Supported(src) {
		return nil, beep.Format{}, fmt.Errorf("%w: %s", serrors.ErrUnsupportedFormat, filepath.Ext(src))
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(src)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	default:
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(src), err)
	}
	return stream, format, nil
}

// Probe decodes the header of src and returns its duration in seconds.
func Probe(src string) (float64, error) {
	stream, format, err := openFile(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stream.Close() }()
	return format.SampleRate.D(stream.Len()).Seconds(), nil
}
