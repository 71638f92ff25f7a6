package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrSongNotFound       = errors.New("song not found")
	ErrEmptyCatalog       = errors.New("catalog is empty")
	ErrPlaybackAborted    = errors.New("play request aborted by a newer request")
	ErrPlaybackNotAllowed = errors.New("playback not allowed before user interaction")
	ErrMediaNotReady      = errors.New("media element not ready")
	ErrUnsupportedFormat  = errors.New("unsupported audio format")
	ErrUnknownRoute       = errors.New("unknown route")
	ErrConfigNotFound     = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// SerenadeError wraps an error with a user-friendly suggestion.
type SerenadeError struct {
	Err        error
	Suggestion string
}

func (e *SerenadeError) Error() string {
	return e.Err.Error()
}

func (e *SerenadeError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &SerenadeError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// IsTransientPlayback reports whether err is an expected playback failure:
// the request was superseded, or is waiting on a user gesture.
func IsTransientPlayback(err error) bool {
	return errors.Is(err, ErrPlaybackAborted) || errors.Is(err, ErrPlaybackNotAllowed)
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var serenadeErr *SerenadeError
	if errors.As(err, &serenadeErr) && serenadeErr.Suggestion != "" {
		return serenadeErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrSongNotFound) {
		return "Run 'serenade songs' to see the song ids in the catalog"
	}

	if errors.Is(err, ErrEmptyCatalog) {
		return "Add [[songs]] entries to your catalog file, or unset catalog.path to use the built-in one"
	}

	if errors.Is(err, ErrUnsupportedFormat) {
		return "Only .mp3 and .wav files can be played"
	}

	if errors.Is(err, ErrPlaybackNotAllowed) {
		return "Press any key to allow playback, or set player.require_gesture = false"
	}

	// Missing audio files
	if strings.Contains(errStr, "no such file") || strings.Contains(errStr, "cannot find the file") {
		return "Check that audio_src in your catalog points to an existing file"
	}

	// Audio device
	if strings.Contains(errStr, "speaker") || strings.Contains(errStr, "alsa") ||
		strings.Contains(errStr, "audio device") {
		return "No audio device available. Try --mute to run without sound"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Run 'serenade config init' to create a fresh configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
