package cli

import (
	"time"

	"github.com/tessro/serenade/internal/audio"
	"github.com/tessro/serenade/internal/catalog"
	"github.com/tessro/serenade/internal/config"
	serrors "github.com/tessro/serenade/internal/errors"
	"github.com/tessro/serenade/internal/playback"
)

// loadCatalog reads the configured manifest, or the built-in catalog whose
// media lives in the config directory.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		c, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return nil, serrors.WithSuggestion(err,
				"Check catalog.path in your config, or unset it to use the built-in catalog")
		}
		return c, nil
	}
	return catalog.Default(config.Dir())
}

// session is a media element bound to a playback context.
type session struct {
	media    *audio.Element
	playback *playback.Context
	silent   bool
}

// silentOutput reports whether a session plays without a sound device,
// either by request or because this build has none.
func silentOutput(mute bool) bool {
	return mute || !audio.DeviceAvailable
}

func newSession(mute, requireGesture bool) *session {
	opts := []audio.Option{
		audio.RequireGesture(requireGesture),
		audio.WithLogger(logger.With("component", "audio")),
	}
	if cfg.TUI.RefreshInterval > 0 {
		opts = append(opts, audio.WithTimeUpdateInterval(time.Duration(cfg.TUI.RefreshInterval)*time.Millisecond))
	}
	silent := silentOutput(mute)
	if silent {
		opts = append(opts, audio.Muted())
	}
	if silent && !mute {
		logger.Warn("no sound device in this build, playing silently")
	}

	media := audio.New(opts...)
	pc := playback.New(playback.WithLogger(logger.With("component", "playback")))
	pc.Attach(media)

	return &session{media: media, playback: pc, silent: silent}
}

// Close detaches the context and releases the audio output.
func (s *session) Close() {
	logger.Debug("closing session", "src", s.media.Src(), "paused", s.media.Paused())
	_ = s.playback.Close()
	_ = s.media.Close()
}
