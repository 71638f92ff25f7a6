package config

// Config is the root configuration structure.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Landing LandingConfig `toml:"landing"`
	Player  PlayerConfig  `toml:"player"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// CatalogConfig points at the song manifest.
type CatalogConfig struct {
	// Path to a catalog.toml manifest. Empty uses the built-in catalog.
	Path string `toml:"path"`
}

// LandingConfig holds the landing screen copy.
type LandingConfig struct {
	Recipient string `toml:"recipient"`
	Headline  string `toml:"headline"`
	Message   string `toml:"message"`
	Button    string `toml:"button"`
	Footer    string `toml:"footer"`
}

// PlayerConfig holds playback settings.
type PlayerConfig struct {
	SkipSeconds    int  `toml:"skip_seconds"`
	Repeat         bool `toml:"repeat"`
	RequireGesture bool `toml:"require_gesture"`
	Mute           bool `toml:"mute"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
	Notify          bool   `toml:"notify"`
	Mouse           bool   `toml:"mouse"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
