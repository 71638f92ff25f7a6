package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Landing: LandingConfig{
			Recipient: "Carolina",
			Headline:  "I made you something special.",
			Message:   "There's a little song hidden in here, just for you.",
			Button:    "Reveal the surprise",
			Footer:    "Made with love, just for you 💜",
		},
		Player: PlayerConfig{
			SkipSeconds: 5,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 250,
			Mouse:           true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Landing
	if c.Landing.Recipient == "" {
		c.Landing.Recipient = d.Landing.Recipient
	}
	if c.Landing.Headline == "" {
		c.Landing.Headline = d.Landing.Headline
	}
	if c.Landing.Message == "" {
		c.Landing.Message = d.Landing.Message
	}
	if c.Landing.Button == "" {
		c.Landing.Button = d.Landing.Button
	}
	if c.Landing.Footer == "" {
		c.Landing.Footer = d.Landing.Footer
	}

	// Player
	if c.Player.SkipSeconds == 0 {
		c.Player.SkipSeconds = d.Player.SkipSeconds
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
