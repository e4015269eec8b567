package tui

// Config holds TUI configuration.
type Config struct {
	Theme      Theme
	Width      int
	Height     int
	AltScreen  bool
	MouseWheel bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:      DefaultTheme,
		Width:      80,
		Height:     24,
		AltScreen:  true,
		MouseWheel: true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}

// WithMouseWheel toggles scrolling the conversation with the mouse wheel.
func WithMouseWheel(enabled bool) Option {
	return func(c *Config) {
		c.MouseWheel = enabled
	}
}
