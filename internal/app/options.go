package app

// Options configures the application.
type Options struct {
	// LogLevel is the minimum level for log output: debug, info,
	// warn, or error.
	LogLevel string

	// LogPath is the file logs are appended to. Empty disables file
	// logging; stderr is unusable while the terminal is in raw mode.
	LogPath string

	// Debug lowers the log level to debug regardless of LogLevel.
	Debug bool

	// MouseEnabled turns on mouse reporting.
	MouseEnabled bool

	// Transforms maps transform names to Lua script source. Each
	// script must define a transform(text) function.
	Transforms map[string]string
}

// DefaultOptions returns the default application options.
func DefaultOptions() Options {
	return Options{
		LogLevel:     "info",
		MouseEnabled: true,
	}
}
