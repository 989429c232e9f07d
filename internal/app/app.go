package app

import (
	"io"
	"log/slog"

	"github.com/vk/gocdyaml/internal/plugin"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	plugin *plugin.Plugin
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and a plugin
// engine configured with the file pattern from the config.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	eng := plugin.New(plugin.Settings{FilePattern: appConfig.Pattern})
	logger.Debug("Plugin engine initialized.", "pattern", appConfig.Pattern)

	return &App{
		outW:   outW,
		logger: logger,
		plugin: eng,
	}
}

// Plugin returns the application's plugin engine. This is primarily for testing.
func (a *App) Plugin() *plugin.Plugin {
	return a.plugin
}
