package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/vk/tsbundler/internal/config"
	"github.com/vk/tsbundler/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	fs        afero.Fs
	project   *config.Project
	converter config.Converter
}

// NewApp is the constructor for the main application. It loads the project
// configuration through loader and keeps fs for manifests and bundle output.
// A configuration that cannot be loaded is a fatal startup error and panics.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, fs afero.Fs) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	project, converter, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	if len(project.Bundles) == 0 {
		panic(fmt.Errorf("no bundle blocks found in %s", appConfig.ConfigPath))
	}
	logger.Debug("Configuration loaded and translated into unified model.", "bundles", project.BundleNames())

	return &App{
		outW:      outW,
		logger:    logger,
		fs:        fs,
		project:   project,
		converter: converter,
	}
}

// Project returns the loaded project. This is primarily for testing.
func (a *App) Project() *config.Project {
	return a.project
}
