package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/riordanpawley/tasktable/internal/config"
	"github.com/riordanpawley/tasktable/internal/services/api"
)

// Dependencies holds the services shared by the commands
type Dependencies struct {
	Config   *config.Config
	Registry *config.ProjectsRegistry
	Client   *api.Client
	Logger   *slog.Logger

	closeLog func() error
}

// loadDependencies resolves configuration for opts and builds the services.
// Precedence is flags, then the project registry, then the config file, environment and defaults.
// Logs go to logFallback unless a log file is configured.
func loadDependencies(opts *options, logFallback io.Writer) (*Dependencies, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	registry, err := config.LoadProjectsRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load projects registry: %w", err)
	}
	registry.Apply(cfg, opts.project)

	if opts.baseURL != "" {
		cfg.API.BaseURL = opts.baseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(cfg.Log, logFallback)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Config:   cfg,
		Registry: registry,
		Logger:   logger,
		closeLog: closeLog,
	}
	deps.Client = deps.NewClient(cfg.API.BaseURL)
	return deps, nil
}

// loadConfig reads the config of the selected directory and applies the log flags
func loadConfig(opts *options) (*config.Config, error) {
	dir := opts.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

// NewClient returns a backend client for baseURL using the configured timeout
func (d *Dependencies) NewClient(baseURL string) *api.Client {
	httpClient := &http.Client{Timeout: d.Config.Timeout()}
	return api.NewClient(baseURL, httpClient, d.Logger)
}

// Close releases the log file
func (d *Dependencies) Close() error {
	if d.closeLog == nil {
		return nil
	}
	return d.closeLog()
}
