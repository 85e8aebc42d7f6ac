package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/macropower/rtool/api"
	"github.com/macropower/rtool/api/v1beta1/configs"
)

// ErrNotFound is returned by [Load] when there is no file at the path.
var ErrNotFound = errors.New("configuration not found")

// ProjectFileNames are searched for by [FindPath], in order, in the target
// directory and each of its parents.
var ProjectFileNames = []string{".rtool.yaml", "rtool.yaml"}

// FindPath returns the project configuration closest to dir, or the global
// configuration path when there is none.
func FindPath(dir string) string {
	path, err := api.FindConfigFile(dir, ProjectFileNames)
	if err != nil {
		slog.Debug("search project configuration", slog.Any("error", err))
	}
	if path != "" {
		return path
	}

	return configs.GetPath()
}

// Load validates and loads the [configs.Config] at path.
func Load(path string, opts ...LoaderOpt) (*configs.Config, error) {
	l, err := NewLoaderFromFile(path, configs.New, configs.DefaultValidator, opts...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w: %w", ErrNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	err = l.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config %q: %w", path, err)
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}

	slog.Debug("loaded configuration",
		slog.String("path", path),
		slog.Int("decisions", len(cfg.Decisions)),
	)

	return cfg, nil
}
