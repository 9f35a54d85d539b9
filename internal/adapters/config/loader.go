// Package config loads the project configuration and graph feed files.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using mindmap.yaml.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds mindmap.yaml in cwd or the nearest parent directory. Without a file
// the defaults are returned, rooted at cwd.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, found := findConfiguration(cwd)
	if !found {
		l.Logger.Debug("no " + domain.ConfigFileName + " found, using defaults")
		cfg := domain.DefaultConfig()
		cfg.Root = cwd
		return resolvePaths(&cfg), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile reads the configuration from an explicit path. Relative paths inside
// the file are resolved against the directory that holds it.
func (l *Loader) LoadFile(path string) (*domain.Config, error) {
	defaults := domain.DefaultConfig()
	file := fromDomain(&defaults)
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	if file.Version != "" && file.Version != "1" {
		l.Logger.Warn("unknown config version " + file.Version + " in " + path)
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		root = filepath.Dir(path)
	}

	cfg := resolvePaths(file.toDomain(root))
	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	l.Logger.Debug("loaded configuration from " + path)
	return cfg, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// resolvePaths makes the graph and store paths absolute relative to Root.
func resolvePaths(cfg *domain.Config) *domain.Config {
	if cfg.GraphPath != "" && !filepath.IsAbs(cfg.GraphPath) {
		cfg.GraphPath = filepath.Join(cfg.Root, cfg.GraphPath)
	}
	if cfg.StorePath == "" {
		cfg.StorePath = domain.DefaultStorePath()
	}
	if !filepath.IsAbs(cfg.StorePath) {
		cfg.StorePath = filepath.Join(cfg.Root, cfg.StorePath)
	}
	return cfg
}

// readAndUnmarshalYAML decodes a YAML (or JSON) file, rejecting unknown keys.
func readAndUnmarshalYAML[T any](path string, target *T) error {
	// #nosec G304 -- path comes from discovery or an explicit flag
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}
	if err := decodeYAML(data, target); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}

func decodeYAML[T any](data []byte, target *T) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
