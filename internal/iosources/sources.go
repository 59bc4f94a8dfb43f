// Package iosources reads sources.yaml.
package iosources

import (
	"errors"
	"fmt"
	"os"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/sources"
	"gopkg.in/yaml.v3"
)

var errInvalid = errors.New("invalid sources config")

type iosources struct {
	cfg *config.Config
}

// New creates a sources.Sources that reads sources.yaml from the
// configuration directory.
func New(cfg *config.Config) sources.Sources {
	res := iosources{cfg: cfg}
	return &res
}

// Load reads and validates sources.yaml. Validation warnings are shown
// to the user.
func (s *iosources) Load() (*sources.SourcesConfig, error) {
	sourcesPath := config.SourcesFilePath(s.cfg.HomeDir)
	sourcesConfig, err := loadSourcesConfig(sourcesPath)
	if errors.Is(err, errInvalid) {
		return nil, SourcesValidationError(sourcesPath, err)
	}
	if err != nil {
		return nil, SourcesConfigError(sourcesPath, err)
	}

	for _, w := range sourcesConfig.Warnings {
		gn.Warn("%s: <em>%s</em> %s. %s",
			w.Namespace, w.Field, w.Message, w.Suggestion)
	}
	return sourcesConfig, nil
}

func loadSourcesConfig(path string) (*sources.SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources config file: %w", err)
	}

	var res sources.SourcesConfig
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse sources config file: %w", err)
	}

	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalid, err)
	}
	return &res, nil
}
