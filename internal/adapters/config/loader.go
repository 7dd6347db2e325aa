// Package config provides the configuration loader for kern.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.kern.sh/kern/internal/core/domain"
	"go.kern.sh/kern/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load walks up from dir looking for kern.yaml and returns the resolved
// settings. When no file is found the defaults are returned unchanged.
func (l *Loader) Load(dir string) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	path, found := l.findConfiguration(dir)
	if !found {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Kernfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return settings, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if err := l.apply(&settings, &file, path); err != nil {
		return settings, err
	}
	return settings, nil
}

// findConfiguration walks up from dir to the filesystem root looking for
// kern.yaml. The nearest file wins.
func (l *Loader) findConfiguration(dir string) (string, bool) {
	currentDir := dir
	for {
		candidate := filepath.Join(currentDir, domain.KernFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

//nolint:cyclop // field-by-field override of defaults
func (l *Loader) apply(s *domain.Settings, file *Kernfile, path string) error {
	if w := file.Watch; w != nil {
		if err := overrideDuration(&s.PollInterval, w.PollInterval, "watch.poll_interval"); err != nil {
			return err
		}
		if err := overrideDuration(&s.Debounce, w.Debounce, "watch.debounce"); err != nil {
			return err
		}
		if err := overrideDuration(&s.Heartbeat, w.Heartbeat, "watch.heartbeat"); err != nil {
			return err
		}
		if w.Strategy != "" {
			strategy := domain.WatchStrategy(w.Strategy)
			if strategy != domain.StrategyPoll && strategy != domain.StrategyNotify {
				return zerr.With(domain.ErrInvalidStrategy, "strategy", w.Strategy)
			}
			s.Strategy = strategy
		}
		if w.VerifyContent != nil {
			s.VerifyContent = *w.VerifyContent
		}
		if len(w.Ignore) > 0 {
			s.IgnoreDirs = w.Ignore
		}
	}

	if lang := file.Language; lang != nil {
		if lang.Extension != "" {
			s.Profile.Extension = lang.Extension
		}
		if lang.Initializer != "" {
			s.Profile.Initializer = lang.Initializer
		}
	}

	if r := file.Runtime; r != nil {
		if r.Interpreter != "" {
			s.Interpreter = r.Interpreter
		}
		if r.EntryFunction != "" {
			s.EntryFunction = r.EntryFunction
		}
	}

	if lg := file.Log; lg != nil {
		if lg.File != "" {
			s.CrashLogPath = lg.File
		}
		if lg.JSON != nil {
			s.JSONLogs = *lg.JSON
		}
	}

	if file.Version != "" && file.Version != "1" && l.Logger != nil {
		l.Logger.Warn(fmt.Sprintf("unknown config version %q in %s, proceeding with best effort", file.Version, path))
	}

	return nil
}

// overrideDuration parses a duration field when non-empty, leaving the
// default in place otherwise.
func overrideDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "field", field)
	}
	*dst = d
	return nil
}
