// Package app implements the application layer for kern.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.kern.sh/kern/internal/adapters/crashlog"
	"go.kern.sh/kern/internal/adapters/interp"
	"go.kern.sh/kern/internal/adapters/notify"
	"go.kern.sh/kern/internal/core/domain"
	"go.kern.sh/kern/internal/core/ports"
	"go.kern.sh/kern/internal/engine/evict"
	"go.kern.sh/kern/internal/engine/orchestrator"
	"go.kern.sh/kern/internal/engine/resolver"
	"go.kern.sh/kern/internal/engine/watch"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	crashLog     ports.CrashLog
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log ports.Logger, crashLog ports.CrashLog) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		crashLog:     crashLog,
	}
}

// RunOptions configuration for the Run method. Zero values defer to the
// loaded settings.
type RunOptions struct {
	Debounce     time.Duration
	PollInterval time.Duration
	Notify       bool
	JSON         bool
}

// Run starts the reload loop on the given entry file and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context, entryPath string, opts RunOptions) error {
	entry, err := normalizeEntry(entryPath)
	if err != nil {
		return err
	}

	settings, err := a.configLoader.Load(filepath.Dir(entry))
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	applyOverrides(&settings, opts)

	if opts.JSON || settings.JSONLogs {
		a.logger.SetJSON(true)
	}

	res := resolver.New(settings.Profile)

	source, err := a.newChangeSource(entry, res, settings)
	if err != nil {
		return err
	}

	crashLog := a.crashLog
	if settings.CrashLogPath != "" && settings.CrashLogPath != crashLog.Path() {
		crashLog = crashlog.New(settings.CrashLogPath)
	}

	root := filepath.Dir(entry)
	cache := interp.New(settings.Interpreter, root, settings.EntryFunction, os.Stdout, os.Stderr)
	invalidator := evict.New(entry, settings.Profile, res, cache, a.logger)

	orch := orchestrator.New(
		domain.EntryID(entry, settings.Profile),
		source,
		invalidator,
		cache,
		crashLog,
		a.logger,
		orchestrator.Config{
			Debounce:  settings.Debounce,
			Heartbeat: settings.Heartbeat,
		},
	)

	if err := orch.Run(ctx); err != nil {
		return errors.Join(domain.ErrRunAborted, err)
	}
	return nil
}

// Deps resolves and returns the entry file's transitive import closure as
// sorted absolute paths.
func (a *App) Deps(_ context.Context, entryPath string) ([]string, error) {
	entry, err := normalizeEntry(entryPath)
	if err != nil {
		return nil, err
	}

	settings, err := a.configLoader.Load(filepath.Dir(entry))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	res := resolver.New(settings.Profile)
	return res.Resolve(entry).Paths(), nil
}

// newChangeSource builds the change source the settings select.
func (a *App) newChangeSource(entry string, res *resolver.Resolver, settings domain.Settings) (ports.ChangeSource, error) {
	switch settings.Strategy {
	case domain.StrategyNotify:
		return notify.New(entry, res, settings.IgnoreDirs)
	case domain.StrategyPoll:
		return watch.New(entry, res, watch.Config{
			Interval:      settings.PollInterval,
			VerifyContent: settings.VerifyContent,
		}), nil
	default:
		return nil, zerr.With(domain.ErrInvalidStrategy, "strategy", string(settings.Strategy))
	}
}

// normalizeEntry resolves the entry path to absolute, symlink-free form and
// verifies it exists.
func normalizeEntry(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(domain.ErrEntryNotFound, "path", path)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", zerr.With(domain.ErrEntryNotFound, "path", path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return filepath.Clean(abs), nil
}

// applyOverrides lets command-line flags win over file configuration.
func applyOverrides(s *domain.Settings, opts RunOptions) {
	if opts.Debounce > 0 {
		s.Debounce = opts.Debounce
	}
	if opts.PollInterval > 0 {
		s.PollInterval = opts.PollInterval
	}
	if opts.Notify {
		s.Strategy = domain.StrategyNotify
	}
}
