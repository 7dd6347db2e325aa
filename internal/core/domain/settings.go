package domain

import "time"

// WatchStrategy selects how file changes are detected.
type WatchStrategy string

const (
	// StrategyPoll detects changes by polling modification times.
	StrategyPoll WatchStrategy = "poll"
	// StrategyNotify detects changes through OS file system notifications.
	StrategyNotify WatchStrategy = "notify"
)

// Settings is the fully resolved runtime configuration for one kern session.
// Every field has a default; kern.yaml and CLI flags override.
type Settings struct {
	// PollInterval is the cadence of the polling change watcher.
	PollInterval time.Duration
	// Debounce is the quiet period required after the last observed change
	// before a reload cycle starts.
	Debounce time.Duration
	// Heartbeat is the control loop's sleep between ticks.
	Heartbeat time.Duration
	// Strategy selects the change detection mechanism.
	Strategy WatchStrategy
	// VerifyContent enables content hashing so that a modification time bump
	// with unchanged bytes is not treated as a change.
	VerifyContent bool
	// IgnoreDirs are directory names the notify watcher never descends into.
	IgnoreDirs []string

	// Profile holds the source language conventions.
	Profile Profile

	// Interpreter is the command used to load and execute modules.
	Interpreter string
	// EntryFunction is the zero-argument callable the entry module is
	// expected to expose.
	EntryFunction string

	// CrashLogPath is where the latest failure trace is persisted.
	CrashLogPath string
	// JSONLogs switches diagnostics to JSON output.
	JSONLogs bool
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		PollInterval:  300 * time.Millisecond,
		Debounce:      500 * time.Millisecond,
		Heartbeat:     100 * time.Millisecond,
		Strategy:      StrategyPoll,
		VerifyContent: false,
		IgnoreDirs:    []string{".git", ".jj", "node_modules", "__pycache__"},
		Profile:       DefaultProfile(),
		Interpreter:   "python3",
		EntryFunction: "run",
		CrashLogPath:  CrashLogFileName,
		JSONLogs:      false,
	}
}
