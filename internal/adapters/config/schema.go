package config

// Kernfile represents the structure of the kern.yaml configuration file.
type Kernfile struct {
	Version  string      `yaml:"version"`
	Watch    *WatchDTO   `yaml:"watch"`
	Language *LangDTO    `yaml:"language"`
	Runtime  *RuntimeDTO `yaml:"runtime"`
	Log      *LogDTO     `yaml:"log"`
}

// WatchDTO holds change detection settings.
type WatchDTO struct {
	PollInterval  string   `yaml:"poll_interval"`
	Debounce      string   `yaml:"debounce"`
	Heartbeat     string   `yaml:"heartbeat"`
	Strategy      string   `yaml:"strategy"`
	VerifyContent *bool    `yaml:"verify_content"`
	Ignore        []string `yaml:"ignore"`
}

// LangDTO holds the source language conventions.
type LangDTO struct {
	Extension   string `yaml:"extension"`
	Initializer string `yaml:"initializer"`
}

// RuntimeDTO holds interpreter settings.
type RuntimeDTO struct {
	Interpreter   string `yaml:"interpreter"`
	EntryFunction string `yaml:"entry_function"`
}

// LogDTO holds diagnostic output settings.
type LogDTO struct {
	File string `yaml:"file"`
	JSON *bool  `yaml:"json"`
}
