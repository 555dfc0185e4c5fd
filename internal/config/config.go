package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Hotkey     HotkeyConfig     `yaml:"hotkey"`
	Audio      AudioConfig      `yaml:"audio"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Cleanup    CleanupConfig    `yaml:"cleanup"`
	Inject     InjectConfig     `yaml:"inject"`
	LogLevel   string           `yaml:"log_level"`
}

// HotkeyConfig holds hotkey-related settings.
type HotkeyConfig struct {
	Keys []string `yaml:"keys"`
	Mode string   `yaml:"mode"` // "hold" or "toggle"
}

// AudioConfig holds audio capture settings.
type AudioConfig struct {
	SampleRate  uint32   `yaml:"sample_rate"`
	Channels    uint32   `yaml:"channels"`
	MinDuration Duration `yaml:"min_duration"` // shorter recordings are discarded
}

// TranscribeConfig points at an OpenAI-compatible speech-to-text server.
type TranscribeConfig struct {
	BaseURL  string   `yaml:"base_url"`
	Model    string   `yaml:"model"`
	Language string   `yaml:"language"`
	Timeout  Duration `yaml:"timeout"`
}

// CleanupConfig holds the optional LLM cleanup pass.
type CleanupConfig struct {
	Enabled bool     `yaml:"enabled"`
	BaseURL string   `yaml:"base_url"`
	Model   string   `yaml:"model"`
	Prompt  string   `yaml:"prompt"`
	Timeout Duration `yaml:"timeout"`
}

// InjectConfig holds text injection settings.
type InjectConfig struct {
	AppendNewline     bool     `yaml:"append_newline"`
	Debounce          Duration `yaml:"debounce"`
	KeyDelay          Duration `yaml:"key_delay"`
	SettleDelay       Duration `yaml:"settle_delay"`
	RestoreDelay      Duration `yaml:"restore_delay"`
	QueueSize         int      `yaml:"queue_size"`
	NotifyOnFailure   bool     `yaml:"notify_on_failure"`
	TerminalBundleIDs []string `yaml:"terminal_bundle_ids"`
	TerminalNames     []string `yaml:"terminal_names"`
}

// Duration is a time.Duration written in YAML as a Go duration string ("500ms").
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// DefaultCleanupPrompt is the system prompt used when cleanup.prompt is empty.
const DefaultCleanupPrompt = "You clean up dictated text. Fix punctuation, capitalization and obvious " +
	"transcription errors. Remove filler words. Do not add content. Reply with the cleaned text only."

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dictabar")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Hotkey: HotkeyConfig{
			Keys: []string{"ctrl", "shift", "r"},
			Mode: "hold",
		},
		Audio: AudioConfig{
			SampleRate:  16000,
			Channels:    1,
			MinDuration: Duration(300 * time.Millisecond),
		},
		Transcribe: TranscribeConfig{
			BaseURL:  "http://localhost:8080/v1",
			Model:    "whisper-1",
			Language: "en",
			Timeout:  Duration(30 * time.Second),
		},
		Cleanup: CleanupConfig{
			Enabled: false,
			BaseURL: "http://localhost:11434/v1",
			Model:   "llama3.2",
			Prompt:  DefaultCleanupPrompt,
			Timeout: Duration(15 * time.Second),
		},
		Inject: InjectConfig{
			AppendNewline:   false,
			Debounce:        Duration(500 * time.Millisecond),
			KeyDelay:        Duration(20 * time.Millisecond),
			SettleDelay:     Duration(100 * time.Millisecond),
			RestoreDelay:    Duration(500 * time.Millisecond),
			QueueSize:       8,
			NotifyOnFailure: true,
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(expandTilde(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Cleanup.Prompt == "" {
		cfg.Cleanup.Prompt = DefaultCleanupPrompt
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if len(c.Hotkey.Keys) == 0 {
		return fmt.Errorf("hotkey.keys must not be empty")
	}

	switch c.Hotkey.Mode {
	case "hold", "toggle":
	default:
		return fmt.Errorf("hotkey.mode must be \"hold\" or \"toggle\", got %q", c.Hotkey.Mode)
	}

	if c.Audio.SampleRate == 0 {
		return fmt.Errorf("audio.sample_rate must be > 0")
	}

	if c.Audio.Channels == 0 {
		return fmt.Errorf("audio.channels must be > 0")
	}

	if c.Audio.MinDuration < 0 {
		return fmt.Errorf("audio.min_duration must not be negative")
	}

	if err := validateURL("transcribe.base_url", c.Transcribe.BaseURL); err != nil {
		return err
	}
	if c.Transcribe.Model == "" {
		return fmt.Errorf("transcribe.model must not be empty")
	}
	if c.Transcribe.Timeout <= 0 {
		return fmt.Errorf("transcribe.timeout must be > 0")
	}

	if c.Cleanup.Enabled {
		if err := validateURL("cleanup.base_url", c.Cleanup.BaseURL); err != nil {
			return err
		}
		if c.Cleanup.Model == "" {
			return fmt.Errorf("cleanup.model must not be empty when cleanup is enabled")
		}
		if c.Cleanup.Timeout <= 0 {
			return fmt.Errorf("cleanup.timeout must be > 0")
		}
	}

	for name, d := range map[string]Duration{
		"inject.debounce":      c.Inject.Debounce,
		"inject.key_delay":     c.Inject.KeyDelay,
		"inject.settle_delay":  c.Inject.SettleDelay,
		"inject.restore_delay": c.Inject.RestoreDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Inject.QueueSize < 0 {
		return fmt.Errorf("inject.queue_size must not be negative")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	return nil
}

// ParseLogLevel maps a log_level string to a slog.Level. Unknown values
// map to info.
func ParseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const defaultHeader = `# dictabar configuration
#
# Durations use Go syntax: "500ms", "2s", "1m".
# transcribe.base_url must point at an OpenAI-compatible speech-to-text server
# (for example a local whisper.cpp server started with --inference-path /v1/audio/transcriptions).

`

// WriteDefault writes the default config to DefaultConfigPath. It returns the
// written path, or "" with a nil error if a config file already exists.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking config file: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(defaultHeader), data...), 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
