package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chaz8081/dictabar/internal/audio"
	"github.com/chaz8081/dictabar/internal/cleanup"
	"github.com/chaz8081/dictabar/internal/config"
	"github.com/chaz8081/dictabar/internal/hotkey"
	"github.com/chaz8081/dictabar/internal/inject"
	"github.com/chaz8081/dictabar/internal/macos"
	"github.com/chaz8081/dictabar/internal/pipeline"
	"github.com/chaz8081/dictabar/internal/transcribe"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "path to config file (default: ~/.config/dictabar/config.yaml)")
	writeConfig := flag.Bool("write-config", false, "write the default config file and exit")
	flag.Parse()

	if *writeConfig {
		path, err := config.WriteDefault()
		if err != nil {
			fatal("writing default config", err)
		}
		if path == "" {
			fmt.Printf("Config already exists at %s\n", config.DefaultConfigPath())
			return
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return
	}

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal("config", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("config validation", err)
	}
	mode, err := hotkey.ParseMode(cfg.Hotkey.Mode)
	if err != nil {
		fatal("config validation", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	printBanner(cfg)

	transcriber, err := transcribe.New(cfg.Transcribe, cfg.Audio)
	if err != nil {
		fatal("initializing transcriber", err)
	}

	var cleaner pipeline.Cleaner
	if cfg.Cleanup.Enabled {
		cleaner = cleanup.New(cfg.Cleanup)
		slog.Info("Cleanup enabled", "model", cfg.Cleanup.Model, "base_url", cfg.Cleanup.BaseURL)
	}

	recorder, err := audio.NewRecorder(cfg.Audio.SampleRate, cfg.Audio.Channels)
	if err != nil {
		transcriber.Close()
		slog.Error("Ensure microphone access is granted in System Settings > Privacy & Security > Microphone.")
		fatal("initializing audio recorder", err)
	}
	slog.Info("Audio recorder ready")

	injector := inject.New(macos.NewBridges(), injectorOptions(cfg.Inject))
	slog.Info("Text injector ready", "debounce", cfg.Inject.Debounce.Std(), "append_newline", cfg.Inject.AppendNewline)

	listener := hotkey.NewListener(cfg.Hotkey.Keys, mode)
	slog.Info("Hotkey listener ready", "keys", strings.Join(cfg.Hotkey.Keys, "+"), "mode", mode)

	p := pipeline.New(recorder, transcriber, cleaner, injector, pipeline.Options{
		SampleRate:    cfg.Audio.SampleRate,
		Channels:      cfg.Audio.Channels,
		MinDuration:   cfg.Audio.MinDuration.Std(),
		AppendNewline: cfg.Inject.AppendNewline,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go injector.Run(ctx)
	go listener.Start()

	fmt.Println("Ready! Press", strings.Join(cfg.Hotkey.Keys, "+"), "to dictate. Ctrl+C to quit.")

	p.Run(ctx, listener.Events())
	slog.Info("Shutting down")
	recorder.Close()
	transcriber.Close()
	// Exit directly to avoid gohook's C cleanup crash.
	// The OS reclaims the event hook on process exit.
	os.Exit(0)
}

// injectorOptions maps the inject config section onto the injector.
func injectorOptions(c config.InjectConfig) inject.InjectorOptions {
	return inject.InjectorOptions{
		Debounce:          c.Debounce.Std(),
		KeyDelay:          c.KeyDelay.Std(),
		SettleDelay:       c.SettleDelay.Std(),
		RestoreDelay:      c.RestoreDelay.Std(),
		QueueSize:         c.QueueSize,
		TerminalBundleIDs: c.TerminalBundleIDs,
		TerminalNames:     c.TerminalNames,
		NotifyOnFailure:   c.NotifyOnFailure,
	}
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	// Try default config path
	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		slog.Info("Config loaded", "path", defaultPath)
		return cfg, nil
	}

	// No config file, use defaults
	slog.Info("No config file found, using defaults (run with -write-config to create one)")
	return config.Default(), nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// printBanner displays the startup configuration summary.
func printBanner(cfg *config.Config) {
	cleanupDesc := "off"
	if cfg.Cleanup.Enabled {
		cleanupDesc = cfg.Cleanup.Model
	}
	fmt.Println("=== dictabar ===")
	fmt.Printf("  Hotkey:      %s (%s mode)\n", strings.Join(cfg.Hotkey.Keys, "+"), cfg.Hotkey.Mode)
	fmt.Printf("  Audio:       %dHz, %dch\n", cfg.Audio.SampleRate, cfg.Audio.Channels)
	fmt.Printf("  Transcribe:  %s (%s)\n", cfg.Transcribe.Model, cfg.Transcribe.BaseURL)
	fmt.Printf("  Cleanup:     %s\n", cleanupDesc)
	fmt.Printf("  Newline:     %t\n", cfg.Inject.AppendNewline)
	fmt.Printf("  Log:         %s\n", cfg.LogLevel)
	fmt.Println("================")
}
