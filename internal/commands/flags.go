package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/organizer/internal/core/config"
	"github.com/hay-kot/organizer/internal/organizer"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Options customizes the App built by Open. Tests use it to inject
	// allocators and stores.
	Options organizer.Options

	app *organizer.App
}

// Open returns the App, building it on first use so that commands which only
// need the configuration (config validate) never touch the database.
func (f *Flags) Open(ctx context.Context) (*organizer.App, error) {
	if f.app != nil {
		return f.app, nil
	}
	if f.Config == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	app, err := organizer.New(ctx, f.Config, log.Logger, f.Options)
	if err != nil {
		return nil, fmt.Errorf("start organizer: %w", err)
	}
	f.app = app
	return app, nil
}

// Close drains and closes the App if it was opened.
func (f *Flags) Close() error {
	if f.app == nil {
		return nil
	}
	err := f.app.Close()
	f.app = nil
	return err
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "organizer", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "organizer")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/organizer/organizer.log
// On Linux: $XDG_STATE_HOME/organizer/organizer.log (defaults to ~/.local/state/organizer/organizer.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "organizer", "organizer.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "organizer", "organizer.log")
	}

	return filepath.Join(home, ".local", "state", "organizer", "organizer.log")
}
