package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ruminaider/bag-filter/internal/config"
	"github.com/ruminaider/bag-filter/internal/paths"
	"github.com/ruminaider/bag-filter/internal/playback"
)

// debugEnv enables diagnostics in the debug log file.
const debugEnv = "BAG_FILTER_DEBUG"

var (
	flagConfig   string
	flagRos2     string
	flagDomainID int
	flagProfiles string
)

// loadSettings reads the config file and applies command-line overrides.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	path := flagConfig
	if path == "" {
		path = paths.ConfigFile()
	}
	cfg, err := config.Load(paths.Expand(path))
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("ros2") {
		cfg.Ros2Bin = flagRos2
	}
	if flags.Changed("domain-id") {
		if err := playback.ValidateDomainID(flagDomainID); err != nil {
			return config.Config{}, err
		}
		cfg.DomainID = flagDomainID
	}
	if flags.Changed("profiles") {
		cfg.ProfilesFile = flagProfiles
	}
	cfg.ProfilesFile = paths.Expand(cfg.ProfilesFile)
	return cfg, nil
}

// newLogger returns the diagnostics logger for command-line use: stderr when
// debugging, discarded otherwise.
func newLogger() *log.Logger {
	if os.Getenv(debugEnv) == "" {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "bag-filter: ", log.LstdFlags)
}

// ensureDebugDir creates the directory holding the debug log.
func ensureDebugDir() error {
	return os.MkdirAll(filepath.Dir(paths.DebugLogFile()), 0755)
}
