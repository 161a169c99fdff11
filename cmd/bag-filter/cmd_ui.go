package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ruminaider/bag-filter/cmd/bag-filter/tui"
	"github.com/ruminaider/bag-filter/internal/paths"
	"github.com/ruminaider/bag-filter/internal/playback"
	"github.com/ruminaider/bag-filter/internal/ros2"
	"github.com/ruminaider/bag-filter/internal/session"
)

// runUI starts the interactive terminal UI, optionally opening bag.
func runUI(cmd *cobra.Command, bag string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// The screen belongs to the UI, so diagnostics go to a file or nowhere.
	logger := log.Default()
	if os.Getenv(debugEnv) != "" {
		if err := ensureDebugDir(); err != nil {
			return err
		}
		f, err := tea.LogToFile(paths.DebugLogFile(), "bag-filter")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	runner := ros2.NewRunner(cfg.Ros2Bin)
	launcher := playback.NewLauncher(runner, logger)
	s := session.New(runner, launcher, cfg.DomainID)

	model := tui.NewModel(s, tui.Options{
		Events:       launcher.Events(),
		Stats:        launcher.Stats,
		LogLines:     cfg.LogLines,
		BagPath:      bag,
		ProfilesFile: cfg.ProfilesFile,
		Logger:       logger,
		Context:      cmd.Context(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	// Never leave a playback orphaned behind a closed UI.
	if launcher.Running() {
		if err := launcher.Stop(); err != nil {
			logger.Printf("stopping playback on exit: %v", err)
		}
	}
	return runErr
}
