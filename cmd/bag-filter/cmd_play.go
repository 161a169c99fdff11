package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ruminaider/bag-filter/internal/baginfo"
	"github.com/ruminaider/bag-filter/internal/paths"
	"github.com/ruminaider/bag-filter/internal/playback"
	"github.com/ruminaider/bag-filter/internal/profiles"
	"github.com/ruminaider/bag-filter/internal/ros2"
	"github.com/ruminaider/bag-filter/internal/session"
)

// manualChoice is the profile prompt entry for picking topics by hand.
const manualChoice = "(choose topics)"

var (
	playTopics  []string
	playProfile string
)

var playCmd = &cobra.Command{
	Use:   "play <bag>",
	Short: "Play selected topics of a bag in the foreground",
	Long: "Play runs `ros2 bag play` restricted to the chosen topics and forwards its output. " +
		"Topics come from --topics, from --profile, or from an interactive prompt. Ctrl+C stops playback.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		runner := ros2.NewRunner(cfg.Ros2Bin)
		launcher := playback.NewLauncher(runner, newLogger())
		s := session.New(runner, launcher, cfg.DomainID)
		w := cmd.OutOrStdout()

		if err := s.SelectBag(cmd.Context(), paths.Expand(args[0])); err != nil {
			return err
		}
		if len(s.Topics()) == 0 {
			return fmt.Errorf("no topics found in %s", s.BagPath())
		}

		if cfg.ProfilesFile != "" {
			if err := s.LoadProfiles(cfg.ProfilesFile); err != nil {
				return err
			}
		}

		switch {
		case len(playTopics) > 0:
			for _, t := range selectTopics(s, playTopics) {
				fmt.Fprintf(w, "Warning: topic %s is not in the bag\n", t)
			}
		case playProfile != "":
			if err := applyProfile(w, s, playProfile); err != nil {
				return err
			}
		default:
			if err := promptSelection(w, s); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(w, "Playing %d topic(s) on ROS_DOMAIN_ID=%d\n", len(s.SelectedTopics()), s.DomainID())
		fmt.Fprintf(w, "$ %s\n", runner.CommandLine(ros2.PlayArgs(s.BagPath(), s.SelectedTopics())))
		if err := s.Play(); err != nil {
			return err
		}
		return followPlayback(ctx, w, s, launcher.Events())
	},
}

// selectTopics checks each requested topic and returns those the bag lacks.
func selectTopics(s *session.Session, topics []string) []string {
	known := make(map[string]bool)
	for _, t := range s.Topics() {
		known[t] = true
	}
	var unknown []string
	for _, t := range topics {
		if !known[t] {
			unknown = append(unknown, t)
			continue
		}
		s.SetSelected(t, true)
	}
	return unknown
}

// applyProfile selects the named profile and prints the missing report.
func applyProfile(w io.Writer, s *session.Session, name string) error {
	if s.Catalog().Len() == 0 {
		return errNoProfileFile
	}
	missing, err := s.SelectProfile(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Profile %s\n", name)
	fmt.Fprintln(w, session.MissingReport(missing))
	return nil
}

// promptSelection asks for a profile (when any are loaded) and then for the
// topics, pre-checking whatever the profile selected.
func promptSelection(w io.Writer, s *session.Session) error {
	if s.Catalog().Len() > 0 {
		choice := manualChoice
		options := []huh.Option[string]{huh.NewOption(manualChoice, manualChoice)}
		for _, p := range s.Catalog().Profiles() {
			options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, profiles.Summary(p)), p.Name))
		}
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Select a topic profile:").
					Options(options...).
					Value(&choice),
			),
		).Run()
		if err != nil {
			return err
		}
		if choice != manualChoice {
			return applyProfile(w, s, choice)
		}
	}

	selected := s.SelectedTopics()
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select topics to play:").
				Description("Space to toggle, Enter to confirm").
				Options(topicOptions(s.Info())...).
				Value(&selected),
		),
	).Run()
	if err != nil {
		return err
	}
	s.SelectNone()
	selectTopics(s, selected)
	return nil
}

// topicOptions labels each topic with its message count.
func topicOptions(info baginfo.Info) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(info.Topics))
	for _, t := range info.Topics {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d msgs)", t.Name, t.Count), t.Name))
	}
	return options
}

// followPlayback forwards playback output to w until the process exits. A
// cancelled ctx asks the process to stop once; the exit is still awaited.
func followPlayback(ctx context.Context, w io.Writer, s *session.Session, events <-chan playback.Event) error {
	done := ctx.Done()
	for {
		select {
		case <-done:
			done = nil
			fmt.Fprintln(w, "Stopping playback...")
			if err := s.Stop(); err != nil && !errors.Is(err, playback.ErrNotRunning) {
				return err
			}
		case ev := <-events:
			switch ev.Kind {
			case playback.EventOutput:
				fmt.Fprintln(w, ev.Line)
			case playback.EventExited:
				fmt.Fprintln(w, "Bag playback has stopped.")
				if ev.Err != nil && ctx.Err() == nil {
					return fmt.Errorf("playback failed: %w", ev.Err)
				}
				return nil
			}
		}
	}
}

func init() {
	playCmd.Flags().StringSliceVar(&playTopics, "topics", nil, "Topics to play (comma separated or repeated)")
	playCmd.Flags().StringVar(&playProfile, "profile", "", "Select topics with this profile")
}
