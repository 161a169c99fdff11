package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ruminaider/bag-filter/internal/config"
	"github.com/ruminaider/bag-filter/internal/paths"
	"github.com/ruminaider/bag-filter/internal/profiles"
	"github.com/ruminaider/bag-filter/internal/ros2"
	"github.com/ruminaider/bag-filter/internal/session"
)

var profileShowBag string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect topic profiles",
}

// errNoProfileFile is returned when no profile file is configured.
var errNoProfileFile = errors.New("no profile file; pass --profiles or set profiles_file")

// loadCatalog reads the configured profile file.
func loadCatalog(cmd *cobra.Command) (config.Config, profiles.Catalog, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return config.Config{}, profiles.Catalog{}, err
	}
	if cfg.ProfilesFile == "" {
		return config.Config{}, profiles.Catalog{}, errNoProfileFile
	}
	c, err := profiles.Load(cfg.ProfilesFile)
	if err != nil {
		return config.Config{}, profiles.Catalog{}, err
	}
	return cfg, c, nil
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles in the profile file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if c.Len() == 0 {
			fmt.Fprintf(w, "No profiles in %s.\n", cfg.ProfilesFile)
			return nil
		}
		for _, p := range c.Profiles() {
			fmt.Fprintf(w, "  %s: %s\n", p.Name, profiles.Summary(p))
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile's topics, optionally checked against a bag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		p, ok := c.Get(args[0])
		if !ok {
			return fmt.Errorf("%w %q", session.ErrUnknownProfile, args[0])
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: %s\n", p.Name, profiles.Summary(p))
		for _, t := range p.Topics {
			fmt.Fprintf(w, "  %s\n", t)
		}
		if profileShowBag == "" {
			return nil
		}

		runner := ros2.NewRunner(cfg.Ros2Bin)
		s := session.New(runner, nil, cfg.DomainID)
		if err := s.SelectBag(cmd.Context(), paths.Expand(profileShowBag)); err != nil {
			return err
		}
		if err := s.LoadProfiles(cfg.ProfilesFile); err != nil {
			return err
		}
		missing, err := s.SelectProfile(p.Name)
		if err != nil {
			return err
		}

		selected := s.SelectedTopics()
		fmt.Fprintf(w, "\nSelected in %s: %d of %d topics\n", s.BagPath(), len(selected), len(s.Topics()))
		if len(selected) > 0 {
			fmt.Fprintf(w, "  %s\n", strings.Join(selected, "\n  "))
		}
		fmt.Fprintln(w, session.MissingReport(missing))
		return nil
	},
}

var profileExampleCmd = &cobra.Command{
	Use:   "example [path]",
	Short: "Write an example profile file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := paths.ExampleProfilesFile()
		if len(args) == 1 {
			path = paths.Expand(args[0])
		}
		if err := profiles.WriteExample(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example profiles written to %s\n", path)
		return nil
	},
}

func init() {
	profileShowCmd.Flags().StringVar(&profileShowBag, "bag", "", "Reconcile the profile against this bag")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileExampleCmd)
}
