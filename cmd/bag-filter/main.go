package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "bag-filter",
	Short: "Inspect and replay ROS 2 bags with topic filtering",
	Long: "bag-filter lists the topics of a recorded ROS 2 bag, lets you pick a subset by hand or from a YAML profile, " +
		"and replays it with `ros2 bag play` on a chosen ROS_DOMAIN_ID.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: interactive UI
		bag := ""
		if len(args) == 1 {
			bag = args[0]
		}
		return runUI(cmd, bag)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bag-filter %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.bag-filter/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagRos2, "ros2", "", "ros2 executable to run")
	rootCmd.PersistentFlags().IntVar(&flagDomainID, "domain-id", 0, "ROS_DOMAIN_ID for playback (0-255)")
	rootCmd.PersistentFlags().StringVar(&flagProfiles, "profiles", "", "Topic profile YAML file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
