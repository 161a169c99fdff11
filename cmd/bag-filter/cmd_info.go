package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruminaider/bag-filter/internal/baginfo"
	"github.com/ruminaider/bag-filter/internal/paths"
	"github.com/ruminaider/bag-filter/internal/ros2"
	"github.com/ruminaider/bag-filter/internal/session"
)

var (
	infoSort bool
	infoRaw  bool
)

var infoCmd = &cobra.Command{
	Use:   "info <bag>",
	Short: "Show a bag's duration and topic message counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		runner := ros2.NewRunner(cfg.Ros2Bin)
		out, err := runner.Info(cmd.Context(), paths.Expand(args[0]))
		if err != nil {
			return fmt.Errorf("reading bag info: %w", err)
		}

		w := cmd.OutOrStdout()
		if infoRaw {
			fmt.Fprint(w, out)
			return nil
		}

		info := baginfo.Parse(out)
		if info.Empty() {
			fmt.Fprintln(w, "No topics found.")
			return nil
		}
		if infoSort {
			info.Topics = session.SortedCounts(info)
		}
		fmt.Fprintln(w, info.Summary())
		fmt.Fprintf(w, "Total: %d messages in %d topics\n", info.TotalMessages(), len(info.Topics))
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoSort, "sort", false, "Order topics by message count")
	infoCmd.Flags().BoolVar(&infoRaw, "raw", false, "Print the unparsed ros2 bag info output")
}
