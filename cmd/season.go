package cmd

import (
	"github.com/spf13/cobra"
)

func newSeasonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "season [VIDEO_ID...]",
		Short: "Download every episode of the season a video belongs to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			jobs, err := buildSeasonJobs(ctx, newAPIClient(), args, outputDir)
			if err != nil {
				return err
			}
			return runJobs(ctx, jobs)
		},
	}
}
