package cmd

import (
	"github.com/spf13/cobra"
)

func newAVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "av [AID...]",
		Short: "Download videos by av id",
		Long: `Download videos by numeric av id. Ids may be bare numbers, "av" prefixed, or video URLs.

Examples:
  bilidl av 170001
  bilidl av av170001 av170002 -o videos`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := buildVideoJobs(args, true, outputDir)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return runJobs(ctx, jobs)
		},
	}
}

func newBVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bv [BVID...]",
		Short: "Download videos by BV id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := buildVideoJobs(args, false, outputDir)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return runJobs(ctx, jobs)
		},
	}
}
