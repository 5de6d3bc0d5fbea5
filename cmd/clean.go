package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tanq16/bilidl/internal/output"
	"github.com/tanq16/bilidl/internal/utils"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [DIR]",
		Short: "Remove partial downloads left in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := outputDir
			if len(args) > 0 {
				dir = args[0]
			}
			if err := utils.Clean(dir); err != nil {
				return fmt.Errorf("error cleaning up temporary files: %v", err)
			}
			output.PrintSuccess("Temporary files cleaned up")
			return nil
		},
	}
}
