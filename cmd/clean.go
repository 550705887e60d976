package cmd

import (
	"fmt"
	"os"

	"github.com/avance-dl/avance/internal/output"
	"github.com/avance-dl/avance/internal/utils"
	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove leftover temp files from interrupted downloads",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := utils.CleanLocal(); err != nil {
				output.PrintError(fmt.Sprintf("Failed to clean temp files: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess("Cleaned temp files")
		},
	}
	return cmd
}
