package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avance-dl/avance/internal/archive"
	"github.com/avance-dl/avance/internal/output"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var extractDest string
	cmd := &cobra.Command{
		Use:   "extract [ARCHIVE]",
		Short: "Extract a downloaded archive",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			archivePath := args[0]
			if !archive.IsArchive(archivePath) {
				output.PrintError(fmt.Sprintf("Unsupported archive type: %s", archivePath))
				output.PrintInfo("Supported: " + strings.Join(archive.SupportedExtensions, ", "))
				os.Exit(1)
			}
			mgr := archive.NewManager()
			if err := mgr.Extract(context.Background(), archivePath, extractDest); err != nil {
				output.PrintError(fmt.Sprintf("Extraction failed: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Extracted %s to %s", archivePath, extractDest))
		},
	}
	cmd.Flags().StringVarP(&extractDest, "dest", "d", ".", "Directory to extract into")
	return cmd
}
