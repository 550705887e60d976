package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/avance-dl/avance/internal/archive"
	"github.com/avance-dl/avance/internal/output"
	"github.com/spf13/cobra"
)

func newCompressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compress [SOURCE_DIR] [ARCHIVE]",
		Short: "Create an archive (tar.gz or zip by extension) from a directory",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			sourceDir, archivePath := args[0], args[1]
			info, err := os.Stat(sourceDir)
			if err != nil || !info.IsDir() {
				output.PrintError(fmt.Sprintf("Not a directory: %s", sourceDir))
				os.Exit(1)
			}
			mgr := archive.NewManager()
			if err := mgr.Create(context.Background(), sourceDir, archivePath); err != nil {
				output.PrintError(fmt.Sprintf("Compression failed: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Created %s from %s", archivePath, sourceDir))
		},
	}
	return cmd
}
