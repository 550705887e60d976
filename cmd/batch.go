package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avance-dl/avance/internal/download"
	"github.com/avance-dl/avance/internal/output"
	"github.com/avance-dl/avance/internal/scheduler"
	"github.com/avance-dl/avance/internal/utils"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [FILE]",
		Short: "Download all entries from a YAML list file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := utils.ReadDownloadList(args[0])
			if err != nil {
				output.PrintError(fmt.Sprintf("Failed to read download list: %v", err))
				os.Exit(1)
			}
			if len(entries) == 0 {
				output.PrintWarning("No downloads found in list")
				return
			}
			segmentsPerLink := segments
			if len(entries) > 1 && workers*segmentsPerLink > maxConnections {
				segmentsPerLink = max(maxConnections/workers, 1)
			}
			requests := make([]download.Request, 0, len(entries))
			for _, entry := range entries {
				segmentCount := segmentsPerLink
				if entry.Segments > 0 {
					segmentCount = entry.Segments
				}
				req := buildRequest(entry.URL, segmentCount)
				if entry.OutputPath != "" {
					req.DestDir = filepath.Dir(entry.OutputPath)
					req.Filename = filepath.Base(entry.OutputPath)
				}
				requests = append(requests, req)
			}
			results := scheduler.Run(context.Background(), requests, workers)
			if results.Failed() > 0 {
				fmt.Println()
				output.PrintError("Encountered failed download(s)")
				os.Exit(1)
			}
		},
	}
	return cmd
}
