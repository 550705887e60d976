package cmd

import (
	"fmt"
	"os"

	"github.com/avance-dl/avance/internal/fsops"
	"github.com/avance-dl/avance/internal/output"
	"github.com/avance-dl/avance/internal/utils"
	"github.com/spf13/cobra"
)

func newStorageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage [PATH]",
		Short: "Report disk usage for the filesystem holding a path",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			quota, err := fsops.Usage(path)
			if err != nil {
				output.PrintError(fmt.Sprintf("Failed to read disk usage: %v", err))
				os.Exit(1)
			}
			usedPercent := 0
			if quota.Total > 0 {
				usedPercent = int(quota.Used * 100 / quota.Total)
			}
			output.PrintHeader(fmt.Sprintf("Storage for %s", path))
			output.PrintInfo(fmt.Sprintf("Total: %s", utils.FormatBytes(quota.Total)))
			output.PrintInfo(fmt.Sprintf("Used:  %s (%d%%)", utils.FormatBytes(quota.Used), usedPercent))
			output.PrintInfo(fmt.Sprintf("Free:  %s", utils.FormatBytes(quota.Free)))
			if usedPercent >= cfg.Storage.WarnThresholdPercent {
				output.PrintWarning(fmt.Sprintf("Disk usage above %d%% threshold", cfg.Storage.WarnThresholdPercent))
			}
		},
	}
	return cmd
}
