package cmd

import (
	"fmt"
	"os"

	"github.com/avance-dl/avance/internal/fsops"
	"github.com/avance-dl/avance/internal/output"
	"github.com/avance-dl/avance/internal/utils"
	"github.com/spf13/cobra"
)

func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage downloaded files (ls, mv, cp, rm, size)",
	}
	cmd.AddCommand(newFilesLsCmd())
	cmd.AddCommand(newFilesMvCmd())
	cmd.AddCommand(newFilesCpCmd())
	cmd.AddCommand(newFilesRmCmd())
	cmd.AddCommand(newFilesSizeCmd())
	return cmd
}

func newFilesLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [DIR]",
		Short: "List files in a directory",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			entries, err := fsops.List(dir)
			if err != nil {
				output.PrintError(fmt.Sprintf("Failed to list %s: %v", dir, err))
				os.Exit(1)
			}
			for _, entry := range entries {
				if entry.IsDir {
					output.PrintInfo(entry.Name + "/")
				} else {
					output.PrintInfo(fmt.Sprintf("%-40s %s", entry.Name, utils.FormatBytes(uint64(entry.Size))))
				}
			}
		},
	}
}

func newFilesMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv [SRC] [DST]",
		Short: "Move a file or directory",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := fsops.Move(args[0], args[1]); err != nil {
				output.PrintError(fmt.Sprintf("Move failed: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Moved %s to %s", args[0], args[1]))
		},
	}
}

func newFilesCpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp [SRC] [DST]",
		Short: "Copy a file or directory",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := fsops.Copy(args[0], args[1]); err != nil {
				output.PrintError(fmt.Sprintf("Copy failed: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Copied %s to %s", args[0], args[1]))
		},
	}
}

func newFilesRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [PATH]",
		Short: "Delete a file or directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := fsops.Delete(args[0]); err != nil {
				output.PrintError(fmt.Sprintf("Delete failed: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Deleted %s", args[0]))
		},
	}
}

func newFilesSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size [DIR]",
		Short: "Report the total size of a directory tree",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			total, err := fsops.DirSize(args[0])
			if err != nil {
				output.PrintError(fmt.Sprintf("Failed to compute size: %v", err))
				os.Exit(1)
			}
			output.PrintInfo(fmt.Sprintf("%s: %s", args[0], utils.FormatBytes(uint64(total))))
		},
	}
}
