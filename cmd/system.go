package cmd

import (
	"github.com/spf13/cobra"
)

func newSystemCmd() *cobra.Command {
	systemCmd := &cobra.Command{
		Use:   "system",
		Short: "System level operations",
	}

	systemCmd.AddCommand(newStatusCmd())
	systemCmd.AddCommand(newBackupCmd())
	systemCmd.AddCommand(newRestoreCmd())
	systemCmd.AddCommand(newEventsCmd())

	return systemCmd
}
