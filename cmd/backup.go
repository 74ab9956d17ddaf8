package cmd

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/anchore/anchore-ctl/internal/audit"
	"github.com/anchore/anchore-ctl/internal/logging"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "backup <outputdir>",
		Short:       "Backup an anchore installation to a tarfile",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{requiresConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir := args[0]

			a, err := appFrom(cmd.Context())
			if err != nil {
				return fail("backup unavailable", err)
			}

			logInfo("Backing up anchore system to directory %s ...", outputDir)
			path, err := a.Archive.Backup(outputDir)
			if err != nil {
				record(a.Audit, func(l *audit.Logger) error { return l.RecordFailure(audit.OpBackup, err) })
				return fail("backup failed", err)
			}

			var size int64
			if info, err := os.Stat(path); err == nil {
				size = info.Size()
			}
			roots, _ := a.Archive.Roots()
			record(a.Audit, func(l *audit.Logger) error { return l.RecordBackup(path, roots, size) })

			if size > 0 {
				logSuccess("Anchore backed up: %s (%s)", path, humanize.Bytes(uint64(size)))
			} else {
				logSuccess("Anchore backed up: %s", path)
			}
			return nil
		},
	}
}

// record appends to the audit log when one is available. A failed write
// is logged and does not fail the command.
func record(l *audit.Logger, fn func(*audit.Logger) error) {
	if l == nil {
		return
	}
	if err := fn(l); err != nil {
		logging.Warn("failed to record audit event", "error", err)
	}
}
