package cmd

import (
	"github.com/spf13/cobra"

	"github.com/anchore/anchore-ctl/internal/app"
	"github.com/anchore/anchore-ctl/internal/archive"
	"github.com/anchore/anchore-ctl/internal/audit"
)

const (
	defaultRestoreRoot = "/"
	stdinSource        = "stdin"
)

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <archive|-> [destination_root]",
		Short: "Restore an anchore installation from a previously backed up tarfile",
		Long: `Restore extracts a backup under destination_root (default /).
Pass - as the archive to read it from stdin.

When a configuration loads, the outcome is appended to its event log.`,
		Args:        cobra.RangeArgs(1, 2),
		Annotations: map[string]string{optionalConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			destRoot := defaultRestoreRoot
			if len(args) == 2 {
				destRoot = args[1]
			}

			source := input
			var err error
			if input == "-" {
				source = stdinSource
				logInfo("Restoring anchore system from stdin ...")
				_, err = archive.Restore(destRoot, cmd.InOrStdin())
			} else {
				logInfo("Restoring anchore system from backup file %s ...", input)
				_, err = archive.RestoreFile(destRoot, input)
			}

			var journal *audit.Logger
			if a, ok := app.FromContext(cmd.Context()); ok {
				journal = a.Audit
			}
			if err != nil {
				record(journal, func(l *audit.Logger) error { return l.RecordFailure(audit.OpRestore, err) })
				return fail("restore failed", err)
			}
			record(journal, func(l *audit.Logger) error { return l.RecordRestore(source, destRoot) })

			logSuccess("Anchore restored.")
			return nil
		},
	}
}
