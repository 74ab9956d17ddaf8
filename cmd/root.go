package cmd

import (
	"github.com/spf13/cobra"

	"github.com/anchore/anchore-ctl/internal/app"
	"github.com/anchore/anchore-ctl/internal/logging"
)

// Command annotations controlling configuration loading.
const (
	// requiresConfig marks commands that run against a loaded configuration.
	requiresConfig = "requiresConfig"
	// optionalConfig marks commands that use the configuration when it
	// loads and run without it otherwise.
	optionalConfig = "optionalConfig"
)

// NewRootCmd builds the command tree. opts are passed to app.New for
// commands that need the configuration.
func NewRootCmd(opts ...app.Option) *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	rootCmd := &cobra.Command{
		Use:   "anchore",
		Short: "Anchore container image analysis CLI",
		Long: `anchore analyzes container images and keeps its state under one data directory.

The system commands inspect that state and move it between hosts:
  - status reports database, feed and analyzer health
  - backup writes the data directory, image store and config to a tarball
  - restore unpacks such a tarball under a destination root`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(verbose, jsonOutput, cmd.ErrOrStderr())
			logging.Stdout = cmd.OutOrStdout()
			logging.Stderr = cmd.ErrOrStderr()

			required := cmd.Annotations[requiresConfig] == "true"
			if !required && cmd.Annotations[optionalConfig] != "true" {
				return nil
			}
			a, err := app.New(opts...)
			if err != nil {
				if required {
					return fail("failed to load configuration", err)
				}
				logging.Debug("continuing without configuration", "command", cmd.Name(), "error", err)
				return nil
			}
			cmd.SetContext(app.NewContext(cmd.Context(), a))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newSystemCmd())

	return rootCmd
}

// Execute runs the command tree against the on-disk configuration.
func Execute() error {
	return NewRootCmd().Execute()
}
