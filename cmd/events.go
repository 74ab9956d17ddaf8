package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:         "events",
		Short:       "Display the system operation log",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{requiresConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd.Context())
			if err != nil {
				return fail("events unavailable", err)
			}

			events, err := a.Audit.Events()
			if err != nil {
				return fail("failed to read audit log", err)
			}

			if len(events) == 0 {
				logInfo("No events recorded")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, e := range events {
				if raw {
					data, err := json.Marshal(e)
					if err != nil {
						return fail("failed to marshal event", err)
					}
					fmt.Fprintln(out, string(data))
					continue
				}
				ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
				if summary := e.Summary(); summary != "" {
					fmt.Fprintf(out, "[%s] %-8s %s %s\n", ts, e.Type, e.Operation, summary)
				} else {
					fmt.Fprintf(out, "[%s] %-8s %s\n", ts, e.Type, e.Operation)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Output events as JSON lines")
	return cmd
}
