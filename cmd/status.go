package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anchore/anchore-ctl/internal/status"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
	formatTOML = "toml"
)

func newStatusCmd() *cobra.Command {
	var (
		showConf bool
		format   string
	)

	cmd := &cobra.Command{
		Use:         "status",
		Short:       "Show system status",
		Long:        "Show database, feed and analyzer status, or with --conf the configuration in use.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{requiresConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd.Context())
			if err != nil {
				return fail("status unavailable", err)
			}

			if showConf {
				if !cmd.Flags().Changed("format") {
					if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
						format = formatJSON
					}
				}
				if err := dumpConfig(cmd.OutOrStdout(), a.Config.Values(), format); err != nil {
					return fail("failed to print configuration", err)
				}
				return nil
			}

			report, err := a.Status()
			if err != nil {
				return fail("failed to build status report", err)
			}
			if err := status.Render(cmd.OutOrStdout(), report); err != nil {
				return fail("failed to print status", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showConf, "conf", false, "Output the configuration currently in use")
	cmd.Flags().StringVar(&format, "format", formatYAML, "Configuration output format (yaml, json, toml); defaults to json under --json")

	return cmd
}

// dumpConfig writes values in the requested format.
func dumpConfig(w io.Writer, values map[string]any, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(values); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatTOML:
		return toml.NewEncoder(w).Encode(withoutNil(values))
	default:
		return fmt.Errorf("unknown format %q (want yaml, json or toml)", format)
	}
}

// withoutNil drops unset values, which TOML cannot represent.
func withoutNil(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case nil:
			continue
		case map[string]any:
			out[k] = withoutNil(val)
		default:
			out[k] = val
		}
	}
	return out
}
