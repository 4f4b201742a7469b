package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savedeities/contribute/internal/shared/version"
)

func NewCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Current()
			if asJSON {
				out, err := json.Marshal(info)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "contribute %s (commit %s, built %s)\n", info.Version, info.GitCommit, info.BuildTime)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
