package cli

import (
	"fmt"
	"io"

	"ipvault/internal/core/version"

	"github.com/spf13/cobra"
)

// NewVersionCommand prints build information
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Info("ipvault")
			return emit(cmd.OutOrStdout(), rootOpts, info, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s (%s, %s)\n", info.Service, info.Version, info.Commit, info.Date)
			})
		},
	}
}
