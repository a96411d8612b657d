package cli

import (
	"fmt"
	"io"

	"ipvault/internal/core/ipasset"

	"github.com/spf13/cobra"
)

// NewLineageCommand prints an asset followed by its ancestors
func NewLineageCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lineage <asset-id>",
		Short: "Walk the parent chain of a registered asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeFn, err := openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			chain, err := p.Registry.GetLineage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), rootOpts, chain, func(w io.Writer) { printLineage(w, chain) })
		},
	}
}

func printLineage(w io.Writer, chain []ipasset.RegisteredAsset) {
	for i, a := range chain {
		stale := ""
		if a.Stale {
			stale = " (cached)"
		}
		fmt.Fprintf(w, "%d  %s  %s%s\n", i, a.ID, a.Metadata.Title, stale)
	}
}
