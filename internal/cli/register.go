package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/ipasset"
	orchdom "ipvault/internal/services/orchestrator/domain"

	"github.com/spf13/cobra"
)

type registerOptions struct {
	title       string
	description string
	assetType   string
	tags        []string
	license     string
	skipUpload  bool
}

// NewRegisterCommand runs one file through the whole pipeline
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	o := &registerOptions{}

	cmd := &cobra.Command{
		Use:   "register <file>",
		Short: "Fingerprint, store and register a file as an IP asset",
		Long: `Fingerprint, store and register a file as an IP asset.

Storage backends, the wallet and the ledger are read from the same
CORE_* environment the API uses. With --skip-upload the file is only
fingerprinted and registered without storage locators.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := artifact.FromFile(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			p, closeFn, err := openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out, runErr := p.Orchestrator.RegisterFile(cmd.Context(), orchdom.FileRequest{
				Artifact:    a,
				Title:       o.title,
				Description: o.description,
				Type:        ipasset.AssetType(strings.ToLower(o.assetType)),
				Tags:        o.tags,
				License:     o.license,
				SkipUpload:  o.skipUpload,
			})
			if err := emit(cmd.OutOrStdout(), rootOpts, out, func(w io.Writer) { printOutcome(w, out) }); err != nil {
				return err
			}
			return runErr
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.title, "title", "", "asset title (defaults to the file name)")
	f.StringVar(&o.description, "description", "", "asset description")
	f.StringVar(&o.assetType, "type", string(ipasset.TypeArt), "asset type ("+typeList()+")")
	f.StringSliceVar(&o.tags, "tags", nil, "comma separated tags")
	f.StringVar(&o.license, "license", "", "license identifier such as CC-BY-4.0")
	f.BoolVar(&o.skipUpload, "skip-upload", false, "register without uploading to storage")
	return cmd
}

// typeList renders the accepted asset types for flag help
func typeList() string {
	names := make([]string, 0, len(ipasset.Types()))
	for _, t := range ipasset.Types() {
		names = append(names, string(t))
	}
	return strings.Join(names, "|")
}

func printOutcome(w io.Writer, out orchdom.Outcome) {
	fmt.Fprintf(w, "item     %s\n", out.ItemID)
	fmt.Fprintf(w, "state    %s\n", out.State)
	if out.Storage.Hash != "" {
		fmt.Fprintf(w, "hash     %s\n", out.Storage.Hash)
	}
	if loc := out.Storage.MediaLocator(); loc != "" {
		fmt.Fprintf(w, "stored   %s\n", loc)
	}
	for _, slot := range slices.Sorted(maps.Keys(out.Storage.Failures)) {
		fmt.Fprintf(w, "degraded %s: %s\n", slot, out.Storage.Failures[slot])
	}
	if out.Asset != nil {
		fmt.Fprintf(w, "asset    %s\n", out.Asset.ID)
		fmt.Fprintf(w, "owner    %s\n", out.Asset.Owner)
		if out.Asset.TxHash != "" {
			fmt.Fprintf(w, "tx       %s\n", out.Asset.TxHash)
		}
	}
	if out.Deduplicated {
		fmt.Fprintln(w, "note     already registered, existing asset returned")
	}
	if out.Error != nil {
		fmt.Fprintf(w, "error    %s: %s\n", out.Error.Code, out.Error.Message)
	}
}
