package cli

import (
	"fmt"
	"io"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"

	"github.com/spf13/cobra"
)

// FingerprintResult is the json shape of the fingerprint command
type FingerprintResult struct {
	Path        string           `json:"path"`
	Hash        fingerprint.Hash `json:"hash"`
	URN         string           `json:"urn"`
	Size        int64            `json:"size"`
	ContentType string           `json:"content_type"`
}

// NewFingerprintCommand hashes a file without storing or registering it
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <file>",
		Short: "Print the content hash of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := artifact.FromFile(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			h, err := a.Fingerprint()
			if err != nil {
				return err
			}
			res := FingerprintResult{Path: args[0], Hash: h, URN: h.URN(), Size: a.Size, ContentType: a.ContentType}
			return emit(cmd.OutOrStdout(), rootOpts, res, func(w io.Writer) {
				fmt.Fprintf(w, "%s  %s\n", h, args[0])
			})
		},
	}
}
