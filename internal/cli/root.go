// Package cli is the ipvault command line, a thin cobra shell over the same
// module wiring the API uses
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"ipvault/internal/modkit"
	"ipvault/internal/modkit/module"
	"ipvault/internal/platform/config"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/store"

	orchdom "ipvault/internal/services/orchestrator/domain"
	orchmod "ipvault/internal/services/orchestrator/module"
	regdom "ipvault/internal/services/registry/domain"
	regmod "ipvault/internal/services/registry/module"
	upmod "ipvault/internal/services/uploader/module"
	walletmod "ipvault/internal/services/wallet/module"

	"github.com/spf13/cobra"
)

// RootOptions holds the global flags
type RootOptions struct {
	Format  string
	Verbose bool
}

// Formats are the accepted --format values
var Formats = []string{"text", "json"}

// Pipeline is what the register and lineage commands drive
type Pipeline struct {
	Orchestrator orchdom.ServicePort
	Registry     regdom.ServicePort
}

// openPipeline builds the stages from env; swapped in tests
var openPipeline = func(ctx context.Context) (*Pipeline, func(), error) {
	root := config.New()
	log := logger.Named("cli")

	st, err := store.Open(ctx, store.FromEnv(root, "cli"), store.WithLogger(*log))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := st.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("store close")
		}
	}

	deps := modkit.FromStore(*log, root, st)
	session := walletmod.Session(ctx, walletmod.FromConfig(root))
	uploader := module.MustPortsOf[upmod.Ports](upmod.New(deps)).Uploader
	registry := module.MustPortsOf[regmod.Ports](regmod.New(deps, session)).Registry
	orch := orchmod.Service(ctx, deps, orchmod.FromConfig(root), uploader, session, registry)

	return &Pipeline{Orchestrator: orch, Registry: registry}, closeFn, nil
}

// NewRootCommand assembles the ipvault command tree
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "ipvault",
		Short:         "Fingerprint, store and register creative work",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(Formats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, Formats)
			}
			// logs go to stderr so json output stays parseable
			lo := logger.FromEnv()
			lo.Writer = cmd.ErrOrStderr()
			if !opts.Verbose {
				lo.Level = "warn"
			}
			logger.Init(lo)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log pipeline progress to stderr")

	cmd.AddCommand(NewFingerprintCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLineageCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))
	return cmd
}

// emit writes v as indented json, or calls text for the text format
func emit(w io.Writer, opts *RootOptions, v any, text func(io.Writer)) error {
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
