// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package selfe is the root of the selfe command tree.
package selfe

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"selfe.sh/cmdfactory"
	"selfe.sh/config"
	"selfe.sh/internal/cli"
	"selfe.sh/internal/version"
	"selfe.sh/log"

	"selfe.sh/internal/cli/selfe/build"
	"selfe.sh/internal/cli/selfe/fetch"
	"selfe.sh/internal/cli/selfe/flags"
	"selfe.sh/internal/cli/selfe/format"
	"selfe.sh/internal/cli/selfe/resolve"
	versioncmd "selfe.sh/internal/cli/selfe/version"
)

type SelfeOptions struct{}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&SelfeOptions{}, cobra.Command{
		Short: "Resolve seL4 configurations and build seL4",
		Use:   "selfe [FLAGS] SUBCOMMAND",
		Long: heredoc.Docf(`
			Resolve layered seL4 configurations and build seL4 kernels and libsel4.

			A project describes its seL4 sources, kernel configuration and per
			platform root task in a sel4.toml, which selfe finds by walking up from
			the working directory.

			Version: %s`, version.Version()),
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	})
	if err != nil {
		panic(err)
	}

	cmd.AddGroup(&cobra.Group{ID: "build", Title: "BUILD COMMANDS"})
	cmd.AddCommand(build.NewCmd())
	cmd.AddCommand(fetch.NewCmd())

	cmd.AddGroup(&cobra.Group{ID: "config", Title: "CONFIGURATION COMMANDS"})
	cmd.AddCommand(resolve.NewCmd())
	cmd.AddCommand(flags.NewCmd())
	cmd.AddCommand(format.NewCmd())

	cmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISCELLANEOUS COMMANDS"})
	cmd.AddCommand(versioncmd.NewCmd())

	return cmd
}

// PersistentPre rebuilds the logger once flags may have changed the log
// settings.
func (opts *SelfeOptions) PersistentPre(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg := config.G(ctx)
	if err := cfg.Validate(); err != nil {
		return cmdfactory.FlagErrorWrap(err)
	}

	cmd.SetContext(log.WithLogger(ctx, cli.NewLogger(cfg, cmd.ErrOrStderr())))

	return nil
}

func (opts *SelfeOptions) Run(_ context.Context, _ []string) error {
	return pflag.ErrHelp
}

func Main(args []string) int {
	cmd := NewCmd()
	cmd.SetArgs(args)

	// Cancelled on the first SIGINT or SIGTERM, which stops cmake, ninja and
	// git with it.  A second signal exits immediately.
	ctx := signals.SetupSignalContext()

	copts := &cli.CliOptions{}

	for _, o := range []cli.CliOption{
		cli.WithDefaultConfigManager(cmd),
		cli.WithDefaultLogger(),
	} {
		if err := o(copts); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	// Set up the config manager in the context if it is available
	if copts.ConfigManager != nil {
		ctx = config.WithConfigManager(ctx, copts.ConfigManager)
	}

	// Set up the logger in the context if it is available
	if copts.Logger != nil {
		ctx = log.WithLogger(ctx, copts.Logger)
	}

	log.G(ctx).Debugf("selfe %s", version.Version())

	return cmdfactory.Main(ctx, cmd)
}
