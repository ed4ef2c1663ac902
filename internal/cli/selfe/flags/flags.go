// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package flags

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"selfe.sh/cmdfactory"
	"selfe.sh/internal/cli/selfe/project"
	"selfe.sh/sel4/contextual"
)

type FlagsOptions struct {
	project.Params

	Format cmdfactory.EnumFlag[contextual.FlagFormat] `long:"format" short:"f" usage:"Output format, cfg or tags"`

	out     io.Writer
	workdir string
}

func NewCmd() *cobra.Command {
	opts := &FlagsOptions{
		Format: *cmdfactory.NewEnumFlag(
			[]contextual.FlagFormat{contextual.FlagFormatCfg, contextual.FlagFormatTags},
			contextual.FlagFormatCfg,
		),
	}

	cmd, err := cmdfactory.New(opts, cobra.Command{
		Short: "Print the enabled boolean seL4 config options",
		Use:   "flags [FLAGS] [DIR]",
		Args:  cmdfactory.MaxArgs(1),
		Long: heredoc.Doc(`
			Print the name of every resolved seL4 config option set to true.

			With --format cfg, one cargo:rustc-cfg line is printed per option, for
			use from a cargo build script.  With --format tags, the names are joined
			into a single comma separated list suitable for go build -tags.
		`),
		Example: heredoc.Doc(`
			# Emit cargo cfg lines
			$ selfe flags

			# Use the options as Go build tags
			$ go build -tags "$(selfe flags -f tags)" ./...`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "config",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *FlagsOptions) Pre(cmd *cobra.Command, args []string) error {
	opts.out = cmd.OutOrStdout()

	if len(args) > 0 {
		opts.workdir = args[0]
	}

	return nil
}

func (opts *FlagsOptions) Run(ctx context.Context, _ []string) error {
	if opts.out == nil {
		opts.out = os.Stdout
	}

	workdir := opts.workdir
	if workdir == "" {
		var err error
		if workdir, err = os.Getwd(); err != nil {
			return err
		}
	}

	proj, err := opts.Params.Load(ctx, workdir)
	if err != nil {
		return fmt.Errorf("could not resolve configuration: %w", err)
	}

	format := opts.Format.Value
	if format == "" {
		format = contextual.FlagFormatCfg
	}

	return proj.Resolved.PrintBooleanFeatureFlags(opts.out, format)
}
