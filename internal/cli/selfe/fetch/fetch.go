// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"selfe.sh/cmdfactory"
	"selfe.sh/internal/cli/selfe/project"
)

type FetchOptions struct {
	project.Params

	out     io.Writer
	workdir string
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&FetchOptions{}, cobra.Command{
		Short: "Fetch the seL4 sources of a project",
		Use:   "fetch [FLAGS] [DIR]",
		Args:  cmdfactory.MaxArgs(1),
		Long: heredoc.Doc(`
			Fetch the kernel, seL4_tools and util_libs sources named by the nearest
			sel4.toml and print the directory of each, in that order.

			Remote repositories are cloned below target/sel4/source and reused on
			later invocations.  Local paths are printed as is.
		`),
		Example: heredoc.Doc(`
			# Fetch the sources of the current project
			$ selfe fetch

			# Fetch with the in-process git client
			$ selfe fetch --git-client go-git`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "build",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *FetchOptions) Pre(cmd *cobra.Command, args []string) error {
	opts.out = cmd.OutOrStdout()

	if len(args) > 0 {
		opts.workdir = args[0]
	}

	return nil
}

func (opts *FetchOptions) Run(ctx context.Context, _ []string) error {
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

	paths, err := proj.Sources(ctx)
	if err != nil {
		return err
	}

	for _, dir := range []string{paths.KernelDir, paths.ToolsDir, paths.UtilLibsDir} {
		if _, err := fmt.Fprintln(opts.out, dir); err != nil {
			return err
		}
	}

	return nil
}
