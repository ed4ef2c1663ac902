// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package resolve

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"selfe.sh/cmdfactory"
	"selfe.sh/internal/cli/selfe/project"
)

type ResolveOptions struct {
	project.Params

	out     io.Writer
	workdir string
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&ResolveOptions{}, cobra.Command{
		Short: "Show the configuration resolved for a context",
		Use:   "resolve [FLAGS] [DIR]",
		Args:  cmdfactory.MaxArgs(1),
		Long: heredoc.Doc(`
			Resolve the nearest sel4.toml for the selected architecture, platform
			and profile and print the result as YAML.
		`),
		Example: heredoc.Doc(`
			# Show what an aarch32 release build on sabre would use
			$ selfe resolve -a aarch32 -p sabre --release`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "config",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *ResolveOptions) Pre(cmd *cobra.Command, args []string) error {
	opts.out = cmd.OutOrStdout()

	if len(args) > 0 {
		opts.workdir = args[0]
	}

	return nil
}

func (opts *ResolveOptions) Run(ctx context.Context, _ []string) error {
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

	enc := yaml.NewEncoder(opts.out)
	enc.SetIndent(2)
	defer enc.Close()

	return enc.Encode(proj.Resolved.Summary())
}
