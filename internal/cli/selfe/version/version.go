// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package version

import (
	"context"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"selfe.sh/cmdfactory"
	"selfe.sh/internal/version"
)

type VersionOptions struct {
	out io.Writer
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&VersionOptions{}, cobra.Command{
		Short:   "Show selfe version information",
		Use:     "version",
		Aliases: []string{"v"},
		Args:    cobra.NoArgs,
		Long:    "Show selfe version information.",
		Example: heredoc.Doc(`
			# Show selfe version information
			$ selfe version
		`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "misc",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *VersionOptions) Pre(cmd *cobra.Command, _ []string) error {
	opts.out = cmd.OutOrStdout()
	return nil
}

func (opts *VersionOptions) Run(_ context.Context, _ []string) error {
	_, err := fmt.Fprintf(opts.out, "selfe %s", version.String())
	return err
}
