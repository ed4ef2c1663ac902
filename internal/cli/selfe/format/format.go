// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package format

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"selfe.sh/cmdfactory"
	"selfe.sh/internal/cli/selfe/project"
	"selfe.sh/log"
	sel4config "selfe.sh/sel4/config"
)

type FormatOptions struct {
	Write   bool `long:"write" short:"w" usage:"Write the result back to the file instead of printing it"`
	Default bool `long:"default" usage:"Print the built-in default configuration"`

	out io.Writer
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&FormatOptions{}, cobra.Command{
		Short: "Rewrite a sel4.toml in canonical form",
		Use:   "fmt [FLAGS] [FILE]",
		Args:  cmdfactory.MaxArgs(1),
		Long: heredoc.Doc(`
			Parse a sel4.toml and serialize it again in canonical form: tables and
			keys in a stable order with unchanged meaning.  The nearest sel4.toml is
			used when no file is given.
		`),
		Example: heredoc.Doc(`
			# Print the canonical form of the nearest sel4.toml
			$ selfe fmt

			# Rewrite a file in place
			$ selfe fmt -w path/to/sel4.toml

			# Start a new project from the defaults
			$ selfe fmt --default > sel4.toml`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "config",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *FormatOptions) Pre(cmd *cobra.Command, _ []string) error {
	opts.out = cmd.OutOrStdout()

	if opts.Write && opts.Default {
		return cmdfactory.FlagErrorf("--write and --default cannot be combined")
	}

	return nil
}

func (opts *FormatOptions) Run(ctx context.Context, args []string) error {
	if opts.out == nil {
		opts.out = os.Stdout
	}

	if opts.Default {
		_, err := io.WriteString(opts.out, sel4config.DefaultContent())
		return err
	}

	path, err := opts.path(args)
	if err != nil {
		return err
	}

	full, err := sel4config.ParseFile(path)
	if err != nil {
		return err
	}

	text, err := full.Serialize()
	if err != nil {
		return err
	}

	if !opts.Write {
		_, err := io.WriteString(opts.out, text)
		return err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(text), fi.Mode().Perm()); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}

	log.G(ctx).WithField("file", path).Info("formatted")

	return nil
}

func (opts *FormatOptions) path(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	found, ok := project.FindConfig(wd)
	if !ok {
		return "", fmt.Errorf("no %s found in %s or any parent directory", project.DefaultConfigFileName, wd)
	}

	return found, nil
}
