// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"selfe.sh/cmdfactory"
	"selfe.sh/config"
	"selfe.sh/internal/cli/selfe/project"
	"selfe.sh/log"
	sel4build "selfe.sh/sel4/build"
	"selfe.sh/sel4/roottask"
)

type BuildOptions struct {
	project.Params

	Lib        bool `long:"lib" usage:"Build libsel4 as a static library instead of a kernel image"`
	NoRootTask bool `long:"no-root-task" usage:"Do not run the make_root_task command before building"`

	out     io.Writer
	workdir string
}

// Build resolves the project found from the working directory and builds it.
func Build(ctx context.Context, opts *BuildOptions, args ...string) error {
	if opts == nil {
		opts = &BuildOptions{}
	}

	return opts.Run(ctx, args)
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&BuildOptions{}, cobra.Command{
		Short: "Build seL4 and the root task image",
		Use:   "build [FLAGS] [DIR]",
		Args:  cmdfactory.MaxArgs(1),
		Long: heredoc.Doc(`
			Build seL4 for the configuration resolved from the nearest sel4.toml.

			The root task is built first by running its make_root_task command, if
			any.  Sources are then fetched below target/sel4/source, next to the
			sel4.toml, and seL4 is configured and compiled in a cached build
			directory below target/sel4/build.  On success the build directory, the
			kernel image and, on x86, the root task image are printed, one per line.
		`),
		Example: heredoc.Doc(`
			# Build the kernel for the host's architecture
			$ selfe build

			# Build a release kernel for the Sabre Lite
			$ selfe build --sel4-arch aarch32 --platform sabre --release

			# Build only libsel4
			$ selfe build --lib`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "build",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *BuildOptions) Pre(cmd *cobra.Command, args []string) error {
	opts.out = cmd.OutOrStdout()

	if len(args) > 0 {
		opts.workdir = args[0]
	}

	return nil
}

func (opts *BuildOptions) Run(ctx context.Context, args []string) error {
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

	log.G(ctx).WithField("context", proj.Resolved.Context.String()).Info("resolved configuration")

	mode := sel4build.ModeKernel
	if opts.Lib {
		mode = sel4build.ModeLib
	}

	if mode == sel4build.ModeKernel && !opts.NoRootTask {
		if _, err := roottask.Make(ctx, proj.Resolved, proj.ConfigPathOrDefault()); err != nil {
			return err
		}
	}

	paths, err := proj.Sources(ctx)
	if err != nil {
		return err
	}

	outcome, err := sel4build.Build(ctx,
		proj.OutDir(),
		paths.KernelDir,
		paths.ToolsDir,
		paths.UtilLibsDir,
		proj.Resolved,
		mode,
		BuildOptionsFromConfig(ctx)...,
	)
	if err != nil {
		return err
	}

	return PrintOutcome(opts.out, outcome)
}

// BuildOptionsFromConfig maps the tool configuration onto build options.
func BuildOptionsFromConfig(ctx context.Context) []sel4build.BuildOption {
	cfg := config.G(ctx)

	bopts := []sel4build.BuildOption{
		sel4build.WithCMakeBin(cfg.CMake.Bin),
		sel4build.WithNinjaBin(cfg.Ninja.Bin),
		sel4build.WithGenerator(cfg.CMake.Generator),
		sel4build.WithJobs(cfg.Ninja.Jobs),
		sel4build.WithProgressFunc(func(current, total int) {
			log.G(ctx).Tracef("[%d/%d]", current, total)
		}),
	}

	if cfg.Build.NoLock {
		bopts = append(bopts, sel4build.WithoutLock())
	}

	return bopts
}

// PrintOutcome writes the paths of a build, one per line.
func PrintOutcome(w io.Writer, outcome sel4build.Outcome) error {
	lines := []string{outcome.Dir()}

	if kernel, ok := outcome.(sel4build.Kernel); ok {
		lines = append(lines, kernel.KernelPath)
		if kernel.RootImagePath != "" {
			lines = append(lines, kernel.RootImagePath)
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
