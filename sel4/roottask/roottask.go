// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package roottask runs the user supplied command which produces a root task
// image.
package roottask

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"selfe.sh/exec"
	"selfe.sh/internal/errs"
	"selfe.sh/log"
	"selfe.sh/sel4/contextual"
)

// Environment variables exported to the root task command.  The same names
// are read back when the command itself resolves the configuration.
const (
	EnvConfigPath       = "SEL4_CONFIG_PATH"
	EnvPlatform         = "SEL4_PLATFORM"
	EnvOverrideArch     = "SEL4_OVERRIDE_ARCH"
	EnvOverrideSeL4Arch = "SEL4_OVERRIDE_SEL4_ARCH"
)

// DefaultShell interprets the root task command.
const DefaultShell = "sh"

type MakeOptions struct {
	shell  string
	runner exec.Runner
	stdout io.Writer
	stderr io.Writer
}

type MakeOption func(*MakeOptions) error

// WithShell sets the shell used to interpret the command.
func WithShell(shell string) MakeOption {
	return func(mo *MakeOptions) error {
		mo.shell = shell
		return nil
	}
}

// WithRunner replaces the process runner.
func WithRunner(runner exec.Runner) MakeOption {
	return func(mo *MakeOptions) error {
		if runner == nil {
			return fmt.Errorf("cannot use nil runner")
		}

		mo.runner = runner
		return nil
	}
}

// WithOutput sets where the command's output is written.
func WithOutput(stdout, stderr io.Writer) MakeOption {
	return func(mo *MakeOptions) error {
		mo.stdout = stdout
		mo.stderr = stderr
		return nil
	}
}

// Make runs the root task's make command, if it has one, from the directory
// of the configuration file.  It returns false when there was nothing to run.
func Make(ctx context.Context, c *contextual.Contextualized, configPath string, mopts ...MakeOption) (bool, error) {
	opts := MakeOptions{
		shell:  DefaultShell,
		runner: exec.Run,
		stdout: os.Stderr,
		stderr: os.Stderr,
	}

	for _, o := range mopts {
		if err := o(&opts); err != nil {
			return false, fmt.Errorf("could not apply option: %v", err)
		}
	}

	entry := log.Step(ctx, "root-task")

	rt := c.Build.RootTask
	if rt == nil {
		return false, fmt.Errorf("%w: root task information, particularly a root_task_image path, must be supplied in [build.%s.%s]",
			errs.ErrMisconfigured, c.Context.Platform, c.Context.Profile())
	}

	if rt.MakeCommand == nil {
		entry.Info("no make_root_task command supplied, skipping an explicit build for it")
		return false, nil
	}

	env := Env(c, configPath)

	process, err := exec.NewProcess(opts.shell, []string{"-c", *rt.MakeCommand},
		exec.WithDir(filepath.Dir(configPath)),
		exec.WithEnv(env),
		exec.WithStdout(opts.stdout),
		exec.WithStderr(opts.stderr),
	)
	if err != nil {
		return false, err
	}

	entry.
		WithField(EnvConfigPath, configPath).
		WithField(EnvPlatform, env[EnvPlatform]).
		Info(*rt.MakeCommand)

	if err := opts.runner(ctx, process); err != nil {
		return false, fmt.Errorf("%w: root task command: %v", errs.ErrBuildTool, err)
	}

	return true, nil
}

// Env returns the variables which let a nested invocation resolve the same
// context.
func Env(c *contextual.Contextualized, configPath string) map[string]string {
	return map[string]string{
		EnvConfigPath:       configPath,
		EnvPlatform:         c.Context.Platform.String(),
		EnvOverrideArch:     c.Context.Arch.String(),
		EnvOverrideSeL4Arch: c.Context.SeL4Arch.String(),
	}
}
