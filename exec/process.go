// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"selfe.sh/log"
)

type Process struct {
	executable *Executable
	opts       *ExecOptions
	cmd        *exec.Cmd
}

// NewProcess prepares a process to be executed from a given binary name and
// optional execution options
func NewProcess(bin string, args []string, eopts ...ExecOption) (*Process, error) {
	executable, err := NewExecutable(bin, nil, args...)
	if err != nil {
		return nil, err
	}

	return NewProcessFromExecutable(executable, eopts...)
}

// NewProcessFromExecutable prepares a process to be executed from a given
// *Executable object and optional execution options
func NewProcessFromExecutable(executable *Executable, eopts ...ExecOption) (*Process, error) {
	if executable == nil {
		return nil, fmt.Errorf("cannot prepare process without executable")
	}

	opts, err := newExecOptions(eopts...)
	if err != nil {
		return nil, err
	}

	return &Process{
		executable: executable,
		opts:       opts,
	}, nil
}

// Cmdline returns the full command line to be executed
func (e *Process) Cmdline() string {
	return strings.Join(append([]string{e.executable.bin}, e.executable.Args()...), " ")
}

// Bin returns the binary which will be executed.
func (e *Process) Bin() string {
	return e.executable.bin
}

// Args returns the arguments passed to the binary.
func (e *Process) Args() []string {
	return e.executable.Args()
}

// Env returns the additional environment, in KEY=VALUE form, which is set on
// top of the host's environment.
func (e *Process) Env() []string {
	return e.opts.environ()
}

// Dir returns the working directory of the process.  An empty string means
// the caller's working directory.
func (e *Process) Dir() string {
	return e.opts.dir
}

// Start the process.  The context bounds the lifetime of the process.
func (e *Process) Start(ctx context.Context) error {
	e.cmd = exec.CommandContext(ctx, e.executable.bin, e.executable.Args()...)
	e.cmd.Dir = e.opts.dir
	e.cmd.Stdout = e.opts.stdout
	e.cmd.Stderr = e.opts.stderr

	// Without a dedicated stderr, diagnostics follow stdout.
	if e.cmd.Stderr == nil {
		e.cmd.Stderr = e.opts.stdout
	}

	e.cmd.Env = append(os.Environ(), e.opts.environ()...)

	log.G(ctx).WithField("dir", e.opts.dir).Debug(e.Cmdline())

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("could not start '%s': %w", e.executable.bin, err)
	}

	return nil
}

// Wait for the process to complete.  A non-zero exit is returned as an error
// wrapping *exec.ExitError.
func (e *Process) Wait() error {
	if e.cmd == nil {
		return fmt.Errorf("process has not yet started cannot wait")
	}

	err := e.cmd.Wait()
	for _, cb := range e.opts.onExit {
		cb(e.cmd.ProcessState.ExitCode())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("'%s' exited with status %d: %w", e.Cmdline(), exitErr.ExitCode(), err)
	} else if err != nil {
		return fmt.Errorf("'%s': %w", e.Cmdline(), err)
	}

	return nil
}

// StartAndWait starts the process and waits for it to exit
func (e *Process) StartAndWait(ctx context.Context) error {
	if err := e.Start(ctx); err != nil {
		return err
	}

	return e.Wait()
}
