// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package exec

import (
	"fmt"
	"io"
	"sort"
)

// ExecOptions describe the surroundings of a process: where it runs, what it
// sees in its environment and where its output goes.
type ExecOptions struct {
	stdout io.Writer
	stderr io.Writer
	env    map[string]string
	dir    string
	onExit []func(int)
}

type ExecOption func(eo *ExecOptions) error

func newExecOptions(eopts ...ExecOption) (*ExecOptions, error) {
	eo := &ExecOptions{
		env: map[string]string{},
	}

	for _, o := range eopts {
		if err := o(eo); err != nil {
			return nil, fmt.Errorf("could not apply option: %v", err)
		}
	}

	return eo, nil
}

// environ renders the additional environment as KEY=VALUE pairs in key order.
func (eo *ExecOptions) environ() []string {
	keys := make([]string, 0, len(eo.env))
	for k := range eo.env {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	environ := make([]string, 0, len(keys))
	for _, k := range keys {
		environ = append(environ, k+"="+eo.env[k])
	}

	return environ
}

// WithEnv sets environment variables on top of the host's.  Later calls
// override earlier ones for the same name.
func WithEnv(env map[string]string) ExecOption {
	return func(eo *ExecOptions) error {
		for k, v := range env {
			if k == "" {
				return fmt.Errorf("environment variable name cannot be empty")
			}

			eo.env[k] = v
		}

		return nil
	}
}

// WithDir sets the working directory of the process.
func WithDir(dir string) ExecOption {
	return func(eo *ExecOptions) error {
		eo.dir = dir
		return nil
	}
}

// WithOnExitCallback registers a function receiving the exit code once the
// process has finished.
func WithOnExitCallback(callback func(int)) ExecOption {
	return func(eo *ExecOptions) error {
		eo.onExit = append(eo.onExit, callback)
		return nil
	}
}

// WithStdout sets where the process writes its standard output.
func WithStdout(stdout io.Writer) ExecOption {
	return func(eo *ExecOptions) error {
		eo.stdout = stdout
		return nil
	}
}

// WithStderr sets where the process writes its standard error.  When unset
// it follows stdout.
func WithStderr(stderr io.Writer) ExecOption {
	return func(eo *ExecOptions) error {
		eo.stderr = stderr
		return nil
	}
}
