// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package ninja prepares invocations of the ninja build tool.
package ninja

import "selfe.sh/exec"

const DefaultBinaryName = "ninja"

type Ninja struct {
	opts    *NinjaOptions
	process *exec.Process
}

// New prepares a ninja call for the configured targets.
func New(nopts ...NinjaOption) (*Ninja, error) {
	opts, err := NewNinjaOptions(nopts...)
	if err != nil {
		return nil, err
	}

	if len(opts.bin) == 0 {
		opts.bin = DefaultBinaryName
	}

	eopts := opts.eopts

	stdout := opts.stdout
	if opts.onProgress != nil {
		stdout = &progressWriter{
			out:        opts.stdout,
			onProgress: opts.onProgress,
		}
	}
	if stdout != nil {
		eopts = append(eopts, exec.WithStdout(stdout))
	}

	executable, err := exec.NewExecutable(opts.bin, *opts, opts.targets...)
	if err != nil {
		return nil, err
	}

	process, err := exec.NewProcessFromExecutable(executable, eopts...)
	if err != nil {
		return nil, err
	}

	return &Ninja{
		opts:    opts,
		process: process,
	}, nil
}

// Process returns the prepared process.
func (n *Ninja) Process() *exec.Process {
	return n.process
}
