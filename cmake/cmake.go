// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package cmake prepares invocations of the CMake configure step.
package cmake

import "selfe.sh/exec"

const (
	DefaultBinaryName = "cmake"
	DefaultGenerator  = "Ninja"
)

type CMake struct {
	opts    *CMakeOptions
	process *exec.Process
}

// New prepares a CMake configure call.  Cache variables are rendered in key
// order so that identical options produce identical command lines.
func New(copts ...CMakeOption) (*CMake, error) {
	opts, err := NewCMakeOptions(copts...)
	if err != nil {
		return nil, err
	}

	if len(opts.bin) == 0 {
		opts.bin = DefaultBinaryName
	}

	if len(opts.generator) == 0 {
		opts.generator = DefaultGenerator
	}

	if len(opts.sourceDir) == 0 {
		opts.sourceDir = "."
	}

	opts.defines = opts.Defines()

	executable, err := exec.NewExecutable(opts.bin, *opts, opts.sourceDir)
	if err != nil {
		return nil, err
	}

	process, err := exec.NewProcessFromExecutable(executable, opts.eopts...)
	if err != nil {
		return nil, err
	}

	return &CMake{
		opts:    opts,
		process: process,
	}, nil
}

// Process returns the prepared process.
func (c *CMake) Process() *exec.Process {
	return c.process
}
