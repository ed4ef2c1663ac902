// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package ninja

import (
	"fmt"
	"io"

	"selfe.sh/exec"
)

// NinjaOptions represents the command-line arguments which can be passed to
// the invocation of ninja.
type NinjaOptions struct {
	directory string `flag:"-C"`
	jobs      *int   `flag:"-j,joined"`
	keepGoing *int   `flag:"-k,joined"`
	dryRun    bool   `flag:"-n"`
	verbose   bool   `flag:"-v"`

	bin        string
	targets    []string
	stdout     io.Writer
	onProgress func(current, total int)
	eopts      []exec.ExecOption
}

type NinjaOption func(no *NinjaOptions) error

// NewNinjaOptions applies the given options in order.
func NewNinjaOptions(nopts ...NinjaOption) (*NinjaOptions, error) {
	no := &NinjaOptions{}

	for _, o := range nopts {
		if err := o(no); err != nil {
			return nil, fmt.Errorf("could not apply option: %v", err)
		}
	}

	return no, nil
}

// Change to directory before doing anything else.  Equivalent to -C.
func WithDirectory(dir string) NinjaOption {
	return func(no *NinjaOptions) error {
		no.directory = dir
		return nil
	}
}

// Run N jobs in parallel.  Zero or less leaves the choice to ninja.
func WithJobs(jobs int) NinjaOption {
	return func(no *NinjaOptions) error {
		if jobs > 0 {
			no.jobs = &jobs
		} else {
			no.jobs = nil
		}

		return nil
	}
}

// Keep going until N jobs fail.  Equivalent to -k.
func WithKeepGoing(failures int) NinjaOption {
	return func(no *NinjaOptions) error {
		no.keepGoing = &failures
		return nil
	}
}

// Dry run: don't run commands but act like they succeeded.  Equivalent to
// -n.
func WithDryRun(dryRun bool) NinjaOption {
	return func(no *NinjaOptions) error {
		no.dryRun = dryRun
		return nil
	}
}

// Show all command lines while building.  Equivalent to -v.
func WithVerbose(verbose bool) NinjaOption {
	return func(no *NinjaOptions) error {
		no.verbose = verbose
		return nil
	}
}

// WithTarget appends targets to build.
func WithTarget(target ...string) NinjaOption {
	return func(no *NinjaOptions) error {
		no.targets = append(no.targets, target...)
		return nil
	}
}

// WithStdout sets where ninja's status output is written.
func WithStdout(stdout io.Writer) NinjaOption {
	return func(no *NinjaOptions) error {
		no.stdout = stdout
		return nil
	}
}

// WithProgressFunc registers a callback invoked for every "[N/M]" status line
// ninja prints.
func WithProgressFunc(onProgress func(current, total int)) NinjaOption {
	return func(no *NinjaOptions) error {
		no.onProgress = onProgress
		return nil
	}
}

// WithBinPath sets the ninja executable.
func WithBinPath(path string) NinjaOption {
	return func(no *NinjaOptions) error {
		no.bin = path
		return nil
	}
}

// WithExecOptions passes options through to the underlying process.
func WithExecOptions(eopts ...exec.ExecOption) NinjaOption {
	return func(no *NinjaOptions) error {
		no.eopts = append(no.eopts, eopts...)
		return nil
	}
}
