// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package cmake

import (
	"fmt"
	"sort"

	"selfe.sh/exec"
)

// CMakeOptions represents the command-line arguments which can be passed to
// a CMake configure step.
type CMakeOptions struct {
	defines           []string `flag:"-D,joined"`
	generator         string   `flag:"-G"`
	logLevel          string   `flag:"--log-level=,joined"`
	warnUninitialized bool     `flag:"--warn-uninitialized"`
	freshCache        bool     `flag:"--fresh"`

	bin       string
	sourceDir string
	vars      map[string]string
	eopts     []exec.ExecOption
}

type CMakeOption func(co *CMakeOptions) error

// NewCMakeOptions applies the given options in order.
func NewCMakeOptions(copts ...CMakeOption) (*CMakeOptions, error) {
	co := &CMakeOptions{}

	for _, o := range copts {
		if err := o(co); err != nil {
			return nil, fmt.Errorf("could not apply option: %v", err)
		}
	}

	return co, nil
}

// Defines returns the cache variables as KEY=VALUE pairs sorted by key.
func (co *CMakeOptions) Defines() []string {
	keys := make([]string, 0, len(co.vars))
	for k := range co.vars {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	defines := make([]string, 0, len(keys))
	for _, k := range keys {
		defines = append(defines, k+"="+co.vars[k])
	}

	return defines
}

// WithVar sets a cache variable.  Equivalent to -D<key>=<val>.
func WithVar(key, val string) CMakeOption {
	return func(co *CMakeOptions) error {
		if len(key) == 0 {
			return fmt.Errorf("cache variable name cannot be empty")
		}

		if co.vars == nil {
			co.vars = make(map[string]string)
		}

		co.vars[key] = val

		return nil
	}
}

// WithVars sets a map of cache variables.
func WithVars(vars map[string]string) CMakeOption {
	return func(co *CMakeOptions) error {
		for key, val := range vars {
			if err := WithVar(key, val)(co); err != nil {
				return err
			}
		}

		return nil
	}
}

// WithGenerator selects the build system generator.  Equivalent to -G.
func WithGenerator(generator string) CMakeOption {
	return func(co *CMakeOptions) error {
		co.generator = generator
		return nil
	}
}

// WithLogLevel sets the verbosity of CMake's own messages.  Equivalent to
// --log-level=<level>.
func WithLogLevel(level string) CMakeOption {
	return func(co *CMakeOptions) error {
		co.logLevel = level
		return nil
	}
}

// WithWarnUninitialized warns about uninitialized values.
func WithWarnUninitialized(warn bool) CMakeOption {
	return func(co *CMakeOptions) error {
		co.warnUninitialized = warn
		return nil
	}
}

// WithFreshCache discards any existing CMakeCache.txt.  Equivalent to
// --fresh.
func WithFreshCache(fresh bool) CMakeOption {
	return func(co *CMakeOptions) error {
		co.freshCache = fresh
		return nil
	}
}

// WithSourceDir sets the directory holding the top-level CMakeLists.txt.
func WithSourceDir(dir string) CMakeOption {
	return func(co *CMakeOptions) error {
		co.sourceDir = dir
		return nil
	}
}

// WithBinPath sets the cmake executable.
func WithBinPath(path string) CMakeOption {
	return func(co *CMakeOptions) error {
		co.bin = path
		return nil
	}
}

// WithExecOptions passes options through to the underlying process.
func WithExecOptions(eopts ...exec.ExecOption) CMakeOption {
	return func(co *CMakeOptions) error {
		co.eopts = append(co.eopts, eopts...)
		return nil
	}
}
