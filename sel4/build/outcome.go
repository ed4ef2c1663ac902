// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package build configures and compiles seL4 into a content-addressed build
// directory, reusing earlier builds of identical inputs.
package build

// Mode selects what is built.
type Mode string

const (
	// ModeLib builds only the libsel4 static library.
	ModeLib Mode = "lib"

	// ModeKernel builds the kernel together with a root task image.
	ModeKernel Mode = "kernel"
)

func (m Mode) String() string {
	return string(m)
}

// ninjaTarget returns the target built in this mode.
func (m Mode) ninjaTarget() string {
	if m == ModeKernel {
		return "all"
	}

	return "libsel4.a"
}

// Outcome is the result of a build.  It is implemented by exactly two types:
// StaticLib and Kernel.
type Outcome interface {
	// Dir is the build directory.
	Dir() string

	isOutcome()
}

// StaticLib is the outcome of a library build.
type StaticLib struct {
	BuildDir string
}

// Kernel is the outcome of a kernel build.
type Kernel struct {
	BuildDir   string
	KernelPath string

	// RootImagePath is empty when the architecture bundles the root task into
	// the kernel image.
	RootImagePath string
}

func (o StaticLib) Dir() string { return o.BuildDir }
func (o Kernel) Dir() string    { return o.BuildDir }

func (StaticLib) isOutcome() {}
func (Kernel) isOutcome()    {}
