// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package cmake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfe.sh/exec"
)

func TestNewDefaults(t *testing.T) {
	c, err := New(
		WithVars(map[string]string{
			"KERNEL_PATH":          "/src/kernel",
			"CMAKE_TOOLCHAIN_FILE": "/src/kernel/gcc.cmake",
		}),
		WithVar("KernelPrinting", "true"),
		WithExecOptions(exec.WithDir("/build")),
	)
	require.NoError(t, err)

	assert.Equal(t, "cmake", c.Process().Bin())
	assert.Equal(t, []string{
		"-DCMAKE_TOOLCHAIN_FILE=/src/kernel/gcc.cmake",
		"-DKERNEL_PATH=/src/kernel",
		"-DKernelPrinting=true",
		"-G", "Ninja",
		".",
	}, c.Process().Args())
	assert.Equal(t, "/build", c.Process().Dir())
}

func TestNewWithFlags(t *testing.T) {
	c, err := New(
		WithBinPath("/opt/cmake/bin/cmake"),
		WithGenerator("Unix Makefiles"),
		WithLogLevel("WARNING"),
		WithFreshCache(true),
		WithSourceDir("/src"),
	)
	require.NoError(t, err)

	assert.Equal(t, "/opt/cmake/bin/cmake", c.Process().Bin())
	assert.Equal(t, []string{
		"-G", "Unix Makefiles",
		"--log-level=WARNING",
		"--fresh",
		"/src",
	}, c.Process().Args())
}

func TestWithVarRejectsEmptyKey(t *testing.T) {
	_, err := New(WithVar("", "x"))
	assert.Error(t, err)
}
