// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFlags struct {
	verbose   bool     `flag:"-v"`
	directory string   `flag:"-C"`
	jobs      *int     `flag:"-j,omitvalueif=0,joined"`
	defines   []string `flag:"-D,joined"`
	skipped   string
}

func TestParseInterfaceArgs(t *testing.T) {
	zero, eight := 0, 8

	tests := []struct {
		name   string
		face   testFlags
		expect []string
	}{
		{
			name:   "empty",
			face:   testFlags{},
			expect: nil,
		},
		{
			name:   "bool and string",
			face:   testFlags{verbose: true, directory: "/build", skipped: "x"},
			expect: []string{"-v", "-C", "/build"},
		},
		{
			name:   "omitted value",
			face:   testFlags{jobs: &zero},
			expect: []string{"-j"},
		},
		{
			name:   "joined value",
			face:   testFlags{jobs: &eight, defines: []string{"A=1", "B=2"}},
			expect: []string{"-j8", "-DA=1", "-DB=2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args, err := ParseInterfaceArgs(tc.face)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, args)
		})
	}
}

func TestParseInterfaceArgsRejectsPointer(t *testing.T) {
	_, err := ParseInterfaceArgs(&testFlags{})
	assert.Error(t, err)
}

func TestNewExecutableSplitsBinary(t *testing.T) {
	e, err := NewExecutable("ccache cmake", testFlags{verbose: true}, ".")
	require.NoError(t, err)

	assert.Equal(t, "ccache", e.Bin())
	assert.Equal(t, []string{"cmake", "-v", "."}, e.Args())
}

func TestNewExecutableEmpty(t *testing.T) {
	_, err := NewExecutable("", nil)
	assert.Error(t, err)
}
