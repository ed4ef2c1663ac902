// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package ninja

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArgs(t *testing.T) {
	tests := []struct {
		name   string
		opts   []NinjaOption
		expect []string
	}{
		{
			name:   "target only",
			opts:   []NinjaOption{WithTarget("libsel4.a")},
			expect: []string{"libsel4.a"},
		},
		{
			name: "jobs and directory",
			opts: []NinjaOption{
				WithDirectory("/build"),
				WithJobs(8),
				WithTarget("all"),
			},
			expect: []string{"-C", "/build", "-j8", "all"},
		},
		{
			name:   "zero jobs omitted",
			opts:   []NinjaOption{WithJobs(0), WithVerbose(true), WithTarget("all")},
			expect: []string{"-v", "all"},
		},
		{
			name:   "keep going",
			opts:   []NinjaOption{WithKeepGoing(0), WithDryRun(true)},
			expect: []string{"-k0", "-n"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := New(tc.opts...)
			require.NoError(t, err)
			assert.Equal(t, "ninja", n.Process().Bin())
			assert.Equal(t, tc.expect, n.Process().Args())
		})
	}
}

func TestProgressWriter(t *testing.T) {
	var out bytes.Buffer
	var seen [][2]int

	pw := &progressWriter{
		out: &out,
		onProgress: func(current, total int) {
			seen = append(seen, [2]int{current, total})
		},
	}

	chunks := []string{
		"[1/3] Building C object a.o\n[2/3] Buil",
		"ding C object b.o\n",
		"warning: something\n[3/3] Linking libsel4.a\n",
	}

	for _, chunk := range chunks {
		n, err := pw.Write([]byte(chunk))
		require.NoError(t, err)
		assert.Equal(t, len(chunk), n)
	}

	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, seen)
	assert.Equal(t, chunks[0]+chunks[1]+chunks[2], out.String())
}
