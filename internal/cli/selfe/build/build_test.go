// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfe.sh/config"
	sel4build "selfe.sh/sel4/build"
)

func TestPrintOutcome(t *testing.T) {
	tests := []struct {
		name    string
		outcome sel4build.Outcome
		expect  string
	}{
		{
			name:    "static lib",
			outcome: sel4build.StaticLib{BuildDir: "/out/abc"},
			expect:  "/out/abc\n",
		},
		{
			name: "x86 kernel",
			outcome: sel4build.Kernel{
				BuildDir:      "/out/abc",
				KernelPath:    "/out/abc/images/kernel-x86_64-pc99",
				RootImagePath: "/out/abc/images/root_task-image-x86_64-pc99",
			},
			expect: "/out/abc\n/out/abc/images/kernel-x86_64-pc99\n/out/abc/images/root_task-image-x86_64-pc99\n",
		},
		{
			name: "arm kernel",
			outcome: sel4build.Kernel{
				BuildDir:   "/out/abc",
				KernelPath: "/out/abc/images/root_task-image-arm-sabre",
			},
			expect: "/out/abc\n/out/abc/images/root_task-image-arm-sabre\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PrintOutcome(&buf, tt.outcome))
			assert.Equal(t, tt.expect, buf.String())
		})
	}
}

func TestBuildOptionsFromConfig(t *testing.T) {
	cm, err := config.NewConfigManager()
	require.NoError(t, err)

	ctx := config.WithConfigManager(context.Background(), cm)
	assert.Len(t, BuildOptionsFromConfig(ctx), 5)

	cm.Config.Build.NoLock = true
	assert.Len(t, BuildOptionsFromConfig(ctx), 6)
}
