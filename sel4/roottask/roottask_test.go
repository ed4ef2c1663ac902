// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package roottask

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfe.sh/exec"
	"selfe.sh/internal/errs"
	"selfe.sh/sel4/arch"
	"selfe.sh/sel4/contextual"
)

const document = `
[sel4.kernel]
path = "k"
[sel4.tools]
path = "t"
[sel4.util_libs]
path = "u"

[build.pc99.debug]
make_root_task = 'echo "$SEL4_PLATFORM $SEL4_OVERRIDE_ARCH $SEL4_OVERRIDE_SEL4_ARCH" > out.txt'
root_task_image = "root"

[build.pc99.release]
root_task_image = "root"
`

func resolve(t *testing.T, isDebug bool, dir string) *contextual.Contextualized {
	t.Helper()

	ctx, err := contextual.NewContext(arch.SeL4ArchX86_64, "", isDebug, dir)
	require.NoError(t, err)

	c, err := contextual.FromString(document, ctx)
	require.NoError(t, err)

	return c
}

func TestMakeRunsCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "sel4.toml")

	ran, err := Make(context.Background(), resolve(t, true, dir), configPath)
	require.NoError(t, err)
	assert.True(t, ran)

	out, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "pc99 x86 x86_64\n", string(out))
}

func TestMakeObservedByRunner(t *testing.T) {
	var seen *exec.Process

	ran, err := Make(context.Background(), resolve(t, true, "/work"), "/work/sel4.toml",
		WithShell("/bin/bash"),
		WithRunner(func(_ context.Context, p *exec.Process) error {
			seen = p
			return nil
		}),
	)
	require.NoError(t, err)
	assert.True(t, ran)

	require.NotNil(t, seen)
	assert.Equal(t, "/bin/bash", seen.Bin())
	assert.Equal(t, "-c", seen.Args()[0])
	assert.Equal(t, "/work", seen.Dir())
	assert.Contains(t, seen.Env(), "SEL4_CONFIG_PATH=/work/sel4.toml")
	assert.Contains(t, seen.Env(), "SEL4_OVERRIDE_SEL4_ARCH=x86_64")
}

func TestMakeWithoutCommandSkips(t *testing.T) {
	ran, err := Make(context.Background(), resolve(t, false, ""), "/work/sel4.toml",
		WithRunner(func(context.Context, *exec.Process) error {
			t.Fatal("runner must not be called")
			return nil
		}),
	)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestMakeFailure(t *testing.T) {
	c := resolve(t, true, "")
	failing := "exit 7"
	c.Build.RootTask.MakeCommand = &failing

	_, err := Make(context.Background(), c, filepath.Join(t.TempDir(), "sel4.toml"))
	require.Error(t, err)
	assert.True(t, errs.IsBuildToolError(err))
	assert.True(t, strings.Contains(err.Error(), "status 7"), err.Error())
}

func TestMakeWithoutRootTask(t *testing.T) {
	c := resolve(t, true, "")
	c.Build.RootTask = nil

	_, err := Make(context.Background(), c, "/work/sel4.toml")
	assert.True(t, errs.IsMisconfiguredError(err))
}
