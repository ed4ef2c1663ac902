// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

//go:build unix

package lockedfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfe.sh/internal/lockedfile"
)

func TestTryLockReportsHeldMutex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.lock")

	unlock, err := lockedfile.MutexAt(path).Lock()
	require.NoError(t, err)

	_, err = lockedfile.MutexAt(path).TryLock()
	assert.ErrorIs(t, err, lockedfile.ErrWouldBlock)

	unlock()

	unlock, err = lockedfile.MutexAt(path).TryLock()
	require.NoError(t, err)
	unlock()
}

func TestLockWaitsForRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.lock")

	unlock, err := lockedfile.MutexAt(path).Lock()
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := lockedfile.MutexAt(path).Lock()
		if err == nil {
			second()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock did not wait for the first to be released")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(10 * time.Second):
		t.Fatal("second Lock never acquired the mutex")
	}
}

func TestLockExistingFileKeepsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.lock")
	require.NoError(t, os.WriteFile(path, []byte("held"), 0o644))

	unlock, err := lockedfile.MutexAt(path).Lock()
	require.NoError(t, err)
	unlock()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "held", string(b))
}

func TestMutexAtRejectsEmptyPath(t *testing.T) {
	assert.Panics(t, func() { lockedfile.MutexAt("") })
	assert.Equal(t, "lockedfile.Mutex(x)", lockedfile.MutexAt("x").String())
}
