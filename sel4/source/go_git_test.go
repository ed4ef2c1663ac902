// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitplumbing "github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfe.sh/sel4/config"
)

// upstream creates a local repository with two commits on master and returns
// its path and the hash of the first commit.
func upstream(t *testing.T) (string, gitplumbing.Hash) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(content string) gitplumbing.Hash {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte(content), 0o644))

		_, err := worktree.Add("VERSION")
		require.NoError(t, err)

		hash, err := worktree.Commit("version "+content, &git.CommitOptions{
			Author: &object.Signature{
				Name:  "selfe",
				Email: "selfe@example.com",
				When:  time.Unix(1700000000, 0),
			},
		})
		require.NoError(t, err)

		return hash
	}

	first := commit("1")
	commit("2")

	return dir, first
}

func TestGoGitFetcherRev(t *testing.T) {
	url, first := upstream(t)
	dest := filepath.Join(t.TempDir(), "kernel-rev-"+first.String())
	require.NoError(t, os.MkdirAll(dest, 0o755))

	err := NewGoGitFetcher(nil).Fetch(context.Background(), url, config.Rev(first.String()), dest)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dest, "VERSION"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(content))
}

func TestGoGitFetcherBranch(t *testing.T) {
	url, _ := upstream(t)
	dest := filepath.Join(t.TempDir(), "tools")

	err := NewGoGitFetcher(nil).Fetch(context.Background(), url, config.Branch("master"), dest)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dest, "VERSION"))
	require.NoError(t, err)
	assert.Equal(t, "2", string(content))
}

func TestGoGitFetcherThroughResolve(t *testing.T) {
	url, first := upstream(t)
	sources := config.SeL4Sources{
		Kernel:   config.RemoteGit{URL: url, Target: config.Rev(first.String())},
		Tools:    config.RemoteGit{URL: url, Target: config.Branch("master")},
		UtilLibs: config.LocalPath{Path: url},
	}

	paths, err := Resolve(context.Background(), sources, t.TempDir(), WithFetcher(NewGoGitFetcher(nil)))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(paths.KernelDir, "VERSION"))
	assert.FileExists(t, filepath.Join(paths.ToolsDir, "VERSION"))
	assert.Equal(t, url, paths.UtilLibsDir)
}

func TestGoGitFetcherMissingBranch(t *testing.T) {
	url, _ := upstream(t)

	err := NewGoGitFetcher(nil).Fetch(context.Background(), url, config.Branch("does-not-exist"), filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}
