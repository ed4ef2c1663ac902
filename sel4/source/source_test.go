// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfe.sh/exec"
	"selfe.sh/internal/errs"
	"selfe.sh/sel4/config"
)

type fetchCall struct {
	url    string
	target config.GitTarget
	dir    string
}

type stubFetcher struct {
	calls []fetchCall
	err   error
}

func (s *stubFetcher) Fetch(_ context.Context, url string, target config.GitTarget, dir string) error {
	s.calls = append(s.calls, fetchCall{url: url, target: target, dir: dir})
	if s.err != nil {
		return s.err
	}

	return os.WriteFile(filepath.Join(dir, "README"), []byte(url), 0o644)
}

func remoteSources() config.SeL4Sources {
	return config.SeL4Sources{
		Kernel:   config.RemoteGit{URL: "https://github.com/seL4/seL4", Target: config.Rev("4d0f02c")},
		Tools:    config.RemoteGit{URL: "https://github.com/seL4/seL4_tools", Target: config.Branch("10.1.x-compatible")},
		UtilLibs: config.LocalPath{Path: "/opt/util_libs"},
	}
}

func TestResolveFetchesOnce(t *testing.T) {
	ctx := context.Background()
	dest := t.TempDir()
	fetcher := &stubFetcher{}

	paths, err := Resolve(ctx, remoteSources(), dest, WithFetcher(fetcher))
	require.NoError(t, err)

	canonicalDest, err := filepath.EvalSymlinks(dest)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(canonicalDest, "kernel-rev-4d0f02c"), paths.KernelDir)
	assert.Equal(t, filepath.Join(canonicalDest, "seL4_tools-branch-10.1.x-compatible"), paths.ToolsDir)
	assert.Equal(t, "/opt/util_libs", paths.UtilLibsDir)
	require.Len(t, fetcher.calls, 2)
	assert.Equal(t, config.Rev("4d0f02c"), fetcher.calls[0].target)
	assert.Equal(t, paths.KernelDir, fetcher.calls[0].dir)

	again, err := Resolve(ctx, remoteSources(), dest, WithFetcher(fetcher))
	require.NoError(t, err)
	assert.Equal(t, paths, again)
	assert.Len(t, fetcher.calls, 2, "populated checkouts must not be fetched again")
}

func TestResolveFetchesIntoEmptyDir(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "kernel-rev-4d0f02c"), 0o755))

	fetcher := &stubFetcher{}
	_, err := Resolve(context.Background(), remoteSources(), dest, WithFetcher(fetcher))
	require.NoError(t, err)
	assert.Len(t, fetcher.calls, 2)
}

func TestResolveRejectsFileInTheWay(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "kernel-rev-4d0f02c"), nil, 0o644))

	fetcher := &stubFetcher{}
	_, err := Resolve(context.Background(), remoteSources(), dest, WithFetcher(fetcher))
	require.Error(t, err)
	assert.True(t, errs.IsSourceResolutionError(err))
	assert.Empty(t, fetcher.calls)
}

func TestResolveFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("network down")}

	_, err := Resolve(context.Background(), remoteSources(), t.TempDir(), WithFetcher(fetcher))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernel")
	assert.Contains(t, err.Error(), "network down")
}

func TestResolveRemovesIncompleteCheckout(t *testing.T) {
	ctx := context.Background()
	dest := t.TempDir()

	var clones int
	runner := func(failReset bool) exec.Runner {
		return func(_ context.Context, p *exec.Process) error {
			args := p.Args()
			switch args[0] {
			case "clone":
				clones++
				dir := args[len(args)-1]
				return os.WriteFile(filepath.Join(dir, "README"), []byte("partial"), 0o644)
			case "reset":
				if failReset {
					return errors.New("exit status 128")
				}
			}
			return nil
		}
	}

	_, err := Resolve(ctx, remoteSources(), dest, WithFetcher(NewGitCLIFetcher(WithGitRunner(runner(true)))))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git reset")
	assert.NoDirExists(t, filepath.Join(dest, "kernel-rev-4d0f02c"))

	paths, err := Resolve(ctx, remoteSources(), dest, WithFetcher(NewGitCLIFetcher(WithGitRunner(runner(false)))))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(paths.KernelDir, "README"))
	assert.Equal(t, 3, clones, "the failed checkout must be cloned again")
}

func TestResolveLocalOnlyNeverFetches(t *testing.T) {
	sources := config.SeL4Sources{
		Kernel:   config.LocalPath{Path: "k"},
		Tools:    config.LocalPath{Path: "t"},
		UtilLibs: config.LocalPath{Path: "u"},
	}

	fetcher := &stubFetcher{}
	paths, err := Resolve(context.Background(), sources, t.TempDir(), WithFetcher(fetcher))
	require.NoError(t, err)
	assert.Equal(t, &ResolvedPaths{KernelDir: "k", ToolsDir: "t", UtilLibsDir: "u"}, paths)
	assert.Empty(t, fetcher.calls)
}

func TestWithFetcherRejectsNil(t *testing.T) {
	_, err := Resolve(context.Background(), remoteSources(), t.TempDir(), WithFetcher(nil))
	assert.Error(t, err)
}

func TestGitCLIFetcher(t *testing.T) {
	tests := []struct {
		name   string
		target config.GitTarget
		expect [][]string
		dirs   []string
	}{
		{
			name:   "branch",
			target: config.Branch("master"),
			expect: [][]string{
				{"clone", "--depth=1", "--single-branch", "--branch", "master", "https://example.com/repo", "/tmp/out"},
			},
			dirs: []string{""},
		},
		{
			name:   "tag",
			target: config.Tag("10.1.1"),
			expect: [][]string{
				{"clone", "--depth=1", "--single-branch", "--branch", "10.1.1", "https://example.com/repo", "/tmp/out"},
			},
			dirs: []string{""},
		},
		{
			name:   "rev",
			target: config.Rev("abc123"),
			expect: [][]string{
				{"clone", "https://example.com/repo", "/tmp/out"},
				{"reset", "--hard", "abc123"},
			},
			dirs: []string{"", "/tmp/out"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var args [][]string
			var dirs []string

			fetcher := NewGitCLIFetcher(
				WithGitBin("/usr/bin/git"),
				WithGitRunner(func(_ context.Context, p *exec.Process) error {
					assert.Equal(t, "/usr/bin/git", p.Bin())
					args = append(args, p.Args())
					dirs = append(dirs, p.Dir())
					return nil
				}),
			)

			require.NoError(t, fetcher.Fetch(context.Background(), "https://example.com/repo", tc.target, "/tmp/out"))
			assert.Equal(t, tc.expect, args)
			assert.Equal(t, tc.dirs, dirs)
		})
	}
}

func TestGitCLIFetcherNamesFailingStep(t *testing.T) {
	calls := 0
	fetcher := NewGitCLIFetcher(WithGitRunner(func(_ context.Context, p *exec.Process) error {
		calls++
		if p.Args()[0] == "reset" {
			return errors.New("exit status 128")
		}
		return nil
	}))

	err := fetcher.Fetch(context.Background(), "https://example.com/repo", config.Rev("abc"), "/tmp/out")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, errs.IsSourceResolutionError(err))
	assert.Contains(t, err.Error(), "git reset")
}

func TestIsSSHURL(t *testing.T) {
	assert.True(t, isSSHURL("git@github.com:seL4/seL4.git"))
	assert.True(t, isSSHURL("ssh://git@github.com/seL4/seL4"))
	assert.False(t, isSSHURL("https://github.com/seL4/seL4"))
	assert.False(t, isSSHURL("/srv/git/seL4"))
}

func TestShallowDepth(t *testing.T) {
	assert.Equal(t, 1, shallowDepth("https://github.com/seL4/seL4"))
	assert.Equal(t, 0, shallowDepth("/srv/git/seL4"))
	assert.Equal(t, 0, shallowDepth("file:///srv/git/seL4"))
}
