// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package source turns the source descriptions of a configuration into
// directories on disk, fetching remote repositories when necessary.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"selfe.sh/internal/errs"
	"selfe.sh/log"
	"selfe.sh/sel4/config"
)

// Name hints used to derive checkout directory names.
const (
	HintKernel   = "kernel"
	HintTools    = "seL4_tools"
	HintUtilLibs = "util_libs"
)

// ResolvedPaths are the directories of the three source trees.
type ResolvedPaths struct {
	KernelDir   string
	ToolsDir    string
	UtilLibsDir string
}

// Fetcher populates an empty directory with a checkout of a remote
// repository at the given target.
type Fetcher interface {
	Fetch(ctx context.Context, url string, target config.GitTarget, dir string) error
}

// ResolveOptions tune Resolve.
type ResolveOptions struct {
	fetcher Fetcher
}

// ResolveOption is a functional option for Resolve.
type ResolveOption func(*ResolveOptions) error

// WithFetcher sets the fetcher used for remote repositories.  The default is
// a GitCLIFetcher.
func WithFetcher(fetcher Fetcher) ResolveOption {
	return func(ro *ResolveOptions) error {
		if fetcher == nil {
			return fmt.Errorf("cannot use nil fetcher")
		}

		ro.fetcher = fetcher
		return nil
	}
}

// Resolve maps each source to a directory.  Local paths are returned as is.
// Remote repositories are checked out below destDir in a directory named
// after the hint, target kind and target value, and are only fetched when
// that directory is absent or empty.  A non-empty directory is reused
// untouched, whatever it contains, so a failed fetch removes its directory.
func Resolve(ctx context.Context, sources config.SeL4Sources, destDir string, opts ...ResolveOption) (*ResolvedPaths, error) {
	ropts := ResolveOptions{}
	for _, opt := range opts {
		if err := opt(&ropts); err != nil {
			return nil, err
		}
	}

	if ropts.fetcher == nil {
		ropts.fetcher = NewGitCLIFetcher()
	}

	var err error
	paths := &ResolvedPaths{}

	if paths.KernelDir, err = resolveOne(ctx, ropts.fetcher, sources.Kernel, HintKernel, destDir); err != nil {
		return nil, err
	}

	if paths.ToolsDir, err = resolveOne(ctx, ropts.fetcher, sources.Tools, HintTools, destDir); err != nil {
		return nil, err
	}

	if paths.UtilLibsDir, err = resolveOne(ctx, ropts.fetcher, sources.UtilLibs, HintUtilLibs, destDir); err != nil {
		return nil, err
	}

	return paths, nil
}

// CheckoutDir returns the directory a remote repository is checked out to.
func CheckoutDir(destDir, hint string, target config.GitTarget) string {
	return filepath.Join(destDir, fmt.Sprintf("%s-%s-%s", hint, target.Kind(), target.Value()))
}

func resolveOne(ctx context.Context, fetcher Fetcher, source config.RepoSource, hint, destDir string) (string, error) {
	switch s := source.(type) {
	case config.LocalPath:
		return s.Path, nil

	case config.RemoteGit:
		dir := CheckoutDir(destDir, hint, s.Target)

		needsContent, err := isDirAbsentOrEmpty(dir)
		if err != nil {
			return "", err
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("could not create %s directory: %w", hint, err)
		}

		if dir, err = canonicalize(dir); err != nil {
			return "", fmt.Errorf("could not canonicalize %s directory: %w", hint, err)
		}

		entry := log.Step(ctx, "fetch").
			WithField("source", hint).
			WithField("dir", dir)

		if !needsContent {
			entry.Debug("reusing existing checkout")
			return dir, nil
		}

		entry.WithField(s.Target.Kind(), s.Target.Value()).Infof("fetching %s", s.URL)

		if err := fetcher.Fetch(ctx, s.URL, s.Target, dir); err != nil {
			// A partial checkout would otherwise be reused as populated.
			if rerr := os.RemoveAll(dir); rerr != nil {
				entry.WithError(rerr).Warn("could not remove incomplete checkout")
			}

			return "", fmt.Errorf("could not fetch %s: %w", hint, err)
		}

		return dir, nil
	}

	return "", fmt.Errorf("%w: unsupported source type %T", errs.ErrSourceResolution, source)
}

// isDirAbsentOrEmpty reports whether dir needs fresh content.  Anything other
// than a directory at dir is an error.
func isDirAbsentOrEmpty(dir string) (bool, error) {
	fi, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	} else if err != nil {
		return false, err
	}

	if !fi.IsDir() {
		return false, fmt.Errorf("%w: found pre-existing file at %s where either nothing or an empty directory was expected", errs.ErrSourceResolution, dir)
	}

	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); errors.Is(err, io.EOF) {
		return true, nil
	} else if err != nil {
		return false, err
	}

	return false, nil
}

func canonicalize(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}
