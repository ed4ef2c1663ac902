// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package source

import (
	"context"
	"fmt"
	"os"

	"selfe.sh/exec"
	"selfe.sh/internal/errs"
	"selfe.sh/sel4/config"
)

// DefaultGitBin is the git executable used when none is configured.
const DefaultGitBin = "git"

// GitCLIFetcher fetches repositories by running the git command line client.
type GitCLIFetcher struct {
	bin    string
	runner exec.Runner
}

// GitCLIOption is a functional option for NewGitCLIFetcher.
type GitCLIOption func(*GitCLIFetcher)

// WithGitBin sets the git executable.
func WithGitBin(bin string) GitCLIOption {
	return func(g *GitCLIFetcher) {
		if bin != "" {
			g.bin = bin
		}
	}
}

// WithGitRunner replaces the process runner.
func WithGitRunner(runner exec.Runner) GitCLIOption {
	return func(g *GitCLIFetcher) {
		if runner != nil {
			g.runner = runner
		}
	}
}

// NewGitCLIFetcher returns a fetcher which shells out to git.
func NewGitCLIFetcher(opts ...GitCLIOption) *GitCLIFetcher {
	g := &GitCLIFetcher{
		bin:    DefaultGitBin,
		runner: exec.Run,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Fetch clones url into dir.  Branches and tags are cloned shallow and
// single-branch; a revision requires a full clone followed by a hard reset.
func (g *GitCLIFetcher) Fetch(ctx context.Context, url string, target config.GitTarget, dir string) error {
	switch target.(type) {
	case config.Branch, config.Tag:
		return g.run(ctx, "git clone", "",
			"clone", "--depth=1", "--single-branch", "--branch", target.Value(), url, dir,
		)

	case config.Rev:
		if err := g.run(ctx, "git clone", "", "clone", url, dir); err != nil {
			return err
		}

		return g.run(ctx, "git reset", dir, "reset", "--hard", target.Value())
	}

	return fmt.Errorf("%w: unsupported git target %T", errs.ErrSourceResolution, target)
}

func (g *GitCLIFetcher) run(ctx context.Context, step, dir string, args ...string) error {
	eopts := []exec.ExecOption{
		exec.WithStdout(os.Stderr),
		exec.WithStderr(os.Stderr),
	}
	if dir != "" {
		eopts = append(eopts, exec.WithDir(dir))
	}

	process, err := exec.NewProcess(g.bin, args, eopts...)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errs.ErrSourceResolution, step, err)
	}

	if err := g.runner(ctx, process); err != nil {
		return fmt.Errorf("%w: %s did not report success: %v", errs.ErrSourceResolution, step, err)
	}

	return nil
}
