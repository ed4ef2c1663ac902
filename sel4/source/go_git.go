// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5"
	gitplumbing "github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	giturl "github.com/kubescape/go-git-url"

	"selfe.sh/internal/errs"
	"selfe.sh/log"
	"selfe.sh/sel4/config"
)

// GoGitFetcher fetches repositories in-process without a git binary.
type GoGitFetcher struct {
	progress io.Writer
}

// NewGoGitFetcher returns a fetcher backed by go-git.  Clone progress is
// written to progress, if non-nil.
func NewGoGitFetcher(progress io.Writer) *GoGitFetcher {
	return &GoGitFetcher{progress: progress}
}

// Fetch clones url into dir.  Remote branches and tags are cloned shallow and
// single-branch; a revision requires a full clone followed by a hard reset.
func (g *GoGitFetcher) Fetch(ctx context.Context, url string, target config.GitTarget, dir string) error {
	auth, err := authFor(url)
	if err != nil {
		return fmt.Errorf("%w: could not prepare authentication for %s: %v", errs.ErrSourceResolution, url, err)
	}

	copts := &git.CloneOptions{
		URL:      url,
		Auth:     auth,
		Progress: g.progress,
	}

	switch target.(type) {
	case config.Branch:
		copts.ReferenceName = gitplumbing.NewBranchReferenceName(target.Value())
		copts.SingleBranch = true
		copts.Depth = shallowDepth(url)
	case config.Tag:
		copts.ReferenceName = gitplumbing.NewTagReferenceName(target.Value())
		copts.SingleBranch = true
		copts.Depth = shallowDepth(url)
	case config.Rev:
	default:
		return fmt.Errorf("%w: unsupported git target %T", errs.ErrSourceResolution, target)
	}

	log.G(ctx).WithField("url", url).Debug("cloning with go-git")

	repo, err := git.PlainCloneContext(ctx, dir, false, copts)
	if err != nil {
		return fmt.Errorf("%w: git clone did not report success: %v", errs.ErrSourceResolution, err)
	}

	rev, ok := target.(config.Rev)
	if !ok {
		return nil
	}

	hash, err := repo.ResolveRevision(gitplumbing.Revision(rev))
	if err != nil {
		return fmt.Errorf("%w: git reset: could not resolve %s: %v", errs.ErrSourceResolution, rev, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: git reset: %v", errs.ErrSourceResolution, err)
	}

	if err := worktree.Reset(&git.ResetOptions{
		Commit: *hash,
		Mode:   git.HardReset,
	}); err != nil {
		return fmt.Errorf("%w: git reset did not report success: %v", errs.ErrSourceResolution, err)
	}

	return nil
}

// authFor returns SSH agent authentication for SSH remotes and nil for
// everything else.
func authFor(url string) (transport.AuthMethod, error) {
	if !isSSHURL(url) {
		return nil, nil
	}

	fullpath := url

	// giturl only recognises scp-like addresses with an explicit scheme.
	if strings.HasPrefix(url, "git@") {
		fullpath = "ssh://" + url
	}

	gitURL, err := giturl.NewGitURL(fullpath)
	if err != nil {
		return nil, err
	}

	user := gitURL.GetURL().User.Username()
	if user == "" {
		user = "git"
	}

	return gitssh.DefaultAuthBuilder(user)
}

// isSSHURL determines if the provided URL forms an SSH connection
func isSSHURL(path string) bool {
	for _, prefix := range []string{
		"ssh://",
		"ssh+git://",
		"git+ssh://",
		"git@",
	} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// shallowDepth returns 1 for network remotes.  Local repositories are served
// by a transport without shallow support, so they are cloned in full.
func shallowDepth(url string) int {
	if isLocalURL(url) {
		return 0
	}

	return 1
}

func isLocalURL(url string) bool {
	return strings.HasPrefix(url, "/") ||
		strings.HasPrefix(url, ".") ||
		strings.HasPrefix(url, "file://")
}
