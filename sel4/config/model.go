// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package config models the user-authored seL4 configuration document
// (conventionally sel4.toml), parses it with strict validation and renders it
// back to canonical text.
package config

import "sort"

// GitTarget pins a remote repository to a branch, tag or revision.
type GitTarget interface {
	// Kind is one of "branch", "tag" or "rev".
	Kind() string

	// Value is the branch name, tag name or commit.
	Value() string
}

type (
	Branch string
	Tag    string
	Rev    string
)

func (Branch) Kind() string { return "branch" }
func (Tag) Kind() string    { return "tag" }
func (Rev) Kind() string    { return "rev" }

func (b Branch) Value() string { return string(b) }
func (t Tag) Value() string    { return string(t) }
func (r Rev) Value() string    { return string(r) }

// RepoSource describes where a source tree comes from.  It is implemented by
// exactly two types: LocalPath and RemoteGit.
type RepoSource interface {
	isRepoSource()
}

// LocalPath is a source tree already present on disk.
type LocalPath struct {
	Path string
}

// RemoteGit is a source tree fetched from a git remote.
type RemoteGit struct {
	URL    string
	Target GitTarget
}

func (LocalPath) isRepoSource() {}
func (RemoteGit) isRepoSource() {}

// SeL4Sources are the three source trees a seL4 build needs.
type SeL4Sources struct {
	Kernel   RepoSource
	Tools    RepoSource
	UtilLibs RepoSource
}

// PlatformBuildProfile holds the root task settings of one build profile.
type PlatformBuildProfile struct {
	// MakeRootTask is a shell command which produces the root task image.
	MakeRootTask *string

	// RootTaskImage is the path of the root task image.
	RootTaskImage string
}

// PlatformBuild holds the per-platform build settings.
type PlatformBuild struct {
	CrossCompilerPrefix *string
	ToolchainDir        *string
	Debug               *PlatformBuildProfile
	Release             *PlatformBuildProfile
}

// SeL4 is the [sel4] table.
type SeL4 struct {
	Sources SeL4Sources

	// BuildDir is a pre-supplied build directory, used in place of the build
	// cache for library builds.
	BuildDir *string

	Config PropertiesTree
}

// Full is the root of a configuration document.  It is immutable once
// parsed; consumers resolve it for a context rather than mutating it.
type Full struct {
	SeL4     SeL4
	Build    map[string]PlatformBuild
	Metadata PropertiesTree
}

// Platforms returns the names of every platform with a build entry, in
// ascending order.
func (f *Full) Platforms() []string {
	platforms := make([]string, 0, len(f.Build))
	for p := range f.Build {
		platforms = append(platforms, p)
	}

	sort.Strings(platforms)

	return platforms
}
