// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package contextual

import (
	"sort"

	"selfe.sh/sel4/config"
)

// RootTask is the root task of the selected profile.
type RootTask struct {
	// MakeCommand is a shell command which produces the image, if any.
	MakeCommand *string
	ImagePath   string
}

// Build holds the platform build settings in effect.
type Build struct {
	CrossCompilerPrefix *string
	ToolchainDir        *string

	// RootTask is nil when the selected profile has no entry for the
	// platform.
	RootTask *RootTask
}

// Contextualized is the flattened configuration of one build.  It shares no
// memory with the document it was resolved from.
type Contextualized struct {
	Context    Context
	Sources    config.SeL4Sources
	BuildDir   *string
	SeL4Config config.Properties
	Metadata   config.Properties
	Build      Build

	// UnknownContextualKeys lists overlay names of the document which match
	// neither a known architecture nor one of its platforms.
	UnknownContextualKeys []string
}

// ResolveOptions tune Resolve.
type ResolveOptions struct {
	strict bool
}

// ResolveOption is a functional option for Resolve.
type ResolveOption func(*ResolveOptions) error

// WithStrictContextualKeys rejects documents with overlay names that match
// neither a known architecture nor one of their platforms.
func WithStrictContextualKeys() ResolveOption {
	return func(ro *ResolveOptions) error {
		ro.strict = true
		return nil
	}
}

// Resolve flattens full for the given context.  Layers are applied in the
// order shared, debug or release, arch, seL4 arch and platform, with later
// layers winning on key collision.  The sel4 config and the metadata trees
// are resolved independently.
func Resolve(full *config.Full, ctx Context, opts ...ResolveOption) (*Contextualized, error) {
	ropts := ResolveOptions{}
	for _, opt := range opts {
		if err := opt(&ropts); err != nil {
			return nil, err
		}
	}

	platformBuild, ok := full.Build[ctx.Platform.String()]
	if !ok {
		return nil, &config.NoBuildSuppliedError{
			Platform: ctx.Platform.String(),
			Profile:  ctx.Profile(),
		}
	}

	platforms := full.Platforms()
	unknown := uniqueSorted(
		config.UnknownContextualKeys(full.SeL4.Config, platforms),
		config.UnknownContextualKeys(full.Metadata, platforms),
	)

	if ropts.strict {
		if keys := config.UnknownContextualKeys(full.SeL4.Config, platforms); len(keys) > 0 {
			return nil, &config.UnknownContextualKeyError{Tree: "sel4.config", Keys: keys}
		}
		if keys := config.UnknownContextualKeys(full.Metadata, platforms); len(keys) > 0 {
			return nil, &config.UnknownContextualKeyError{Tree: "metadata", Keys: keys}
		}
	}

	profile := platformBuild.Release
	if ctx.IsDebug {
		profile = platformBuild.Debug
	}

	build := Build{
		CrossCompilerPrefix: copyString(platformBuild.CrossCompilerPrefix),
	}

	if platformBuild.ToolchainDir != nil {
		dir := ctx.resolvePath(*platformBuild.ToolchainDir)
		build.ToolchainDir = &dir
	}

	if profile != nil {
		build.RootTask = &RootTask{
			MakeCommand: copyString(profile.MakeRootTask),
			ImagePath:   ctx.resolvePath(profile.RootTaskImage),
		}
	}

	var buildDir *string
	if full.SeL4.BuildDir != nil {
		dir := ctx.resolvePath(*full.SeL4.BuildDir)
		buildDir = &dir
	}

	return &Contextualized{
		Context: ctx,
		Sources: config.SeL4Sources{
			Kernel:   ctx.resolveSource(full.SeL4.Sources.Kernel),
			Tools:    ctx.resolveSource(full.SeL4.Sources.Tools),
			UtilLibs: ctx.resolveSource(full.SeL4.Sources.UtilLibs),
		},
		BuildDir:              buildDir,
		SeL4Config:            flatten(full.SeL4.Config, ctx),
		Metadata:              flatten(full.Metadata, ctx),
		Build:                 build,
		UnknownContextualKeys: unknown,
	}, nil
}

// FromString parses a document and resolves it for the given context.
func FromString(text string, ctx Context, opts ...ResolveOption) (*Contextualized, error) {
	full, err := config.Parse(text)
	if err != nil {
		return nil, err
	}

	return Resolve(full, ctx, opts...)
}

func flatten(tree config.PropertiesTree, ctx Context) config.Properties {
	flat := tree.Shared.Clone()

	if ctx.IsDebug {
		flat.OverrideBy(tree.Debug)
	} else {
		flat.OverrideBy(tree.Release)
	}

	for _, key := range []string{
		ctx.Arch.String(),
		ctx.SeL4Arch.String(),
		ctx.Platform.String(),
	} {
		if overlay, ok := tree.Contextual[key]; ok {
			flat.OverrideBy(overlay)
		}
	}

	return flat
}

func (c Context) resolveSource(source config.RepoSource) config.RepoSource {
	if local, ok := source.(config.LocalPath); ok {
		return config.LocalPath{Path: c.resolvePath(local.Path)}
	}

	return source
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}

	c := *s
	return &c
}

func uniqueSorted(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string

	for _, list := range lists {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}

	sort.Strings(out)

	return out
}
