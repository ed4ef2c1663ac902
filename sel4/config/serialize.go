// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Serialize renders the document as canonical TOML.  Empty configuration and
// metadata trees and an empty build table are omitted.  Re-parsing the
// output yields an equal *Full, and serializing that again yields the same
// bytes.
func (f *Full) Serialize() (string, error) {
	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	enc.Indent = ""

	if err := enc.Encode(f.tree()); err != nil {
		return "", fmt.Errorf("could not serialize config: %w", err)
	}

	return buf.String(), nil
}

func (f *Full) tree() table {
	sel4 := table{
		"kernel":    sourceTree(f.SeL4.Sources.Kernel),
		"tools":     sourceTree(f.SeL4.Sources.Tools),
		"util_libs": sourceTree(f.SeL4.Sources.UtilLibs),
	}

	if f.SeL4.BuildDir != nil {
		sel4["build_dir"] = *f.SeL4.BuildDir
	}

	if !f.SeL4.Config.IsEmpty() {
		sel4["config"] = propertiesTree(f.SeL4.Config)
	}

	top := table{"sel4": sel4}

	if len(f.Build) > 0 {
		build := table{}
		for platform, pb := range f.Build {
			build[platform] = platformBuildTree(pb)
		}

		top["build"] = build
	}

	if !f.Metadata.IsEmpty() {
		top["metadata"] = propertiesTree(f.Metadata)
	}

	return top
}

func sourceTree(source RepoSource) table {
	switch s := source.(type) {
	case LocalPath:
		return table{"path": s.Path}
	case RemoteGit:
		t := table{"git": s.URL}
		t[s.Target.Kind()] = s.Target.Value()

		return t
	}

	return table{}
}

func propertiesTree(tree PropertiesTree) table {
	t := table{}
	for k, v := range tree.Shared {
		t[k] = v.Native()
	}

	if len(tree.Debug) > 0 {
		t[reservedDebug] = tree.Debug.Native()
	}

	if len(tree.Release) > 0 {
		t[reservedRelease] = tree.Release.Native()
	}

	for k, props := range tree.Contextual {
		t[k] = props.Native()
	}

	return t
}

func platformBuildTree(pb PlatformBuild) table {
	t := table{}
	if pb.CrossCompilerPrefix != nil {
		t["cross_compiler_prefix"] = *pb.CrossCompilerPrefix
	}

	if pb.ToolchainDir != nil {
		t["toolchain_dir"] = *pb.ToolchainDir
	}

	if pb.Debug != nil {
		t[reservedDebug] = profileTree(*pb.Debug)
	}

	if pb.Release != nil {
		t[reservedRelease] = profileTree(*pb.Release)
	}

	return t
}

func profileTree(profile PlatformBuildProfile) table {
	t := table{"root_task_image": profile.RootTaskImage}
	if profile.MakeRootTask != nil {
		t["make_root_task"] = *profile.MakeRootTask
	}

	return t
}
