// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package contextual

import (
	"selfe.sh/sel4/config"
)

// Summary returns the resolved configuration as plain nested maps, suitable
// for generic encoders.
func (c *Contextualized) Summary() map[string]interface{} {
	context := map[string]interface{}{
		"arch":      c.Context.Arch.String(),
		"sel4_arch": c.Context.SeL4Arch.String(),
		"platform":  c.Context.Platform.String(),
		"profile":   c.Context.Profile(),
	}
	if c.Context.BaseDir != "" {
		context["base_dir"] = c.Context.BaseDir
	}

	build := map[string]interface{}{}
	if c.Build.CrossCompilerPrefix != nil {
		build["cross_compiler_prefix"] = *c.Build.CrossCompilerPrefix
	}
	if c.Build.ToolchainDir != nil {
		build["toolchain_dir"] = *c.Build.ToolchainDir
	}
	if rt := c.Build.RootTask; rt != nil {
		task := map[string]interface{}{
			"image": rt.ImagePath,
		}
		if rt.MakeCommand != nil {
			task["make"] = *rt.MakeCommand
		}
		build["root_task"] = task
	}

	summary := map[string]interface{}{
		"context": context,
		"sources": map[string]interface{}{
			"kernel":    sourceSummary(c.Sources.Kernel),
			"tools":     sourceSummary(c.Sources.Tools),
			"util_libs": sourceSummary(c.Sources.UtilLibs),
		},
		"build":    build,
		"config":   c.SeL4Config.Native(),
		"metadata": c.Metadata.Native(),
	}

	if c.BuildDir != nil {
		summary["build_dir"] = *c.BuildDir
	}

	if len(c.UnknownContextualKeys) > 0 {
		summary["unknown_contextual_keys"] = c.UnknownContextualKeys
	}

	return summary
}

func sourceSummary(source config.RepoSource) map[string]interface{} {
	switch s := source.(type) {
	case config.LocalPath:
		return map[string]interface{}{"path": s.Path}
	case config.RemoteGit:
		summary := map[string]interface{}{"git": s.URL}
		summary[s.Target.Kind()] = s.Target.Value()
		return summary
	}

	return nil
}
