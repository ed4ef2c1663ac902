// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package contextual flattens a parsed configuration document into the
// settings of exactly one build: one architecture, one seL4 architecture,
// one platform and one profile.
package contextual

import (
	"fmt"
	"path/filepath"

	"selfe.sh/sel4/arch"
)

const (
	ProfileDebug   = "debug"
	ProfileRelease = "release"
)

// Context selects the layers of a configuration document which are in effect.
type Context struct {
	Arch     arch.Arch
	SeL4Arch arch.SeL4Arch
	Platform arch.Platform
	IsDebug  bool

	// BaseDir, when non-empty, is the directory relative paths of the
	// document are resolved against.
	BaseDir string
}

// NewContext derives a context from a seL4 architecture.  An empty platform
// selects the default platform of the architecture.
func NewContext(sel4Arch arch.SeL4Arch, platform arch.Platform, isDebug bool, baseDir string) (Context, error) {
	a := arch.ArchFromSeL4Arch(sel4Arch)

	if platform == "" {
		var err error
		if platform, err = arch.DefaultPlatform(a); err != nil {
			return Context{}, err
		}
	}

	return Context{
		Arch:     a,
		SeL4Arch: sel4Arch,
		Platform: platform,
		IsDebug:  isDebug,
		BaseDir:  baseDir,
	}, nil
}

// Profile returns "debug" or "release".
func (c Context) Profile() string {
	if c.IsDebug {
		return ProfileDebug
	}

	return ProfileRelease
}

func (c Context) String() string {
	return fmt.Sprintf("%s/%s/%s (%s)", c.Arch, c.SeL4Arch, c.Platform, c.Profile())
}

// resolvePath joins a relative path onto the base directory, if one is set.
func (c Context) resolvePath(path string) string {
	if c.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.BaseDir, path)
}
