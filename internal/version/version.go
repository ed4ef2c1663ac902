// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package version carries build information set with -ldflags -X.  Values
// left unset are filled from what the Go toolchain records in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at link time, e.g. -X selfe.sh/internal/version.version=v0.1.0.
var (
	version   string
	commit    string
	buildTime string
)

func setting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	if key == "" {
		if info.Main.Version == "(devel)" {
			return ""
		}
		return info.Main.Version
	}

	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}

	return ""
}

func orElse(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return "unknown"
}

// Version is the release version.
func Version() string {
	return orElse(version, setting(""))
}

// Commit is the VCS revision the binary was built from.
func Commit() string {
	return orElse(commit, setting("vcs.revision"))
}

// BuildTime is the time of that revision, or of the build when set at link
// time.
func BuildTime() string {
	return orElse(buildTime, setting("vcs.time"))
}

func String() string {
	return fmt.Sprintf("%s (%s) %s %s\n", Version(), Commit(), runtime.Version(), BuildTime())
}
