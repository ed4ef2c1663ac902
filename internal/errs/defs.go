// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package errs

import "errors"

var (
	// ErrNotFound is returned when an object is not found
	ErrNotFound = errors.New("not found")

	// ErrSourceResolution is returned when a source checkout could not be
	// materialized, e.g. because git failed or the destination is not a
	// directory.
	ErrSourceResolution = errors.New("source resolution failed")

	// ErrBuildTool is returned when the configure or build tool exits with a
	// non-zero status.
	ErrBuildTool = errors.New("build tool failed")

	// ErrMisconfigured is returned when the resolved configuration cannot be
	// built, e.g. a kernel build with a missing platform selection.
	ErrMisconfigured = errors.New("misconfigured")

	// ErrBuildDirOverride is returned when a pre-supplied build directory is
	// used for a build that must be produced by this tool.
	ErrBuildDirOverride = errors.New("build directory override is only valid for library builds")
)

// IsNotFoundError returns true if the unwrapped error is ErrNotFound
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSourceResolutionError returns true if the unwrapped error is
// ErrSourceResolution
func IsSourceResolutionError(err error) bool {
	return errors.Is(err, ErrSourceResolution)
}

// IsBuildToolError returns true if the unwrapped error is ErrBuildTool
func IsBuildToolError(err error) bool {
	return errors.Is(err, ErrBuildTool)
}

// IsMisconfiguredError returns true if the unwrapped error is ErrMisconfigured
// or ErrBuildDirOverride
func IsMisconfiguredError(err error) bool {
	return errors.Is(err, ErrMisconfigured) || errors.Is(err, ErrBuildDirOverride)
}
