// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"path/filepath"

	"selfe.sh/sel4/contextual"
)

// Options maps a resolved configuration onto the cmake cache variables of the
// seL4 build.  Resolved config entries are applied last and so win over the
// derived entries on collision.
func Options(kernelDir string, c *contextual.Contextualized, mode Mode) map[string]string {
	vars := map[string]string{}

	if c.Build.CrossCompilerPrefix != nil {
		vars["CROSS_COMPILER_PREFIX"] = *c.Build.CrossCompilerPrefix
	}

	vars["CMAKE_TOOLCHAIN_FILE"] = filepath.Join(kernelDir, "gcc.cmake")
	vars["KERNEL_PATH"] = kernelDir

	if mode == ModeLib {
		vars["LibSel4FunctionAttributes"] = "public"
	}

	for k, v := range c.SeL4Config {
		vars[k] = v.String()
	}

	return vars
}
