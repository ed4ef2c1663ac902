// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import "selfe.sh/sel4/arch"

// UnknownContextualKeys returns the contextual overlay keys of tree which
// name neither a known arch, a known seL4 arch nor one of platforms.  Such
// overlays can never apply, which usually means the name is misspelled.
func UnknownContextualKeys(tree PropertiesTree, platforms []string) []string {
	known := map[string]bool{}
	for _, k := range arch.KnownContextKeys() {
		known[k] = true
	}

	for _, p := range platforms {
		known[p] = true
	}

	var unknown []string
	for _, k := range tree.ContextKeys() {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}

	return unknown
}
