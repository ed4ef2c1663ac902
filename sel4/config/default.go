// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	_ "embed"
	"fmt"
)

// DefaultFileName is the conventional name of a configuration document.
const DefaultFileName = "sel4.toml"

//go:embed default.toml
var defaultContent string

// DefaultContent returns the compiled-in default document.
func DefaultContent() string {
	return defaultContent
}

// Default returns the parsed compiled-in default document.  It is used when
// no document path is supplied.
func Default() *Full {
	full, err := Parse(defaultContent)
	if err != nil {
		panic(fmt.Sprintf("compiled-in default config is invalid: %v", err))
	}

	return full
}
