// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package contextual

import (
	"fmt"
	"io"
	"strings"

	"selfe.sh/sel4/config"
)

// FlagFormat selects how boolean feature flags are written.
type FlagFormat string

const (
	// FlagFormatCfg writes one "cargo:rustc-cfg=<name>" line per flag.
	FlagFormatCfg FlagFormat = "cfg"

	// FlagFormatTags writes a single comma separated build tag list.
	FlagFormatTags FlagFormat = "tags"
)

func (f FlagFormat) String() string {
	return string(f)
}

// FlagFormats returns every supported flag format.
func FlagFormats() []string {
	return []string{string(FlagFormatCfg), string(FlagFormatTags)}
}

// FeatureFlags returns the name of every resolved sel4 config entry whose
// value is boolean true, in ascending order.
func (c *Contextualized) FeatureFlags() []string {
	var flags []string
	for _, k := range c.SeL4Config.SortedKeys() {
		if v, ok := c.SeL4Config[k].(config.BooleanValue); ok && bool(v) {
			flags = append(flags, k)
		}
	}

	return flags
}

// PrintBooleanFeatureFlags writes the feature flags to w in the given format.
func (c *Contextualized) PrintBooleanFeatureFlags(w io.Writer, format FlagFormat) error {
	flags := c.FeatureFlags()

	switch format {
	case FlagFormatCfg:
		for _, flag := range flags {
			if _, err := fmt.Fprintf(w, "cargo:rustc-cfg=%s\n", flag); err != nil {
				return err
			}
		}

	case FlagFormatTags:
		if len(flags) == 0 {
			return nil
		}

		if _, err := fmt.Fprintln(w, strings.Join(flags, ",")); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown flag format '%s', expected one of: %s", format, strings.Join(FlagFormats(), ", "))
	}

	return nil
}
