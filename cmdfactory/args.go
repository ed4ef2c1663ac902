// SPDX-License-Identifier: MIT
// Copyright (c) 2019, 2019 GitHub Inc.
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the MIT License (the "License").
// You may not use this file expect in compliance with the License.
package cmdfactory

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// MaxArgs accepts at most n positional arguments.  Extra arguments are
// reported as a FlagError which hints at unquoted values when value flags
// were given, since "--platform my plat" leaves "plat" as an argument.
func MaxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) <= n {
			return nil
		}

		extra := args[n:]

		hint := ""
		cmd.Flags().Visit(func(f *pflag.Flag) {
			if f.Value.Type() != "bool" {
				hint = "; please quote all values that have spaces"
			}
		})

		if len(extra) == 1 {
			return FlagErrorf("unknown argument %q%s", extra[0], hint)
		}

		return FlagErrorf("unknown arguments %q%s", extra, hint)
	}
}
