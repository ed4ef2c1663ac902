// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package exec

import "context"

// Runner executes a prepared process to completion.  Components which shell
// out accept a Runner so that tests can observe invocations without spawning
// real binaries.
type Runner func(ctx context.Context, process *Process) error

// Run is the default Runner: it starts the process and waits for it to exit.
func Run(ctx context.Context, process *Process) error {
	return process.StartAndWait(ctx)
}
