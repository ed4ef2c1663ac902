// SPDX-License-Identifier: MIT
// Copyright (c) 2019 GitHub Inc.
// Copyright (c) 2022 Unikraft GmbH.
package cmdfactory

import (
	"fmt"
)

// FlagError marks a problem with how a command was invoked, as opposed to a
// failure while running it.  Main prints usage and exits with status 2 for
// these.
type FlagError struct {
	err error
}

// FlagErrorf formats a new FlagError.
func FlagErrorf(format string, args ...interface{}) error {
	return FlagErrorWrap(fmt.Errorf(format, args...))
}

// FlagErrorWrap marks err as a FlagError.
func FlagErrorWrap(err error) error {
	return &FlagError{err: err}
}

func (fe *FlagError) Error() string {
	return fe.err.Error()
}

func (fe *FlagError) Unwrap() error {
	return fe.err
}
