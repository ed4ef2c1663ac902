// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

//go:build unix

package lockedfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// A Mutex provides mutual exclusion within and across processes by locking a
// well-known file.  The file itself is never removed, so that every holder
// agrees on the same inode.
type Mutex struct {
	Path string
}

// MutexAt returns a new Mutex with file as the underlying file.
func MutexAt(path string) *Mutex {
	if path == "" {
		panic("lockedfile.MutexAt: path must be non-empty")
	}

	return &Mutex{Path: path}
}

func (mu *Mutex) String() string {
	return fmt.Sprintf("lockedfile.Mutex(%s)", mu.Path)
}

// Lock attempts to lock the Mutex, blocking until it is available.  On
// success it returns a function which releases the lock.
func (mu *Mutex) Lock() (unlock func(), err error) {
	return mu.lock(unix.LOCK_EX)
}

// TryLock is like Lock but returns ErrWouldBlock instead of waiting when the
// Mutex is held elsewhere.
func (mu *Mutex) TryLock() (unlock func(), err error) {
	return mu.lock(unix.LOCK_EX | unix.LOCK_NB)
}

func (mu *Mutex) lock(how int) (func(), error) {
	f, err := openFile(mu.Path, os.O_RDWR|os.O_CREATE, 0o666, how)
	if err != nil {
		return nil, err
	}

	return func() { f.Close() }, nil
}
