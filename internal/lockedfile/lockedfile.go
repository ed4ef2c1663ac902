// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

//go:build unix

// Package lockedfile provides advisory flock(2) locks held through open
// files.  A lock lives as long as its *File and is released by Close.
package lockedfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned by TryLock when the lock is held elsewhere.
var ErrWouldBlock = errors.New("lock is held by another process")

// A File is a locked *os.File.
type File struct {
	*os.File
}

func lock(f *os.File, how int) error {
	for {
		err := unix.Flock(int(f.Fd()), how)
		if err == unix.EINTR {
			continue
		}

		if err == unix.EWOULDBLOCK {
			return ErrWouldBlock
		}

		if err != nil {
			return &fs.PathError{Op: "flock", Path: f.Name(), Err: err}
		}

		return nil
	}
}

func openFile(name string, flag int, perm fs.FileMode, how int) (*File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	if err := lock(f, how); err != nil {
		f.Close()
		return nil, err
	}

	return &File{File: f}, nil
}

// Close unlocks and closes the underlying file.
func (f *File) Close() error {
	if f.File == nil {
		return fmt.Errorf("lockedfile: close of nil file")
	}

	err := f.File.Close()
	f.File = nil

	return err
}
