// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/mitchellh/go-homedir"
)

const (
	SELFE_CONFIG_DIR = "SELFE_CONFIG_DIR"
	XDG_CONFIG_HOME  = "XDG_CONFIG_HOME"
)

// Config path precedence
// 1. SELFE_CONFIG_DIR
// 2. XDG_CONFIG_HOME
// 3. HOME
func ConfigDir() string {
	if a := os.Getenv(SELFE_CONFIG_DIR); a != "" {
		return a
	} else if b := os.Getenv(XDG_CONFIG_HOME); b != "" {
		return filepath.Join(b, "selfe")
	}

	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".config", "selfe")
	}

	return filepath.Join(home, ".config", "selfe")
}

func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func pathError(err error) error {
	var pathError *os.PathError
	if errors.As(err, &pathError) && errors.Is(pathError.Err, syscall.ENOTDIR) {
		if p := findRegularFile(pathError.Path); p != "" {
			return fmt.Errorf("remove or rename regular file `%s` (must be a directory)", p)
		}
	}
	return err
}

func findRegularFile(p string) string {
	for {
		if s, err := os.Stat(p); err == nil && s.Mode().IsRegular() {
			return p
		}
		newPath := filepath.Dir(p)
		if newPath == p || newPath == string(filepath.Separator) || newPath == "." {
			break
		}
		p = newPath
	}
	return ""
}
