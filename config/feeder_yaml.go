// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Feeder provides configuration data and may persist it.
type Feeder interface {
	Feed(structure interface{}) error
	Write(structure interface{}, merge bool) error
}

// YamlFeeder reads and writes the tool's configuration file.
type YamlFeeder struct {
	File string
}

func (yf YamlFeeder) Feed(structure interface{}) error {
	b, err := os.ReadFile(filepath.Clean(yf.File))
	if err != nil {
		return fmt.Errorf("cannot open yaml file: %v", err)
	}

	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}

	if err := yaml.Unmarshal(b, structure); err != nil {
		return fmt.Errorf("cannot feed config file %s: %v", yf.File, err)
	}

	return nil
}

// Write serializes structure into the file.  With merge, keys already present
// in the file which structure does not know about are kept.
func (yf YamlFeeder) Write(structure interface{}, merge bool) error {
	if yf.File == "" {
		return fmt.Errorf("filename for YAML cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(yf.File), 0o771); err != nil {
		return pathError(err)
	}

	b, err := yaml.Marshal(structure)
	if err != nil {
		return err
	}

	if merge {
		existing, err := readMapping(yf.File)
		if err != nil {
			return err
		}

		if len(existing) > 0 {
			var generated map[string]interface{}
			if err := yaml.Unmarshal(b, &generated); err != nil {
				return err
			}

			if b, err = yaml.Marshal(mergeMappings(existing, generated)); err != nil {
				return fmt.Errorf("could not update config: %v", err)
			}
		}
	}

	return os.WriteFile(yf.File, b, 0o600)
}

// readMapping decodes the top-level mapping of an existing YAML file.  A
// missing or empty file yields nil.
func readMapping(file string) (map[string]interface{}, error) {
	b, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("could not read file: %v", err)
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("could not unmarshal YAML: %s", err)
	}

	return m, nil
}

// mergeMappings overlays src onto dst, descending into nested mappings.
// Values from src win.
func mergeMappings(dst, src map[string]interface{}) map[string]interface{} {
	for k, v := range src {
		sub, srcIsMap := v.(map[string]interface{})
		existing, dstIsMap := dst[k].(map[string]interface{})

		if srcIsMap && dstIsMap {
			dst[k] = mergeMappings(existing, sub)
		} else {
			dst[k] = v
		}
	}

	return dst
}
