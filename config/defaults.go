// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// NewDefaultConfig returns a configuration holding the value of every
// field's `default` tag.
func NewDefaultConfig() (*Selfe, error) {
	c := &Selfe{}

	if err := setDefaults(c); err != nil {
		return nil, fmt.Errorf("could not set defaults for config: %s", err)
	}

	if len(c.Paths.Config) == 0 {
		c.Paths.Config = ConfigDir()
	}

	return c, nil
}

// setDefaults parses s against an empty environment so that only the
// `default` tags apply.
func setDefaults(s interface{}) error {
	return env.ParseWithOptions(s, env.Options{
		Environment:         map[string]string{},
		DefaultValueTagName: "default",
	})
}
