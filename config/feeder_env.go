// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvFeeder feeds using environment variables named by each field's `env`
// tag.  Unset variables leave the field untouched.
type EnvFeeder struct {
	// Environment replaces the process environment when non-nil.
	Environment map[string]string
}

// Feed the environment variables into the given interface.
func (f EnvFeeder) Feed(structure interface{}) error {
	if err := env.ParseWithOptions(structure, env.Options{
		Environment: f.Environment,
	}); err != nil {
		return fmt.Errorf("could not read environment: %w", err)
	}

	return nil
}

// Do nothing, we do not set the environment variables based on the
// given interface.
func (f EnvFeeder) Write(structure interface{}, merge bool) error {
	return nil
}
