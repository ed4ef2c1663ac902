// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package cmdfactory

import (
	"fmt"
	"strings"
)

// EnumFlag is a pflag.Value which only accepts the string form of one of
// Allowed.
type EnumFlag[T fmt.Stringer] struct {
	Allowed []T
	Value   T
}

// NewEnumFlag returns an EnumFlag holding d.
func NewEnumFlag[T fmt.Stringer](allowed []T, d T) *EnumFlag[T] {
	return &EnumFlag[T]{
		Allowed: allowed,
		Value:   d,
	}
}

func (e *EnumFlag[T]) String() string {
	return e.Value.String()
}

func (e *EnumFlag[T]) Set(s string) error {
	names := make([]string, 0, len(e.Allowed))

	for _, candidate := range e.Allowed {
		if candidate.String() == s {
			e.Value = candidate
			return nil
		}

		names = append(names, candidate.String())
	}

	return fmt.Errorf("%q is not one of: %s", s, strings.Join(names, ", "))
}

func (e *EnumFlag[T]) Type() string {
	return "string"
}
