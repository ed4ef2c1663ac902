// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrImport is wrapped by every error produced while importing or resolving
// a configuration document.
var ErrImport = errors.New("config import failed")

// IsImportError returns true if the unwrapped error is ErrImport
func IsImportError(err error) bool {
	return errors.Is(err, ErrImport)
}

// TomlDeserializeError is returned when the document is not valid TOML.
type TomlDeserializeError struct {
	Msg string
}

func (e *TomlDeserializeError) Error() string {
	return fmt.Sprintf("could not deserialize toml: %s", e.Msg)
}

func (e *TomlDeserializeError) Unwrap() error { return ErrImport }

// TypeMismatchError is returned when the value at a named path has the wrong
// TOML type.  When the mismatch is a configuration leaf which is not a single
// value, Cause holds the *NonSingleValueError.
type TypeMismatchError struct {
	Name     string
	Expected string
	Found    string
	Cause    error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for %s: found %s when %s was expected", e.Name, e.Found, e.Expected)
}

func (e *TypeMismatchError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrImport, e.Cause}
	}

	return []error{ErrImport}
}

// MissingPropertyError is returned when a required key is absent.
type MissingPropertyError struct {
	Name         string
	ExpectedType string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing %s, expected to be of type %s", e.Name, e.ExpectedType)
}

func (e *MissingPropertyError) Unwrap() error { return ErrImport }

// NonSingleValueError is returned when a configuration leaf is a float,
// array, table or datetime.
type NonSingleValueError struct {
	Found string
}

func (e *NonSingleValueError) Error() string {
	return fmt.Sprintf("expected a single string, integer or boolean but found %s", e.Found)
}

func (e *NonSingleValueError) Unwrap() error { return ErrImport }

// UnsupportedPropertiesError is returned when a local path source carries
// sibling keys.
type UnsupportedPropertiesError struct {
	ExtraKeys []string
}

func (e *UnsupportedPropertiesError) Error() string {
	return fmt.Sprintf("unsupported properties alongside path: %s", strings.Join(e.ExtraKeys, ", "))
}

func (e *UnsupportedPropertiesError) Unwrap() error { return ErrImport }

// NoBuildSuppliedError is returned when the requested platform has no entry
// in the [build] table.
type NoBuildSuppliedError struct {
	Platform string
	Profile  string
}

func (e *NoBuildSuppliedError) Error() string {
	return fmt.Sprintf("no build supplied for platform '%s': expected a table like [build.%s.%s]", e.Platform, e.Platform, e.Profile)
}

func (e *NoBuildSuppliedError) Unwrap() error { return ErrImport }

// UnknownContextualKeyError is returned in strict mode when a contextual
// overlay names neither a known architecture nor a platform of the document.
type UnknownContextualKeyError struct {
	Tree string
	Keys []string
}

func (e *UnknownContextualKeyError) Error() string {
	return fmt.Sprintf("unknown contextual keys in %s: %s", e.Tree, strings.Join(e.Keys, ", "))
}

func (e *UnknownContextualKeyError) Unwrap() error { return ErrImport }
