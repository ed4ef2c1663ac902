// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"sort"
	"strconv"
)

// SingleValue is a configuration leaf.  It is implemented by exactly three
// types: StringValue, IntegerValue and BooleanValue.
type SingleValue interface {
	// Native returns the plain Go value: string, int64 or bool.
	Native() interface{}

	// String renders the value the way the build tool expects to receive it.
	String() string

	isSingleValue()
}

type (
	StringValue  string
	IntegerValue int64
	BooleanValue bool
)

func (v StringValue) Native() interface{}  { return string(v) }
func (v IntegerValue) Native() interface{} { return int64(v) }
func (v BooleanValue) Native() interface{} { return bool(v) }

func (v StringValue) String() string  { return string(v) }
func (v IntegerValue) String() string { return strconv.FormatInt(int64(v), 10) }
func (v BooleanValue) String() string { return strconv.FormatBool(bool(v)) }

func (StringValue) isSingleValue()  {}
func (IntegerValue) isSingleValue() {}
func (BooleanValue) isSingleValue() {}

// SingleValueOf converts a decoded TOML value into a SingleValue.  Floats,
// arrays, tables and datetimes are rejected with a *NonSingleValueError.
func SingleValueOf(v interface{}) (SingleValue, error) {
	switch value := v.(type) {
	case string:
		return StringValue(value), nil
	case int64:
		return IntegerValue(value), nil
	case bool:
		return BooleanValue(value), nil
	}

	return nil, &NonSingleValueError{Found: typeName(v)}
}

// Properties is a flat mapping of configuration names to values.
type Properties map[string]SingleValue

// OverrideBy copies every entry of other over the receiver, replacing values
// on collision, and returns the receiver.
func (p Properties) OverrideBy(other Properties) Properties {
	for k, v := range other {
		p[k] = v
	}

	return p
}

// Set assigns a single value and returns the receiver.
func (p Properties) Set(key string, value SingleValue) Properties {
	p[key] = value
	return p
}

// Clone returns a shallow copy.  Values are immutable so this is a full copy.
func (p Properties) Clone() Properties {
	return Properties{}.OverrideBy(p)
}

// SortedKeys returns the keys in ascending order.
func (p Properties) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Native returns a plain map suitable for generic encoders.
func (p Properties) Native() map[string]interface{} {
	native := make(map[string]interface{}, len(p))
	for k, v := range p {
		native[k] = v.Native()
	}

	return native
}

// PropertiesTree is one named bag of configuration with layered overrides.
// The keys "debug" and "release" are reserved for the profile layers and are
// never contextual keys.
type PropertiesTree struct {
	// Shared is always in effect.
	Shared Properties

	// Debug and Release are applied only when the build profile matches.
	Debug   Properties
	Release Properties

	// Contextual maps an arch, seL4 arch or platform name to overrides
	// applied only when that name matches the active context.
	Contextual map[string]Properties
}

// NewPropertiesTree returns an empty tree with every layer allocated.
func NewPropertiesTree() PropertiesTree {
	return PropertiesTree{
		Shared:     Properties{},
		Debug:      Properties{},
		Release:    Properties{},
		Contextual: map[string]Properties{},
	}
}

// IsEmpty reports whether the tree carries no layers at all.
func (t PropertiesTree) IsEmpty() bool {
	return len(t.Shared) == 0 &&
		len(t.Debug) == 0 &&
		len(t.Release) == 0 &&
		len(t.Contextual) == 0
}

// ContextKeys returns the contextual overlay names in ascending order.
func (t PropertiesTree) ContextKeys() []string {
	keys := make([]string, 0, len(t.Contextual))
	for k := range t.Contextual {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
