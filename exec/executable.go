// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package exec

import (
	"fmt"
	"reflect"
	"strings"
)

// Executable is a binary together with the arguments it will be invoked with.
type Executable struct {
	bin  string
	args []string
}

// NewExecutable accepts an input argument bin which is the path or executable
// name to be ultimately executed.  An optional argument face can be provided
// which is a struct whose attributes carry `flag:"-x"` tags; each set
// attribute is serialized into the executable's command-line arguments ahead
// of the positional args.
func NewExecutable(bin string, face interface{}, args ...string) (*Executable, error) {
	if len(bin) == 0 {
		return nil, fmt.Errorf("binary argument cannot be empty")
	}

	e := &Executable{}

	// Allow configured binaries such as "ccache cmake" to carry leading args.
	if fields := strings.Fields(bin); len(fields) > 1 {
		bin = fields[0]
		e.args = fields[1:]
	}

	e.bin = bin

	if face != nil {
		faceArgs, err := ParseInterfaceArgs(face)
		if err != nil {
			return nil, err
		}

		e.args = append(e.args, faceArgs...)
	}

	e.args = append(e.args, args...)

	return e, nil
}

// Bin returns the binary to be executed.
func (e *Executable) Bin() string {
	return e.bin
}

// Args returns the arguments passed to the binary.
func (e *Executable) Args() []string {
	return e.args
}

type flag struct {
	flag        string
	omitvalueif string
	joined      bool
}

func parseFlag(tag reflect.StructTag) *flag {
	raw, ok := tag.Lookup("flag")
	if !ok {
		return nil
	}

	parts := strings.Split(raw, ",")
	f := &flag{flag: parts[0]}

	for _, part := range parts[1:] {
		switch {
		case strings.HasPrefix(part, "omitvalueif="):
			f.omitvalueif = strings.TrimPrefix(part, "omitvalueif=")
		case part == "joined":
			f.joined = true
		}
	}

	return f
}

func (f *flag) render(value string) []string {
	if f.joined {
		return []string{f.flag + value}
	}

	return []string{f.flag, value}
}

// ParseInterfaceArgs returns the arguments derived from a struct whose
// attributes carry `flag` tags.  Booleans emit the bare flag when true;
// strings, integer pointers and string slices emit the flag followed by the
// value; the `joined` option glues the value onto the flag (e.g. `-j8`).
func ParseInterfaceArgs(face interface{}, args ...string) ([]string, error) {
	v := reflect.ValueOf(face)
	if v.Kind() == reflect.Ptr {
		return nil, fmt.Errorf("cannot derive interface arguments from pointer: passed by reference")
	}

	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot derive interface arguments from %s", v.Kind())
	}

	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		f := parseFlag(t.Field(i).Tag)

		if f == nil {
			// Recursively iterate through embedded structures
			if field.Kind() == reflect.Struct {
				structArgs, err := ParseInterfaceArgs(field.Interface())
				if err != nil {
					return nil, err
				}

				args = append(args, structArgs...)
			}

			continue
		}

		switch field.Kind() {
		case reflect.Ptr:
			if field.IsNil() {
				continue
			}

			var value string
			switch elem := field.Elem(); elem.Kind() {
			case reflect.Int, reflect.Int64:
				value = fmt.Sprintf("%d", elem.Int())
			case reflect.String:
				value = elem.String()
			default:
				return nil, fmt.Errorf("unsupported pointer attribute for flag %s: %s", f.flag, elem.Kind())
			}

			if value == f.omitvalueif {
				args = append(args, f.flag)
			} else {
				args = append(args, f.render(value)...)
			}

		case reflect.Bool:
			if field.Bool() {
				args = append(args, f.flag)
			}

		case reflect.Int, reflect.Int64:
			if field.Int() != 0 {
				args = append(args, f.render(fmt.Sprintf("%d", field.Int()))...)
			}

		case reflect.String:
			if field.Len() > 0 {
				args = append(args, f.render(field.String())...)
			}

		case reflect.Slice:
			for j := 0; j < field.Len(); j++ {
				item := field.Index(j)
				if item.Kind() != reflect.String {
					return nil, fmt.Errorf("unsupported slice element for flag %s: %s", f.flag, item.Kind())
				}

				if item.Len() > 0 {
					args = append(args, f.render(item.String())...)
				}
			}

		default:
			return nil, fmt.Errorf("unsupported attribute kind for flag %s: %s", f.flag, field.Kind())
		}
	}

	return args, nil
}
