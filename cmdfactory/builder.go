// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Acorn Labs, Inc; All rights reserved.
// Copyright 2022 Unikraft GmbH; All rights reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
package cmdfactory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"selfe.sh/log"
)

var caseRegexp = regexp.MustCompile("([a-z])([A-Z])")

type PersistentPreRunnable interface {
	PersistentPre(cmd *cobra.Command, args []string) error
}

type PreRunnable interface {
	Pre(cmd *cobra.Command, args []string) error
}

type Runnable interface {
	Run(ctx context.Context, args []string) error
}

// Name derives a command name from the type of obj, e.g. "BuildOptions"
// becomes "build".
func Name(obj any) string {
	typeName := reflect.TypeOf(obj).Elem().Name()
	return kebab(strings.Replace(typeName, "Options", "", 1))
}

func kebab(s string) string {
	return strings.ToLower(caseRegexp.ReplaceAllString(s, "$1-$2"))
}

// Main executes the given command and returns the process exit code.
func Main(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}

		var flagErr *FlagError
		if errors.As(err, &flagErr) {
			cmd.PrintErrln(err)
			cmd.PrintErrln()
			_ = rootUsageFunc(cmd)
			return 2
		}

		log.G(ctx).Error(err)
		return 1
	}

	if HasFailed() {
		return 1
	}

	return 0
}

// AttributeFlags associates a given struct with public attributes and a set of
// tags with the provided cobra command so as to enable dynamic population of
// CLI flags.
//
// A field's current value is its flag default, overridden by the
// environment variable named in its `env` tag and then by the `default` tag
// when still empty.  Fields whose address implements pflag.Value are bound
// as is.
func AttributeFlags(c *cobra.Command, obj any, args ...string) error {
	optional := map[string]reflect.Value{}
	objValue := reflect.Indirect(reflect.ValueOf(obj))

	// Embedded structs contribute their fields as if they were declared inline.
	for _, fieldType := range reflect.VisibleFields(objValue.Type()) {
		if fieldType.Anonymous || !fieldType.IsExported() || fieldType.Tag.Get("noattribute") == "true" {
			continue
		}

		v := objValue.FieldByIndex(fieldType.Index)

		name := fieldType.Tag.Get("long")
		if name == "" {
			name = kebab(fieldType.Name)
		}
		alias := fieldType.Tag.Get("short")
		usage := fieldType.Tag.Get("usage")
		envName := fieldType.Tag.Get("env")
		defValue := fieldType.Tag.Get("default")

		// The environment takes precedence over the current value, which may
		// come from a configuration file.
		strValue := ""
		if envName != "" {
			if envValue, ok := os.LookupEnv(envName); ok && envValue != "" {
				strValue = envValue
			}
		}

		flags := c.PersistentFlags()
		if fieldType.Tag.Get("local") == "true" {
			flags = c.Flags()
		}

		if value, ok := v.Addr().Interface().(pflag.Value); ok {
			flags.VarP(value, name, alias, usage)
			if err := preset(flags, name, envName, strValue, false); err != nil {
				return err
			}

			if err := markHidden(flags, fieldType, name); err != nil {
				return err
			}

			continue
		}

		switch fieldType.Type.Kind() {
		case reflect.Int, reflect.Int64, reflect.String, reflect.Bool:
			if strValue == "" && v.IsZero() {
				strValue = defValue
			}
		}

		switch fieldType.Type.Kind() {
		case reflect.Int:
			p := v.Addr().Interface().(*int)
			flags.IntVarP(p, name, alias, *p, usage)
		case reflect.String:
			p := v.Addr().Interface().(*string)
			flags.StringVarP(p, name, alias, *p, usage)
		case reflect.Bool:
			p := v.Addr().Interface().(*bool)
			flags.BoolVarP(p, name, alias, *p, usage)
		case reflect.Pointer:
			switch fieldType.Type.Elem().Kind() {
			case reflect.Int:
				flags.IntP(name, alias, 0, usage)
			case reflect.String:
				flags.StringP(name, alias, defValue, usage)
			case reflect.Bool:
				flags.BoolP(name, alias, false, usage)
			default:
				continue
			}

			optional[name] = v
		case reflect.Struct:
			if !v.CanAddr() {
				continue
			}

			if err := AttributeFlags(c, v.Addr().Interface()); err != nil {
				return err
			}

			continue
		default:
			continue
		}

		if err := preset(flags, name, envName, strValue, fieldType.Type.Kind() == reflect.Pointer); err != nil {
			return err
		}

		if err := markHidden(flags, fieldType, name); err != nil {
			return err
		}
	}

	c.PersistentPreRunE = bind(c.PersistentPreRunE, optional)
	c.PreRunE = bind(c.PreRunE, optional)
	c.RunE = bind(c.RunE, optional)

	return nil
}

// preset sets the flag to value, when there is one, and reports the result as
// the flag's default.  Optional flags stay marked as changed so the value
// reaches their field.
func preset(flags *pflag.FlagSet, name, envName, value string, optional bool) error {
	if value == "" {
		return nil
	}

	if err := flags.Set(name, value); err != nil {
		if envName != "" {
			return fmt.Errorf("%s: %w", envName, err)
		}
		return err
	}

	if optional {
		return nil
	}

	f := flags.Lookup(name)
	f.DefValue = f.Value.String()
	f.Changed = false

	return nil
}

func markHidden(flags *pflag.FlagSet, fieldType reflect.StructField, name string) error {
	if fieldType.Tag.Get("hidden") != "true" {
		return nil
	}

	return flags.MarkHidden(name)
}

// New populates a cobra.Command object by extracting args from struct tags of the
// Runnable obj passed.  Also the Run method is assigned to the RunE of the command.
func New(obj Runnable, cmd cobra.Command) (*cobra.Command, error) {
	c := cmd
	if c.Use == "" {
		c.Use = fmt.Sprintf("%s [SUBCOMMAND] [FLAGS]", Name(obj))
	}

	if p, ok := obj.(PersistentPreRunnable); ok {
		c.PersistentPreRunE = p.PersistentPre
	}

	if p, ok := obj.(PreRunnable); ok {
		c.PreRunE = p.Pre
	}

	c.SilenceErrors = true
	c.SilenceUsage = true
	c.DisableFlagsInUseLine = true
	c.InitDefaultHelpFlag()
	c.InitDefaultCompletionCmd()

	if obj != nil {
		c.RunE = func(cmd *cobra.Command, args []string) error {
			return obj.Run(cmd.Context(), args)
		}

		// Parse the attributes of this object into addressable flags for this command
		if err := AttributeFlags(&c, obj); err != nil {
			return nil, err
		}
	}

	// Set help and usage methods
	c.SetHelpFunc(rootHelpFunc)
	c.SetUsageFunc(rootUsageFunc)
	c.SetFlagErrorFunc(rootFlagErrorFunc)

	return &c, nil
}

// assignOptional points each pointer field at its flag's value, when the
// flag was given.  Fields of flags which were not given stay nil.
func assignOptional(cmd *cobra.Command, optional map[string]reflect.Value) error {
	for name, v := range optional {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}

		var (
			value any
			err   error
		)

		switch v.Type().Elem().Kind() {
		case reflect.Int:
			value, err = cmd.Flags().GetInt(name)
		case reflect.String:
			value, err = cmd.Flags().GetString(name)
		case reflect.Bool:
			value, err = cmd.Flags().GetBool(name)
		}
		if err != nil {
			return err
		}

		ptr := reflect.New(v.Type().Elem())
		ptr.Elem().Set(reflect.ValueOf(value))
		v.Set(ptr)
	}

	return nil
}

func bind(next func(*cobra.Command, []string) error, optional map[string]reflect.Value) func(*cobra.Command, []string) error {
	if next == nil {
		return nil
	}

	return func(cmd *cobra.Command, args []string) error {
		if err := assignOptional(cmd, optional); err != nil {
			return err
		}

		return next(cmd, args)
	}
}
