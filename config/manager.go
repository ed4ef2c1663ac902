// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

// ConfigManager owns the tool configuration and the feeders it is read from.
// Feeders apply in the order they were added, so later ones win.
type ConfigManager struct {
	Config     *Selfe
	ConfigFile string
	Feeders    []Feeder
}

type ConfigManagerOption func(cm *ConfigManager) error

// WithFeeder appends feeder.
func WithFeeder(feeder Feeder) ConfigManagerOption {
	return func(cm *ConfigManager) error {
		cm.Feeders = append(cm.Feeders, feeder)
		return nil
	}
}

// WithFile feeds the YAML file at file.  A missing file is written with the
// current values when create is set and skipped otherwise.
func WithFile(file string, create bool) ConfigManagerOption {
	return func(cm *ConfigManager) error {
		switch ext := filepath.Ext(file); ext {
		case ".yaml", ".yml":
		case "":
			return fmt.Errorf("unknown file extension for config file: %s", file)
		default:
			return fmt.Errorf("unsupported file extension %s: %s", ext, file)
		}

		feeder := YamlFeeder{File: file}

		_, err := os.Stat(file)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !create:
			return nil
		case errors.Is(err, fs.ErrNotExist):
			if err := feeder.Write(cm.Config, false); err != nil {
				return fmt.Errorf("could not write initial config: %v", err)
			}
		case err != nil:
			return pathError(err)
		}

		cm.ConfigFile = file

		return WithFeeder(feeder)(cm)
	}
}

// WithDefaultConfigFile feeds DefaultConfigFile when it exists.
func WithDefaultConfigFile() ConfigManagerOption {
	return func(cm *ConfigManager) error {
		return WithFile(DefaultConfigFile(), false)(cm)
	}
}

// WithEnv feeds SELFE_* environment variables.  Add it after any file so the
// environment takes precedence.
func WithEnv() ConfigManagerOption {
	return WithFeeder(EnvFeeder{})
}

// NewConfigManager seeds the defaults, applies opts and feeds.  When feeding
// fails the manager is returned alongside the error, still holding usable
// values.
func NewConfigManager(opts ...ConfigManagerOption) (*ConfigManager, error) {
	c, err := NewDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("could not seed default values for config: %s", err)
	}

	cm := &ConfigManager{Config: c}

	for _, o := range opts {
		if err := o(cm); err != nil {
			return nil, fmt.Errorf("could not apply config manager option: %v", err)
		}
	}

	if err := cm.Feed(); err != nil {
		return cm, fmt.Errorf("could not feed config: %v", err)
	}

	return cm, nil
}

// Feed runs every feeder over the configuration and validates the result.
func (cm *ConfigManager) Feed() error {
	for _, f := range cm.Feeders {
		if err := f.Feed(cm.Config); err != nil {
			return fmt.Errorf("failed to feed config: %v", err)
		}
	}

	return cm.Config.Validate()
}

// Write persists the configuration through every feeder which can.
func (cm *ConfigManager) Write(merge bool) error {
	for _, f := range cm.Feeders {
		if err := f.Write(cm.Config, merge); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks values which only admit a fixed set of choices.
func (c *Selfe) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	for _, check := range []struct{ key, value string }{
		{"log.type", c.Log.Type},
		{"git.client", c.Git.Client},
	} {
		if allowed := AllowedValues(check.key); !slices.Contains(allowed, check.value) {
			return fmt.Errorf("%s: %q is not one of %s", check.key, check.value, strings.Join(allowed, ", "))
		}
	}

	if c.Ninja.Jobs < 0 {
		return fmt.Errorf("ninja.jobs: cannot be negative: %d", c.Ninja.Jobs)
	}

	return nil
}

// AllowedValues lists the choices for a dotted key, or nothing when the key
// is free-form.
func AllowedValues(key string) []string {
	for _, details := range ConfigDetails() {
		if details.Key == key {
			return details.AllowedValues
		}
	}

	return []string{}
}

// Default returns the default of the dotted YAML key, e.g. "log.level".
func Default(key string) string {
	t := reflect.TypeOf(Selfe{})

	path := strings.Split(key, ".")
	for i, part := range path {
		field, ok := fieldByYamlName(t, part)
		if !ok {
			return ""
		}

		if i == len(path)-1 {
			return field.Tag.Get("default")
		}

		if field.Type.Kind() != reflect.Struct {
			return ""
		}

		t = field.Type
	}

	return ""
}

func fieldByYamlName(t reflect.Type, name string) (reflect.StructField, bool) {
	for _, field := range reflect.VisibleFields(t) {
		if strings.Split(field.Tag.Get("yaml"), ",")[0] == name {
			return field, true
		}
	}

	return reflect.StructField{}, false
}
