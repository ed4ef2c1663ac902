// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Levels returns a map of log level string names to their constant equivalent.
func Levels() map[string]logrus.Level {
	return map[string]logrus.Level{
		"panic":   logrus.PanicLevel,
		"fatal":   logrus.FatalLevel,
		"error":   logrus.ErrorLevel,
		"warning": logrus.WarnLevel,
		"warn":    logrus.WarnLevel,
		"info":    logrus.InfoLevel,
		"debug":   logrus.DebugLevel,
		"trace":   logrus.TraceLevel,
	}
}

// LevelNames returns the accepted level names in alphabetical order.
func LevelNames() []string {
	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ParseLevel looks up a level by name.
func ParseLevel(name string) (logrus.Level, error) {
	level, ok := Levels()[name]
	if !ok {
		return logrus.InfoLevel, fmt.Errorf("unknown log level '%s': expected one of %v", name, LevelNames())
	}

	return level, nil
}
