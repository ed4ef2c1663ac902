// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// LoggerType controls how log statements are output
type LoggerType uint

// Logger types
const (
	QUIET LoggerType = iota
	BASIC
	FANCY
	JSON
)

// LoggerTypeFromString returns the logger type by its name, falling back to
// BASIC for unknown names.
func LoggerTypeFromString(name string) LoggerType {
	switch strings.ToLower(name) {
	case "quiet":
		return QUIET
	case "fancy":
		return FANCY
	case "json":
		return JSON
	default:
		return BASIC
	}
}

func (t LoggerType) String() string {
	switch t {
	case QUIET:
		return "quiet"
	case FANCY:
		return "fancy"
	case JSON:
		return "json"
	default:
		return "basic"
	}
}

// NewLogger constructs a logger of the given type writing to out.  QUIET only
// lets warnings and errors through regardless of the requested level.
func NewLogger(t LoggerType, level logrus.Level, timestamps bool, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch t {
	case QUIET:
		formatter := &TextFormatter{
			DisableColors:    true,
			DisableTimestamp: !timestamps,
		}
		logger.Formatter = formatter
		if level > logrus.WarnLevel {
			logger.SetLevel(logrus.WarnLevel)
		}

	case FANCY:
		logger.Formatter = &TextFormatter{
			ForceFormatting:  true,
			FullTimestamp:    true,
			DisableTimestamp: !timestamps,
		}

	case JSON:
		logger.Formatter = &logrus.JSONFormatter{
			DisableTimestamp: !timestamps,
		}

	default:
		logger.Formatter = &TextFormatter{
			FullTimestamp:    true,
			DisableTimestamp: !timestamps,
		}
	}

	return logger
}
