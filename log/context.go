// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

// G is shorthand for FromContext.
var G = FromContext

type loggerKey struct{}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger *logrus.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached to ctx, falling back to logrus'
// standard logger.
func FromContext(ctx context.Context) *logrus.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*logrus.Logger); ok && l != nil {
		return l
	}

	return logrus.StandardLogger()
}

// Step returns an entry tagged with the name of the pipeline step which is
// currently running, e.g. "git", "cmake" or "ninja".  The text formatter
// renders it as a prefix.
func Step(ctx context.Context, step string) *logrus.Entry {
	return FromContext(ctx).WithField(PrefixField, step)
}
