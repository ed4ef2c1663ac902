// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"selfe.sh/cmdfactory"
	"selfe.sh/config"
	"selfe.sh/log"
)

type CliOptions struct {
	ConfigManager *config.ConfigManager
	Logger        *logrus.Logger
	Out           io.Writer
}

type CliOption func(*CliOptions) error

// WithConfigManager sets a previously instantiated ConfigManager to be used
// as part of the CLI options.
func WithConfigManager(cfgm *config.ConfigManager) CliOption {
	return func(copts *CliOptions) error {
		copts.ConfigManager = cfgm
		return nil
	}
}

// WithDefaultConfigManager instantiates a configuration manager from the
// default config file, if present, and SELFE_* environment variables, and
// exposes every setting as a flag of cmd.
func WithDefaultConfigManager(cmd *cobra.Command) CliOption {
	return func(copts *CliOptions) error {
		if copts.ConfigManager != nil {
			return nil
		}

		cfgm, err := config.NewConfigManager(
			config.WithDefaultConfigFile(),
			config.WithEnv(),
		)
		if cfgm == nil {
			return err
		} else if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		// Attribute all configuration flags and command-line argument values
		if err := cmdfactory.AttributeFlags(cmd, cfgm.Config); err != nil {
			return err
		}

		copts.ConfigManager = cfgm

		return nil
	}
}

// WithOutput sets where log output is written.
func WithOutput(out io.Writer) CliOption {
	return func(copts *CliOptions) error {
		copts.Out = out
		return nil
	}
}

// WithDefaultLogger sets up the built in logger based on provided config
// found from the ConfigManager.
func WithDefaultLogger() CliOption {
	return func(copts *CliOptions) error {
		if copts.Logger != nil {
			return nil
		}

		if copts.Out == nil {
			copts.Out = os.Stderr
		}

		if copts.ConfigManager == nil {
			copts.Logger = log.NewLogger(log.FANCY, logrus.InfoLevel, false, copts.Out)
			return nil
		}

		copts.Logger = NewLogger(copts.ConfigManager.Config, copts.Out)

		return nil
	}
}

// NewLogger builds the logger described by the log settings of cfg.
func NewLogger(cfg *config.Selfe, out io.Writer) *logrus.Logger {
	level, ok := log.Levels()[cfg.Log.Level]
	if !ok {
		level = logrus.InfoLevel
	}

	return log.NewLogger(
		log.LoggerTypeFromString(cfg.Log.Type),
		level,
		cfg.Log.Timestamps,
		out,
	)
}
