// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package config holds the settings of the selfe tool itself, as opposed to
// the sel4.toml of a project.  Values come from defaults, then a YAML file,
// then SELFE_* environment variables and finally command-line flags.
package config

// Git clients which can fetch remote sources.
const (
	GitClientCLI   = "cli"
	GitClientGoGit = "go-git"
)

type Selfe struct {
	Log struct {
		Level      string `yaml:"level" env:"SELFE_LOG_LEVEL" long:"log-level" usage:"Log level verbosity" default:"info"`
		Timestamps bool   `yaml:"timestamps" env:"SELFE_LOG_TIMESTAMPS" long:"log-timestamps" usage:"Enable log timestamps"`
		Type       string `yaml:"type" env:"SELFE_LOG_TYPE" long:"log-type" usage:"Log type" default:"fancy"`
	} `yaml:"log"`

	Git struct {
		Client string `yaml:"client" env:"SELFE_GIT_CLIENT" long:"git-client" usage:"Git client used to fetch remote sources" default:"cli"`
		Bin    string `yaml:"bin" env:"SELFE_GIT_BIN" long:"git-bin" usage:"Path to the git executable" default:"git"`
	} `yaml:"git"`

	CMake struct {
		Bin       string `yaml:"bin" env:"SELFE_CMAKE_BIN" long:"cmake-bin" usage:"Path to the cmake executable" default:"cmake"`
		Generator string `yaml:"generator" env:"SELFE_CMAKE_GENERATOR" long:"cmake-generator" usage:"CMake generator which emits a build.ninja" default:"Ninja"`
	} `yaml:"cmake"`

	Ninja struct {
		Bin  string `yaml:"bin" env:"SELFE_NINJA_BIN" long:"ninja-bin" usage:"Path to the ninja executable" default:"ninja"`
		Jobs int    `yaml:"jobs" env:"SELFE_NINJA_JOBS" long:"jobs" usage:"Number of parallel build jobs, 0 lets ninja decide"`
	} `yaml:"ninja"`

	Build struct {
		NoLock bool `yaml:"no_lock" env:"SELFE_BUILD_NO_LOCK" long:"no-lock" usage:"Do not lock build directories"`
	} `yaml:"build"`

	Paths struct {
		Config string `yaml:"config,omitempty" env:"SELFE_PATHS_CONFIG" long:"config-dir" usage:"Path to the selfe config directory"`
	} `yaml:"paths,omitempty"`
}

type ConfigDetail struct {
	Key           string
	Description   string
	AllowedValues []string
}

// Descriptions of each configuration parameter as well as valid values
var configDetails = []ConfigDetail{
	{
		Key:         "log.level",
		Description: "Set the logging verbosity",
		AllowedValues: []string{
			"fatal",
			"error",
			"warn",
			"info",
			"debug",
			"trace",
		},
	},
	{
		Key:         "log.type",
		Description: "Set the logging output style",
		AllowedValues: []string{
			"quiet",
			"basic",
			"fancy",
			"json",
		},
	},
	{
		Key:         "log.timestamps",
		Description: "Show timestamps with log output",
	},
	{
		Key:         "git.client",
		Description: "the client used to clone sel4 sources",
		AllowedValues: []string{
			GitClientCLI,
			GitClientGoGit,
		},
	},
	{
		Key:         "ninja.jobs",
		Description: "the number of parallel ninja jobs",
	},
}

func ConfigDetails() []ConfigDetail {
	return configDetails
}
