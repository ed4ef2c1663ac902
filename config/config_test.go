// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewDefaultConfig(t *testing.T) {
	t.Setenv(SELFE_CONFIG_DIR, "/etc/selfe")

	c, err := NewDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "fancy", c.Log.Type)
	assert.False(t, c.Log.Timestamps)
	assert.Equal(t, GitClientCLI, c.Git.Client)
	assert.Equal(t, "git", c.Git.Bin)
	assert.Equal(t, "cmake", c.CMake.Bin)
	assert.Equal(t, "Ninja", c.CMake.Generator)
	assert.Equal(t, "ninja", c.Ninja.Bin)
	assert.Equal(t, 0, c.Ninja.Jobs)
	assert.Equal(t, "/etc/selfe", c.Paths.Config)
	assert.NoError(t, c.Validate())
}

func TestConfigDir(t *testing.T) {
	t.Setenv(SELFE_CONFIG_DIR, "")
	t.Setenv(XDG_CONFIG_HOME, "/xdg")
	assert.Equal(t, "/xdg/selfe", ConfigDir())
	assert.Equal(t, "/xdg/selfe/config.yaml", DefaultConfigFile())

	t.Setenv(SELFE_CONFIG_DIR, "/override")
	assert.Equal(t, "/override", ConfigDir())
}

func TestEnvFeeder(t *testing.T) {
	c, err := NewDefaultConfig()
	require.NoError(t, err)

	err = EnvFeeder{Environment: map[string]string{
		"SELFE_LOG_LEVEL":     "debug",
		"SELFE_GIT_CLIENT":    "go-git",
		"SELFE_NINJA_JOBS":    "8",
		"SELFE_BUILD_NO_LOCK": "true",
	}}.Feed(c)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, GitClientGoGit, c.Git.Client)
	assert.Equal(t, 8, c.Ninja.Jobs)
	assert.True(t, c.Build.NoLock)
	assert.Equal(t, "cmake", c.CMake.Bin)
}

func TestEnvFeederProcessEnvironment(t *testing.T) {
	t.Setenv("SELFE_CMAKE_GENERATOR", "Ninja Multi-Config")
	t.Setenv("SELFE_LOG_TIMESTAMPS", "1")

	c, err := NewDefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, "Ninja", c.CMake.Generator, "defaults ignore the environment")

	require.NoError(t, EnvFeeder{}.Feed(c))
	assert.Equal(t, "Ninja Multi-Config", c.CMake.Generator)
	assert.True(t, c.Log.Timestamps)
}

func TestEnvFeederInvalid(t *testing.T) {
	c, err := NewDefaultConfig()
	require.NoError(t, err)

	err = EnvFeeder{Environment: map[string]string{
		"SELFE_NINJA_JOBS": "many",
	}}.Feed(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Jobs")
	assert.Equal(t, 0, c.Ninja.Jobs)
}

func TestConfigManagerPrecedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: warn\n  type: json\nninja:\n  jobs: 2\n"), 0o600))

	cm, err := NewConfigManager(
		WithFile(file, false),
		WithFeeder(EnvFeeder{Environment: map[string]string{
			"SELFE_NINJA_JOBS": "16",
		}}),
	)
	require.NoError(t, err)

	assert.Equal(t, file, cm.ConfigFile)
	assert.Equal(t, "warn", cm.Config.Log.Level)
	assert.Equal(t, "json", cm.Config.Log.Type)
	assert.Equal(t, 16, cm.Config.Ninja.Jobs)
	assert.Equal(t, "Ninja", cm.Config.CMake.Generator)
}

func TestConfigManagerMissingFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")

	cm, err := NewConfigManager(WithFile(file, false))
	require.NoError(t, err)
	assert.Empty(t, cm.Feeders)
	assert.NoFileExists(t, file)

	cm, err = NewConfigManager(WithFile(file, true))
	require.NoError(t, err)
	assert.Len(t, cm.Feeders, 1)
	assert.FileExists(t, file)

	var written map[string]interface{}
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(b, &written))
	assert.Contains(t, written, "cmake")
}

func TestConfigManagerUnsupportedFile(t *testing.T) {
	_, err := NewConfigManager(WithFile("config.toml", false))
	assert.Error(t, err)

	_, err = NewConfigManager(WithFile("config", false))
	assert.Error(t, err)
}

func TestConfigManagerInvalidValue(t *testing.T) {
	cm, err := NewConfigManager(
		WithFeeder(EnvFeeder{Environment: map[string]string{
			"SELFE_GIT_CLIENT": "svn",
		}}),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git.client")
	assert.NotNil(t, cm)
}

func TestYamlFeederWriteMerge(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte("extra: kept\nlog:\n  level: error\n"), 0o600))

	c, err := NewDefaultConfig()
	require.NoError(t, err)
	c.Log.Level = "trace"

	require.NoError(t, YamlFeeder{File: file}.Write(c, true))

	var written map[string]interface{}
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(b, &written))

	assert.Equal(t, "kept", written["extra"])
	assert.Equal(t, "trace", written["log"].(map[string]interface{})["level"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Selfe)
		errs   string
	}{
		{
			name:   "bad level",
			modify: func(c *Selfe) { c.Log.Level = "loud" },
			errs:   "log.level",
		},
		{
			name:   "bad type",
			modify: func(c *Selfe) { c.Log.Type = "pretty" },
			errs:   "log.type",
		},
		{
			name:   "negative jobs",
			modify: func(c *Selfe) { c.Ninja.Jobs = -1 },
			errs:   "ninja.jobs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewDefaultConfig()
			require.NoError(t, err)

			tt.modify(c)

			err = c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errs)
		})
	}
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "info", Default("log.level"))
	assert.Equal(t, "Ninja", Default("cmake.generator"))
	assert.Equal(t, "", Default("ninja.jobs"))
	assert.Equal(t, "", Default("nope"))
	assert.Equal(t, []string{GitClientCLI, GitClientGoGit}, AllowedValues("git.client"))
}

func TestFromContext(t *testing.T) {
	c := FromContext(context.Background())
	assert.Equal(t, "info", c.Log.Level)

	cm, err := NewConfigManager()
	require.NoError(t, err)
	cm.Config.Log.Level = "debug"

	ctx := WithConfigManager(context.Background(), cm)
	assert.Same(t, cm.Config, G(ctx))
}
