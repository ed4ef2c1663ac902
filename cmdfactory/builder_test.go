// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Acorn Labs, Inc; All rights reserved.
// Copyright 2022 Unikraft GmbH; All rights reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
package cmdfactory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) String() string { return string(c) }

type Embedded struct {
	Platform string `long:"platform" short:"p" env:"TEST_CMDFACTORY_PLATFORM" usage:"platform"`
}

type testOptions struct {
	Embedded

	Jobs     int                `long:"jobs" default:"4" usage:"jobs"`
	Name     string             `long:"name" default:"unnamed" usage:"name"`
	Verbose  bool               `long:"verbose" env:"TEST_CMDFACTORY_VERBOSE" usage:"verbose"`
	Optional *string            `long:"optional" usage:"optional"`
	Color    EnumFlag[color]    `long:"color" usage:"color"`
	Skipped  string             `noattribute:"true"`
	Nested   struct{ Deep bool } `yaml:"nested"`

	ran  bool
	args []string
}

func (o *testOptions) Run(_ context.Context, args []string) error {
	o.ran = true
	o.args = args
	return nil
}

func newTestCmd(t *testing.T, opts *testOptions) *cobra.Command {
	t.Helper()

	cmd, err := New(opts, cobra.Command{Use: "test"})
	require.NoError(t, err)

	return cmd
}

func newTestOptions() *testOptions {
	return &testOptions{
		Color: *NewEnumFlag([]color{"red", "blue"}, color("red")),
	}
}

func TestAttributeFlagsDefaults(t *testing.T) {
	opts := newTestOptions()
	cmd := newTestCmd(t, opts)

	cmd.SetArgs([]string{"a", "b"})
	require.NoError(t, cmd.Execute())

	assert.True(t, opts.ran)
	assert.Equal(t, []string{"a", "b"}, opts.args)
	assert.Equal(t, 4, opts.Jobs)
	assert.Equal(t, "unnamed", opts.Name)
	assert.False(t, opts.Verbose)
	assert.Nil(t, opts.Optional)
	assert.Equal(t, color("red"), opts.Color.Value)

	assert.Nil(t, cmd.Flags().Lookup("skipped"))
	assert.NotNil(t, cmd.Flags().Lookup("deep"))
	assert.Equal(t, "4", cmd.Flags().Lookup("jobs").DefValue)
}

func TestAttributeFlagsParsed(t *testing.T) {
	opts := newTestOptions()
	cmd := newTestCmd(t, opts)

	cmd.SetArgs([]string{"--jobs", "8", "--name", "x", "--verbose", "--optional", "set", "--color", "blue", "-p", "pc99"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 8, opts.Jobs)
	assert.Equal(t, "x", opts.Name)
	assert.True(t, opts.Verbose)
	require.NotNil(t, opts.Optional)
	assert.Equal(t, "set", *opts.Optional)
	assert.Equal(t, color("blue"), opts.Color.Value)
	assert.Equal(t, "pc99", opts.Platform)
}

func TestAttributeFlagsEnv(t *testing.T) {
	t.Setenv("TEST_CMDFACTORY_PLATFORM", "sabre")
	t.Setenv("TEST_CMDFACTORY_VERBOSE", "true")

	opts := newTestOptions()
	cmd := newTestCmd(t, opts)

	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "sabre", opts.Platform)
	assert.True(t, opts.Verbose)

	// The command line still wins over the environment.
	opts = newTestOptions()
	cmd = newTestCmd(t, opts)

	cmd.SetArgs([]string{"--platform", "pc99"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "pc99", opts.Platform)
}

func TestAttributeFlagsInvalidEnv(t *testing.T) {
	t.Setenv("TEST_CMDFACTORY_VERBOSE", "perhaps")

	_, err := New(newTestOptions(), cobra.Command{Use: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_CMDFACTORY_VERBOSE")
}

func TestEnumFlagRejects(t *testing.T) {
	opts := newTestOptions()
	cmd := newTestCmd(t, opts)

	cmd.SetArgs([]string{"--color", "green"})
	err := cmd.Execute()
	require.Error(t, err)

	var flagErr *FlagError
	assert.True(t, errors.As(err, &flagErr))
}

func TestName(t *testing.T) {
	type BuildOptions struct{}
	assert.Equal(t, "build", Name(&BuildOptions{}))
}

func TestMaxArgs(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}

	assert.NoError(t, MaxArgs(1)(cmd, []string{"a"}))

	err := MaxArgs(1)(cmd, []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestMainExitCodes(t *testing.T) {
	opts := newTestOptions()
	cmd := newTestCmd(t, opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{})
	assert.Equal(t, 0, Main(context.Background(), cmd))

	cmd.SetArgs([]string{"--jobs", "many"})
	assert.Equal(t, 2, Main(context.Background(), cmd))
}

func TestHelp(t *testing.T) {
	root, err := New(newTestOptions(), cobra.Command{Use: "root", Short: "The root"})
	require.NoError(t, err)

	sub, err := New(newTestOptions(), cobra.Command{Use: "sub", Short: "A subcommand"})
	require.NoError(t, err)
	root.AddCommand(sub)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "The root")
	assert.Contains(t, out.String(), "SUBCOMMANDS")
	assert.Contains(t, out.String(), "A subcommand")
	assert.Contains(t, out.String(), "--jobs")
}
