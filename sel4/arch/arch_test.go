// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchFromSeL4Arch(t *testing.T) {
	tests := map[SeL4Arch]Arch{
		SeL4ArchAarch32: ArchArm,
		SeL4ArchAarch64: ArchArm,
		SeL4ArchArmHyp:  ArchArm,
		SeL4ArchIA32:    ArchX86,
		SeL4ArchX86_64:  ArchX86,
		SeL4ArchRiscV32: ArchRiscV,
		SeL4ArchRiscV64: ArchRiscV,
	}

	for sel4Arch, expect := range tests {
		assert.Equal(t, expect, ArchFromSeL4Arch(sel4Arch), sel4Arch)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, a := range Arches() {
		parsed, err := ParseArch(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	for _, a := range SeL4Arches() {
		parsed, err := ParseSeL4Arch(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	_, err := ParseArch("mips")
	assert.Error(t, err)

	_, err = ParseSeL4Arch("x86")
	assert.Error(t, err)
}

func TestSeL4ArchFromTargetArch(t *testing.T) {
	tests := []struct {
		target string
		expect SeL4Arch
	}{
		{"aarch64", SeL4ArchAarch64},
		{"thumbv8m.main", SeL4ArchAarch64},
		{"arm", SeL4ArchAarch32},
		{"armv7", SeL4ArchAarch32},
		{"armebv7r", SeL4ArchAarch32},
		{"thumbv7m", SeL4ArchAarch32},
		{"i686", SeL4ArchIA32},
		{"x86_64", SeL4ArchX86_64},
		{"riscv64gc", SeL4ArchRiscV64},
		{"riscv64imac", SeL4ArchRiscV64},
		{"riscv32imac", SeL4ArchRiscV32},
	}

	for _, tc := range tests {
		got, err := SeL4ArchFromTargetArch(tc.target)
		require.NoError(t, err, tc.target)
		assert.Equal(t, tc.expect, got, tc.target)
	}

	for _, target := range []string{"armv5te", "armv6", "thumbv8m.base", "wasm32", "mips", ""} {
		_, err := SeL4ArchFromTargetArch(target)
		assert.Error(t, err, target)
	}
}

func TestDefaultPlatform(t *testing.T) {
	p, err := DefaultPlatform(ArchArm)
	require.NoError(t, err)
	assert.Equal(t, Platform("sabre"), p)

	p, err = DefaultPlatform(ArchX86)
	require.NoError(t, err)
	assert.Equal(t, Platform("pc99"), p)

	_, err = DefaultPlatform(ArchRiscV)
	assert.Error(t, err)
}

func TestKnownContextKeys(t *testing.T) {
	keys := KnownContextKeys()
	assert.Len(t, keys, 10)
	assert.Contains(t, keys, "arm_hyp")
	assert.Contains(t, keys, "x86")
	assert.IsIncreasing(t, keys)
}
