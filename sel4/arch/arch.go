// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package arch holds the enumerations which make up a seL4 build context: the
// CPU family (Arch), the kernel's own architecture classification (SeL4Arch)
// and the free-form platform name.
package arch

import (
	"fmt"
	"sort"
)

// Arch is seL4's notion of the CPU family.
type Arch string

const (
	ArchArm   Arch = "arm"
	ArchX86   Arch = "x86"
	ArchRiscV Arch = "riscv"
)

// Arches returns every known Arch.
func Arches() []Arch {
	return []Arch{ArchArm, ArchX86, ArchRiscV}
}

func (a Arch) String() string {
	return string(a)
}

// ParseArch returns the Arch by its canonical name.
func ParseArch(name string) (Arch, error) {
	for _, a := range Arches() {
		if string(a) == name {
			return a, nil
		}
	}

	return "", fmt.Errorf("unrecognized arch '%s'", name)
}

// SeL4Arch is the kernel's internal architecture classification.
type SeL4Arch string

const (
	SeL4ArchAarch32 SeL4Arch = "aarch32"
	SeL4ArchAarch64 SeL4Arch = "aarch64"
	SeL4ArchArmHyp  SeL4Arch = "arm_hyp"
	SeL4ArchIA32    SeL4Arch = "ia32"
	SeL4ArchX86_64  SeL4Arch = "x86_64"
	SeL4ArchRiscV32 SeL4Arch = "riscv32"
	SeL4ArchRiscV64 SeL4Arch = "riscv64"
)

// SeL4Arches returns every known SeL4Arch.
func SeL4Arches() []SeL4Arch {
	return []SeL4Arch{
		SeL4ArchAarch32,
		SeL4ArchAarch64,
		SeL4ArchArmHyp,
		SeL4ArchIA32,
		SeL4ArchX86_64,
		SeL4ArchRiscV32,
		SeL4ArchRiscV64,
	}
}

func (a SeL4Arch) String() string {
	return string(a)
}

// ParseSeL4Arch returns the SeL4Arch by its canonical name.
func ParseSeL4Arch(name string) (SeL4Arch, error) {
	for _, a := range SeL4Arches() {
		if string(a) == name {
			return a, nil
		}
	}

	return "", fmt.Errorf("unrecognized sel4_arch '%s'", name)
}

// ArchFromSeL4Arch returns the CPU family a seL4 architecture belongs to.
func ArchFromSeL4Arch(a SeL4Arch) Arch {
	switch a {
	case SeL4ArchAarch32, SeL4ArchAarch64, SeL4ArchArmHyp:
		return ArchArm
	case SeL4ArchIA32, SeL4ArchX86_64:
		return ArchX86
	case SeL4ArchRiscV32, SeL4ArchRiscV64:
		return ArchRiscV
	}

	return ""
}

// Platform is the name of a concrete board or machine, e.g. "sabre" or
// "pc99".  Any name with a build entry is valid.
type Platform string

func (p Platform) String() string {
	return string(p)
}

// DefaultPlatform returns the platform used when none is requested.
func DefaultPlatform(a Arch) (Platform, error) {
	switch a {
	case ArchArm:
		return "sabre", nil
	case ArchX86:
		return "pc99", nil
	}

	return "", fmt.Errorf("no default platform for arch '%s': a platform must be supplied", a)
}

// KnownContextKeys returns the names of every arch and seL4 arch in sorted
// order.  These are the contextual overlay keys which are valid regardless of
// the document's platforms.
func KnownContextKeys() []string {
	var keys []string
	for _, a := range Arches() {
		keys = append(keys, a.String())
	}

	for _, a := range SeL4Arches() {
		keys = append(keys, a.String())
	}

	sort.Strings(keys)

	return keys
}
