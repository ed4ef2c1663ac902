// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package arch

import (
	"fmt"
	"runtime"
)

// HostSeL4Arch returns the seL4 architecture matching the host or an error if
// seL4 does not support it.
func HostSeL4Arch() (SeL4Arch, error) {
	return SeL4ArchFromGoArch(runtime.GOARCH)
}

// SeL4ArchFromGoArch maps a GOARCH value onto a seL4 architecture.
func SeL4ArchFromGoArch(goarch string) (SeL4Arch, error) {
	switch goarch {
	case "amd64":
		return SeL4ArchX86_64, nil
	case "386":
		return SeL4ArchIA32, nil
	case "arm":
		return SeL4ArchAarch32, nil
	case "arm64":
		return SeL4ArchAarch64, nil
	case "riscv64":
		return SeL4ArchRiscV64, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
}

// targetArchs maps the architecture component of a compiler target triple
// onto the seL4 architecture it runs on.  Architectures seL4 cannot host,
// like armv5te or wasm32, are absent.
var targetArchs = map[string]SeL4Arch{
	"aarch64":       SeL4ArchAarch64,
	"thumbv8m.main": SeL4ArchAarch64,

	"arm":         SeL4ArchAarch32,
	"armebv7r":    SeL4ArchAarch32,
	"armv7":       SeL4ArchAarch32,
	"armv7r":      SeL4ArchAarch32,
	"armv7s":      SeL4ArchAarch32,
	"thumbv6m":    SeL4ArchAarch32,
	"thumbv7em":   SeL4ArchAarch32,
	"thumbv7m":    SeL4ArchAarch32,
	"thumbv7neon": SeL4ArchAarch32,

	"i386": SeL4ArchIA32,
	"i586": SeL4ArchIA32,
	"i686": SeL4ArchIA32,

	"x86_64": SeL4ArchX86_64,

	"riscv32imac": SeL4ArchRiscV32,
	"riscv32imc":  SeL4ArchRiscV32,
	"riscv64gc":   SeL4ArchRiscV64,
	"riscv64imac": SeL4ArchRiscV64,
}

// SeL4ArchFromTargetArch maps the architecture component of a compiler target
// triple (e.g. "armv7" from "armv7-unknown-linux-gnueabihf") onto a seL4
// architecture.
func SeL4ArchFromTargetArch(target string) (SeL4Arch, error) {
	if a, ok := targetArchs[target]; ok {
		return a, nil
	}

	return "", fmt.Errorf("unrecognized target arch '%s'", target)
}
