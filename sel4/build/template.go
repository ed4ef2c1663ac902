// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tmpl
var templates embed.FS

type templateData struct {
	Project        string
	MinimumVersion string
	Languages      []string
	Environment    map[string]string
}

var templateFiles = map[Mode]string{
	ModeLib:    "templates/CMakeLists_lib.txt.tmpl",
	ModeKernel: "templates/CMakeLists_kernel.txt.tmpl",
}

// Template renders the CMakeLists.txt used for a build in the given mode.
// The output depends only on the mode.
func Template(mode Mode) (string, error) {
	name, ok := templateFiles[mode]
	if !ok {
		return "", fmt.Errorf("no build description for mode '%s'", mode)
	}

	raw, err := templates.ReadFile(name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("could not parse build description: %w", err)
	}

	data := templateData{
		Project:        "selfe_sel4_" + mode.String(),
		MinimumVersion: "3.7.2",
		Languages:      []string{"C", "ASM"},
		Environment: map[string]string{
			EnvToolsDir: "Path to the seL4_tools checkout",
		},
	}

	if mode == ModeKernel {
		data.Environment[EnvRootTaskPath] = "Path to the root task image"
		data.Environment[EnvUtilLibsSourcePath] = "Path to the util_libs checkout"
		data.Environment[EnvUtilLibsBinPath] = "Build directory for util_libs"
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("could not render build description: %w", err)
	}

	return out.String(), nil
}
