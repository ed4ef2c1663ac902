// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"selfe.sh/sel4/config"
	"selfe.sh/sel4/contextual"
)

// keyMaterial is everything a build directory's content depends on.
type keyMaterial struct {
	Config   resolvedConfig `cbor:"1,keyasint"`
	Options  [][2]string    `cbor:"2,keyasint"`
	Env      [][2]string    `cbor:"3,keyasint"`
	Template string         `cbor:"4,keyasint"`
}

// resolvedConfig is the encodable form of a contextual.Contextualized.
type resolvedConfig struct {
	Arch                string                 `cbor:"1,keyasint"`
	SeL4Arch            string                 `cbor:"2,keyasint"`
	Platform            string                 `cbor:"3,keyasint"`
	Profile             string                 `cbor:"4,keyasint"`
	BaseDir             string                 `cbor:"5,keyasint"`
	Sources             [3]source              `cbor:"6,keyasint"`
	BuildDir            *string                `cbor:"7,keyasint"`
	SeL4Config          map[string]interface{} `cbor:"8,keyasint"`
	Metadata            map[string]interface{} `cbor:"9,keyasint"`
	CrossCompilerPrefix *string                `cbor:"10,keyasint"`
	ToolchainDir        *string                `cbor:"11,keyasint"`
	RootTask            *rootTask              `cbor:"12,keyasint"`
}

type source struct {
	Path   string `cbor:"1,keyasint,omitempty"`
	URL    string `cbor:"2,keyasint,omitempty"`
	Kind   string `cbor:"3,keyasint,omitempty"`
	Target string `cbor:"4,keyasint,omitempty"`
}

type rootTask struct {
	MakeCommand *string `cbor:"1,keyasint"`
	ImagePath   string  `cbor:"2,keyasint"`
}

var keyEncoding cbor.EncMode

func init() {
	var err error
	if keyEncoding, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Sprintf("invalid cache key encoding: %v", err))
	}
}

func sourceOf(rs config.RepoSource) source {
	switch s := rs.(type) {
	case config.LocalPath:
		return source{Path: s.Path}
	case config.RemoteGit:
		return source{URL: s.URL, Kind: s.Target.Kind(), Target: s.Target.Value()}
	default:
		return source{}
	}
}

func snapshot(c *contextual.Contextualized) resolvedConfig {
	rc := resolvedConfig{
		Arch:     c.Context.Arch.String(),
		SeL4Arch: c.Context.SeL4Arch.String(),
		Platform: c.Context.Platform.String(),
		Profile:  c.Context.Profile(),
		BaseDir:  c.Context.BaseDir,
		Sources: [3]source{
			sourceOf(c.Sources.Kernel),
			sourceOf(c.Sources.Tools),
			sourceOf(c.Sources.UtilLibs),
		},
		BuildDir:            c.BuildDir,
		SeL4Config:          c.SeL4Config.Native(),
		Metadata:            c.Metadata.Native(),
		CrossCompilerPrefix: c.Build.CrossCompilerPrefix,
		ToolchainDir:        c.Build.ToolchainDir,
	}

	if rt := c.Build.RootTask; rt != nil {
		rc.RootTask = &rootTask{
			MakeCommand: rt.MakeCommand,
			ImagePath:   rt.ImagePath,
		}
	}

	return rc
}

func sortedPairs(m map[string]string) [][2]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, m[k]})
	}

	return pairs
}

// CacheKey identifies a build: the BLAKE3 digest of the deterministic CBOR
// encoding of the whole resolved configuration, the cmake options, the
// environment handed to the build tools and the rendered build description,
// as lowercase hex.  Structurally equal inputs always produce the same key.
func CacheKey(c *contextual.Contextualized, options, env map[string]string, template string) (string, error) {
	b, err := keyEncoding.Marshal(keyMaterial{
		Config:   snapshot(c),
		Options:  sortedPairs(options),
		Env:      sortedPairs(env),
		Template: template,
	})
	if err != nil {
		return "", fmt.Errorf("could not encode cache key: %w", err)
	}

	sum := blake3.Sum256(b)

	return hex.EncodeToString(sum[:]), nil
}
