// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
)

type table = map[string]interface{}

const (
	reservedDebug   = "debug"
	reservedRelease = "release"
)

// Parse converts a textual configuration document into a *Full.  Every
// failure is one of the typed errors of this package and wraps ErrImport.
func Parse(text string) (*Full, error) {
	var top table
	if _, err := toml.Decode(text, &top); err != nil {
		return nil, &TomlDeserializeError{Msg: err.Error()}
	}

	raw, ok := top["sel4"].(table)
	if !ok {
		return nil, &MissingPropertyError{Name: "sel4", ExpectedType: "table"}
	}

	sel4, err := parseSeL4(raw)
	if err != nil {
		return nil, err
	}

	full := &Full{
		SeL4:     *sel4,
		Build:    map[string]PlatformBuild{},
		Metadata: NewPropertiesTree(),
	}

	if v, ok := top["build"]; ok {
		builds, ok := v.(table)
		if !ok {
			return nil, &TypeMismatchError{Name: "build", Expected: "table", Found: typeName(v)}
		}

		for _, platform := range sortedKeys(builds) {
			plat, ok := builds[platform].(table)
			if !ok {
				return nil, &TypeMismatchError{Name: platform, Expected: "table", Found: typeName(builds[platform])}
			}

			build, err := parsePlatformBuild(plat)
			if err != nil {
				return nil, err
			}

			full.Build[platform] = *build
		}
	}

	if v, ok := top["metadata"]; ok {
		metadata, ok := v.(table)
		if !ok {
			return nil, &TypeMismatchError{Name: "metadata", Expected: "table", Found: typeName(v)}
		}

		full.Metadata, err = parsePropertiesTree(metadata)
		if err != nil {
			return nil, err
		}
	}

	return full, nil
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (*Full, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	full, err := Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return full, nil
}

func parseSeL4(raw table) (*SeL4, error) {
	var err error
	sel4 := &SeL4{
		Config: NewPropertiesTree(),
	}

	sources := map[string]*RepoSource{
		"kernel":    &sel4.Sources.Kernel,
		"tools":     &sel4.Sources.Tools,
		"util_libs": &sel4.Sources.UtilLibs,
	}

	for _, name := range []string{"kernel", "tools", "util_libs"} {
		t, err := requiredTable(raw, name)
		if err != nil {
			return nil, err
		}

		if *sources[name], err = parseRepoSource(t); err != nil {
			return nil, err
		}
	}

	if sel4.BuildDir, err = optionalString(raw, "build_dir"); err != nil {
		return nil, err
	}

	if v, ok := raw["config"]; ok {
		t, ok := v.(table)
		if !ok {
			return nil, &TypeMismatchError{Name: "config", Expected: "table", Found: typeName(v)}
		}

		if sel4.Config, err = parsePropertiesTree(t); err != nil {
			return nil, err
		}
	}

	return sel4, nil
}

func parseRepoSource(t table) (RepoSource, error) {
	path, err := optionalString(t, "path")
	if err != nil {
		return nil, err
	}

	if path != nil {
		if len(t) > 1 {
			var extra []string
			for _, k := range sortedKeys(t) {
				if k != "path" {
					extra = append(extra, k)
				}
			}

			return nil, &UnsupportedPropertiesError{ExtraKeys: extra}
		}

		return LocalPath{Path: *path}, nil
	}

	url, err := requiredString(t, "git")
	if err != nil {
		return nil, err
	}

	var targets []GitTarget
	for _, key := range []string{"branch", "tag", "rev"} {
		value, err := optionalString(t, key)
		if err != nil {
			return nil, err
		}

		if value == nil {
			continue
		}

		switch key {
		case "branch":
			targets = append(targets, Branch(*value))
		case "tag":
			targets = append(targets, Tag(*value))
		case "rev":
			targets = append(targets, Rev(*value))
		}
	}

	if len(targets) != 1 {
		return nil, &MissingPropertyError{Name: "branch or tag or rev", ExpectedType: "string"}
	}

	return RemoteGit{URL: url, Target: targets[0]}, nil
}

func parsePlatformBuild(t table) (*PlatformBuild, error) {
	var err error
	build := &PlatformBuild{}

	if build.CrossCompilerPrefix, err = optionalString(t, "cross_compiler_prefix"); err != nil {
		return nil, err
	}

	if build.ToolchainDir, err = optionalString(t, "toolchain_dir"); err != nil {
		return nil, err
	}

	if build.Debug, err = parseBuildProfile(t, reservedDebug); err != nil {
		return nil, err
	}

	if build.Release, err = parseBuildProfile(t, reservedRelease); err != nil {
		return nil, err
	}

	return build, nil
}

func parseBuildProfile(parent table, name string) (*PlatformBuildProfile, error) {
	v, ok := parent[name]
	if !ok {
		return nil, nil
	}

	t, ok := v.(table)
	if !ok {
		return nil, &TypeMismatchError{Name: name, Expected: "table", Found: typeName(v)}
	}

	makeRootTask, err := optionalString(t, "make_root_task")
	if err != nil {
		return nil, err
	}

	image, err := requiredString(t, "root_task_image")
	if err != nil {
		return nil, err
	}

	return &PlatformBuildProfile{
		MakeRootTask:  makeRootTask,
		RootTaskImage: image,
	}, nil
}

// parsePropertiesTree buckets a flat table: the reserved "debug" and
// "release" keys become the profile layers, any other table becomes a
// contextual overlay and everything else must be a single value.
func parsePropertiesTree(t table) (PropertiesTree, error) {
	tree := NewPropertiesTree()

	for _, k := range sortedKeys(t) {
		v := t[k]

		switch {
		case k == reservedDebug || k == reservedRelease:
			sub, ok := v.(table)
			if !ok {
				return tree, &TypeMismatchError{Name: k, Expected: "table", Found: typeName(v)}
			}

			props, err := singles(sub)
			if err != nil {
				return tree, err
			}

			if k == reservedDebug {
				tree.Debug = props
			} else {
				tree.Release = props
			}

		default:
			if sub, ok := v.(table); ok {
				props, err := singles(sub)
				if err != nil {
					return tree, err
				}

				tree.Contextual[k] = props
				continue
			}

			sv, err := SingleValueOf(v)
			if err != nil {
				return tree, &TypeMismatchError{
					Name:     k,
					Expected: "any toml type except float, array, or datetime",
					Found:    typeName(v),
					Cause:    err,
				}
			}

			tree.Shared[k] = sv
		}
	}

	return tree, nil
}

func singles(t table) (Properties, error) {
	props := Properties{}

	for _, k := range sortedKeys(t) {
		sv, err := SingleValueOf(t[k])
		if err != nil {
			return nil, &TypeMismatchError{
				Name:     k,
				Expected: "a single string, integer, or boolean",
				Found:    typeName(t[k]),
				Cause:    err,
			}
		}

		props[k] = sv
	}

	return props, nil
}

func requiredTable(parent table, key string) (table, error) {
	v, ok := parent[key]
	if !ok {
		return nil, &MissingPropertyError{Name: key, ExpectedType: "table"}
	}

	t, ok := v.(table)
	if !ok {
		return nil, &TypeMismatchError{Name: key, Expected: "table", Found: typeName(v)}
	}

	return t, nil
}

func optionalString(parent table, key string) (*string, error) {
	v, ok := parent[key]
	if !ok {
		return nil, nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, &TypeMismatchError{Name: key, Expected: "string", Found: typeName(v)}
	}

	return &s, nil
}

func requiredString(parent table, key string) (string, error) {
	s, err := optionalString(parent, key)
	if err != nil {
		return "", err
	}

	if s == nil {
		return "", &MissingPropertyError{Name: key, ExpectedType: "string"}
	}

	return *s, nil
}

func sortedKeys(t table) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// typeName returns the TOML name of a decoded value's type.
func typeName(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case int64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case time.Time:
		return "datetime"
	case []interface{}, []map[string]interface{}:
		return "array"
	case table:
		return "table"
	}

	return fmt.Sprintf("%T", v)
}
