// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package project locates and resolves the sel4.toml which selfe commands
// act upon.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"selfe.sh/config"
	"selfe.sh/log"
	"selfe.sh/sel4/arch"
	sel4config "selfe.sh/sel4/config"
	"selfe.sh/sel4/contextual"
	"selfe.sh/sel4/source"
)

const (
	// DefaultConfigFileName is looked for in the working directory and each
	// of its parents.
	DefaultConfigFileName = "sel4.toml"

	// EnvConfigPath names a document to use when none is found by walking
	// up the tree.
	EnvConfigPath = "SEL4_CONFIG_PATH"
)

// Params selects the document and the context it is resolved in.  Embed it in
// a command's options to expose the flags.
type Params struct {
	ConfigPath string `long:"config" short:"c" usage:"Path to the sel4.toml, found by walking up from the working directory by default"`
	SeL4Arch   string `long:"sel4-arch" short:"a" env:"SEL4_OVERRIDE_SEL4_ARCH" usage:"seL4 architecture, like x86_64 or aarch32 (default: derived from --target, else the host's)"`
	Target     string `long:"target" env:"CARGO_CFG_TARGET_ARCH" usage:"Architecture of the compiler target, like armv7 or riscv64gc, to derive the seL4 architecture from"`
	Arch       string `long:"arch" env:"SEL4_OVERRIDE_ARCH" usage:"Explicitly set the arch (arm, x86 or riscv), derived from the seL4 architecture by default"`
	Platform   string `long:"platform" short:"p" env:"SEL4_PLATFORM" usage:"seL4 platform, like pc99 or sabre (default: the arch's default platform)"`
	Release    bool   `long:"release" usage:"Use the release profile instead of debug"`
	Strict     bool   `long:"strict" usage:"Reject contextual keys which name no arch, sel4 arch or platform"`
}

// Project is a resolved document.
type Project struct {
	// ConfigPath is empty when the built-in default document is in use.
	ConfigPath string

	// Dir holds the document, or is the working directory for the default.
	Dir string

	Full     *sel4config.Full
	Resolved *contextual.Contextualized
}

// Locate returns the path of the document to use: the explicit path, else
// the nearest sel4.toml up from dir, else $SEL4_CONFIG_PATH.  An empty result
// selects the built-in default.
func (p *Params) Locate(dir string) (string, error) {
	if p.ConfigPath != "" {
		return filepath.Abs(p.ConfigPath)
	}

	if found, ok := FindConfig(dir); ok {
		return found, nil
	}

	if env := os.Getenv(EnvConfigPath); env != "" {
		return filepath.Abs(env)
	}

	return "", nil
}

// FindConfig walks up from dir looking for a sel4.toml.
func FindConfig(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, DefaultConfigFileName)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}

		dir = parent
	}
}

// Context builds the resolution context for a document in baseDir.
func (p *Params) Context(baseDir string) (contextual.Context, error) {
	var (
		sel4Arch arch.SeL4Arch
		err      error
	)

	switch {
	case p.SeL4Arch != "":
		sel4Arch, err = arch.ParseSeL4Arch(p.SeL4Arch)
	case p.Target != "":
		sel4Arch, err = arch.SeL4ArchFromTargetArch(p.Target)
	default:
		sel4Arch, err = arch.HostSeL4Arch()
	}
	if err != nil {
		return contextual.Context{}, err
	}

	var a arch.Arch
	if p.Arch != "" {
		if a, err = arch.ParseArch(p.Arch); err != nil {
			return contextual.Context{}, err
		}
	}

	platform := arch.Platform(p.Platform)
	if platform == "" && a != "" {
		if platform, err = arch.DefaultPlatform(a); err != nil {
			return contextual.Context{}, err
		}
	}

	ctx, err := contextual.NewContext(sel4Arch, platform, !p.Release, baseDir)
	if err != nil {
		return contextual.Context{}, err
	}

	if a != "" {
		ctx.Arch = a
	}

	return ctx, nil
}

// Load locates, parses and resolves the document, starting the search in
// workdir.
func (p *Params) Load(ctx context.Context, workdir string) (*Project, error) {
	path, err := p.Locate(workdir)
	if err != nil {
		return nil, err
	}

	project := &Project{
		ConfigPath: path,
		Dir:        workdir,
	}

	if path == "" {
		log.G(ctx).Infof("no %s found, using the default configuration", DefaultConfigFileName)
		project.Full = sel4config.Default()
	} else {
		log.G(ctx).WithField("config", path).Debug("using configuration")
		project.Dir = filepath.Dir(path)

		if project.Full, err = sel4config.ParseFile(path); err != nil {
			return nil, err
		}
	}

	rctx, err := p.Context(project.Dir)
	if err != nil {
		return nil, err
	}

	var ropts []contextual.ResolveOption
	if p.Strict {
		ropts = append(ropts, contextual.WithStrictContextualKeys())
	}

	if project.Resolved, err = contextual.Resolve(project.Full, rctx, ropts...); err != nil {
		return nil, err
	}

	for _, key := range project.Resolved.UnknownContextualKeys {
		log.G(ctx).WithField("key", key).Warn("contextual key names no known arch, sel4 arch or platform")
	}

	return project, nil
}

// SourceDirName is the directory below OutDir holding remote checkouts.
const SourceDirName = "sel4_source"

// OutDir is where sources are fetched and builds are kept.
func (p *Project) OutDir() string {
	return filepath.Join(p.Dir, "target", "sel4")
}

// SourceDir holds checkouts of remote sources.  Builds are cached next to it
// in OutDir.
func (p *Project) SourceDir() string {
	return filepath.Join(p.OutDir(), SourceDirName)
}

// ConfigPathOrDefault names the document for the root task command, which
// may resolve it again.
func (p *Project) ConfigPathOrDefault() string {
	if p.ConfigPath != "" {
		return p.ConfigPath
	}

	return filepath.Join(p.Dir, DefaultConfigFileName)
}

// Fetcher returns the git client selected by the tool configuration.
func Fetcher(ctx context.Context) (source.Fetcher, error) {
	cfg := config.G(ctx)

	switch cfg.Git.Client {
	case config.GitClientGoGit:
		return source.NewGoGitFetcher(os.Stderr), nil
	case config.GitClientCLI, "":
		return source.NewGitCLIFetcher(source.WithGitBin(cfg.Git.Bin)), nil
	default:
		return nil, fmt.Errorf("unknown git client: %s", cfg.Git.Client)
	}
}

// Sources resolves the project's sources below SourceDir.
func (p *Project) Sources(ctx context.Context) (*source.ResolvedPaths, error) {
	fetcher, err := Fetcher(ctx)
	if err != nil {
		return nil, err
	}

	return source.Resolve(ctx, p.Resolved.Sources, p.SourceDir(), source.WithFetcher(fetcher))
}
