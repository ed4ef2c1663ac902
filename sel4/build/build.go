// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"selfe.sh/cmake"
	"selfe.sh/exec"
	"selfe.sh/internal/errs"
	"selfe.sh/internal/lockedfile"
	"selfe.sh/log"
	"selfe.sh/ninja"
	"selfe.sh/sel4/arch"
	"selfe.sh/sel4/contextual"
)

// Environment variables read by the generated build description.
const (
	EnvToolsDir           = "SEL4_TOOLS_DIR"
	EnvRootTaskPath       = "ROOT_TASK_PATH"
	EnvUtilLibsSourcePath = "UTIL_LIBS_SOURCE_PATH"
	EnvUtilLibsBinPath    = "UTIL_LIBS_BIN_PATH"
)

const (
	// CacheDirName is the directory below the output directory holding one
	// build directory per cache key.
	CacheDirName = "sel4-build"

	// CompleteMarker is written into a build directory once both the
	// configure and build steps have succeeded.
	CompleteMarker = ".selfe-build-complete"
)

// BuildOptions tune Build.
type BuildOptions struct {
	cmakeBin   string
	ninjaBin   string
	generator  string
	jobs       int
	noLock     bool
	runner     exec.Runner
	stdout     io.Writer
	stderr     io.Writer
	onProgress func(current, total int)
}

// BuildOption is a functional option for Build.
type BuildOption func(*BuildOptions) error

// WithCMakeBin sets the cmake executable.
func WithCMakeBin(bin string) BuildOption {
	return func(bo *BuildOptions) error {
		bo.cmakeBin = bin
		return nil
	}
}

// WithNinjaBin sets the ninja executable.
func WithNinjaBin(bin string) BuildOption {
	return func(bo *BuildOptions) error {
		bo.ninjaBin = bin
		return nil
	}
}

// WithGenerator sets the cmake generator.  It must produce a build.ninja.
func WithGenerator(generator string) BuildOption {
	return func(bo *BuildOptions) error {
		bo.generator = generator
		return nil
	}
}

// WithJobs sets the number of parallel ninja jobs.  Zero leaves the choice to
// ninja.
func WithJobs(jobs int) BuildOption {
	return func(bo *BuildOptions) error {
		if jobs < 0 {
			return fmt.Errorf("number of jobs cannot be negative: %d", jobs)
		}

		bo.jobs = jobs
		return nil
	}
}

// WithoutLock disables the advisory lock around a build directory.
func WithoutLock() BuildOption {
	return func(bo *BuildOptions) error {
		bo.noLock = true
		return nil
	}
}

// WithRunner replaces the process runner used for cmake and ninja.
func WithRunner(runner exec.Runner) BuildOption {
	return func(bo *BuildOptions) error {
		if runner == nil {
			return fmt.Errorf("cannot use nil runner")
		}

		bo.runner = runner
		return nil
	}
}

// WithOutput sets where the output of the build tools is written.
func WithOutput(stdout, stderr io.Writer) BuildOption {
	return func(bo *BuildOptions) error {
		bo.stdout = stdout
		bo.stderr = stderr
		return nil
	}
}

// WithProgressFunc registers a callback for ninja's progress.
func WithProgressFunc(onProgress func(current, total int)) BuildOption {
	return func(bo *BuildOptions) error {
		bo.onProgress = onProgress
		return nil
	}
}

// Build configures and compiles seL4 for the resolved configuration c, using
// the given source trees, below outDir.
//
// A build directory supplied by the configuration short-circuits library
// builds and is rejected for kernel builds.  Otherwise the build directory
// is <outDir>/sel4-build/<key>, where key is derived from everything the
// build depends on; a directory carrying the completion marker is reused as
// is.  Concurrent builds of the same key are serialized with a lock file.
func Build(ctx context.Context, outDir, kernelDir, toolsDir, utilLibsDir string, c *contextual.Contextualized, mode Mode, bopts ...BuildOption) (Outcome, error) {
	opts := BuildOptions{
		cmakeBin: cmake.DefaultBinaryName,
		ninjaBin: ninja.DefaultBinaryName,
		runner:   exec.Run,
		stdout:   os.Stderr,
		stderr:   os.Stderr,
	}

	for _, o := range bopts {
		if err := o(&opts); err != nil {
			return nil, fmt.Errorf("could not apply option: %v", err)
		}
	}

	if c.BuildDir != nil {
		if mode == ModeLib {
			log.Step(ctx, "build").
				WithField("dir", *c.BuildDir).
				Info("using pre-supplied build directory")
			return StaticLib{BuildDir: *c.BuildDir}, nil
		}

		return nil, fmt.Errorf("%w: %s", errs.ErrBuildDirOverride, *c.BuildDir)
	}

	var artifacts *kernelArtifacts
	if mode == ModeKernel {
		var err error
		if artifacts, err = validateKernel(c); err != nil {
			return nil, err
		}
	}

	vars := Options(kernelDir, c, mode)

	description, err := Template(mode)
	if err != nil {
		return nil, err
	}

	env := map[string]string{
		EnvToolsDir: toolsDir,
	}

	if mode == ModeKernel {
		env[EnvRootTaskPath] = c.Build.RootTask.ImagePath
		env[EnvUtilLibsSourcePath] = utilLibsDir
	}

	// The util_libs output lives under the build directory and so follows
	// from the key.
	key, err := CacheKey(c, vars, env, description)
	if err != nil {
		return nil, err
	}

	cacheDir := filepath.Join(outDir, CacheDirName)
	buildDir := filepath.Join(cacheDir, key)

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create build cache: %w", err)
	}

	entry := log.Step(ctx, "build").
		WithField("mode", mode).
		WithField("dir", buildDir)

	if !opts.noLock {
		unlock, err := acquire(ctx, filepath.Join(cacheDir, key+".lock"))
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	outcome := Outcome(StaticLib{BuildDir: buildDir})
	if artifacts != nil {
		outcome = artifacts.outcome(buildDir)
	}

	if fi, err := os.Stat(buildDir); err == nil && !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s already exists and is not a directory", errs.ErrMisconfigured, buildDir)
	}

	if _, err := os.Stat(filepath.Join(buildDir, CompleteMarker)); err == nil {
		entry.Info("reusing cached build")
		return outcome, nil
	}

	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create build directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(buildDir, "CMakeLists.txt"), []byte(description), 0o644); err != nil {
		return nil, fmt.Errorf("could not write build description: %w", err)
	}

	if mode == ModeKernel {
		utilLibsBinDir := filepath.Join(buildDir, "util_libs")
		if err := os.MkdirAll(utilLibsBinDir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create util_libs build directory: %w", err)
		}

		env[EnvUtilLibsBinPath] = utilLibsBinDir

		entry.WithField(EnvRootTaskPath, c.Build.RootTask.ImagePath).Debug("using root task")
	}

	eopts := []exec.ExecOption{
		exec.WithDir(buildDir),
		exec.WithEnv(env),
		exec.WithStdout(opts.stdout),
		exec.WithStderr(opts.stderr),
	}

	configure, err := cmake.New(
		cmake.WithBinPath(opts.cmakeBin),
		cmake.WithGenerator(opts.generator),
		cmake.WithVars(vars),
		cmake.WithExecOptions(eopts...),
	)
	if err != nil {
		return nil, err
	}

	compile, err := ninja.New(
		ninja.WithBinPath(opts.ninjaBin),
		ninja.WithJobs(opts.jobs),
		ninja.WithTarget(mode.ninjaTarget()),
		ninja.WithStdout(opts.stdout),
		ninja.WithProgressFunc(opts.onProgress),
		ninja.WithExecOptions(
			exec.WithDir(buildDir),
			exec.WithStderr(opts.stderr),
		),
	)
	if err != nil {
		return nil, err
	}

	entry.Info("configuring")

	if err := opts.runner(ctx, configure.Process()); err != nil {
		return nil, fmt.Errorf("%w: cmake: %v", errs.ErrBuildTool, err)
	}

	entry.WithField("target", mode.ninjaTarget()).Info("compiling")

	if err := opts.runner(ctx, compile.Process()); err != nil {
		return nil, fmt.Errorf("%w: ninja: %v", errs.ErrBuildTool, err)
	}

	if err := os.WriteFile(filepath.Join(buildDir, CompleteMarker), []byte(key+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("could not mark build as complete: %w", err)
	}

	return outcome, nil
}

// acquire takes the lock at path, logging when another build holds it.
func acquire(ctx context.Context, path string) (func(), error) {
	mu := lockedfile.MutexAt(path)

	unlock, err := mu.TryLock()
	if err == nil {
		return unlock, nil
	} else if !errors.Is(err, lockedfile.ErrWouldBlock) {
		return nil, fmt.Errorf("could not lock build directory: %w", err)
	}

	log.Step(ctx, "build").
		WithField("lock", path).
		Info("waiting for a concurrent build of the same configuration")

	unlock, err = mu.Lock()
	if err != nil {
		return nil, fmt.Errorf("could not lock build directory: %w", err)
	}

	return unlock, nil
}

// kernelArtifacts holds what is needed to name a kernel build's images.
type kernelArtifacts struct {
	arch     arch.Arch
	sel4Arch string
	platform string
}

// validateKernel checks that c carries everything a kernel build needs
// before any work is done.
func validateKernel(c *contextual.Contextualized) (*kernelArtifacts, error) {
	if c.Build.RootTask == nil {
		return nil, fmt.Errorf("%w: a root_task_image is required for a kernel build: add one to [build.%s.%s]",
			errs.ErrMisconfigured, c.Context.Platform, c.Context.Profile())
	}

	sel4Arch, ok := c.SeL4Config["KernelSel4Arch"]
	if !ok {
		return nil, fmt.Errorf("%w: KernelSel4Arch missing but required as a sel4 config option", errs.ErrMisconfigured)
	}

	if _, ok := c.SeL4Config["KernelPlatform"]; ok {
		return nil, fmt.Errorf("%w: explicitly supplying a KernelPlatform property interferes with the inner workings of the seL4 cmake build", errs.ErrMisconfigured)
	}

	for _, key := range []string{"KernelX86Platform", "KernelARMPlatform", "KernelRiscVPlatform"} {
		if platform, ok := c.SeL4Config[key]; ok {
			return &kernelArtifacts{
				arch:     c.Context.Arch,
				sel4Arch: sel4Arch.String(),
				platform: platform.String(),
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: KernelX86Platform, KernelARMPlatform or KernelRiscVPlatform missing but required as a sel4 config option", errs.ErrMisconfigured)
}

// outcome derives the image paths of a kernel build.  Only x86 produces a
// separate kernel image; elsewhere the kernel is bundled with the root task.
func (ka *kernelArtifacts) outcome(buildDir string) Kernel {
	images := filepath.Join(buildDir, "images")

	switch ka.arch {
	case arch.ArchX86:
		return Kernel{
			BuildDir:      buildDir,
			KernelPath:    filepath.Join(images, fmt.Sprintf("kernel-%s-%s", ka.sel4Arch, ka.platform)),
			RootImagePath: filepath.Join(images, fmt.Sprintf("root_task-image-%s-%s", ka.sel4Arch, ka.platform)),
		}
	default:
		return Kernel{
			BuildDir:   buildDir,
			KernelPath: filepath.Join(images, fmt.Sprintf("root_task-image-%s-%s", ka.arch, ka.platform)),
		}
	}
}
