// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/NVIDIA/headerpack/pkg/defaults"
	"github.com/NVIDIA/headerpack/pkg/version"
)

// CMake drives the cmake executable.
type CMake struct {
	binary string
	runner Runner
	stdout io.Writer
	stderr io.Writer
}

// Option configures a CMake driver.
type Option func(*CMake)

// WithBinary sets the cmake executable. A bare name is looked up on PATH
// when the first command runs.
func WithBinary(path string) Option {
	return func(c *CMake) {
		if path != "" {
			c.binary = path
		}
	}
}

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(c *CMake) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithOutput sets where the tool's stdout and stderr go.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *CMake) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// NewCMake creates a CMake driver. Output is discarded unless WithOutput is given.
func NewCMake(opts ...Option) *CMake {
	c := &CMake{
		binary: defaults.DriverBinary,
		runner: ExecRunner{},
		stdout: io.Discard,
		stderr: io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure runs "cmake --preset <preset>" from the source dir.
func (c *CMake) Configure(ctx context.Context, opts ConfigureOptions) error {
	return c.run(ctx, opts.SourceDir, c.stdout, "--preset", opts.Preset)
}

// Build runs "cmake --build --preset <preset>" from the source dir.
func (c *CMake) Build(ctx context.Context, opts BuildOptions) error {
	return c.run(ctx, opts.SourceDir, c.stdout, "--build", "--preset", opts.Preset)
}

// Install runs "cmake --install <build> --config <cfg> --prefix <prefix>".
func (c *CMake) Install(ctx context.Context, opts InstallOptions) error {
	args := []string{"--install", opts.BuildDir}
	if opts.Configuration != "" {
		args = append(args, "--config", opts.Configuration)
	}
	if opts.Prefix != "" {
		args = append(args, "--prefix", opts.Prefix)
	}
	return c.run(ctx, "", c.stdout, args...)
}

// Version runs "cmake --version" and parses the reported version.
func (c *CMake) Version(ctx context.Context) (version.Version, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.DriverLookupTimeout)
	defer cancel()

	var out bytes.Buffer
	if err := c.run(ctx, "", &out, "--version"); err != nil {
		return version.Version{}, err
	}
	return ParseVersionOutput(out.String())
}

// ParseVersionOutput extracts the version from "cmake version X.Y.Z" output.
func ParseVersionOutput(output string) (version.Version, error) {
	first, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	fields := strings.Fields(first)
	if len(fields) < 3 || fields[1] != "version" {
		return version.Version{}, fmt.Errorf("unexpected cmake version output %q", first)
	}
	return version.ParseVersion(fields[2])
}

func (c *CMake) run(ctx context.Context, dir string, stdout io.Writer, args ...string) error {
	binary, err := c.resolveBinary()
	if err != nil {
		return err
	}
	cmd := Command{
		Path:   binary,
		Args:   args,
		Dir:    dir,
		Stdout: stdout,
		Stderr: c.stderr,
	}
	slog.Debug("running build driver", "command", cmd.String(), "dir", dir)
	return c.runner.Run(ctx, cmd)
}

func (c *CMake) resolveBinary() (string, error) {
	if _, ok := c.runner.(ExecRunner); !ok {
		return c.binary, nil
	}
	path, err := exec.LookPath(c.binary)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", c.binary, err)
	}
	return path, nil
}
