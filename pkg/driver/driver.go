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
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Lifecycle step names.
const (
	StepConfigure = "configure"
	StepBuild     = "build"
	StepInstall   = "install"
)

// Driver is the build tool lifecycle used by a recipe.
type Driver interface {
	Configure(ctx context.Context, opts ConfigureOptions) error
	Build(ctx context.Context, opts BuildOptions) error
	Install(ctx context.Context, opts InstallOptions) error
}

// ConfigureOptions selects the configure preset to run from SourceDir.
type ConfigureOptions struct {
	SourceDir string
	Preset    string
}

// BuildOptions selects the build preset to run from SourceDir.
type BuildOptions struct {
	SourceDir string
	Preset    string
}

// InstallOptions describes an install of BuildDir's Configuration into Prefix.
type InstallOptions struct {
	BuildDir      string
	Configuration string
	Prefix        string
}

// Command is one external process invocation.
type Command struct {
	Path   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run implements Runner. A non-zero exit is returned as a *CommandError.
func (ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		ce := &CommandError{Command: c.String(), ExitCode: -1, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ce.ExitCode = exitErr.ExitCode()
		}
		return ce
	}
	return nil
}

// CommandError reports a failed command.
type CommandError struct {
	Command  string
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed (exit code %d): %v", e.Command, e.ExitCode, e.Err)
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}
