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
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	cmds   []Command
	output string
	err    error
}

func (r *recordingRunner) Run(_ context.Context, c Command) error {
	r.cmds = append(r.cmds, c)
	if r.output != "" && c.Stdout != nil {
		_, _ = io.WriteString(c.Stdout, r.output)
	}
	return r.err
}

func TestCMake_Commands(t *testing.T) {
	rr := &recordingRunner{}
	cm := NewCMake(WithBinary("/usr/bin/cmake"), WithRunner(rr))
	ctx := context.Background()

	require.NoError(t, cm.Configure(ctx, ConfigureOptions{SourceDir: "/src", Preset: "headerpack-default"}))
	require.NoError(t, cm.Build(ctx, BuildOptions{SourceDir: "/src", Preset: "headerpack-release"}))
	require.NoError(t, cm.Install(ctx, InstallOptions{BuildDir: "/src/build", Configuration: "Release", Prefix: "/pkg"}))

	require.Len(t, rr.cmds, 3)
	assert.Equal(t, "/usr/bin/cmake --preset headerpack-default", rr.cmds[0].String())
	assert.Equal(t, "/src", rr.cmds[0].Dir)
	assert.Equal(t, "/usr/bin/cmake --build --preset headerpack-release", rr.cmds[1].String())
	assert.Equal(t, "/src", rr.cmds[1].Dir)
	assert.Equal(t, "/usr/bin/cmake --install /src/build --config Release --prefix /pkg", rr.cmds[2].String())
}

func TestCMake_ErrorPassthrough(t *testing.T) {
	boom := errors.New("boom")
	cm := NewCMake(WithRunner(&recordingRunner{err: boom}))

	err := cm.Configure(context.Background(), ConfigureOptions{})
	assert.Same(t, boom, err)
}

func TestCMake_Version(t *testing.T) {
	rr := &recordingRunner{output: "cmake version 3.28.1\n\nCMake suite maintained and supported by Kitware (kitware.com/cmake).\n"}
	v, err := NewCMake(WithRunner(rr)).Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.28.1", v.String())
	assert.Equal(t, "cmake --version", rr.cmds[0].String())
}

func TestParseVersionOutput(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "cmake version 3.31.6", want: "3.31.6"},
		{in: "cmake version 4.0.0-rc3\n", want: "4.0.0"},
		{in: "", wantErr: true},
		{in: "ninja 1.11", wantErr: true},
		{in: "cmake version x.y", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseVersionOutput(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell")
	}
	sh := "/bin/sh"
	if _, err := os.Stat(sh); err != nil {
		t.Skip("no /bin/sh")
	}

	require.NoError(t, ExecRunner{}.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "exit 0"}}))

	err := ExecRunner{}.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "exit 3"}})
	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 3, ce.ExitCode)
	assert.Contains(t, ce.Error(), "exit code 3")
}

func TestCMake_MissingBinary(t *testing.T) {
	cm := NewCMake(WithBinary(fmt.Sprintf("headerpack-no-such-cmake-%d", os.Getpid())))
	err := cm.Configure(context.Background(), ConfigureOptions{SourceDir: t.TempDir()})
	assert.ErrorContains(t, err, "not found in PATH")
}

var _ Driver = (*CMake)(nil)
