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

package generator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/headerpack/pkg/defaults"
	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
	"github.com/NVIDIA/headerpack/pkg/layout"
	"github.com/NVIDIA/headerpack/pkg/requirement"
	"github.com/NVIDIA/headerpack/pkg/settings"
)

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	l := layout.CMake(t.TempDir(), settings.Settings{BuildType: "Release"}, true)
	require.NoError(t, PrepareDir(l.GeneratorsDir))
	return l
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestDepsGenerator(t *testing.T) {
	l := testLayout(t)
	deps := []requirement.Resolved{
		{
			Requirement: requirement.Production(),
			Version:     "1.81.0",
			RootDir:     "/opt/boost",
			IncludeDirs: []string{"include"},
		},
		{
			Requirement: requirement.TestOnly(),
			Version:     "1.14.0",
			IncludeDirs: []string{"include"},
		},
	}

	res := NewResult()
	files, err := DepsGenerator{}.Generate(context.Background(), l.GeneratorsDir, deps, res)
	require.NoError(t, err)

	want := []string{
		filepath.Join(l.GeneratorsDir, "boost-config.cmake"),
		filepath.Join(l.GeneratorsDir, "boost-config-version.cmake"),
		filepath.Join(l.GeneratorsDir, "gtest-config.cmake"),
		filepath.Join(l.GeneratorsDir, "gtest-config-version.cmake"),
	}
	assert.Equal(t, want, files)
	assert.Equal(t, want, res.Files)
	assert.Positive(t, res.Size)

	config := readFile(t, files[0])
	assert.Contains(t, config, `set(boost_VERSION "1.81.0")`)
	assert.Contains(t, config, `set(boost_INCLUDE_DIRS "/opt/boost/include")`)
	assert.Contains(t, config, "add_library(boost::boost INTERFACE IMPORTED)")
	assert.Contains(t, config, `INTERFACE_INCLUDE_DIRECTORIES "${boost_INCLUDE_DIRS}"`)

	ver := readFile(t, files[3])
	assert.Contains(t, ver, `set(PACKAGE_VERSION "1.14.0")`)
	assert.Contains(t, ver, `if("1" STREQUAL PACKAGE_FIND_VERSION_MAJOR)`)

	assert.Contains(t, readFile(t, files[2]), `set(gtest_INCLUDE_DIRS "include")`)
}

func TestDepsGenerator_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := DepsGenerator{}.Generate(context.Background(), dir, nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationIO))
}

func TestToolchain_Generate(t *testing.T) {
	l := testLayout(t)
	s := settings.Settings{OS: "Linux", Compiler: "gcc", BuildType: "Debug", Arch: "x86_64"}
	tc := Toolchain{
		Generator: defaults.Generator,
		CacheVariables: map[string]string{
			"CMAKE_TOOLCHAIN_FILE": "tc.cmake",
			"CMAKE_INSTALL_PREFIX": defaults.InstallPrefix,
		},
	}

	res := NewResult()
	files, err := tc.Generate(context.Background(), l, s, res)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(l.GeneratorsDir, defaults.ToolchainFileName), files.ToolchainFile)
	assert.Equal(t, filepath.Join(l.GeneratorsDir, defaults.PresetsFileName), files.PresetsFile)
	assert.Empty(t, files.UserPresetsFile)
	assert.Len(t, res.Files, 2)

	toolchain := readFile(t, files.ToolchainFile)
	assert.Contains(t, toolchain, `set(HEADERPACK_SETTINGS_OS "Linux")`)
	assert.Contains(t, toolchain, `set(HEADERPACK_SETTINGS_BUILD_TYPE "Debug")`)
	assert.Contains(t, toolchain, `list(PREPEND CMAKE_PREFIX_PATH "`+filepath.ToSlash(l.GeneratorsDir)+`")`)
	assert.NotContains(t, toolchain, "CMAKE_BUILD_TYPE \"Debug\" CACHE", "multi-config must not pin a build type")

	var p Presets
	require.NoError(t, json.Unmarshal([]byte(readFile(t, files.PresetsFile)), &p))
	assert.Equal(t, PresetsSchemaVersion, p.Version)
	require.Len(t, p.ConfigurePresets, 1)
	cp := p.ConfigurePresets[0]
	assert.Equal(t, "headerpack-default", cp.Name)
	assert.Equal(t, "Ninja Multi-Config", cp.Generator)
	assert.Equal(t, "${sourceDir}/install", cp.CacheVariables["CMAKE_INSTALL_PREFIX"])
	assert.Equal(t, "tc.cmake", cp.CacheVariables["CMAKE_TOOLCHAIN_FILE"])
	assert.NotContains(t, cp.CacheVariables, "CMAKE_BUILD_TYPE")
	require.Len(t, p.BuildPresets, 1)
	assert.Equal(t, "headerpack-debug", p.BuildPresets[0].Name)
	assert.Equal(t, "Debug", p.BuildPresets[0].Configuration)

	_, err = os.Stat(filepath.Join(l.SourceDir, defaults.UserPresetsFileName))
	assert.True(t, os.IsNotExist(err), "user presets must be suppressed")
}

func TestToolchain_SingleConfig(t *testing.T) {
	l := testLayout(t)
	files, err := Toolchain{Generator: "Ninja"}.Generate(context.Background(), l, settings.Settings{}, nil)
	require.NoError(t, err)

	assert.Contains(t, readFile(t, files.ToolchainFile), `set(CMAKE_BUILD_TYPE "Release" CACHE STRING "Build type" FORCE)`)

	var p Presets
	require.NoError(t, json.Unmarshal([]byte(readFile(t, files.PresetsFile)), &p))
	assert.Equal(t, "Release", p.ConfigurePresets[0].CacheVariables["CMAKE_BUILD_TYPE"])
}

func TestToolchain_UserPresets(t *testing.T) {
	l := testLayout(t)
	userPath := filepath.Join(l.SourceDir, defaults.UserPresetsFileName)

	files, err := Toolchain{UserPresetsPath: userPath}.Generate(context.Background(), l, settings.Settings{}, nil)
	require.NoError(t, err)
	assert.Equal(t, userPath, files.UserPresetsFile)

	var p Presets
	require.NoError(t, json.Unmarshal([]byte(readFile(t, userPath)), &p))
	assert.Equal(t, UserPresetsSchemaVersion, p.Version)
	assert.Equal(t, []string{"build/generators/CMakePresets.json"}, p.Include)
}

func TestToolchain_MissingGeneratorsDir(t *testing.T) {
	l := layout.CMake(t.TempDir(), settings.Settings{}, true)
	_, err := Toolchain{}.Generate(context.Background(), l, settings.Settings{}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationIO))
}

func TestCMakeQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "gcc", want: "gcc"},
		{in: `C:\tools`, want: `C:\\tools`},
		{in: `say "hi"`, want: `say \"hi\"`},
		{in: "${HOME}", want: `\${HOME}`},
		{in: "a;b", want: `a\;b`},
		{in: "a\nb\tc\r", want: `a\nb\tc\r`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cmakeQuote(tt.in))
		})
	}
}

func TestToolchain_SettingsCannotBreakOutOfQuotes(t *testing.T) {
	l := testLayout(t)
	s := settings.Settings{
		OS:       "Linux",
		Compiler: "gcc\")\nmessage(FATAL_ERROR \"injected\")\n#",
		Arch:     "${ENV{PATH}}",
	}

	files, err := Toolchain{}.Generate(context.Background(), l, s, nil)
	require.NoError(t, err)

	toolchain := readFile(t, files.ToolchainFile)
	assert.Contains(t, toolchain, `set(HEADERPACK_SETTINGS_COMPILER "gcc\")\nmessage(FATAL_ERROR \"injected\")\n#")`)
	assert.Contains(t, toolchain, `set(HEADERPACK_SETTINGS_ARCH "\${ENV{PATH}}")`)
	for _, line := range strings.Split(toolchain, "\n") {
		assert.False(t, strings.HasPrefix(strings.TrimSpace(line), "message(FATAL_ERROR"),
			"settings value escaped its string literal: %q", line)
	}
}

func TestDepsGenerator_EscapesValues(t *testing.T) {
	l := testLayout(t)
	deps := []requirement.Resolved{{
		Requirement: requirement.Production(),
		Version:     "1.81.0",
		IncludeDirs: []string{`/opt/my "boost"/include`, "/opt/$x;y"},
	}}

	files, err := DepsGenerator{}.Generate(context.Background(), l.GeneratorsDir, deps, nil)
	require.NoError(t, err)

	config := readFile(t, files[0])
	assert.Contains(t, config, `set(boost_INCLUDE_DIRS "/opt/my \"boost\"/include" "/opt/\$x\;y")`)
}

func TestDepsGenerator_InvalidName(t *testing.T) {
	l := testLayout(t)
	for _, name := range []string{"../evil", "bad name", `x)message("hi")`, ""} {
		t.Run(name, func(t *testing.T) {
			deps := []requirement.Resolved{{
				Requirement: requirement.Requirement{Name: name, Kind: requirement.KindProduction},
				Version:     "1.0.0",
			}}
			_, err := DepsGenerator{}.Generate(context.Background(), l.GeneratorsDir, deps, nil)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
		})
	}
}

func TestCopyFile_ByteIdentical(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "generators", "CMakePresets.json")
	dst := filepath.Join(dir, "CMakeUserPresets.json")
	content := []byte("{\n    \"version\": 3\n}\n\x00\xff")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, content, 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("stale content that is longer than the source file"), 0o644))

	res := NewResult()
	require.NoError(t, CopyFile(res, src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, []string{dst}, res.Files)
	assert.Equal(t, int64(len(content)), res.Size)
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(nil, filepath.Join(dir, "absent.json"), filepath.Join(dir, "out.json"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationIO))
}

func TestPrepareDir_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	err := PrepareDir(filepath.Join(file, "generators"))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationIO))
}

func TestIsMultiConfig(t *testing.T) {
	assert.True(t, IsMultiConfig("Ninja Multi-Config"))
	assert.True(t, IsMultiConfig("Visual Studio 17 2022"))
	assert.True(t, IsMultiConfig("Xcode"))
	assert.False(t, IsMultiConfig("Ninja"))
	assert.False(t, IsMultiConfig("Unix Makefiles"))
}

func TestBuildPresetName(t *testing.T) {
	assert.Equal(t, "headerpack-relwithdebinfo", BuildPresetName("RelWithDebInfo"))
	assert.Equal(t, "headerpack-release", BuildPresetName(""))
}

func TestResult_Summary(t *testing.T) {
	r := NewResult()
	r.AddFile("a", 1536)
	r.AddFile("b", 512)
	assert.True(t, strings.HasPrefix(r.Summary(), "Generated 2 files (2.0 KB)"), r.Summary())
}
