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
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/NVIDIA/headerpack/pkg/defaults"
	"github.com/NVIDIA/headerpack/pkg/layout"
	"github.com/NVIDIA/headerpack/pkg/settings"
)

var toolchainTemplate = template.Must(template.New("toolchain.cmake").Funcs(templateFuncs).Parse(
	`# Toolchain generated by headerpack. Changes are overwritten on the next run.
cmake_minimum_required(VERSION 3.15)
include_guard()

message(STATUS "Using headerpack toolchain: ${CMAKE_CURRENT_LIST_FILE}")
{{ range .Settings }}
set(HEADERPACK_SETTINGS_{{ .Key }} "{{ cmakeQuote .Value }}"){{ end }}
{{ if .SingleConfig }}
set(CMAKE_BUILD_TYPE "{{ cmakeQuote .BuildType }}" CACHE STRING "Build type" FORCE)
{{ end }}
list(PREPEND CMAKE_PREFIX_PATH "{{ cmakeQuote .GeneratorsDir }}")
list(PREPEND CMAKE_MODULE_PATH "{{ cmakeQuote .GeneratorsDir }}")
set(CMAKE_FIND_PACKAGE_PREFER_CONFIG ON)
`))

type settingEntry struct {
	Key   string
	Value string
}

type toolchainData struct {
	Settings      []settingEntry
	SingleConfig  bool
	BuildType     string
	GeneratorsDir string
}

// Toolchain writes the CMake toolchain file and presets.
type Toolchain struct {
	// Generator is the CMake generator recorded in the configure preset.
	Generator string

	// UserPresetsPath is where a user presets file including the generated
	// presets is written. Empty suppresses it.
	UserPresetsPath string

	// CacheVariables are merged into the configure preset.
	CacheVariables map[string]string
}

// ToolchainFiles are the paths Toolchain.Generate wrote.
type ToolchainFiles struct {
	ToolchainFile   string
	PresetsFile     string
	UserPresetsFile string
}

// IsMultiConfig reports whether a CMake generator builds several
// configurations from one build tree.
func IsMultiConfig(generator string) bool {
	return strings.Contains(generator, "Multi-Config") ||
		strings.HasPrefix(generator, "Visual Studio") ||
		generator == "Xcode"
}

// Generate writes the toolchain file and CMakePresets.json into the
// layout's generators directory.
func (t Toolchain) Generate(ctx context.Context, l layout.Layout, s settings.Settings, res *Result) (ToolchainFiles, error) {
	var files ToolchainFiles
	if err := ctx.Err(); err != nil {
		return files, fmt.Errorf("context cancelled: %w", err)
	}
	if err := checkDir(l.GeneratorsDir); err != nil {
		return files, err
	}

	gen := t.Generator
	if gen == "" {
		gen = defaults.Generator
	}
	buildType := s.BuildType
	if buildType == "" {
		buildType = defaults.DefaultBuildType
	}

	data := toolchainData{
		SingleConfig:  !IsMultiConfig(gen),
		BuildType:     buildType,
		GeneratorsDir: filepath.ToSlash(l.GeneratorsDir),
	}
	values := s.Map()
	for _, k := range settings.Keys() {
		if v, ok := values[k]; ok {
			data.Settings = append(data.Settings, settingEntry{Key: strings.ToUpper(k), Value: v})
		}
	}

	content, err := renderTemplate(toolchainTemplate, data)
	if err != nil {
		return files, err
	}
	files.ToolchainFile = filepath.Join(l.GeneratorsDir, defaults.ToolchainFileName)
	if err := writeFile(res, files.ToolchainFile, content); err != nil {
		return files, err
	}

	cache := map[string]string{}
	if data.SingleConfig {
		cache["CMAKE_BUILD_TYPE"] = buildType
	}
	maps.Copy(cache, t.CacheVariables)

	presets := Presets{
		Version:              PresetsSchemaVersion,
		Vendor:               vendor(),
		CMakeMinimumRequired: &CMakeVersion{Major: 3, Minor: 23},
		ConfigurePresets: []ConfigurePreset{{
			Name:           ConfigurePresetName,
			DisplayName:    fmt.Sprintf("'%s' config", ConfigurePresetName),
			Description:    fmt.Sprintf("'%s' configure using '%s' generator", ConfigurePresetName, gen),
			Generator:      gen,
			BinaryDir:      filepath.ToSlash(l.BuildDir),
			ToolchainFile:  filepath.ToSlash(files.ToolchainFile),
			CacheVariables: cache,
		}},
		BuildPresets: []BuildPreset{{
			Name:            BuildPresetName(buildType),
			ConfigurePreset: ConfigurePresetName,
			Configuration:   buildType,
		}},
		TestPresets: []TestPreset{{
			Name:            BuildPresetName(buildType),
			ConfigurePreset: ConfigurePresetName,
			Configuration:   buildType,
		}},
	}
	content, err = marshalPresets(presets)
	if err != nil {
		return files, err
	}
	files.PresetsFile = filepath.Join(l.GeneratorsDir, defaults.PresetsFileName)
	if err := writeFile(res, files.PresetsFile, content); err != nil {
		return files, err
	}

	if t.UserPresetsPath != "" {
		if err := t.writeUserPresets(files.PresetsFile, res); err != nil {
			return files, err
		}
		files.UserPresetsFile = t.UserPresetsPath
	} else {
		slog.Debug("user presets file suppressed")
	}

	slog.Debug("toolchain generated",
		"generator", gen,
		"toolchain", files.ToolchainFile,
		"presets", files.PresetsFile)
	return files, nil
}

func (t Toolchain) writeUserPresets(presetsFile string, res *Result) error {
	include, err := filepath.Rel(filepath.Dir(t.UserPresetsPath), presetsFile)
	if err != nil {
		include = presetsFile
	}
	content, err := marshalPresets(Presets{
		Version: UserPresetsSchemaVersion,
		Vendor:  vendor(),
		Include: []string{filepath.ToSlash(include)},
	})
	if err != nil {
		return err
	}
	return writeFile(res, t.UserPresetsPath, content)
}
