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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NVIDIA/headerpack/pkg/defaults"
)

// Presets schema versions written by headerpack.
const (
	PresetsSchemaVersion     = 3
	UserPresetsSchemaVersion = 4
)

// ConfigurePresetName is the single configure preset in generated presets.
const ConfigurePresetName = defaults.PresetPrefix + "-default"

// BuildPresetName returns the build and test preset name for a build type,
// e.g. "headerpack-release".
func BuildPresetName(buildType string) string {
	if buildType == "" {
		buildType = defaults.DefaultBuildType
	}
	return defaults.PresetPrefix + "-" + strings.ToLower(buildType)
}

// Presets is the subset of the CMakePresets.json schema headerpack emits.
type Presets struct {
	Version              int               `json:"version"`
	Vendor               map[string]any    `json:"vendor,omitempty"`
	CMakeMinimumRequired *CMakeVersion     `json:"cmakeMinimumRequired,omitempty"`
	Include              []string          `json:"include,omitempty"`
	ConfigurePresets     []ConfigurePreset `json:"configurePresets,omitempty"`
	BuildPresets         []BuildPreset     `json:"buildPresets,omitempty"`
	TestPresets          []TestPreset      `json:"testPresets,omitempty"`
}

// CMakeVersion is a cmakeMinimumRequired entry.
type CMakeVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// ConfigurePreset is a configurePresets entry.
type ConfigurePreset struct {
	Name           string            `json:"name"`
	DisplayName    string            `json:"displayName,omitempty"`
	Description    string            `json:"description,omitempty"`
	Generator      string            `json:"generator,omitempty"`
	BinaryDir      string            `json:"binaryDir,omitempty"`
	ToolchainFile  string            `json:"toolchainFile,omitempty"`
	CacheVariables map[string]string `json:"cacheVariables,omitempty"`
}

// BuildPreset is a buildPresets entry.
type BuildPreset struct {
	Name            string `json:"name"`
	ConfigurePreset string `json:"configurePreset"`
	Configuration   string `json:"configuration,omitempty"`
}

// TestPreset is a testPresets entry.
type TestPreset struct {
	Name            string `json:"name"`
	ConfigurePreset string `json:"configurePreset"`
	Configuration   string `json:"configuration,omitempty"`
}

func vendor() map[string]any {
	return map[string]any{defaults.PresetPrefix: map[string]any{}}
}

func marshalPresets(p Presets) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal presets: %w", err)
	}
	return append(data, '\n'), nil
}
