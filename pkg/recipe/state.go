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

package recipe

import (
	"slices"

	"github.com/NVIDIA/headerpack/pkg/generator"
	"github.com/NVIDIA/headerpack/pkg/identity"
	"github.com/NVIDIA/headerpack/pkg/layout"
	"github.com/NVIDIA/headerpack/pkg/manifest"
	"github.com/NVIDIA/headerpack/pkg/requirement"
	"github.com/NVIDIA/headerpack/pkg/settings"
)

// Artifacts are the files written by the generate stage.
type Artifacts struct {
	ToolchainFile   string   `json:"toolchain_file" yaml:"toolchain_file"`
	DependencyFiles []string `json:"dependency_files" yaml:"dependency_files"`
	PresetsFile     string   `json:"presets_file" yaml:"presets_file"`
	UserPresetsFile string   `json:"user_presets_file" yaml:"user_presets_file"`
}

// PackageInfo is the consumer-facing metadata of the package. A header-only
// package declares no binary or library directories.
type PackageInfo struct {
	BinaryDirs  []string `json:"binaryDirs" yaml:"binaryDirs"`
	LibraryDirs []string `json:"libraryDirs" yaml:"libraryDirs"`
}

// HeaderOnlyPackageInfo returns the fixed package info with non-nil empty
// directory lists.
func HeaderOnlyPackageInfo() PackageInfo {
	return PackageInfo{BinaryDirs: []string{}, LibraryDirs: []string{}}
}

// State is the context record threaded through the stages. Stages receive
// a State value and return a new one; slices and maps held by a State are
// never modified in place once it has been returned.
type State struct {
	RunID     string             `json:"run_id" yaml:"run_id"`
	SourceDir string             `json:"source_dir" yaml:"source_dir"`
	Manifest  *manifest.Manifest `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	Settings  settings.Settings  `json:"settings" yaml:"settings"`
	Options   settings.Options   `json:"options" yaml:"options"`

	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	Requirements []requirement.Requirement `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Resolved     []requirement.Resolved    `json:"resolved,omitempty" yaml:"resolved,omitempty"`

	Layout     *layout.Layout    `json:"layout,omitempty" yaml:"layout,omitempty"`
	Artifacts  *Artifacts        `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	Generation *generator.Result `json:"generation,omitempty" yaml:"generation,omitempty"`

	Built    bool `json:"built" yaml:"built"`
	Packaged bool `json:"packaged" yaml:"packaged"`

	FullIdentity *identity.PackageIdentity `json:"full_identity,omitempty" yaml:"full_identity,omitempty"`
	Identity     *identity.PackageIdentity `json:"identity,omitempty" yaml:"identity,omitempty"`
	PackageID    string                    `json:"package_id,omitempty" yaml:"package_id,omitempty"`
	PackageInfo  *PackageInfo              `json:"package_info,omitempty" yaml:"package_info,omitempty"`

	// Completed lists the stages that finished, in order.
	Completed []string `json:"completed" yaml:"completed"`
}

// HasCompleted reports whether the named stage finished.
func (s State) HasCompleted(stage string) bool {
	return slices.Contains(s.Completed, stage)
}

func (s State) withCompleted(stage string) State {
	s.Completed = append(slices.Clone(s.Completed), stage)
	return s
}

func (s State) withRequirement(r requirement.Requirement) State {
	s.Requirements = append(slices.Clone(s.Requirements), r)
	return s
}
