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

// Package layout maps a source tree to the build, generators, install and
// package directories used during one recipe evaluation.
//
// The CMake convention is applied:
//
//	multi-config:   <source>/build              <source>/build/generators
//	single-config:  <source>/build/<BuildType>  <source>/build/<BuildType>/generators
//
// The install root is always <source>/install, matching the install
// prefix the generated presets carry.
package layout

import (
	"path/filepath"

	"github.com/NVIDIA/headerpack/pkg/defaults"
	"github.com/NVIDIA/headerpack/pkg/settings"
)

const (
	buildDirName      = "build"
	generatorsDirName = "generators"
	installDirName    = "install"
	packageDirName    = "package"
)

// Layout is the set of directories one evaluation works in.
type Layout struct {
	SourceDir     string `json:"source_dir" yaml:"source_dir"`
	BuildDir      string `json:"build_dir" yaml:"build_dir"`
	GeneratorsDir string `json:"generators_dir" yaml:"generators_dir"`
	InstallDir    string `json:"install_dir" yaml:"install_dir"`
	PackageDir    string `json:"package_dir" yaml:"package_dir"`
}

// CMake derives the CMake layout for sourceDir. A multi-config generator
// shares one build folder across build types; otherwise each build type
// gets its own. An empty build type falls back to the default.
func CMake(sourceDir string, s settings.Settings, multiConfig bool) Layout {
	src := filepath.Clean(sourceDir)

	build := filepath.Join(src, buildDirName)
	if !multiConfig {
		bt := s.BuildType
		if bt == "" {
			bt = defaults.DefaultBuildType
		}
		build = filepath.Join(build, bt)
	}

	return Layout{
		SourceDir:     src,
		BuildDir:      build,
		GeneratorsDir: filepath.Join(build, generatorsDirName),
		InstallDir:    filepath.Join(src, installDirName),
		PackageDir:    filepath.Join(build, packageDirName),
	}
}

// WithPackageDir returns l with the package directory replaced. An empty
// dir leaves l unchanged.
func (l Layout) WithPackageDir(dir string) Layout {
	if dir != "" {
		l.PackageDir = filepath.Clean(dir)
	}
	return l
}
