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
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
	"github.com/NVIDIA/headerpack/pkg/requirement"
)

// packageNamePattern restricts dependency names to what can appear in CMake
// variable and target names and in a file name.
var packageNamePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.+-]*$`)

var configTemplate = template.Must(template.New("config.cmake").Funcs(templateFuncs).Parse(
	`# Package descriptor for {{ cmakeQuote .Ref }}, generated by headerpack.
set({{ .Name }}_FOUND TRUE)
set({{ .Name }}_VERSION "{{ cmakeQuote .Version }}")
set({{ .Name }}_INCLUDE_DIRS{{ range .IncludeDirs }} "{{ cmakeQuote . }}"{{ end }})
set({{ .Name }}_LIB_DIRS{{ range .LibDirs }} "{{ cmakeQuote . }}"{{ end }})

if(NOT TARGET {{ .Name }}::{{ .Name }})
    add_library({{ .Name }}::{{ .Name }} INTERFACE IMPORTED)
    set_target_properties({{ .Name }}::{{ .Name }} PROPERTIES
        INTERFACE_INCLUDE_DIRECTORIES "${ {{- .Name }}_INCLUDE_DIRS}")
endif()
`))

var versionTemplate = template.Must(template.New("config-version.cmake").Funcs(templateFuncs).Parse(
	`# Version check for {{ cmakeQuote .Ref }}, generated by headerpack.
set(PACKAGE_VERSION "{{ cmakeQuote .Version }}")

if(PACKAGE_VERSION VERSION_LESS PACKAGE_FIND_VERSION)
    set(PACKAGE_VERSION_COMPATIBLE FALSE)
else()
    if("{{ cmakeQuote .Major }}" STREQUAL PACKAGE_FIND_VERSION_MAJOR)
        set(PACKAGE_VERSION_COMPATIBLE TRUE)
    else()
        set(PACKAGE_VERSION_COMPATIBLE FALSE)
    endif()
    if(PACKAGE_FIND_VERSION STREQUAL PACKAGE_VERSION)
        set(PACKAGE_VERSION_EXACT TRUE)
    endif()
endif()
`))

type descriptorData struct {
	Ref         string
	Name        string
	Version     string
	Major       string
	IncludeDirs []string
	LibDirs     []string
}

// DepsGenerator writes CMake package descriptors for resolved dependencies.
type DepsGenerator struct{}

// ConfigFileName returns the descriptor file name for a dependency.
func ConfigFileName(name string) string {
	return name + "-config.cmake"
}

// VersionFileName returns the version descriptor file name for a dependency.
func VersionFileName(name string) string {
	return name + "-config-version.cmake"
}

// Generate writes both descriptor files for each dependency into dir and
// returns their paths in order.
func (DepsGenerator) Generate(ctx context.Context, dir string, deps []requirement.Resolved, res *Result) ([]string, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}

	files := make([]string, 0, 2*len(deps))
	for _, dep := range deps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}

		if !packageNamePattern.MatchString(dep.Requirement.Name) {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"dependency name is not a valid CMake package name",
				map[string]any{"dependency": dep.Requirement.Name})
		}

		data := newDescriptorData(dep)
		for _, f := range []struct {
			name string
			tmpl *template.Template
		}{
			{ConfigFileName(data.Name), configTemplate},
			{VersionFileName(data.Name), versionTemplate},
		} {
			content, err := renderTemplate(f.tmpl, data)
			if err != nil {
				return nil, err
			}
			path := filepath.Join(dir, f.name)
			if err := writeFile(res, path, content); err != nil {
				return nil, err
			}
			files = append(files, path)
		}

		slog.Debug("dependency descriptors generated",
			"dependency", dep.Ref(),
			"kind", string(dep.Requirement.Kind))
	}
	return files, nil
}

func newDescriptorData(dep requirement.Resolved) descriptorData {
	major, _, _ := strings.Cut(dep.Version, ".")
	return descriptorData{
		Ref:         dep.Ref(),
		Name:        dep.Requirement.Name,
		Version:     dep.Version,
		Major:       major,
		IncludeDirs: cmakePaths(dep.RootDir, dep.IncludeDirs),
		LibDirs:     cmakePaths(dep.RootDir, dep.LibDirs),
	}
}

// cmakePaths joins dirs onto root and renders them with forward slashes.
func cmakePaths(root string, dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if root != "" && !filepath.IsAbs(d) {
			d = filepath.Join(root, d)
		}
		out = append(out, filepath.ToSlash(d))
	}
	return out
}
