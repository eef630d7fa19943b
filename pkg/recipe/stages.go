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
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/headerpack/pkg/defaults"
	"github.com/NVIDIA/headerpack/pkg/driver"
	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
	"github.com/NVIDIA/headerpack/pkg/generator"
	"github.com/NVIDIA/headerpack/pkg/identity"
	"github.com/NVIDIA/headerpack/pkg/layout"
	"github.com/NVIDIA/headerpack/pkg/manifest"
	"github.com/NVIDIA/headerpack/pkg/requirement"
)

// Stage names in execution order.
const (
	StageResolveName             = "resolve-name"
	StageResolveVersion          = "resolve-version"
	StageDeclareRequirements     = "declare-requirements"
	StageDeclareTestRequirements = "declare-test-requirements"
	StageConfigureLayout         = "configure-layout"
	StageGenerate                = "generate"
	StageBuild                   = "build"
	StagePackage                 = "package"
	StageReduceIdentity          = "reduce-identity"
	StageExportPackageInfo       = "export-package-info"
)

// ResolveName returns the manifest name lower-cased.
func ResolveName(m manifest.Manifest) string {
	return cases.Lower(language.Und).String(m.Name)
}

// ResolveVersion returns the manifest version verbatim.
func ResolveVersion(m manifest.Manifest) string {
	return m.Version
}

func requireManifest(st State, field string) (manifest.Manifest, error) {
	if st.Manifest == nil {
		return manifest.Manifest{}, apperrors.NewWithContext(apperrors.ErrCodeManifestField,
			"no manifest loaded", map[string]any{"field": field})
	}
	return *st.Manifest, nil
}

func (r *Recipe) resolveName(_ context.Context, st State) (State, error) {
	m, err := requireManifest(st, manifest.FieldName)
	if err != nil {
		return st, err
	}
	st.Name = ResolveName(m)
	return st, nil
}

func (r *Recipe) resolveVersion(_ context.Context, st State) (State, error) {
	m, err := requireManifest(st, manifest.FieldVersion)
	if err != nil {
		return st, err
	}
	st.Version = ResolveVersion(m)
	return st, nil
}

func (r *Recipe) declareRequirements(_ context.Context, st State) (State, error) {
	return st.withRequirement(requirement.Production()), nil
}

func (r *Recipe) declareTestRequirements(_ context.Context, st State) (State, error) {
	return st.withRequirement(requirement.TestOnly()), nil
}

func (r *Recipe) configureLayout(_ context.Context, st State) (State, error) {
	l := layout.CMake(st.SourceDir, st.Settings, generator.IsMultiConfig(r.generator)).
		WithPackageDir(r.packageDir)
	st.Layout = &l
	return st, nil
}

// generate resolves the declared requirements, then writes descriptors,
// toolchain and presets, and copies the presets to the source root.
func (r *Recipe) generate(ctx context.Context, st State) (State, error) {
	l := st.currentLayout(r)

	resolved, err := r.resolver.Resolve(ctx, st.Requirements)
	if err != nil {
		return st, err
	}
	st.Resolved = resolved

	if err := generator.PrepareDir(l.GeneratorsDir); err != nil {
		return st, err
	}

	res := generator.NewResult()
	defer func() { generatedFiles.Set(float64(len(res.Files))) }()

	depFiles, err := generator.DepsGenerator{}.Generate(ctx, l.GeneratorsDir, resolved, res)
	if err != nil {
		return st, err
	}

	toolchainPath := filepath.Join(l.GeneratorsDir, defaults.ToolchainFileName)
	tc := generator.Toolchain{
		Generator:       r.generator,
		UserPresetsPath: "",
		CacheVariables: map[string]string{
			"CMAKE_TOOLCHAIN_FILE": filepath.ToSlash(toolchainPath),
			"CMAKE_INSTALL_PREFIX": defaults.InstallPrefix,
		},
	}
	files, err := tc.Generate(ctx, l, st.Settings, res)
	if err != nil {
		return st, err
	}

	userPresets := filepath.Join(l.SourceDir, defaults.UserPresetsFileName)
	if err := generator.CopyFile(res, files.PresetsFile, userPresets); err != nil {
		return st, err
	}

	st.Artifacts = &Artifacts{
		ToolchainFile:   files.ToolchainFile,
		DependencyFiles: depFiles,
		PresetsFile:     files.PresetsFile,
		UserPresetsFile: userPresets,
	}
	st.Generation = res

	slog.Debug("generation finished",
		"files", len(res.Files),
		"size_bytes", res.Size)
	return st, nil
}

func (r *Recipe) build(ctx context.Context, st State) (State, error) {
	l := st.currentLayout(r)

	if err := r.driver.Configure(ctx, driver.ConfigureOptions{
		SourceDir: l.SourceDir,
		Preset:    generator.ConfigurePresetName,
	}); err != nil {
		return st, apperrors.WrapWithContext(apperrors.ErrCodeBuild, "configure step failed", err,
			map[string]any{"step": driver.StepConfigure})
	}

	if err := r.driver.Build(ctx, driver.BuildOptions{
		SourceDir: l.SourceDir,
		Preset:    generator.BuildPresetName(st.buildType()),
	}); err != nil {
		return st, apperrors.WrapWithContext(apperrors.ErrCodeBuild, "build step failed", err,
			map[string]any{"step": driver.StepBuild})
	}

	st.Built = true
	return st, nil
}

func (r *Recipe) pkg(ctx context.Context, st State) (State, error) {
	l := st.currentLayout(r)

	if err := r.driver.Install(ctx, driver.InstallOptions{
		BuildDir:      l.BuildDir,
		Configuration: st.buildType(),
		Prefix:        l.PackageDir,
	}); err != nil {
		return st, apperrors.WrapWithContext(apperrors.ErrCodeInstall, "install step failed", err,
			map[string]any{"package_dir": l.PackageDir})
	}

	if _, err := writeMetadata(ctx, l.PackageDir, newMetadata(st, r.toolVersion)); err != nil {
		return st, apperrors.WrapWithContext(apperrors.ErrCodeInstall, "failed to write package metadata", err,
			map[string]any{"package_dir": l.PackageDir})
	}

	st.Packaged = true
	return st, nil
}

// reduceIdentity computes the full identity and clears it. The clear covers
// settings, options and dependency pins alike.
func (r *Recipe) reduceIdentity(_ context.Context, st State) (State, error) {
	full := identity.Compute(st.Settings, st.Options, st.Resolved)
	reduced := identity.Reduce(full)

	st.FullIdentity = &full
	st.Identity = &reduced
	st.PackageID = reduced.ID()

	slog.Debug("package identity reduced",
		"full_id", full.ID(),
		"package_id", st.PackageID)
	return st, nil
}

// exportPackageInfo declares the fixed package info. The metadata written
// by the package stage already carries the same values.
func (r *Recipe) exportPackageInfo(_ context.Context, st State) (State, error) {
	info := HeaderOnlyPackageInfo()
	st.PackageInfo = &info
	return st, nil
}

// currentLayout returns the configured layout, deriving it when a stage
// runs without configure-layout having run first.
func (s State) currentLayout(r *Recipe) layout.Layout {
	if s.Layout != nil {
		return *s.Layout
	}
	return layout.CMake(s.SourceDir, s.Settings, generator.IsMultiConfig(r.generator)).
		WithPackageDir(r.packageDir)
}

func (s State) buildType() string {
	if s.Settings.BuildType == "" {
		return defaults.DefaultBuildType
	}
	return s.Settings.BuildType
}
