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
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/headerpack/pkg/defaults"
	"github.com/NVIDIA/headerpack/pkg/driver"
	"github.com/NVIDIA/headerpack/pkg/manifest"
	"github.com/NVIDIA/headerpack/pkg/requirement"
	"github.com/NVIDIA/headerpack/pkg/settings"
)

// StageFunc runs one lifecycle stage.
type StageFunc func(ctx context.Context, st State) (State, error)

// Stage is a named lifecycle step.
type Stage struct {
	Name string
	Run  StageFunc
}

// Recipe evaluates the package lifecycle for a header-only library.
type Recipe struct {
	resolver    requirement.Resolver
	driver      driver.Driver
	generator   string
	packageDir  string
	toolVersion string
	stages      []Stage
}

// Option configures a Recipe.
type Option func(*Recipe)

// WithResolver sets how declared requirements are resolved.
func WithResolver(r requirement.Resolver) Option {
	return func(rc *Recipe) {
		if r != nil {
			rc.resolver = r
		}
	}
}

// WithDriver sets the build driver.
func WithDriver(d driver.Driver) Option {
	return func(rc *Recipe) {
		if d != nil {
			rc.driver = d
		}
	}
}

// WithGenerator overrides the CMake generator.
func WithGenerator(name string) Option {
	return func(rc *Recipe) {
		if name != "" {
			rc.generator = name
		}
	}
}

// WithPackageDir overrides the package output directory.
func WithPackageDir(dir string) Option {
	return func(rc *Recipe) {
		rc.packageDir = dir
	}
}

// WithToolVersion records the tool version in the package metadata.
func WithToolVersion(v string) Option {
	return func(rc *Recipe) {
		rc.toolVersion = v
	}
}

// New creates a Recipe. Without options it resolves requirements to their
// lowest allowed versions and drives the cmake on PATH.
func New(opts ...Option) *Recipe {
	r := &Recipe{
		resolver:  requirement.MinimalResolver{},
		driver:    driver.NewCMake(),
		generator: defaults.Generator,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.stages = []Stage{
		{Name: StageResolveName, Run: r.resolveName},
		{Name: StageResolveVersion, Run: r.resolveVersion},
		{Name: StageDeclareRequirements, Run: r.declareRequirements},
		{Name: StageDeclareTestRequirements, Run: r.declareTestRequirements},
		{Name: StageConfigureLayout, Run: r.configureLayout},
		{Name: StageGenerate, Run: r.generate},
		{Name: StageBuild, Run: r.build},
		{Name: StagePackage, Run: r.pkg},
		{Name: StageReduceIdentity, Run: r.reduceIdentity},
		{Name: StageExportPackageInfo, Run: r.exportPackageInfo},
	}
	return r
}

// Stages returns the stage names in execution order.
func (r *Recipe) Stages() []string {
	names := make([]string, 0, len(r.stages))
	for _, s := range r.stages {
		names = append(names, s.Name)
	}
	return names
}

// Input is what the host binds for one evaluation.
type Input struct {
	// Manifest is used as-is when set; otherwise ManifestPath is loaded.
	Manifest *manifest.Manifest

	// ManifestPath defaults to package.json in SourceDir.
	ManifestPath string

	// SourceDir defaults to the manifest's directory.
	SourceDir string

	Settings settings.Settings
	Options  settings.Options
}

func (in Input) sourceDir() string {
	switch {
	case in.SourceDir != "":
		return in.SourceDir
	case in.ManifestPath != "":
		return filepath.Dir(in.ManifestPath)
	default:
		return "."
	}
}

func (in Input) loadManifest() (manifest.Manifest, error) {
	if in.Manifest != nil {
		return *in.Manifest, nil
	}
	path := in.ManifestPath
	if path == "" {
		path = filepath.Join(in.sourceDir(), defaults.ManifestFileName)
	}
	return manifest.Load(path)
}

// Evaluate loads the manifest and runs every stage once, in order. The first
// failure stops the evaluation and is returned unchanged together with the
// state reached so far. A manifest failure means no stage runs.
func (r *Recipe) Evaluate(ctx context.Context, in Input) (State, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := slog.With("run_id", runID)

	src, err := filepath.Abs(in.sourceDir())
	if err != nil {
		src = in.sourceDir()
	}
	st := State{
		RunID:     runID,
		SourceDir: src,
		Settings:  in.Settings,
		Options:   in.Options.Clone(),
		Completed: []string{},
	}

	m, err := in.loadManifest()
	if err != nil {
		log.Error("manifest load failed", "error", err)
		evaluationsTotal.WithLabelValues(statusFailure).Inc()
		return st, err
	}
	st.Manifest = &m

	log.Info("recipe evaluation started",
		"source_dir", st.SourceDir,
		"stages", len(r.stages))

	for _, stage := range r.stages {
		stageStart := time.Now()
		log.Debug("stage started", "stage", stage.Name)

		next, err := stage.Run(ctx, st)
		stageDuration.WithLabelValues(stage.Name).Observe(time.Since(stageStart).Seconds())
		if err != nil {
			log.Error("stage failed",
				"stage", stage.Name,
				"error", err)
			evaluationsTotal.WithLabelValues(statusFailure).Inc()
			return st, err
		}

		st = next.withCompleted(stage.Name)
		log.Debug("stage completed",
			"stage", stage.Name,
			"duration", time.Since(stageStart).Round(time.Millisecond))
	}

	evaluationsTotal.WithLabelValues(statusSuccess).Inc()
	log.Info("recipe evaluation completed",
		"name", st.Name,
		"version", st.Version,
		"package_id", st.PackageID,
		"duration", time.Since(start).Round(time.Millisecond))
	return st, nil
}
