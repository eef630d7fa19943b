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

// Package recipe runs the packaging lifecycle of a header-only library.
//
// An evaluation loads the manifest, then runs a fixed list of stages once
// each, in order:
//
//	resolve-name               manifest name, lower-cased
//	resolve-version            manifest version, verbatim
//	declare-requirements       boost/1.81.0
//	declare-test-requirements  gtest/[^1.14.0]
//	configure-layout           CMake folder convention
//	generate                   resolve requirements; descriptors, toolchain, presets, preset copy
//	build                      cmake configure, then cmake build
//	package                    cmake install, headerpack.json, checksums.txt
//	reduce-identity            compute the package identity, then clear it
//	export-package-info        {binaryDirs: [], libraryDirs: []}
//
// Every stage takes a State and returns a new one. The first error stops
// the evaluation and is returned unchanged; the returned State shows which
// stages completed.
//
// Usage:
//
//	r := recipe.New(
//	    recipe.WithDriver(driver.NewCMake(driver.WithOutput(os.Stderr, os.Stderr))),
//	    recipe.WithResolver(requirement.CatalogResolver{Catalog: cat}),
//	)
//	st, err := r.Evaluate(ctx, recipe.Input{
//	    SourceDir: ".",
//	    Settings:  settings.Settings{OS: "Linux", BuildType: "Release"},
//	})
//
// Errors carry the structured codes MANIFEST_PARSE, MANIFEST_FIELD,
// DEPENDENCY_RESOLUTION, GENERATION_IO, BUILD and INSTALL.
//
// Each evaluation gets a run id that is attached to its log records. Stage
// durations and evaluation outcomes are recorded as Prometheus metrics.
package recipe
