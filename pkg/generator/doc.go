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

// Package generator writes the build-driver configuration consumed by CMake:
// per-dependency package descriptors, a toolchain file, a presets file, and
// the copy of the presets file at the source root.
//
// # Dependency descriptors
//
// For every resolved dependency DepsGenerator writes two files into the
// generators directory:
//
//	<name>-config.cmake          include dirs and an INTERFACE IMPORTED target <name>::<name>
//	<name>-config-version.cmake  version compatibility check for find_package
//
// # Toolchain and presets
//
// Toolchain writes headerpack_toolchain.cmake, which records the settings and
// prepends the generators directory to CMAKE_PREFIX_PATH, and a schema v3
// CMakePresets.json with one configure preset (headerpack-default) and
// build/test presets named after the build type:
//
//	tc := generator.Toolchain{
//	    Generator:      defaults.Generator,
//	    CacheVariables: map[string]string{"CMAKE_INSTALL_PREFIX": "${sourceDir}/install"},
//	}
//	files, err := tc.Generate(ctx, layout, settings, result)
//
// A non-empty UserPresetsPath makes Toolchain also write a user presets file
// at that path that includes the generated presets.
//
// # Errors
//
// Every filesystem failure is reported as a GENERATION_IO structured error.
// Generation never creates the generators directory; callers prepare it with
// PrepareDir.
package generator
