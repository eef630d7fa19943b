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

// Package driver runs the external build tool through its configure, build
// and install steps.
//
// Driver is the seam between a recipe and the build tool. CMake is the
// production implementation; it shells out through a Runner so tests can
// observe the exact command lines without a cmake binary:
//
//	cm := driver.NewCMake(
//	    driver.WithBinary("/usr/bin/cmake"),
//	    driver.WithOutput(os.Stderr, os.Stderr),
//	)
//	err := cm.Configure(ctx, driver.ConfigureOptions{SourceDir: src, Preset: "headerpack-default"})
//
// Commands issued by CMake:
//
//	cmake --preset <configure-preset>                                (cwd: source dir)
//	cmake --build --preset <build-preset>                            (cwd: source dir)
//	cmake --install <build-dir> --config <BuildType> --prefix <package-dir>
//
// Drivers never interpret the tool's diagnostics; a non-zero exit is
// returned as a *CommandError carrying the exit code.
//
// Package drivertest provides a recording Driver for tests.
package driver
