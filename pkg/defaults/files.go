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

package defaults

// Well-known file names produced or consumed by a recipe evaluation.
const (
	// ManifestFileName is the default package manifest.
	ManifestFileName = "package.json"

	// ToolchainFileName is the toolchain description written into the generators folder.
	ToolchainFileName = "headerpack_toolchain.cmake"

	// PresetsFileName is the multi-configuration preset file written into the generators folder.
	PresetsFileName = "CMakePresets.json"

	// UserPresetsFileName is the fixed name of the preset copy in the source root.
	UserPresetsFileName = "CMakeUserPresets.json"

	// PackageMetadataFileName is the consumer-facing metadata written into the package folder.
	PackageMetadataFileName = "headerpack.json"

	// ChecksumFileName is the sha256sum-compatible listing written into the package folder.
	ChecksumFileName = "checksums.txt"

	// EnvFileName is the optional dotenv file loaded at startup.
	EnvFileName = ".env"
)

// Build driver defaults.
const (
	// Generator is the build-driver generator strategy.
	Generator = "Ninja Multi-Config"

	// DriverBinary is the build driver executable looked up on PATH.
	DriverBinary = "cmake"

	// PresetPrefix prefixes every generated preset name.
	PresetPrefix = "headerpack"

	// InstallPrefix is the deferred install-prefix cache value, expanded by the build driver.
	InstallPrefix = "${sourceDir}/install"

	// DefaultBuildType is used when the host gives no build_type setting.
	DefaultBuildType = "Release"
)

// File permissions for generated content.
const (
	DirPerm  = 0o755
	FilePerm = 0o644
)
