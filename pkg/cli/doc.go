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

// Package cli implements the headerpack command-line interface.
//
// # Commands
//
// create - Run the full recipe lifecycle:
//
//	headerpack create --source ./foo --os Linux --compiler gcc --build-type Release --arch x86_64
//
// Resolves name and version from package.json, declares the boost and gtest
// requirements, writes the CMake toolchain, dependency descriptors and
// presets, runs cmake configure, build and install, and writes the package
// metadata. With --push oci://registry/repo[:tag] the package folder is also
// published as an OCI artifact.
//
// inspect - Show name, version and requirements:
//
//	headerpack inspect --source ./foo
//
// package-id - Compute the package identity without building:
//
//	headerpack package-id --profile linux-gcc.yaml
//
// export - Copy the recipe's export sources:
//
//	headerpack export --source ./foo --destination /tmp/foo-src
//
// # Settings
//
// Settings come from an optional YAML or JSON profile (--profile) and the
// --os, --compiler, --build-type and --arch flags; flags win. Recipe options
// are passed as --option key=value.
//
// # Environment Variables
//
// Most flags can also be set with HEADERPACK_ prefixed variables, for
// example HEADERPACK_LOG_LEVEL or HEADERPACK_CATALOG. A .env file in the
// working directory is loaded before flags are parsed.
//
// # Exit Codes
//
//	0  Success
//	1  Any failure (manifest, resolution, generation, build, install, push)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/headerpack/pkg/cli.version=1.0.0'"
package cli
