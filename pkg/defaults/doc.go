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

// Package defaults provides centralized configuration constants for headerpack.
//
// It holds the fixed file names a recipe evaluation produces, the build
// driver defaults (generator strategy, preset prefix, deferred install
// prefix), and the timeouts used for OCI publication. Centralizing these
// values keeps the generator, driver and CLI agreeing on paths.
//
// # Usage
//
//	presets := filepath.Join(layout.GeneratorsDir, defaults.PresetsFileName)
//	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
//	defer cancel()
package defaults
