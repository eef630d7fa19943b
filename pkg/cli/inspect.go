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

package cli

import (
	"context"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/headerpack/pkg/defaults"
	"github.com/NVIDIA/headerpack/pkg/manifest"
	"github.com/NVIDIA/headerpack/pkg/recipe"
	"github.com/NVIDIA/headerpack/pkg/requirement"
)

// InspectResult describes a package without building it.
type InspectResult struct {
	Name         string                    `json:"name" yaml:"name"`
	Version      string                    `json:"version" yaml:"version"`
	Requirements []requirement.Requirement `json:"requirements" yaml:"requirements"`
	Stages       []string                  `json:"stages" yaml:"stages"`
}

// manifestPath returns --manifest, or package.json in --source.
func manifestPath(cmd *cli.Command) string {
	if p := cmd.String("manifest"); p != "" {
		return p
	}
	src := cmd.String("source")
	if src == "" {
		src = "."
	}
	return filepath.Join(src, defaults.ManifestFileName)
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "inspect",
		EnableShellCompletion: true,
		Usage:                 "Show the package name, version and requirements",
		Description: `Loads the package manifest and prints the resolved name and version together
with the declared production and test-only requirements.

# Examples

  headerpack inspect --source ./foo --format json`,
		Flags: []cli.Flag{
			manifestFlag(),
			sourceFlag(),
			formatFlag(),
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			m, err := manifest.Load(manifestPath(cmd))
			if err != nil {
				return err
			}

			return writeOutput(ctx, cmd, format, &InspectResult{
				Name:         recipe.ResolveName(m),
				Version:      recipe.ResolveVersion(m),
				Requirements: []requirement.Requirement{requirement.Production(), requirement.TestOnly()},
				Stages:       recipe.New().Stages(),
			})
		},
	}
}
