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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/headerpack/pkg/identity"
	"github.com/NVIDIA/headerpack/pkg/requirement"
	"github.com/NVIDIA/headerpack/pkg/settings"
)

// PackageIDResult shows the identity before and after reduction.
type PackageIDResult struct {
	Settings     settings.Settings        `json:"settings" yaml:"settings"`
	Options      settings.Options         `json:"options" yaml:"options"`
	FullIdentity identity.PackageIdentity `json:"full_identity" yaml:"full_identity"`
	FullID       string                   `json:"full_id" yaml:"full_id"`
	PackageID    string                   `json:"package_id" yaml:"package_id"`
}

func packageIDCmd() *cli.Command {
	flags := settingsFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:    "catalog",
			Usage:   "YAML catalog of available dependency versions",
			Sources: envVars("CATALOG"),
		},
		formatFlag(),
		outputFlag(),
	)

	return &cli.Command{
		Name:                  "package-id",
		EnableShellCompletion: true,
		Usage:                 "Compute the package identity for the given settings without building",
		Description: `Computes the full identity (settings, options and production requirements)
and the reduced identity published with the package. The reduced identity,
and so the package id, is the same for every combination of settings.

# Examples

  headerpack package-id --os Linux --compiler gcc --build-type Debug --arch armv8`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			s, opts, err := parseSettings(cmd)
			if err != nil {
				return err
			}

			var resolver requirement.Resolver = requirement.MinimalResolver{}
			if path := cmd.String("catalog"); path != "" {
				catalog, err := requirement.LoadCatalog(path)
				if err != nil {
					return err
				}
				resolver = requirement.CatalogResolver{Catalog: catalog}
			}

			resolved, err := resolver.Resolve(ctx, []requirement.Requirement{
				requirement.Production(), requirement.TestOnly(),
			})
			if err != nil {
				return err
			}

			full := identity.Compute(s, opts, resolved)
			return writeOutput(ctx, cmd, format, &PackageIDResult{
				Settings:     s,
				Options:      opts,
				FullIdentity: full,
				FullID:       full.ID(),
				PackageID:    identity.Reduce(full).ID(),
			})
		},
	}
}
