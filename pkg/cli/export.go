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
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/headerpack/pkg/export"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "export",
		EnableShellCompletion: true,
		Usage:                 "Copy the recipe's export sources to a destination",
		Description: `Copies README.md, package.json, CMakeLists.txt, include/ and tests/ from the
source root to the destination. Missing optional entries are skipped; a
missing package.json is an error.

# Examples

  headerpack export --source ./foo --destination /tmp/foo-src --checksums`,
		Flags: []cli.Flag{
			sourceFlag(),
			&cli.StringFlag{
				Name:     "destination",
				Aliases:  []string{"d"},
				Required: true,
				Usage:    "Directory receiving the exported sources",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Export entry overriding the default set (file or dir/*, can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "Write checksums.txt for the exported files",
			},
			formatFlag(),
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			src := cmd.String("source")
			if src == "" {
				src = "."
			}

			res, err := export.Sources(ctx, src, cmd.String("destination"), export.Config{
				Sources:        cmd.StringSlice("include"),
				WriteChecksums: cmd.Bool("checksums"),
			})
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			return writeOutput(ctx, cmd, format, res)
		},
	}
}
