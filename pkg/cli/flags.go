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
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/headerpack/pkg/serializer"
	"github.com/NVIDIA/headerpack/pkg/settings"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"O"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: envVars("FORMAT"),
	}
}

func manifestFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "manifest",
		Aliases: []string{"m"},
		Usage:   "Path to the package manifest (default: <source>/package.json)",
		Sources: envVars("MANIFEST"),
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Usage:   "Source root of the library (default: the manifest's directory)",
		Sources: envVars("SOURCE"),
	}
}

// settingsFlags are the flags binding the settings surface and recipe options.
func settingsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "YAML or JSON host profile with settings and options sections",
			Sources: envVars("PROFILE"),
		},
		&cli.StringFlag{
			Name:    settings.KeyOS,
			Usage:   "Target operating system setting (e.g., Linux)",
			Sources: envVars("OS"),
		},
		&cli.StringFlag{
			Name:    settings.KeyCompiler,
			Usage:   "Compiler setting (e.g., gcc)",
			Sources: envVars("COMPILER"),
		},
		&cli.StringFlag{
			Name:    "build-type",
			Usage:   "Build type setting, also the build configuration name (e.g., Release)",
			Sources: envVars("BUILD_TYPE"),
		},
		&cli.StringFlag{
			Name:    settings.KeyArch,
			Usage:   "Target architecture setting (e.g., x86_64)",
			Sources: envVars("ARCH"),
		},
		&cli.StringSliceFlag{
			Name:    "option",
			Aliases: []string{"o"},
			Usage:   "Recipe option (format: key=value, can be repeated)",
		},
	}
}

// parseOutputFormat reads and validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// parseSettings combines the optional profile with the settings flags and
// --option pairs. Flags override profile values.
func parseSettings(cmd *cli.Command) (settings.Settings, settings.Options, error) {
	var (
		s    settings.Settings
		opts = settings.Options{}
	)

	if path := cmd.String("profile"); path != "" {
		p, err := settings.LoadProfile(path)
		if err != nil {
			return s, nil, err
		}
		s = p.Settings
		opts = p.Options
	}

	s = s.Merge(settings.Settings{
		OS:        cmd.String(settings.KeyOS),
		Compiler:  cmd.String(settings.KeyCompiler),
		BuildType: cmd.String("build-type"),
		Arch:      cmd.String(settings.KeyArch),
	})

	flagOpts, err := settings.ParseOptions(cmd.StringSlice("option"))
	if err != nil {
		return s, nil, fmt.Errorf("invalid --option: %w", err)
	}

	return s, opts.Merge(flagOpts), nil
}

// writeOutput serializes v to --output (or stdout) in format.
func writeOutput(ctx context.Context, cmd *cli.Command, format serializer.Format, v any) error {
	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()
	return ser.Serialize(ctx, v)
}
