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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/headerpack/pkg/driver"
	"github.com/NVIDIA/headerpack/pkg/oci"
	"github.com/NVIDIA/headerpack/pkg/recipe"
	"github.com/NVIDIA/headerpack/pkg/requirement"
	"github.com/NVIDIA/headerpack/pkg/serializer"
	"github.com/NVIDIA/headerpack/pkg/settings"
)

// createCmdOptions holds parsed options for the create command.
type createCmdOptions struct {
	manifestPath string
	sourceDir    string
	settings     settings.Settings
	options      settings.Options
	catalogPath  string
	cmakeBinary  string
	generator    string
	packageDir   string
	push         *oci.Reference
	plainHTTP    bool
	insecureTLS  bool
	metricsFile  string
	format       serializer.Format
}

// CreateResult is the summary written by the create command.
type CreateResult struct {
	Name        string              `json:"name" yaml:"name"`
	Version     string              `json:"version" yaml:"version"`
	PackageID   string              `json:"package_id" yaml:"package_id"`
	PackageDir  string              `json:"package_dir,omitempty" yaml:"package_dir,omitempty"`
	Requires    []string            `json:"requires,omitempty" yaml:"requires,omitempty"`
	PackageInfo *recipe.PackageInfo `json:"package_info,omitempty" yaml:"package_info,omitempty"`
	Stages      []string            `json:"stages" yaml:"stages"`
	Digest      string              `json:"digest,omitempty" yaml:"digest,omitempty"`
	Reference   string              `json:"reference,omitempty" yaml:"reference,omitempty"`
	Pushed      bool                `json:"pushed" yaml:"pushed"`
}

// parseCreateCmdOptions parses and validates command options.
func parseCreateCmdOptions(cmd *cli.Command) (*createCmdOptions, error) {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}

	s, o, err := parseSettings(cmd)
	if err != nil {
		return nil, err
	}

	opts := &createCmdOptions{
		manifestPath: cmd.String("manifest"),
		sourceDir:    cmd.String("source"),
		settings:     s,
		options:      o,
		catalogPath:  cmd.String("catalog"),
		cmakeBinary:  cmd.String("cmake"),
		generator:    cmd.String("generator"),
		packageDir:   cmd.String("package-dir"),
		plainHTTP:    cmd.Bool("plain-http"),
		insecureTLS:  cmd.Bool("insecure-tls"),
		metricsFile:  cmd.String("metrics-file"),
		format:       format,
	}

	if target := cmd.String("push"); target != "" {
		if !strings.HasPrefix(target, oci.URIScheme) {
			return nil, fmt.Errorf("--push must be an %sregistry/repository[:tag] reference, got %q", oci.URIScheme, target)
		}
		ref, err := oci.ParseOutputTarget(target)
		if err != nil {
			return nil, fmt.Errorf("invalid --push reference: %w", err)
		}
		opts.push = ref
	}

	if (opts.plainHTTP || opts.insecureTLS) && opts.push == nil {
		return nil, fmt.Errorf("--plain-http and --insecure-tls require --push")
	}

	return opts, nil
}

// recipeOptions translates command options into recipe options.
func (o *createCmdOptions) recipeOptions() ([]recipe.Option, error) {
	ropts := []recipe.Option{recipe.WithToolVersion(version)}

	if o.catalogPath != "" {
		catalog, err := requirement.LoadCatalog(o.catalogPath)
		if err != nil {
			return nil, err
		}
		ropts = append(ropts, recipe.WithResolver(requirement.CatalogResolver{Catalog: catalog}))
	}
	if o.cmakeBinary != "" {
		ropts = append(ropts, recipe.WithDriver(driver.NewCMake(driver.WithBinary(o.cmakeBinary))))
	}
	if o.generator != "" {
		ropts = append(ropts, recipe.WithGenerator(o.generator))
	}
	if o.packageDir != "" {
		ropts = append(ropts, recipe.WithPackageDir(o.packageDir))
	}

	return ropts, nil
}

func createCmd() *cli.Command {
	flags := []cli.Flag{manifestFlag(), sourceFlag()}
	flags = append(flags, settingsFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:    "catalog",
			Usage:   "YAML catalog of available dependency versions (default: lowest version each requirement allows)",
			Sources: envVars("CATALOG"),
		},
		&cli.StringFlag{
			Name:    "cmake",
			Usage:   "Path to the cmake binary (default: cmake on PATH)",
			Sources: envVars("CMAKE"),
		},
		&cli.StringFlag{
			Name:    "generator",
			Usage:   "CMake generator written to the presets (default: Ninja Multi-Config)",
			Sources: envVars("GENERATOR"),
		},
		&cli.StringFlag{
			Name:  "package-dir",
			Usage: "Directory receiving the installed package (default: <source>/build/package)",
		},
		&cli.StringFlag{
			Name:  "push",
			Usage: "Publish the package as an OCI artifact (e.g., oci://ghcr.io/nvidia/foo:1.2.3)",
		},
		&cli.BoolFlag{
			Name:  "plain-http",
			Usage: "Use HTTP instead of HTTPS for the OCI registry (for local development)",
		},
		&cli.BoolFlag{
			Name:  "insecure-tls",
			Usage: "Skip TLS certificate verification for the OCI registry",
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "Write evaluation metrics in Prometheus text format to this file",
			Sources: envVars("METRICS_FILE"),
		},
		formatFlag(),
		outputFlag(),
	)

	return &cli.Command{
		Name:                  "create",
		EnableShellCompletion: true,
		Usage:                 "Run the full recipe lifecycle and produce the package",
		Description: `Evaluates the recipe against the library source: resolves name and version
from the manifest, declares requirements, generates the toolchain, dependency
descriptors and presets, runs cmake configure, build and install, and writes
the package metadata with a settings-independent package id.

# Examples

Build with explicit settings:
  headerpack create --source ./foo --os Linux --compiler gcc --build-type Release --arch x86_64

Build with a host profile and a dependency catalog:
  headerpack create --source ./foo --profile linux-gcc.yaml --catalog catalog.yaml

Build and publish to a registry:
  headerpack create --source ./foo --push oci://ghcr.io/nvidia/foo:1.2.3`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseCreateCmdOptions(cmd)
			if err != nil {
				return err
			}
			ropts, err := opts.recipeOptions()
			if err != nil {
				return err
			}

			if opts.metricsFile != "" {
				defer writeMetrics(opts.metricsFile)
			}

			st, err := recipe.New(ropts...).Evaluate(ctx, recipe.Input{
				ManifestPath: opts.manifestPath,
				SourceDir:    opts.sourceDir,
				Settings:     opts.settings,
				Options:      opts.options,
			})
			if err != nil {
				return err
			}

			res := newCreateResult(st)

			if opts.push != nil {
				if err := publish(ctx, opts, st, res); err != nil {
					return err
				}
			}

			return writeOutput(ctx, cmd, opts.format, res)
		},
	}
}

func newCreateResult(st recipe.State) *CreateResult {
	res := &CreateResult{
		Name:        st.Name,
		Version:     st.Version,
		PackageID:   st.PackageID,
		PackageInfo: st.PackageInfo,
		Stages:      st.Completed,
	}
	if st.Packaged && st.Layout != nil {
		res.PackageDir = st.Layout.PackageDir
	}
	if st.FullIdentity != nil {
		res.Requires = st.FullIdentity.Requires
	}
	return res
}

// publish packs the package folder and pushes it to the --push reference.
// A reference without a tag is tagged with the package version.
func publish(ctx context.Context, opts *createCmdOptions, st recipe.State, res *CreateResult) error {
	if res.PackageDir == "" {
		return fmt.Errorf("nothing to publish: package stage did not run")
	}

	ref := pushReference(opts.push, st.Version)

	out, err := oci.PackageAndPush(ctx, oci.OutputConfig{
		SourceDir:   res.PackageDir,
		OutputDir:   st.Layout.BuildDir,
		Reference:   ref,
		Name:        st.Name,
		Version:     st.Version,
		PackageID:   st.PackageID,
		PlainHTTP:   opts.plainHTTP,
		InsecureTLS: opts.insecureTLS,
	})
	if err != nil {
		return err
	}

	res.Digest = out.Digest
	res.Reference = out.Reference
	res.Pushed = out.Pushed
	return nil
}

// pushReference tags ref with the package version unless it carries a tag.
func pushReference(ref *oci.Reference, version string) *oci.Reference {
	if ref.Tag != "" {
		return ref
	}
	return ref.WithTag(version)
}

// writeMetrics dumps the default registry for the node-exporter textfile collector.
func writeMetrics(path string) {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		slog.Warn("failed to write metrics file", "path", path, "error", err)
		return
	}
	slog.Debug("metrics written", "path", path)
}
