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

package requirement

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
	"github.com/NVIDIA/headerpack/pkg/serializer"
	"github.com/NVIDIA/headerpack/pkg/version"
)

// Resolved is a requirement bound to a concrete available version.
type Resolved struct {
	Requirement Requirement `json:"requirement" yaml:"requirement"`
	Version     string      `json:"version" yaml:"version"`
	// RootDir is the dependency's package folder; empty when unknown.
	RootDir     string   `json:"root_dir,omitempty" yaml:"root_dir,omitempty"`
	IncludeDirs []string `json:"include_dirs,omitempty" yaml:"include_dirs,omitempty"`
	LibDirs     []string `json:"lib_dirs,omitempty" yaml:"lib_dirs,omitempty"`
}

// Ref returns the resolved reference, e.g. "boost/1.81.0".
func (r Resolved) Ref() string {
	return r.Requirement.Name + "/" + r.Version
}

// Resolver binds declared requirements to available versions.
type Resolver interface {
	Resolve(ctx context.Context, reqs []Requirement) ([]Resolved, error)
}

// MinimalResolver resolves each requirement to the lowest version its
// constraint allows, without consulting any package source.
type MinimalResolver struct{}

// Resolve implements Resolver.
func (MinimalResolver) Resolve(ctx context.Context, reqs []Requirement) ([]Resolved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Resolved, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, Resolved{
			Requirement: r,
			Version:     r.Constraint.Lower.String() + r.Constraint.Lower.Extras,
			IncludeDirs: []string{"include"},
		})
	}
	return out, nil
}

// CatalogEntry is one available build of a package.
type CatalogEntry struct {
	Version     string   `json:"version" yaml:"version"`
	Root        string   `json:"root,omitempty" yaml:"root,omitempty"`
	IncludeDirs []string `json:"include_dirs,omitempty" yaml:"include_dirs,omitempty"`
	LibDirs     []string `json:"lib_dirs,omitempty" yaml:"lib_dirs,omitempty"`
}

// Catalog lists available package versions by name:
//
//	packages:
//	  boost:
//	    - version: 1.81.0
//	      root: /opt/pkgs/boost/1.81.0
//	  gtest:
//	    - version: 1.14.0
//	    - version: 1.15.2
type Catalog struct {
	Packages map[string][]CatalogEntry `json:"packages" yaml:"packages"`
}

// LoadCatalog reads a catalog file. Relative roots are resolved against
// the catalog's directory.
func LoadCatalog(path string) (*Catalog, error) {
	c, err := serializer.FromFile[Catalog](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	base := filepath.Dir(path)
	for name, entries := range c.Packages {
		for i := range entries {
			if entries[i].Root != "" && !filepath.IsAbs(entries[i].Root) {
				entries[i].Root = filepath.Join(base, entries[i].Root)
			}
		}
		c.Packages[name] = entries
	}
	return c, nil
}

// CatalogResolver resolves requirements to the highest catalog version
// their constraint allows.
type CatalogResolver struct {
	Catalog *Catalog
}

// Resolve implements Resolver.
func (cr CatalogResolver) Resolve(ctx context.Context, reqs []Requirement) ([]Resolved, error) {
	if cr.Catalog == nil {
		return nil, apperrors.New(apperrors.ErrCodeDependencyResolution, "no catalog configured")
	}

	out := make([]Resolved, 0, len(reqs))
	for _, r := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, ok := cr.best(r)
		if !ok {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeDependencyResolution,
				fmt.Sprintf("no available version of %s satisfies %s", r.Name, r.Constraint),
				map[string]any{
					"requirement": r.String(),
					"kind":        string(r.Kind),
					"available":   cr.versions(r.Name),
				})
		}

		includes := entry.IncludeDirs
		if len(includes) == 0 {
			includes = []string{"include"}
		}
		out = append(out, Resolved{
			Requirement: r,
			Version:     entry.Version,
			RootDir:     entry.Root,
			IncludeDirs: includes,
			LibDirs:     entry.LibDirs,
		})
		slog.Debug("requirement resolved", "requirement", r.String(), "version", entry.Version)
	}
	return out, nil
}

func (cr CatalogResolver) best(r Requirement) (CatalogEntry, bool) {
	var (
		best    CatalogEntry
		bestVer version.Version
		found   bool
	)
	for _, e := range cr.Catalog.Packages[r.Name] {
		v, err := version.ParseVersion(e.Version)
		if err != nil {
			slog.Warn("skipping unparseable catalog version", "package", r.Name, "version", e.Version)
			continue
		}
		if !r.Constraint.Allows(v) {
			continue
		}
		if !found || bestVer.Less(v) {
			best, bestVer, found = e, v, true
		}
	}
	return best, found
}

func (cr CatalogResolver) versions(name string) []string {
	entries := cr.Catalog.Packages[name]
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Version)
	}
	return out
}
