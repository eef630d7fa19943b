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

// Package requirement declares the recipe's dependency requirements and
// resolves them against what is available.
//
// The recipe states two fixed requirements, independent of the manifest:
//
//	boost/1.81.0       production, exact pin
//	gtest/[^1.14.0]    test-only, 1.14.0 <= v < 2.0.0
//
// Declaring cannot fail. Resolution is the host's job; the Resolver
// implementations here stand in for it and fail with a
// DEPENDENCY_RESOLUTION error when a requirement cannot be met.
package requirement

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/headerpack/pkg/version"
)

// Kind tags a requirement as production or test-only.
type Kind string

const (
	// KindProduction requirements are part of the consumer-facing graph.
	KindProduction Kind = "production"
	// KindTestOnly requirements are needed only to build and run tests.
	KindTestOnly Kind = "test-only"
)

// Requirement is a declared dependency.
type Requirement struct {
	Name       string
	Constraint Constraint
	Kind       Kind
}

// Fixed requirement references stated by the recipe.
const (
	ProductionRef = "boost/1.81.0"
	TestOnlyRef   = "gtest/[^1.14.0]"
)

// Production returns the production requirement boost == 1.81.0.
func Production() Requirement {
	return Requirement{
		Name:       "boost",
		Constraint: Exact(version.NewVersion(1, 81, 0)),
		Kind:       KindProduction,
	}
}

// TestOnly returns the test-only requirement gtest ^1.14.0.
func TestOnly() Requirement {
	return Requirement{
		Name:       "gtest",
		Constraint: Compatible(version.NewVersion(1, 14, 0)),
		Kind:       KindTestOnly,
	}
}

// Parse parses a "name/constraint" reference.
func Parse(ref string, kind Kind) (Requirement, error) {
	name, expr, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || name == "" || expr == "" {
		return Requirement{}, fmt.Errorf("invalid requirement reference %q: expected name/version", ref)
	}
	c, err := ParseConstraint(expr)
	if err != nil {
		return Requirement{}, fmt.Errorf("invalid requirement reference %q: %w", ref, err)
	}
	return Requirement{Name: strings.ToLower(name), Constraint: c, Kind: kind}, nil
}

// String renders the requirement as a reference, e.g. "gtest/[^1.14.0]".
func (r Requirement) String() string {
	return r.Name + "/" + r.Constraint.String()
}

// IsTestOnly reports whether r is a test-only requirement.
func (r Requirement) IsTestOnly() bool {
	return r.Kind == KindTestOnly
}

// MarshalText lets requirements appear as plain references in JSON and YAML output.
func (r Requirement) MarshalText() ([]byte, error) {
	return []byte(r.String() + " (" + string(r.Kind) + ")"), nil
}

// ProductionOnly filters reqs down to production requirements.
func ProductionOnly(reqs []Requirement) []Requirement {
	out := make([]Requirement, 0, len(reqs))
	for _, r := range reqs {
		if !r.IsTestOnly() {
			out = append(out, r)
		}
	}
	return out
}
