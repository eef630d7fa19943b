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
	"fmt"
	"strings"

	"github.com/NVIDIA/headerpack/pkg/version"
)

// Op is the kind of version constraint.
type Op string

// Supported constraint operators.
const (
	// OpExact pins one version.
	OpExact Op = "=="
	// OpCaret allows versions up to, excluding, the next major.
	OpCaret Op = "^"
	// OpTilde allows versions up to, excluding, the next minor.
	OpTilde Op = "~"
	// OpRange allows an explicit half-open interval.
	OpRange Op = "range"
)

// Constraint is a version constraint: an exact pin or a half-open range
// [Lower, Upper).
type Constraint struct {
	Op    Op
	Lower version.Version
	// Upper is the exclusive bound; nil means unbounded.
	Upper *version.Version
}

// Exact returns a constraint pinned to v.
func Exact(v version.Version) Constraint {
	return Constraint{Op: OpExact, Lower: v}
}

// Compatible returns a caret constraint: v <= x < v.NextMajor().
func Compatible(v version.Version) Constraint {
	upper := v.NextMajor()
	return Constraint{Op: OpCaret, Lower: v, Upper: &upper}
}

// ParseConstraint parses the version part of a requirement reference.
// Accepted forms:
//
//	1.81.0            exact pin
//	[^1.14.0]         compatible (caret) range
//	[~1.14]           same-minor (tilde) range
//	[>=1.0 <2.0]      explicit range; the upper bound is optional
//
// Brackets are optional around range expressions.
func ParseConstraint(expr string) (Constraint, error) {
	s := strings.TrimSpace(expr)
	bracketed := strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
	if bracketed {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return Constraint{}, fmt.Errorf("empty version constraint %q", expr)
	}

	switch {
	case strings.HasPrefix(s, "^"):
		v, err := version.ParseVersion(s[1:])
		if err != nil {
			return Constraint{}, fmt.Errorf("invalid caret constraint %q: %w", expr, err)
		}
		return Compatible(v), nil

	case strings.HasPrefix(s, "~"):
		v, err := version.ParseVersion(s[1:])
		if err != nil {
			return Constraint{}, fmt.Errorf("invalid tilde constraint %q: %w", expr, err)
		}
		upper := v.NextMinor()
		return Constraint{Op: OpTilde, Lower: v, Upper: &upper}, nil

	case strings.HasPrefix(s, ">="):
		return parseRange(expr, s)

	case strings.HasPrefix(s, "=="):
		s = strings.TrimSpace(s[2:])
	}

	if bracketed {
		return Constraint{}, fmt.Errorf("unsupported range expression %q", expr)
	}
	v, err := version.ParseVersion(s)
	if err != nil {
		return Constraint{}, fmt.Errorf("invalid version pin %q: %w", expr, err)
	}
	return Exact(v), nil
}

func parseRange(expr, s string) (Constraint, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Constraint{}, fmt.Errorf("invalid range %q", expr)
	}

	lower, err := version.ParseVersion(strings.TrimPrefix(fields[0], ">="))
	if err != nil {
		return Constraint{}, fmt.Errorf("invalid range lower bound %q: %w", expr, err)
	}
	c := Constraint{Op: OpRange, Lower: lower}

	if len(fields) == 2 {
		if !strings.HasPrefix(fields[1], "<") || strings.HasPrefix(fields[1], "<=") {
			return Constraint{}, fmt.Errorf("range upper bound must be exclusive '<' in %q", expr)
		}
		upper, err := version.ParseVersion(strings.TrimPrefix(fields[1], "<"))
		if err != nil {
			return Constraint{}, fmt.Errorf("invalid range upper bound %q: %w", expr, err)
		}
		if !lower.Less(upper) {
			return Constraint{}, fmt.Errorf("empty range %q", expr)
		}
		c.Upper = &upper
	}
	return c, nil
}

// Allows reports whether v satisfies the constraint. An exact pin matches
// only the identical version including extras; ranges never admit
// pre-release versions.
func (c Constraint) Allows(v version.Version) bool {
	if c.Op == OpExact {
		return v.Equals(c.Lower) && v.Extras == c.Lower.Extras
	}
	if strings.HasPrefix(v.Extras, "-") {
		return false
	}
	if v.Less(c.Lower) {
		return false
	}
	return c.Upper == nil || v.Less(*c.Upper)
}

// AllowsString parses s and reports whether it satisfies the constraint.
// Unparseable versions are never allowed.
func (c Constraint) AllowsString(s string) bool {
	v, err := version.ParseVersion(s)
	if err != nil {
		return false
	}
	return c.Allows(v)
}

// IsExact reports whether the constraint pins a single version.
func (c Constraint) IsExact() bool {
	return c.Op == OpExact
}

// String renders the constraint in reference form: "1.81.0", "[^1.14.0]",
// "[~1.14]" or "[>=1.0 <2.0]".
func (c Constraint) String() string {
	lower := c.Lower.String() + c.Lower.Extras
	switch c.Op {
	case OpExact:
		return lower
	case OpCaret:
		return "[^" + lower + "]"
	case OpTilde:
		return "[~" + lower + "]"
	default:
		if c.Upper == nil {
			return "[>=" + lower + "]"
		}
		return "[>=" + lower + " <" + c.Upper.String() + "]"
	}
}
