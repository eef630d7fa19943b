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

// Package identity computes the package identity: the key under which a
// built package is cached and published.
//
// An identity is derived from the bound settings, the recipe options and the
// resolved versions of production requirements. Its ID is a SHA-1 over a
// canonical, length-prefixed encoding of those three sections, so the ID
// does not depend on map iteration order or requirement order.
//
// A header-only package produces the same artifacts for every build variant.
// Reduce clears the whole identity, dependency pins included, to the
// canonical empty value, so every variant maps to EmptyID.
package identity

import (
	"crypto/sha1" //nolint:gosec // content key, not a security boundary
	"encoding/binary"
	"encoding/hex"
	"hash"
	"maps"
	"slices"

	"github.com/NVIDIA/headerpack/pkg/requirement"
	"github.com/NVIDIA/headerpack/pkg/settings"
)

// PackageIdentity is the set of inputs that distinguish package variants.
type PackageIdentity struct {
	Settings map[string]string `json:"settings" yaml:"settings"`
	Options  map[string]string `json:"options" yaml:"options"`
	Requires []string          `json:"requires" yaml:"requires"`
}

// EmptyID is the ID of the cleared identity.
var EmptyID = Empty().ID()

// Empty returns the canonical empty identity.
func Empty() PackageIdentity {
	return PackageIdentity{
		Settings: map[string]string{},
		Options:  map[string]string{},
		Requires: []string{},
	}
}

// Compute derives the full identity. Test-only dependencies never take part.
func Compute(s settings.Settings, opts settings.Options, resolved []requirement.Resolved) PackageIdentity {
	id := Empty()
	maps.Copy(id.Settings, s.Map())
	maps.Copy(id.Options, opts)
	for _, r := range resolved {
		if r.Requirement.IsTestOnly() {
			continue
		}
		id.Requires = append(id.Requires, r.Ref())
	}
	slices.Sort(id.Requires)
	return id
}

// Reduce clears every field of id. It is total and idempotent.
func Reduce(PackageIdentity) PackageIdentity {
	return Empty()
}

// IsEmpty reports whether id carries no distinguishing input.
func (id PackageIdentity) IsEmpty() bool {
	return len(id.Settings) == 0 && len(id.Options) == 0 && len(id.Requires) == 0
}

// ID returns the hex SHA-1 of the canonical encoding.
func (id PackageIdentity) ID() string {
	h := sha1.New() //nolint:gosec

	writeMap(h, "settings", id.Settings)
	writeMap(h, "options", id.Options)

	requires := slices.Clone(id.Requires)
	slices.Sort(requires)
	writeField(h, "requires")
	writeCount(h, len(requires))
	for _, r := range requires {
		writeField(h, r)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func writeMap(h hash.Hash, section string, m map[string]string) {
	writeField(h, section)
	writeCount(h, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		writeField(h, k)
		writeField(h, m[k])
	}
}

func writeCount(h hash.Hash, n int) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}

// writeField writes an 8-byte big-endian length prefix followed by s.
func writeField(h hash.Hash, s string) {
	writeCount(h, len(s))
	h.Write([]byte(s))
}
