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

// Package settings holds the build-variant axes and recipe options a host
// binds for one recipe evaluation.
//
// Settings values are opaque strings. Nothing in headerpack interprets them
// beyond passing them through to generated files and the package identity;
// the build type doubles as the build driver's configuration name.
package settings

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/NVIDIA/headerpack/pkg/serializer"
)

// Setting keys recognized on the settings surface.
const (
	KeyOS        = "os"
	KeyCompiler  = "compiler"
	KeyBuildType = "build_type"
	KeyArch      = "arch"
)

// Keys returns the recognized setting keys in declaration order.
func Keys() []string {
	return []string{KeyOS, KeyCompiler, KeyBuildType, KeyArch}
}

// Settings are the build-variant axes bound per invocation.
type Settings struct {
	OS        string `json:"os,omitempty" yaml:"os,omitempty"`
	Compiler  string `json:"compiler,omitempty" yaml:"compiler,omitempty"`
	BuildType string `json:"build_type,omitempty" yaml:"build_type,omitempty"`
	Arch      string `json:"arch,omitempty" yaml:"arch,omitempty"`
}

// Map returns the non-empty settings keyed by their surface names.
func (s Settings) Map() map[string]string {
	m := make(map[string]string, 4)
	for k, v := range map[string]string{
		KeyOS:        s.OS,
		KeyCompiler:  s.Compiler,
		KeyBuildType: s.BuildType,
		KeyArch:      s.Arch,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// Merge returns s with every non-empty field of override applied on top.
func (s Settings) Merge(override Settings) Settings {
	if override.OS != "" {
		s.OS = override.OS
	}
	if override.Compiler != "" {
		s.Compiler = override.Compiler
	}
	if override.BuildType != "" {
		s.BuildType = override.BuildType
	}
	if override.Arch != "" {
		s.Arch = override.Arch
	}
	return s
}

// Options are recipe options supplied by the host.
type Options map[string]string

// Clone returns an independent copy of o.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// Merge returns a copy of o with override's entries applied on top.
func (o Options) Merge(override Options) Options {
	out := o.Clone()
	maps.Copy(out, override)
	return out
}

// Keys returns the option names sorted.
func (o Options) Keys() []string {
	return slices.Sorted(maps.Keys(o))
}

// ParseOptions parses "key=value" pairs as given on the command line.
func ParseOptions(pairs []string) (Options, error) {
	opts := make(Options, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q: expected key=value", pair)
		}
		opts[key] = strings.TrimSpace(value)
	}
	return opts, nil
}

// Profile is a host profile file with settings and options sections:
//
//	settings:
//	  os: Linux
//	  compiler: gcc
//	  build_type: Release
//	  arch: x86_64
//	options:
//	  shared: "False"
type Profile struct {
	Settings Settings `json:"settings" yaml:"settings"`
	Options  Options  `json:"options,omitempty" yaml:"options,omitempty"`
}

// LoadProfile reads a profile in YAML or JSON, by file extension.
func LoadProfile(path string) (*Profile, error) {
	p, err := serializer.FromFile[Profile](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p.Options == nil {
		p.Options = Options{}
	}
	return p, nil
}
