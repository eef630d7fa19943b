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

package oci

import (
	"context"
	"strings"
	"testing"
)

func TestParseOutputTarget_Registry(t *testing.T) {
	tests := []struct {
		target   string
		wantHost string
		wantRepo string
		wantTag  string
	}{
		{target: "oci://ghcr.io/nvidia/foo:1.2.3", wantHost: "ghcr.io", wantRepo: "nvidia/foo", wantTag: "1.2.3"},
		{target: "oci://localhost:5000/headerpack/foo", wantHost: "localhost:5000", wantRepo: "headerpack/foo"},
		{target: "oci://foo:0.1.0", wantHost: "docker.io", wantRepo: "library/foo", wantTag: "0.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			ref, err := ParseOutputTarget(tt.target)
			if err != nil {
				t.Fatalf("ParseOutputTarget(%q) error = %v", tt.target, err)
			}
			if !ref.IsOCI || ref.LocalPath != "" {
				t.Errorf("ParseOutputTarget(%q) = %+v, want a registry target", tt.target, ref)
			}
			if ref.Registry != tt.wantHost || ref.Repository != tt.wantRepo || ref.Tag != tt.wantTag {
				t.Errorf("ParseOutputTarget(%q) = %s/%s:%s, want %s/%s:%s", tt.target,
					ref.Registry, ref.Repository, ref.Tag, tt.wantHost, tt.wantRepo, tt.wantTag)
			}
		})
	}
}

func TestParseOutputTarget_Rejected(t *testing.T) {
	for _, target := range []string{
		"oci://ghcr.io/NVIDIA/Foo:1.0.0",
		"oci://ghcr.io/nvidia/foo@sha256:abc",
		"oci://",
	} {
		t.Run(target, func(t *testing.T) {
			if _, err := ParseOutputTarget(target); err == nil {
				t.Errorf("ParseOutputTarget(%q) expected error", target)
			}
		})
	}
}

func TestParseOutputTarget_LocalLayout(t *testing.T) {
	ref, err := ParseOutputTarget("./dist")
	if err != nil {
		t.Fatalf("ParseOutputTarget() error = %v", err)
	}
	if ref.IsOCI || ref.LocalPath != "./dist" {
		t.Errorf("ParseOutputTarget() = %+v, want local layout target ./dist", ref)
	}
	if ref.ImageReference() != "" {
		t.Errorf("local target has image reference %q", ref.ImageReference())
	}
}

func TestValidateRegistryReference(t *testing.T) {
	tests := []struct {
		name       string
		registry   string
		repository string
		wantErr    bool
	}{
		{name: "ghcr", registry: "ghcr.io", repository: "nvidia/headerpack"},
		{name: "local registry with port", registry: "localhost:5000", repository: "headerpack/foo"},
		{name: "scheme prefix ignored", registry: "https://ghcr.io", repository: "nvidia/foo"},
		{name: "nested repository", registry: "registry.example.com:5000", repository: "org/team/foo"},
		{name: "space in registry", registry: "bad registry", repository: "nvidia/foo", wantErr: true},
		{name: "uppercase repository", registry: "ghcr.io", repository: "NVIDIA/Foo", wantErr: true},
		{name: "digest in repository", registry: "ghcr.io", repository: "nvidia/foo@latest", wantErr: true},
		{name: "tag in repository", registry: "ghcr.io", repository: "nvidia/foo:1.2.3", wantErr: true},
		{name: "empty repository", registry: "ghcr.io", repository: "", wantErr: true},
		{name: "empty registry", registry: "https://", repository: "nvidia/foo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistryReference(tt.registry, tt.repository)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRegistryReference(%q, %q) error = %v, wantErr %v",
					tt.registry, tt.repository, err, tt.wantErr)
			}
		})
	}
}

func TestReference_WithTagDefaultsToPackageVersion(t *testing.T) {
	ref, err := ParseOutputTarget("oci://ghcr.io/nvidia/foo")
	if err != nil {
		t.Fatalf("ParseOutputTarget() error = %v", err)
	}

	tagged := ref.WithTag("1.2.3")
	if got := tagged.ImageReference(); got != "ghcr.io/nvidia/foo:1.2.3" {
		t.Errorf("ImageReference() = %q, want ghcr.io/nvidia/foo:1.2.3", got)
	}
	if got := tagged.String(); got != "oci://ghcr.io/nvidia/foo:1.2.3" {
		t.Errorf("String() = %q, want oci://ghcr.io/nvidia/foo:1.2.3", got)
	}
	if ref.Tag != "" || ref.String() != "oci://ghcr.io/nvidia/foo" {
		t.Errorf("WithTag modified the original reference: %+v", ref)
	}
}

func TestDefaultAnnotations(t *testing.T) {
	a := DefaultAnnotations("foo", "1.2.3", "abc123")
	if a["org.opencontainers.image.title"] != "foo" || a["org.opencontainers.image.version"] != "1.2.3" {
		t.Errorf("DefaultAnnotations() title/version = %v", a)
	}
	if a[PackageIDAnnotation] != "abc123" {
		t.Errorf("DefaultAnnotations() package id = %q", a[PackageIDAnnotation])
	}

	if _, ok := DefaultAnnotations("foo", "1.2.3", "")[PackageIDAnnotation]; ok {
		t.Error("empty package id must not be annotated")
	}
}

func TestPackageAndPush_RequiresTarget(t *testing.T) {
	_, err := PackageAndPush(context.Background(), OutputConfig{SourceDir: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "publication target is required") {
		t.Errorf("PackageAndPush() error = %v, want missing target error", err)
	}
}
