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
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
)

// URIScheme is the URI scheme for OCI registry targets (e.g., "oci://ghcr.io/org/repo:tag").
const URIScheme = "oci://"

// Reference represents a parsed publication target, which can be either an
// OCI registry reference or a local directory receiving an OCI Image Layout.
type Reference struct {
	// IsOCI indicates whether this is an OCI registry reference (true) or local path (false).
	IsOCI bool
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the image repository path (e.g., "nvidia/foo").
	Repository string
	// Tag is the image tag. Empty means the caller applies a default.
	Tag string
	// LocalPath is the local directory path for non-OCI targets.
	LocalPath string
}

// ParseOutputTarget parses a target string. OCI URIs (oci://registry/repository:tag)
// are split into their components; anything else is a local directory.
func ParseOutputTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{
			IsOCI:     false,
			LocalPath: target,
		}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// ValidateRegistryReference checks that registry and repository form a valid
// image name. A http:// or https:// prefix on the registry is ignored.
func ValidateRegistryReference(registry, repository string) error {
	host := stripProtocol(registry)
	if host == "" || repository == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "registry and repository are required")
	}
	name := fmt.Sprintf("%s/%s", host, repository)
	named, err := reference.ParseNormalizedNamed(name)
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid registry reference", err,
			map[string]any{"reference": name})
	}
	if !reference.IsNameOnly(named) {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "registry reference must not carry a tag or digest",
			map[string]any{"reference": name})
	}
	return nil
}

// String returns "oci://registry/repository[:tag]" for OCI targets and the
// path for local ones.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s%s/%s", URIScheme, r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
}

// ImageReference returns the image reference without the oci:// scheme,
// or an empty string for local targets.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference with the given tag. Local targets
// are returned unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	cp := *r
	cp.Tag = tag
	return &cp
}

// OutputConfig configures PackageAndPush.
type OutputConfig struct {
	// SourceDir is the package folder to publish.
	SourceDir string
	// OutputDir receives the OCI Image Layout.
	OutputDir string
	// Reference is the parsed target.
	Reference *Reference
	// Name and Version describe the package in the manifest annotations.
	Name    string
	Version string
	// PackageID is recorded as an annotation when set.
	PackageID string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Annotations replace the default annotations when non-nil.
	Annotations map[string]string
}

// PackageIDAnnotation carries the package identity on the manifest.
const PackageIDAnnotation = "com.nvidia.headerpack.package-id"

// PackageAndPushResult contains the result of a package and push operation.
type PackageAndPushResult struct {
	// Digest is the SHA256 digest of the artifact manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
	// StorePath is the path to the local OCI Image Layout directory.
	StorePath string
	// Pushed is false when the target was a local directory.
	Pushed bool
}

// DefaultAnnotations returns the manifest annotations for a package.
func DefaultAnnotations(name, version, packageID string) map[string]string {
	a := map[string]string{
		"org.opencontainers.image.title":   name,
		"org.opencontainers.image.version": version,
		"org.opencontainers.image.vendor":  "NVIDIA",
		"org.opencontainers.image.source":  "https://github.com/NVIDIA/headerpack",
	}
	if packageID != "" {
		a[PackageIDAnnotation] = packageID
	}
	return a
}

// PackageAndPush packs SourceDir and, for OCI targets, pushes it. For local
// targets the OCI Image Layout is written under the target directory.
func PackageAndPush(ctx context.Context, cfg OutputConfig) (*PackageAndPushResult, error) {
	if cfg.Reference == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "publication target is required")
	}

	ref := cfg.Reference
	outputDir := cfg.OutputDir
	if !ref.IsOCI {
		// local layouts still need a name to tag the manifest under
		outputDir = ref.LocalPath
		ref = &Reference{IsOCI: true, Registry: "localhost", Repository: "headerpack/" + cfg.Name, Tag: cfg.Version}
	}
	if ref.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}

	absSourceDir, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve output directory", err)
	}

	annotations := cfg.Annotations
	if annotations == nil {
		annotations = DefaultAnnotations(cfg.Name, cfg.Version, cfg.PackageID)
	}

	slog.Info("packaging package folder as OCI artifact",
		"registry", ref.Registry,
		"repository", ref.Repository,
		"tag", ref.Tag,
	)

	packageResult, err := Package(ctx, PackageOptions{
		SourceDir:   absSourceDir,
		OutputDir:   absOutputDir,
		Registry:    ref.Registry,
		Repository:  ref.Repository,
		Tag:         ref.Tag,
		Annotations: annotations,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to package OCI artifact", err)
	}

	slog.Info("OCI artifact packaged locally",
		"reference", packageResult.Reference,
		"digest", packageResult.Digest,
		"store_path", packageResult.StorePath,
	)

	result := &PackageAndPushResult{
		Digest:    packageResult.Digest,
		Reference: packageResult.Reference,
		StorePath: packageResult.StorePath,
	}
	if !cfg.Reference.IsOCI {
		return result, nil
	}

	pushResult, err := PushFromStore(ctx, packageResult.StorePath, PushOptions{
		Registry:    ref.Registry,
		Repository:  ref.Repository,
		Tag:         ref.Tag,
		PlainHTTP:   cfg.PlainHTTP,
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to push OCI artifact to registry", err)
	}

	slog.Info("OCI artifact pushed successfully",
		"reference", pushResult.Reference,
		"digest", pushResult.Digest,
	)

	result.Digest = pushResult.Digest
	result.Pushed = true
	return result, nil
}
