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

package recipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NVIDIA/headerpack/pkg/checksum"
	"github.com/NVIDIA/headerpack/pkg/defaults"
	"github.com/NVIDIA/headerpack/pkg/identity"
	"github.com/NVIDIA/headerpack/pkg/requirement"
	"github.com/NVIDIA/headerpack/pkg/serializer"
)

// MetadataKind identifies the package metadata document.
const MetadataKind = "HeaderPackage"

// Metadata is the consumer-facing document written into the package folder.
type Metadata struct {
	Kind        string      `json:"kind" yaml:"kind"`
	Name        string      `json:"name" yaml:"name"`
	Version     string      `json:"version" yaml:"version"`
	PackageID   string      `json:"packageId" yaml:"packageId"`
	Requires    []string    `json:"requires" yaml:"requires"`
	PackageInfo PackageInfo `json:"packageInfo" yaml:"packageInfo"`
	GeneratedBy string      `json:"generatedBy,omitempty" yaml:"generatedBy,omitempty"`
}

func newMetadata(st State, toolVersion string) Metadata {
	requires := []string{}
	for _, r := range requirement.ProductionOnly(st.Requirements) {
		requires = append(requires, r.String())
	}

	info := HeaderOnlyPackageInfo()
	if st.PackageInfo != nil {
		info = *st.PackageInfo
	}

	// identity reduction is total and pure, so the published id is known
	// before reduce-identity stores it on the state
	pkgID := st.PackageID
	if pkgID == "" {
		pkgID = identity.Reduce(identity.Compute(st.Settings, st.Options, st.Resolved)).ID()
	}

	md := Metadata{
		Kind:        MetadataKind,
		Name:        st.Name,
		Version:     st.Version,
		PackageID:   pkgID,
		Requires:    requires,
		PackageInfo: info,
	}
	if toolVersion != "" {
		md.GeneratedBy = "headerpack " + toolVersion
	}
	return md
}

// writeMetadata writes headerpack.json and refreshes checksums.txt in dir.
func writeMetadata(ctx context.Context, dir string, md Metadata) (string, error) {
	data, err := serializer.Marshal(serializer.FormatJSON, md)
	if err != nil {
		return "", fmt.Errorf("failed to marshal package metadata: %w", err)
	}

	if err := os.MkdirAll(dir, defaults.DirPerm); err != nil {
		return "", fmt.Errorf("failed to create package directory: %w", err)
	}
	path := filepath.Join(dir, defaults.PackageMetadataFileName)
	if err := os.WriteFile(path, data, defaults.FilePerm); err != nil {
		return "", fmt.Errorf("failed to write package metadata: %w", err)
	}

	if _, err := checksum.GenerateForDir(ctx, dir); err != nil {
		return "", err
	}
	return path, nil
}

// LoadMetadata reads the metadata document of a package folder.
func LoadMetadata(dir string) (*Metadata, error) {
	return serializer.FromFile[Metadata](filepath.Join(dir, defaults.PackageMetadataFileName))
}
