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

// Package manifest loads and validates the package manifest.
//
// A manifest is a structured record with two required string fields:
//
//	{"name": "Foo", "version": "1.2.3"}
//
// Any other field is ignored. JSON and YAML are accepted; the format follows
// the file extension. Validation is eager: a Manifest value that exists is
// complete.
package manifest

import (
	"fmt"
	"log/slog"
	"os"

	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
	"github.com/NVIDIA/headerpack/pkg/serializer"
)

// Required manifest fields.
const (
	FieldName    = "name"
	FieldVersion = "version"
)

// Manifest is the validated package manifest.
type Manifest struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Load reads the manifest at path. Read and decode failures are
// MANIFEST_PARSE errors; missing or mistyped fields are MANIFEST_FIELD errors.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, apperrors.WrapWithContext(apperrors.ErrCodeManifestParse,
			"failed to read manifest", err, map[string]any{"path": path})
	}

	m, err := Parse(data, serializer.FormatFromPath(path))
	if err != nil {
		return Manifest{}, err
	}

	slog.Debug("manifest loaded", "path", path, "name", m.Name, "version", m.Version)
	return m, nil
}

// Parse decodes and validates manifest content in the given format.
func Parse(data []byte, format serializer.Format) (Manifest, error) {
	var raw any
	if err := serializer.Unmarshal(format, data, &raw); err != nil {
		return Manifest{}, apperrors.Wrap(apperrors.ErrCodeManifestParse,
			"manifest is not valid structured data", err)
	}

	fields, ok := raw.(map[string]any)
	if !ok {
		return Manifest{}, apperrors.NewWithContext(apperrors.ErrCodeManifestParse,
			"manifest must be an object", map[string]any{"type": fmt.Sprintf("%T", raw)})
	}

	name, err := stringField(fields, FieldName)
	if err != nil {
		return Manifest{}, err
	}
	ver, err := stringField(fields, FieldVersion)
	if err != nil {
		return Manifest{}, err
	}

	return Manifest{Name: name, Version: ver}, nil
}

func stringField(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", apperrors.NewWithContext(apperrors.ErrCodeManifestField,
			fmt.Sprintf("manifest field %q is missing", key), map[string]any{"field": key})
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.NewWithContext(apperrors.ErrCodeManifestField,
			fmt.Sprintf("manifest field %q must be a string, got %T", key, v), map[string]any{"field": key})
	}
	if s == "" {
		return "", apperrors.NewWithContext(apperrors.ErrCodeManifestField,
			fmt.Sprintf("manifest field %q is empty", key), map[string]any{"field": key})
	}
	return s, nil
}
