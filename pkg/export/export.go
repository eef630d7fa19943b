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

// Package export copies a recipe's sources out of a working tree so they
// can be built elsewhere.
//
// The export set is a list of entries relative to the source root. A plain
// entry names one file; an entry ending in "/*" names a directory whose
// whole tree is copied. Missing entries are skipped, except the manifest,
// which must exist.
package export

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/headerpack/pkg/checksum"
	"github.com/NVIDIA/headerpack/pkg/defaults"
	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
	"github.com/NVIDIA/headerpack/pkg/generator"
)

// DefaultSources is the recipe's export set.
var DefaultSources = []string{
	"README.md",
	defaults.ManifestFileName,
	"CMakeLists.txt",
	"include/*",
	"tests/*",
}

// Result lists what an export copied.
type Result struct {
	Destination string   `json:"destination" yaml:"destination"`
	Files       []string `json:"files" yaml:"files"`
	Skipped     []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Checksums   string   `json:"checksums,omitempty" yaml:"checksums,omitempty"`
}

// Config controls an export.
type Config struct {
	// Sources overrides DefaultSources when non-empty.
	Sources []string

	// WriteChecksums adds checksums.txt to the destination.
	WriteChecksums bool
}

// Sources copies the export set from srcDir into dstDir. Copied paths in
// the result are relative to dstDir.
func Sources(ctx context.Context, srcDir, dstDir string, cfg Config) (*Result, error) {
	entries := cfg.Sources
	if len(entries) == 0 {
		entries = DefaultSources
	}

	manifestPath := filepath.Join(srcDir, defaults.ManifestFileName)
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
			"manifest is required for export", err, map[string]any{"path": manifestPath})
	}

	if err := os.MkdirAll(dstDir, defaults.DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create export destination: %w", err)
	}

	res := &Result{Destination: dstDir, Files: []string{}}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}

		rel, recursive := strings.CutSuffix(filepath.ToSlash(entry), "/*")
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"export entry escapes the source root", map[string]any{"entry": entry})
		}
		src := filepath.Join(srcDir, filepath.FromSlash(rel))

		info, err := os.Stat(src)
		if err != nil {
			slog.Debug("export entry not present, skipping", "entry", entry)
			res.Skipped = append(res.Skipped, entry)
			continue
		}

		if recursive && info.IsDir() {
			if err := copyTree(src, srcDir, dstDir, res); err != nil {
				return nil, err
			}
			continue
		}
		if info.IsDir() {
			return nil, fmt.Errorf("export entry %q is a directory; use %q", entry, rel+"/*")
		}
		if err := copyOne(src, srcDir, dstDir, res); err != nil {
			return nil, err
		}
	}

	if cfg.WriteChecksums {
		path, err := checksum.GenerateForDir(ctx, dstDir)
		if err != nil {
			return nil, err
		}
		res.Checksums = path
	}

	slog.Info("sources exported",
		"destination", dstDir,
		"files", len(res.Files),
		"skipped", len(res.Skipped))
	return res, nil
}

func copyTree(root, srcDir, dstDir string, res *Result) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyOne(path, srcDir, dstDir, res)
	})
}

func copyOne(src, srcDir, dstDir string, res *Result) error {
	rel, err := filepath.Rel(srcDir, src)
	if err != nil {
		return fmt.Errorf("failed to relativize %s: %w", src, err)
	}
	if err := generator.CopyFile(nil, src, filepath.Join(dstDir, rel)); err != nil {
		return err
	}
	res.Files = append(res.Files, filepath.ToSlash(rel))
	return nil
}
