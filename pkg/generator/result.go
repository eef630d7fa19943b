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

package generator

import (
	"fmt"
	"time"
)

// Result tracks the files written during generation.
type Result struct {
	// Files lists absolute paths of written files in write order.
	Files []string `json:"files" yaml:"files"`

	// Size is the total size in bytes of written files.
	Size int64 `json:"size_bytes" yaml:"size_bytes"`

	// Duration is the time generation took.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// NewResult creates an empty result.
func NewResult() *Result {
	return &Result{Files: []string{}}
}

// AddFile records a written file and its size.
func (r *Result) AddFile(path string, size int64) {
	r.Files = append(r.Files, path)
	r.Size += size
}

// Summary returns a human-readable one-liner.
func (r *Result) Summary() string {
	return fmt.Sprintf("Generated %d files (%s) in %v.",
		len(r.Files), formatBytes(r.Size), r.Duration.Round(time.Millisecond))
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
