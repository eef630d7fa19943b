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

package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSources(t *testing.T) {
	src := t.TempDir()
	write(t, filepath.Join(src, "package.json"), `{"name":"foo","version":"1.0.0"}`)
	write(t, filepath.Join(src, "CMakeLists.txt"), "project(foo)\n")
	write(t, filepath.Join(src, "include", "foo", "foo.hpp"), "#pragma once\n")
	write(t, filepath.Join(src, "include", "foo", "detail", "impl.hpp"), "#pragma once\n")
	write(t, filepath.Join(src, "tests", "foo_test.cpp"), "int main() {}\n")
	write(t, filepath.Join(src, "build", "junk.o"), "x")

	dst := filepath.Join(t.TempDir(), "export")
	res, err := Sources(context.Background(), src, dst, Config{WriteChecksums: true})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"package.json",
		"CMakeLists.txt",
		"include/foo/foo.hpp",
		"include/foo/detail/impl.hpp",
		"tests/foo_test.cpp",
	}, res.Files)
	assert.Equal(t, []string{"README.md"}, res.Skipped)
	assert.FileExists(t, res.Checksums)
	assert.NoFileExists(t, filepath.Join(dst, "build", "junk.o"))

	got, err := os.ReadFile(filepath.Join(dst, "include", "foo", "detail", "impl.hpp"))
	require.NoError(t, err)
	assert.Equal(t, "#pragma once\n", string(got))
}

func TestSources_MissingManifest(t *testing.T) {
	_, err := Sources(context.Background(), t.TempDir(), t.TempDir(), Config{})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestSources_CustomEntries(t *testing.T) {
	src := t.TempDir()
	write(t, filepath.Join(src, "package.json"), "{}")
	write(t, filepath.Join(src, "LICENSE"), "Apache-2.0")
	write(t, filepath.Join(src, "include", "a.hpp"), "")

	dst := t.TempDir()
	res, err := Sources(context.Background(), src, dst, Config{Sources: []string{"LICENSE"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"LICENSE"}, res.Files)
	assert.Empty(t, res.Checksums)
}

func TestSources_DirectoryWithoutWildcard(t *testing.T) {
	src := t.TempDir()
	write(t, filepath.Join(src, "package.json"), "{}")
	write(t, filepath.Join(src, "include", "a.hpp"), "")

	_, err := Sources(context.Background(), src, t.TempDir(), Config{Sources: []string{"include"}})
	assert.ErrorContains(t, err, `use "include/*"`)
}

func TestSources_Canceled(t *testing.T) {
	src := t.TempDir()
	write(t, filepath.Join(src, "package.json"), "{}")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sources(ctx, src, t.TempDir(), Config{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSources_RejectsEntriesOutsideSourceRoot(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "pkg")
	write(t, filepath.Join(src, "package.json"), "{}")
	write(t, filepath.Join(root, "secret"), "token")

	for _, entry := range []string{"../secret", "/etc/passwd", "include/../../secret", "../*"} {
		t.Run(entry, func(t *testing.T) {
			dst := t.TempDir()
			_, err := Sources(context.Background(), src, dst, Config{Sources: []string{entry}})
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))

			copied, err := os.ReadDir(dst)
			require.NoError(t, err)
			assert.Empty(t, copied)
		})
	}
}
