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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
)

func TestMinimalResolver(t *testing.T) {
	got, err := MinimalResolver{}.Resolve(context.Background(), []Requirement{Production(), TestOnly()})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "boost/1.81.0", got[0].Ref())
	assert.Equal(t, "gtest/1.14.0", got[1].Ref())
}

func TestMinimalResolver_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MinimalResolver{}.Resolve(ctx, []Requirement{Production()})
	assert.ErrorIs(t, err, context.Canceled)
}

func testCatalog() *Catalog {
	return &Catalog{Packages: map[string][]CatalogEntry{
		"boost": {
			{Version: "1.80.0"},
			{Version: "1.81.0", Root: "/opt/boost", IncludeDirs: []string{"include/boost-1_81"}},
			{Version: "1.83.0"},
		},
		"gtest": {
			{Version: "1.13.0"},
			{Version: "1.14.0"},
			{Version: "1.15.2", Root: "/opt/gtest"},
			{Version: "1.16.0-rc1"},
			{Version: "2.0.0"},
			{Version: "bogus"},
		},
	}}
}

func TestCatalogResolver(t *testing.T) {
	r := CatalogResolver{Catalog: testCatalog()}
	got, err := r.Resolve(context.Background(), []Requirement{Production(), TestOnly()})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1.81.0", got[0].Version)
	assert.Equal(t, "/opt/boost", got[0].RootDir)
	assert.Equal(t, []string{"include/boost-1_81"}, got[0].IncludeDirs)

	assert.Equal(t, "1.15.2", got[1].Version, "highest allowed, pre-release excluded")
	assert.Equal(t, []string{"include"}, got[1].IncludeDirs)
}

func TestCatalogResolver_Unsatisfiable(t *testing.T) {
	cat := testCatalog()
	cat.Packages["boost"] = []CatalogEntry{{Version: "1.82.0"}}

	_, err := CatalogResolver{Catalog: cat}.Resolve(context.Background(), []Requirement{Production()})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDependencyResolution))

	var se *apperrors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"1.82.0"}, se.Context["available"])
}

func TestCatalogResolver_NoCatalog(t *testing.T) {
	_, err := CatalogResolver{}.Resolve(context.Background(), []Requirement{Production()})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDependencyResolution))
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `packages:
  boost:
    - version: 1.81.0
      root: pkgs/boost
  gtest:
    - version: 1.14.0
      root: /abs/gtest
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pkgs/boost"), cat.Packages["boost"][0].Root)
	assert.Equal(t, "/abs/gtest", cat.Packages["gtest"][0].Root)
}
