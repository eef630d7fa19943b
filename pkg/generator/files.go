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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/NVIDIA/headerpack/pkg/defaults"
	apperrors "github.com/NVIDIA/headerpack/pkg/errors"
)

// PrepareDir creates the generators directory and checks it is writable.
func PrepareDir(dir string) error {
	if err := os.MkdirAll(dir, defaults.DirPerm); err != nil {
		return ioError("failed to create generators directory", err, dir)
	}
	return checkDir(dir)
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return ioError("generators directory is missing", err, dir)
	}
	if !info.IsDir() {
		return ioError("generators path is not a directory", nil, dir)
	}

	tmp, err := os.CreateTemp(dir, ".headerpack-write-*")
	if err != nil {
		return ioError("generators directory is not writable", err, dir)
	}
	name := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(name)
	return nil
}

// writeFile writes content and tracks it in res.
func writeFile(res *Result, path string, content []byte) error {
	if err := os.WriteFile(path, content, defaults.FilePerm); err != nil {
		return ioError("failed to write generated file", err, path)
	}
	if res != nil {
		res.AddFile(path, int64(len(content)))
	}

	slog.Debug("file written",
		"path", path,
		"size_bytes", len(content),
	)
	return nil
}

// cmakeEscaper escapes text for use inside a CMake quoted argument.
var cmakeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	`;`, `\;`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// cmakeQuote returns s escaped for a CMake quoted argument. The result is
// read back by CMake as exactly s.
func cmakeQuote(s string) string {
	return cmakeEscaper.Replace(s)
}

// templateFuncs are available to every generator template.
var templateFuncs = template.FuncMap{
	"cmakeQuote": cmakeQuote,
}

func renderTemplate(tmpl *template.Template, data any) ([]byte, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", tmpl.Name(), err)
	}
	return []byte(buf.String()), nil
}

// CopyFile copies src to dst as a plain, non-atomic copy. An interrupted
// copy may leave a truncated dst behind.
func CopyFile(res *Result, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return ioError("copy source is absent", err, src)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), defaults.DirPerm); err != nil {
		return ioError("failed to create copy destination directory", err, dst)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaults.FilePerm)
	if err != nil {
		return ioError("failed to open copy destination", err, dst)
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ioError("failed to copy file", err, dst)
	}
	if res != nil {
		res.AddFile(dst, n)
	}

	slog.Debug("file copied", "from", src, "to", dst, "size_bytes", n)
	return nil
}

func ioError(msg string, cause error, path string) error {
	ctx := map[string]any{"path": path}
	if cause == nil {
		return apperrors.NewWithContext(apperrors.ErrCodeGenerationIO, msg, ctx)
	}
	return apperrors.WrapWithContext(apperrors.ErrCodeGenerationIO, msg, cause, ctx)
}
