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

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeManifestField, "manifest field missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeManifestField {
		t.Errorf("expected code %s, got %s", ErrCodeManifestField, err.Code)
	}
	if err.Message != "manifest field missing" {
		t.Errorf("expected message 'manifest field missing', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "operation failed", cause)

	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("timeout")
	ctx := map[string]any{
		"stage":  "build",
		"driver": "cmake",
	}

	err := WrapWithContext(ErrCodeBuild, "configure failed", cause, ctx)

	if err.Code != ErrCodeBuild {
		t.Errorf("expected code %s, got %s", ErrCodeBuild, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["driver"] != "cmake" {
		t.Errorf("expected driver to be cmake")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeNotFound,
		ErrCodeUnauthorized,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeInvalidRequest,
		ErrCodeUnavailable,
		ErrCodeManifestParse,
		ErrCodeManifestField,
		ErrCodeDependencyResolution,
		ErrCodeGenerationIO,
		ErrCodeBuild,
		ErrCodeInstall,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}

func TestHasCode(t *testing.T) {
	inner := Wrap(ErrCodeBuild, "configure failed", errors.New("exit status 1"))
	outer := fmt.Errorf("stage build: %w", inner)

	if !HasCode(outer, ErrCodeBuild) {
		t.Error("expected BUILD code through fmt wrap")
	}
	if HasCode(outer, ErrCodeInstall) {
		t.Error("unexpected INSTALL code")
	}
	if HasCode(errors.New("plain"), ErrCodeBuild) {
		t.Error("plain error should carry no code")
	}
	if HasCode(nil, ErrCodeBuild) {
		t.Error("nil error should carry no code")
	}

	nested := Wrap(ErrCodeGenerationIO, "copy failed", New(ErrCodeManifestParse, "bad"))
	if !HasCode(nested, ErrCodeManifestParse) {
		t.Error("expected nested code to be found")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrCodeManifestField, "missing version")); got != ErrCodeManifestField {
		t.Errorf("CodeOf() = %s, want %s", got, ErrCodeManifestField)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf() = %s, want empty", got)
	}
}
