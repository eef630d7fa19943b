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

// Package drivertest provides a recording driver.Driver for tests of code
// that runs the build lifecycle.
package drivertest

import (
	"context"
	"sync"

	"github.com/NVIDIA/headerpack/pkg/driver"
)

// Fake is an in-memory driver.Driver that records each step and returns the
// configured error for it.
type Fake struct {
	ConfigureErr error
	BuildErr     error
	InstallErr   error

	// OnInstall runs before a successful install returns, e.g. to place
	// headers into the prefix.
	OnInstall func(opts driver.InstallOptions) error

	mu        sync.Mutex
	calls     []string
	configure []driver.ConfigureOptions
	build     []driver.BuildOptions
	install   []driver.InstallOptions
}

// Configure implements driver.Driver.
func (f *Fake) Configure(_ context.Context, opts driver.ConfigureOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, driver.StepConfigure)
	f.configure = append(f.configure, opts)
	return f.ConfigureErr
}

// Build implements driver.Driver.
func (f *Fake) Build(_ context.Context, opts driver.BuildOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, driver.StepBuild)
	f.build = append(f.build, opts)
	return f.BuildErr
}

// Install implements driver.Driver.
func (f *Fake) Install(_ context.Context, opts driver.InstallOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, driver.StepInstall)
	f.install = append(f.install, opts)
	if f.InstallErr != nil {
		return f.InstallErr
	}
	if f.OnInstall != nil {
		return f.OnInstall(opts)
	}
	return nil
}

// Calls returns the recorded step names in call order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// InstallCalls returns the recorded install options.
func (f *Fake) InstallCalls() []driver.InstallOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]driver.InstallOptions(nil), f.install...)
}

// ConfigureCalls returns the recorded configure options.
func (f *Fake) ConfigureCalls() []driver.ConfigureOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]driver.ConfigureOptions(nil), f.configure...)
}

// BuildCalls returns the recorded build options.
func (f *Fake) BuildCalls() []driver.BuildOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]driver.BuildOptions(nil), f.build...)
}
