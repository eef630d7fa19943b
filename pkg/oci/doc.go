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

// Package oci publishes a package folder as an OCI artifact.
//
// A package folder (headers, headerpack.json, checksums.txt) is packed as a
// single reproducible gzip tar layer under an OCI 1.1 manifest with the
// artifact type "application/vnd.nvidia.headerpack.package". The artifact is
// first written to a local OCI Image Layout and then copied to a registry
// with ORAS:
//
//	pkg, err := oci.Package(ctx, oci.PackageOptions{
//	    SourceDir:  "/work/foo/build/package",
//	    OutputDir:  "/tmp/out",
//	    Registry:   "ghcr.io",
//	    Repository: "nvidia/foo",
//	    Tag:        "1.2.3",
//	})
//	res, err := oci.PushFromStore(ctx, pkg.StorePath, oci.PushOptions{
//	    Registry:   "ghcr.io",
//	    Repository: "nvidia/foo",
//	    Tag:        "1.2.3",
//	})
//
// PackageAndPush combines both for a parsed "oci://registry/repo:tag"
// target. A target without the oci:// scheme is a local directory that
// receives the OCI Image Layout without any push.
//
// Registry credentials come from the Docker configuration
// (~/.docker/config.json) through the ORAS credentials store. PlainHTTP and
// InsecureTLS exist for local development registries.
package oci
