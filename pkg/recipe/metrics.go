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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Evaluation status label values.
const (
	statusSuccess = "success"
	statusFailure = "failure"
)

var (
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "headerpack_stage_duration_seconds",
			Help:    "Duration of recipe lifecycle stages in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 5, 30, 120, 600},
		},
		[]string{"stage"},
	)

	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headerpack_evaluations_total",
			Help: "Total number of recipe evaluations by outcome",
		},
		[]string{"status"},
	)

	generatedFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "headerpack_generated_files",
			Help: "Number of files written by the most recent generate stage",
		},
	)
)
