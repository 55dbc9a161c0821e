// Copyright 2026 Arcentra Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Sink holds the tracker instrumentation collectors on a private registry,
// so multiple tracker instances can coexist without collector collisions.
type Sink struct {
	registry *prometheus.Registry

	StepsStarted       prometheus.Counter
	StepsCompleted     prometheus.Counter
	StepsFailed        prometheus.Counter
	PipelinesStarted   prometheus.Counter
	PipelinesCompleted prometheus.Counter
	PersistErrors      prometheus.Counter
	SamplingErrors     prometheus.Counter
	ActiveSteps        prometheus.Gauge
	ActivePipelines    prometheus.Gauge
}

// NewSink creates a sink with all tracker collectors registered.
func NewSink() *Sink {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Sink{
		registry: reg,
		StepsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipetrace_steps_started_total",
			Help: "Total number of tracked steps started.",
		}),
		StepsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipetrace_steps_completed_total",
			Help: "Total number of tracked steps completed successfully.",
		}),
		StepsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipetrace_steps_failed_total",
			Help: "Total number of tracked steps finalized as failed.",
		}),
		PipelinesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipetrace_pipelines_started_total",
			Help: "Total number of pipelines started.",
		}),
		PipelinesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipetrace_pipelines_completed_total",
			Help: "Total number of pipelines finalized.",
		}),
		PersistErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipetrace_persist_errors_total",
			Help: "Total number of swallowed persistence write failures.",
		}),
		SamplingErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipetrace_sampling_errors_total",
			Help: "Total number of payloads that could not be rendered into a sample.",
		}),
		ActiveSteps: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pipetrace_active_steps",
			Help: "Number of steps currently running.",
		}),
		ActivePipelines: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pipetrace_active_pipelines",
			Help: "Number of pipelines currently running.",
		}),
	}
}

// GetRegistry returns the underlying registry for exposition or tests.
func (s *Sink) GetRegistry() *prometheus.Registry {
	return s.registry
}

// CounterValue reads the current value of a counter. Test helper.
func CounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
