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

package tracker

import (
	"fmt"
	"sync"
)

// StepGuard tracks one unit of work from start to finalization. Construct it
// with Track, then either call Complete/Fail explicitly or arrange
// `defer g.End(&err)` so abnormal exits finalize the step as failed while the
// original error keeps propagating to the business caller.
type StepGuard struct {
	reg    *Registry
	stepID string

	mu      sync.Mutex
	done    bool
	output  any
	metrics map[string]any
}

// Track starts a step and returns its guard.
func (r *Registry) Track(pipelineID, stepName string, opts ...StepOption) *StepGuard {
	return &StepGuard{
		reg:     r,
		stepID:  r.StartStep(pipelineID, stepName, opts...),
		metrics: map[string]any{},
	}
}

// StepID returns the id of the tracked step.
func (g *StepGuard) StepID() string {
	return g.stepID
}

// SetOutput records the step's output payload; applied at finalization.
func (g *StepGuard) SetOutput(output any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.output = output
}

// AddMetric records a named performance metric; applied at finalization.
func (g *StepGuard) AddMetric(key string, value any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.metrics[key] = value
}

// Complete finalizes the step as completed. Idempotent; later calls are no-ops.
func (g *StepGuard) Complete() bool {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return false
	}
	g.done = true
	output, metrics := g.output, g.metrics
	g.mu.Unlock()
	return g.reg.CompleteStep(g.stepID, WithOutput(output), WithMetrics(metrics))
}

// Fail finalizes the step as failed with the error's message. Idempotent.
func (g *StepGuard) Fail(err error) bool {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return false
	}
	g.done = true
	metrics := g.metrics
	g.mu.Unlock()

	msg := "unknown error"
	var details map[string]any
	if err != nil {
		msg = err.Error()
		details = map[string]any{"error_type": fmt.Sprintf("%T", err)}
	}
	if len(metrics) > 0 {
		if details == nil {
			details = map[string]any{}
		}
		details["metrics_at_failure"] = metrics
	}
	return g.reg.FailStep(g.stepID, msg, details)
}

// End finalizes the step based on how the guarded function exited. Use it as
// `defer g.End(&err)`: a panic is recorded as a failure and re-raised, a
// non-nil error finalizes as failed, anything else as completed. It never
// masks the guarded function's outcome.
func (g *StepGuard) End(errp *error) {
	if r := recover(); r != nil {
		g.Fail(fmt.Errorf("panic: %v", r))
		panic(r)
	}
	if errp != nil && *errp != nil {
		g.Fail(*errp)
		return
	}
	g.Complete()
}
