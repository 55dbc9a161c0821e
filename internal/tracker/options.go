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

// PipelineOption is the interface for StartPipeline options.
type PipelineOption interface {
	apply(*pipelineOptions)
}

type pipelineOptions struct {
	sessionID string
}

type pipelineOptionFunc func(*pipelineOptions)

func (f pipelineOptionFunc) apply(o *pipelineOptions) {
	f(o)
}

// WithSessionID sets an explicit session id instead of the time-based default.
func WithSessionID(sessionID string) PipelineOption {
	return pipelineOptionFunc(func(o *pipelineOptions) {
		o.sessionID = sessionID
	})
}

func applyPipelineOptions(opts []PipelineOption) pipelineOptions {
	var o pipelineOptions
	for _, opt := range opts {
		opt.apply(&o)
	}
	return o
}

// StepOption is the interface for StartStep options.
type StepOption interface {
	apply(*stepOptions)
}

type stepOptions struct {
	input        any
	dependencies []string
	tags         []string
}

type stepOptionFunc func(*stepOptions)

func (f stepOptionFunc) apply(o *stepOptions) {
	f(o)
}

// WithInput attaches the step's input payload for size accounting and sampling.
func WithInput(input any) StepOption {
	return stepOptionFunc(func(o *stepOptions) {
		o.input = input
	})
}

// WithDependencies records the step names this step logically depends on.
// Informational only; ordering is not enforced.
func WithDependencies(deps ...string) StepOption {
	return stepOptionFunc(func(o *stepOptions) {
		o.dependencies = deps
	})
}

// WithTags attaches free-form labels for later filtering.
func WithTags(tags ...string) StepOption {
	return stepOptionFunc(func(o *stepOptions) {
		o.tags = tags
	})
}

func applyStepOptions(opts []StepOption) stepOptions {
	var o stepOptions
	for _, opt := range opts {
		opt.apply(&o)
	}
	return o
}

// FinishOption is the interface for CompleteStep options.
type FinishOption interface {
	apply(*finishOptions)
}

type finishOptions struct {
	output  any
	metrics map[string]any
	status  StepStatus
}

type finishOptionFunc func(*finishOptions)

func (f finishOptionFunc) apply(o *finishOptions) {
	f(o)
}

// WithOutput attaches the step's output payload for size accounting and sampling.
func WithOutput(output any) FinishOption {
	return finishOptionFunc(func(o *finishOptions) {
		o.output = output
	})
}

// WithMetrics merges caller-supplied performance metrics into the record.
func WithMetrics(metrics map[string]any) FinishOption {
	return finishOptionFunc(func(o *finishOptions) {
		o.metrics = metrics
	})
}

// WithStatus overrides the terminal status written by CompleteStep.
func WithStatus(status StepStatus) FinishOption {
	return finishOptionFunc(func(o *finishOptions) {
		o.status = status
	})
}

func applyFinishOptions(opts []FinishOption) finishOptions {
	o := finishOptions{status: StepStatusCompleted}
	for _, opt := range opts {
		opt.apply(&o)
	}
	return o
}
