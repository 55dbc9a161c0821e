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

// Package analyzer reads the persisted daily record logs and computes
// offline analytics. It has no dependency on a live registry and can run in
// a separate process; its only shared resource is the read-only log
// directory.
package analyzer

import "time"

const (
	// DefaultHighImpactThreshold marks a step as high impact when its
	// slowness score exceeds it.
	DefaultHighImpactThreshold = 10000
	// errorRankLimit is how many distinct error messages are reported per step.
	errorRankLimit = 3
)

// ScoreFunc ranks a step name's optimization impact from its aggregate
// duration and execution count. Higher means a more valuable target.
type ScoreFunc func(avgDurationMs float64, executions int) float64

// SlownessScore is the default scoring strategy: average duration weighted
// by execution count, so frequent slow steps outrank rare slower ones.
func SlownessScore(avgDurationMs float64, executions int) float64 {
	return avgDurationMs * float64(executions)
}

// Analyzer computes reports over a trailing window of persisted records.
type Analyzer struct {
	dir           string
	scoreFn       ScoreFunc
	highThreshold float64
	nowFn         func() time.Time
}

// Option configures an Analyzer.
type Option interface {
	apply(*Analyzer)
}

type optionFunc func(*Analyzer)

func (f optionFunc) apply(a *Analyzer) {
	f(a)
}

// WithScoreFunc replaces the bottleneck scoring strategy.
func WithScoreFunc(fn ScoreFunc) Option {
	return optionFunc(func(a *Analyzer) {
		a.scoreFn = fn
	})
}

// WithHighImpactThreshold replaces the high-impact score threshold.
func WithHighImpactThreshold(threshold float64) Option {
	return optionFunc(func(a *Analyzer) {
		a.highThreshold = threshold
	})
}

// New creates an analyzer over the given log directory.
func New(dir string, opts ...Option) *Analyzer {
	a := &Analyzer{
		dir:           dir,
		scoreFn:       SlownessScore,
		highThreshold: DefaultHighImpactThreshold,
		nowFn:         time.Now,
	}
	for _, opt := range opts {
		opt.apply(a)
	}
	return a
}
