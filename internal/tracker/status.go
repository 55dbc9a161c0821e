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
	"math"
	"time"
)

// StepStats summarizes the recent in-memory performance history for one
// step name. It reads the bounded ring buffers only, not the on-disk logs.
type StepStats struct {
	StepName      string  `json:"step_name"`
	Count         int     `json:"count"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	MinDurationMs float64 `json:"min_duration_ms"`
	MaxDurationMs float64 `json:"max_duration_ms"`
	AvgInputSize  float64 `json:"avg_input_size"`
}

// ActivePipelineStatus describes one currently-running pipeline.
type ActivePipelineStatus struct {
	PipelineID   string   `json:"pipeline_id"`
	PipelineType string   `json:"pipeline_type"`
	UserID       string   `json:"user_id"`
	RunningForMs float64  `json:"running_for_ms"`
	RunningSteps []string `json:"running_steps"`
}

// StatusSnapshot is a point-in-time view of the registry's live state.
type StatusSnapshot struct {
	ActivePipelines   int                    `json:"active_pipelines"`
	ActiveSteps       int                    `json:"active_steps"`
	RecentCompletions int                    `json:"recent_completions"`
	Pipelines         []ActivePipelineStatus `json:"pipelines"`
}

// StepAnalysis returns recent performance stats for stepName, or for every
// known step name when stepName is empty. Only history entries newer than
// hoursBack are counted.
func (r *Registry) StepAnalysis(stepName string, hoursBack int) map[string]StepStats {
	cutoff := r.nowFn().Add(-time.Duration(hoursBack) * time.Hour)
	out := make(map[string]StepStats)

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, ring := range r.history {
		if stepName != "" && name != stepName {
			continue
		}
		stats := StepStats{StepName: name, MinDurationMs: math.MaxFloat64}
		var totalDuration, totalInput float64
		for _, s := range ring.Items() {
			if s.Timestamp.Before(cutoff) {
				continue
			}
			stats.Count++
			totalDuration += s.DurationMs
			totalInput += float64(s.InputSize)
			if s.DurationMs < stats.MinDurationMs {
				stats.MinDurationMs = s.DurationMs
			}
			if s.DurationMs > stats.MaxDurationMs {
				stats.MaxDurationMs = s.DurationMs
			}
		}
		if stats.Count == 0 {
			continue
		}
		stats.AvgDurationMs = totalDuration / float64(stats.Count)
		stats.AvgInputSize = totalInput / float64(stats.Count)
		out[name] = stats
	}
	return out
}

// PipelineStatus returns counts of live state plus, per active pipeline, its
// running duration and the names of its currently-running steps.
func (r *Registry) PipelineStatus() StatusSnapshot {
	now := r.nowFn()

	r.mu.Lock()
	defer r.mu.Unlock()
	snap := StatusSnapshot{
		ActivePipelines:   len(r.activePipelines),
		ActiveSteps:       len(r.activeSteps),
		RecentCompletions: r.recent.Len(),
	}
	for _, p := range r.activePipelines {
		st := ActivePipelineStatus{
			PipelineID:   p.PipelineID,
			PipelineType: p.PipelineType,
			UserID:       p.UserID,
			RunningForMs: float64(now.Sub(p.StartTime)) / float64(time.Millisecond),
		}
		for _, s := range p.Steps {
			if s.Status == StepStatusRunning {
				st.RunningSteps = append(st.RunningSteps, s.StepName)
			}
		}
		snap.Pipelines = append(snap.Pipelines, st)
	}
	return snap
}
