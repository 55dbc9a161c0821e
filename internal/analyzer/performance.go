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

package analyzer

import (
	"sort"

	"github.com/arcentrix/pipetrace/internal/tracker"
)

// StepPerformance aggregates every execution of one step name in the window.
type StepPerformance struct {
	StepName         string   `json:"step_name"`
	Executions       int      `json:"executions"`
	SuccessRate      float64  `json:"success_rate"`
	AvgDurationMs    float64  `json:"avg_duration_ms"`
	MedianDurationMs float64  `json:"median_duration_ms"`
	MinDurationMs    float64  `json:"min_duration_ms"`
	MaxDurationMs    float64  `json:"max_duration_ms"`
	StdDevDurationMs float64  `json:"stddev_duration_ms"`
	TotalInputSize   int64    `json:"total_input_size"`
	TotalOutputSize  int64    `json:"total_output_size"`
	AvgInputSize     float64  `json:"avg_input_size"`
	AvgOutputSize    float64  `json:"avg_output_size"`
	TopErrors        []string `json:"top_errors,omitempty"`
}

// PipelinePerformance aggregates executions of one pipeline type.
type PipelinePerformance struct {
	PipelineType   string  `json:"pipeline_type"`
	Executions     int     `json:"executions"`
	AvgDurationMs  float64 `json:"avg_duration_ms"`
	AvgStepCount   float64 `json:"avg_step_count"`
	AvgSuccessRate float64 `json:"avg_success_rate"`
}

// SystemSummary is the window-wide roll-up.
type SystemSummary struct {
	TotalStepExecutions     int     `json:"total_step_executions"`
	TotalPipelineExecutions int     `json:"total_pipeline_executions"`
	UniqueStepNames         int     `json:"unique_step_names"`
	UniquePipelineTypes     int     `json:"unique_pipeline_types"`
	OverallSuccessRate      float64 `json:"overall_success_rate"`
}

// PerformanceReport is the full performance breakdown for a window.
type PerformanceReport struct {
	DaysBack  int                            `json:"days_back"`
	Steps     map[string]StepPerformance     `json:"steps"`
	Pipelines map[string]PipelinePerformance `json:"pipelines"`
	Summary   SystemSummary                  `json:"summary"`
}

// PerformanceReport computes per-step, per-pipeline-type, and system-wide
// statistics over the trailing window.
func (a *Analyzer) PerformanceReport(daysBack int) (*PerformanceReport, error) {
	steps, pipelines, err := a.Load(daysBack)
	if err != nil {
		return nil, err
	}

	report := &PerformanceReport{
		DaysBack:  daysBack,
		Steps:     make(map[string]StepPerformance),
		Pipelines: make(map[string]PipelinePerformance),
	}

	byStep := groupSteps(steps)
	var completedTotal, failedTotal int
	for name, recs := range byStep {
		perf := StepPerformance{StepName: name, Executions: len(recs)}
		var durations []float64
		completed, failed := 0, 0
		errCount := make(map[string]int)
		for _, rec := range recs {
			durations = append(durations, rec.DurationMs)
			perf.TotalInputSize += rec.InputSize
			perf.TotalOutputSize += rec.OutputSize
			switch rec.Status {
			case tracker.StepStatusCompleted:
				completed++
			case tracker.StepStatusFailed:
				failed++
				if rec.ErrorMessage != "" {
					errCount[rec.ErrorMessage]++
				}
			}
		}
		if completed+failed > 0 {
			perf.SuccessRate = float64(completed) / float64(completed+failed)
		}
		perf.AvgDurationMs = mean(durations)
		perf.MedianDurationMs = median(durations)
		perf.MinDurationMs, perf.MaxDurationMs = minMax(durations)
		perf.StdDevDurationMs = stddev(durations)
		perf.AvgInputSize = float64(perf.TotalInputSize) / float64(len(recs))
		perf.AvgOutputSize = float64(perf.TotalOutputSize) / float64(len(recs))
		perf.TopErrors = topErrors(errCount, errorRankLimit)
		report.Steps[name] = perf
		completedTotal += completed
		failedTotal += failed
	}

	byType := make(map[string][]*tracker.PipelineRecord)
	for _, rec := range pipelines {
		byType[rec.PipelineType] = append(byType[rec.PipelineType], rec)
	}
	for pipelineType, recs := range byType {
		perf := PipelinePerformance{PipelineType: pipelineType, Executions: len(recs)}
		var totalDuration, totalSteps, totalSuccess float64
		for _, rec := range recs {
			totalDuration += rec.TotalDurationMs
			totalSteps += float64(len(rec.Steps))
			if sr, ok := rec.GlobalMetrics["success_rate"].(float64); ok {
				totalSuccess += sr
			}
		}
		perf.AvgDurationMs = totalDuration / float64(len(recs))
		perf.AvgStepCount = totalSteps / float64(len(recs))
		perf.AvgSuccessRate = totalSuccess / float64(len(recs))
		report.Pipelines[pipelineType] = perf
	}

	report.Summary = SystemSummary{
		TotalStepExecutions:     len(steps),
		TotalPipelineExecutions: len(pipelines),
		UniqueStepNames:         len(byStep),
		UniquePipelineTypes:     len(byType),
	}
	if completedTotal+failedTotal > 0 {
		report.Summary.OverallSuccessRate = float64(completedTotal) / float64(completedTotal+failedTotal)
	}
	return report, nil
}

func groupSteps(steps []*tracker.StepRecord) map[string][]*tracker.StepRecord {
	byStep := make(map[string][]*tracker.StepRecord)
	for _, rec := range steps {
		byStep[rec.StepName] = append(byStep[rec.StepName], rec)
	}
	return byStep
}

// topErrors returns the limit most frequent error messages, ties broken by
// message ascending for determinism.
func topErrors(counts map[string]int, limit int) []string {
	type entry struct {
		msg   string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for msg, count := range counts {
		entries = append(entries, entry{msg, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].msg < entries[j].msg
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.msg)
	}
	return out
}
