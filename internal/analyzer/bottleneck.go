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
	"fmt"
	"sort"

	"github.com/arcentrix/pipetrace/internal/tracker"
)

// Bottleneck ranks one step name by its optimization impact.
type Bottleneck struct {
	StepName      string  `json:"step_name"`
	Executions    int     `json:"executions"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	SlownessScore float64 `json:"slowness_score"`
}

// FailureHotspot ranks one step name by raw failure count.
type FailureHotspot struct {
	StepName    string `json:"step_name"`
	Failures    int    `json:"failures"`
	CommonError string `json:"common_error,omitempty"`
}

// BottleneckReport ranks steps by impact-weighted slowness and by failures.
type BottleneckReport struct {
	DaysBack        int              `json:"days_back"`
	Bottlenecks     []Bottleneck     `json:"bottlenecks"`
	HighImpact      []Bottleneck     `json:"high_impact"`
	FailureHotspots []FailureHotspot `json:"failure_hotspots"`
	Recommendations []string         `json:"recommendations"`
}

// BottleneckAnalysis ranks step names by the configured scoring strategy,
// descending; ties are broken by step name ascending so the ranking is
// deterministic. Steps whose score exceeds the high-impact threshold are
// surfaced separately, alongside a failure-count ranking.
func (a *Analyzer) BottleneckAnalysis(daysBack int) (*BottleneckReport, error) {
	steps, _, err := a.Load(daysBack)
	if err != nil {
		return nil, err
	}

	report := &BottleneckReport{DaysBack: daysBack}
	byStep := groupSteps(steps)

	failures := make(map[string]int)
	commonError := make(map[string]string)
	for name, recs := range byStep {
		var totalDuration float64
		errCount := make(map[string]int)
		for _, rec := range recs {
			totalDuration += rec.DurationMs
			if rec.Status == tracker.StepStatusFailed {
				failures[name]++
				if rec.ErrorMessage != "" {
					errCount[rec.ErrorMessage]++
				}
			}
		}
		if top := topErrors(errCount, 1); len(top) > 0 {
			commonError[name] = top[0]
		}
		avg := totalDuration / float64(len(recs))
		report.Bottlenecks = append(report.Bottlenecks, Bottleneck{
			StepName:      name,
			Executions:    len(recs),
			AvgDurationMs: avg,
			SlownessScore: a.scoreFn(avg, len(recs)),
		})
	}

	sort.Slice(report.Bottlenecks, func(i, j int) bool {
		if report.Bottlenecks[i].SlownessScore != report.Bottlenecks[j].SlownessScore {
			return report.Bottlenecks[i].SlownessScore > report.Bottlenecks[j].SlownessScore
		}
		return report.Bottlenecks[i].StepName < report.Bottlenecks[j].StepName
	})
	for _, b := range report.Bottlenecks {
		if b.SlownessScore > a.highThreshold {
			report.HighImpact = append(report.HighImpact, b)
		}
	}

	for name, count := range failures {
		report.FailureHotspots = append(report.FailureHotspots, FailureHotspot{
			StepName:    name,
			Failures:    count,
			CommonError: commonError[name],
		})
	}
	sort.Slice(report.FailureHotspots, func(i, j int) bool {
		if report.FailureHotspots[i].Failures != report.FailureHotspots[j].Failures {
			return report.FailureHotspots[i].Failures > report.FailureHotspots[j].Failures
		}
		return report.FailureHotspots[i].StepName < report.FailureHotspots[j].StepName
	})

	report.Recommendations = a.recommendations(report)
	return report, nil
}

// recommendations derives human-readable optimization hints from fixed
// thresholds. Intended for CLI/log output, not machine parsing.
func (a *Analyzer) recommendations(report *BottleneckReport) []string {
	var recs []string
	for _, b := range report.HighImpact {
		recs = append(recs, fmt.Sprintf(
			"step %q has high impact (score %.0f over %d executions, avg %.0fms); optimize it first",
			b.StepName, b.SlownessScore, b.Executions, b.AvgDurationMs))
	}
	for _, h := range report.FailureHotspots {
		if h.Failures < 3 {
			continue
		}
		msg := fmt.Sprintf("step %q failed %d times", h.StepName, h.Failures)
		if h.CommonError != "" {
			msg += fmt.Sprintf(" (most common error: %s)", h.CommonError)
		}
		recs = append(recs, msg+"; investigate its reliability")
	}
	if len(recs) == 0 && len(report.Bottlenecks) > 0 {
		recs = append(recs, "no high-impact bottlenecks or recurring failures detected")
	}
	return recs
}
