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

import "sort"

// StepDataFlow summarizes how one step name transforms payload sizes.
type StepDataFlow struct {
	StepName           string  `json:"step_name"`
	Executions         int     `json:"executions"`
	AvgTransformRatio  float64 `json:"avg_transform_ratio"`
	ReducingExecutions int     `json:"reducing_executions"`
	ExpandingExecutions int    `json:"expanding_executions"`
	TotalBytesProcessed int64  `json:"total_bytes_processed"`
}

// DataFlowReport is the per-step data movement breakdown for a window.
type DataFlowReport struct {
	DaysBack      int                     `json:"days_back"`
	Steps         map[string]StepDataFlow `json:"steps"`
	DataIntensive []StepDataFlow          `json:"data_intensive"`
}

// DataFlowAnalysis computes, per step name, the output/input transformation
// ratio across executions, counts of reducing vs expanding executions, and
// total bytes processed, plus a ranking of the most data-intensive steps.
func (a *Analyzer) DataFlowAnalysis(daysBack int) (*DataFlowReport, error) {
	steps, _, err := a.Load(daysBack)
	if err != nil {
		return nil, err
	}

	report := &DataFlowReport{
		DaysBack: daysBack,
		Steps:    make(map[string]StepDataFlow),
	}
	for name, recs := range groupSteps(steps) {
		flow := StepDataFlow{StepName: name, Executions: len(recs)}
		var ratioSum float64
		ratioCount := 0
		for _, rec := range recs {
			flow.TotalBytesProcessed += rec.InputSize + rec.OutputSize
			if rec.InputSize <= 0 {
				continue
			}
			ratio := float64(rec.OutputSize) / float64(rec.InputSize)
			ratioSum += ratio
			ratioCount++
			switch {
			case ratio < 1:
				flow.ReducingExecutions++
			case ratio > 1:
				flow.ExpandingExecutions++
			}
		}
		if ratioCount > 0 {
			flow.AvgTransformRatio = ratioSum / float64(ratioCount)
		}
		report.Steps[name] = flow
	}

	for _, flow := range report.Steps {
		report.DataIntensive = append(report.DataIntensive, flow)
	}
	sort.Slice(report.DataIntensive, func(i, j int) bool {
		if report.DataIntensive[i].TotalBytesProcessed != report.DataIntensive[j].TotalBytesProcessed {
			return report.DataIntensive[i].TotalBytesProcessed > report.DataIntensive[j].TotalBytesProcessed
		}
		return report.DataIntensive[i].StepName < report.DataIntensive[j].StepName
	})
	return report, nil
}
