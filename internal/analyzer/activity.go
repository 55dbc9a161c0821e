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

// pipelineActivityWeight weights pipelines over steps in the activity score.
const pipelineActivityWeight = 10

// UserActivity summarizes one user's tracked work in the window.
type UserActivity struct {
	UserID             string  `json:"user_id"`
	PipelineExecutions int     `json:"pipeline_executions"`
	StepExecutions     int     `json:"step_executions"`
	TotalDurationMs    float64 `json:"total_duration_ms"`
	AvgSuccessRate     float64 `json:"avg_success_rate"`
	TopPipelineType    string  `json:"top_pipeline_type,omitempty"`
	TopStepName        string  `json:"top_step_name,omitempty"`
	ActivityScore      float64 `json:"activity_score"`
}

// UserActivityReport ranks users by their weighted activity score.
type UserActivityReport struct {
	DaysBack int            `json:"days_back"`
	Users    []UserActivity `json:"users"`
}

// UserActivityAnalysis aggregates per-user execution counts, durations,
// declared success rates, and favorite pipeline/step types. The activity
// score weights pipeline executions 10x over step executions.
func (a *Analyzer) UserActivityAnalysis(daysBack int) (*UserActivityReport, error) {
	steps, pipelines, err := a.Load(daysBack)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*UserActivity)
	user := func(id string) *UserActivity {
		u, ok := byUser[id]
		if !ok {
			u = &UserActivity{UserID: id}
			byUser[id] = u
		}
		return u
	}

	pipelineTypes := make(map[string]map[string]int)
	stepNames := make(map[string]map[string]int)
	successSums := make(map[string]float64)
	successCounts := make(map[string]int)

	for _, rec := range pipelines {
		u := user(rec.UserID)
		u.PipelineExecutions++
		u.TotalDurationMs += rec.TotalDurationMs
		if pipelineTypes[rec.UserID] == nil {
			pipelineTypes[rec.UserID] = make(map[string]int)
		}
		pipelineTypes[rec.UserID][rec.PipelineType]++
		if sr, ok := rec.GlobalMetrics["success_rate"].(float64); ok {
			successSums[rec.UserID] += sr
			successCounts[rec.UserID]++
		}
	}
	for _, rec := range steps {
		u := user(rec.UserID)
		u.StepExecutions++
		if stepNames[rec.UserID] == nil {
			stepNames[rec.UserID] = make(map[string]int)
		}
		stepNames[rec.UserID][rec.StepName]++
	}

	report := &UserActivityReport{DaysBack: daysBack}
	for id, u := range byUser {
		if successCounts[id] > 0 {
			u.AvgSuccessRate = successSums[id] / float64(successCounts[id])
		}
		u.TopPipelineType = mostFrequent(pipelineTypes[id])
		u.TopStepName = mostFrequent(stepNames[id])
		u.ActivityScore = float64(pipelineActivityWeight*u.PipelineExecutions + u.StepExecutions)
		report.Users = append(report.Users, *u)
	}
	sort.Slice(report.Users, func(i, j int) bool {
		if report.Users[i].ActivityScore != report.Users[j].ActivityScore {
			return report.Users[i].ActivityScore > report.Users[j].ActivityScore
		}
		return report.Users[i].UserID < report.Users[j].UserID
	})
	return report, nil
}

// mostFrequent returns the highest-count key, ties broken by key ascending.
func mostFrequent(counts map[string]int) string {
	best, bestCount := "", 0
	for k, c := range counts {
		if c > bestCount || (c == bestCount && best != "" && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}
