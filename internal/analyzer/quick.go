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
	"strings"

	"github.com/arcentrix/pipetrace/internal/tracker"
)

// QuickReport renders a short textual digest of the window: live registry
// status when available, the performance summary, and the top
// recommendations. Intended for humans, not machine parsing.
func (a *Analyzer) QuickReport(daysBack int, status *tracker.StatusSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pipetrace report (last %d days)\n", daysBack)
	b.WriteString(strings.Repeat("=", 40) + "\n")

	if status != nil {
		fmt.Fprintf(&b, "live: %d active pipelines, %d active steps, %d recent completions\n",
			status.ActivePipelines, status.ActiveSteps, status.RecentCompletions)
		for _, p := range status.Pipelines {
			fmt.Fprintf(&b, "  %s (%s) running %.0fms, steps: %s\n",
				p.PipelineID, p.PipelineType, p.RunningForMs, strings.Join(p.RunningSteps, ", "))
		}
	}

	perf, err := a.PerformanceReport(daysBack)
	if err != nil {
		fmt.Fprintf(&b, "performance report unavailable: %v\n", err)
		return b.String()
	}
	if perf.Summary.TotalStepExecutions == 0 && perf.Summary.TotalPipelineExecutions == 0 {
		b.WriteString("no data recorded in this window\n")
		return b.String()
	}

	fmt.Fprintf(&b, "totals: %d step executions (%d names), %d pipeline executions (%d types)\n",
		perf.Summary.TotalStepExecutions, perf.Summary.UniqueStepNames,
		perf.Summary.TotalPipelineExecutions, perf.Summary.UniquePipelineTypes)
	fmt.Fprintf(&b, "overall success rate: %.1f%%\n", perf.Summary.OverallSuccessRate*100)

	bottlenecks, err := a.BottleneckAnalysis(daysBack)
	if err == nil && len(bottlenecks.Recommendations) > 0 {
		b.WriteString("recommendations:\n")
		for _, rec := range bottlenecks.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}
	return b.String()
}
