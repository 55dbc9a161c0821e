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
	"testing"
	"time"
)

func TestStepRecordRoundTrip(t *testing.T) {
	start := time.Date(2026, 8, 27, 10, 30, 0, 123456789, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	rec := &StepRecord{
		StepID:             "step_abc",
		StepName:           "parse_email",
		PipelineID:         "pipe_xyz",
		UserID:             "user1",
		SessionID:          "sess1",
		StartTime:          start,
		EndTime:            &end,
		DurationMs:         1500,
		Status:             StepStatusCompleted,
		InputSize:          2048,
		OutputSize:         512,
		SampleData:         map[string]any{"input": map[string]any{"data": "x", "sampling_method": "full_text"}},
		PerformanceMetrics: map[string]any{"rows": 7.0},
		Dependencies:       []string{"fetch_email"},
		Tags:               []string{"email", "parse"},
	}

	line, err := EncodeStepRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeStepRecord(line)
	if err != nil {
		t.Fatal(err)
	}

	if got.StepID != rec.StepID || got.StepName != rec.StepName || got.Status != rec.Status {
		t.Fatalf("identity fields differ: %+v", got)
	}
	if !got.StartTime.Equal(rec.StartTime) {
		t.Fatalf("start_time lost precision: %v != %v", got.StartTime, rec.StartTime)
	}
	if !got.EndTime.Equal(*rec.EndTime) {
		t.Fatalf("end_time lost precision: %v != %v", got.EndTime, rec.EndTime)
	}
	if got.DurationMs != rec.DurationMs || got.InputSize != rec.InputSize || got.OutputSize != rec.OutputSize {
		t.Fatalf("numeric fields differ: %+v", got)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0] != "fetch_email" {
		t.Fatalf("dependencies differ: %v", got.Dependencies)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("tags differ: %v", got.Tags)
	}
	if got.PerformanceMetrics["rows"] != 7.0 {
		t.Fatalf("performance_metrics differ: %v", got.PerformanceMetrics)
	}
}

func TestPipelineRecordRoundTrip(t *testing.T) {
	start := time.Date(2026, 8, 27, 9, 0, 0, 987654321, time.UTC)
	end := start.Add(3 * time.Second)
	rec := &PipelineRecord{
		PipelineID:      "pipe_xyz",
		UserID:          "user1",
		SessionID:       "sess1",
		PipelineType:    "ingest",
		StartTime:       start,
		EndTime:         &end,
		TotalDurationMs: 3000,
		Status:          "completed",
		GlobalMetrics:   map[string]any{"total_steps": 2.0, "success_rate": 1.0},
		Steps: []*StepRecord{
			{StepID: "step_1", StepName: "a", Status: StepStatusCompleted, StartTime: start},
			{StepID: "step_2", StepName: "b", Status: StepStatusCompleted, StartTime: start},
		},
	}

	line, err := EncodePipelineRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodePipelineRecord(line)
	if err != nil {
		t.Fatal(err)
	}

	if got.PipelineID != rec.PipelineID || got.Status != rec.Status {
		t.Fatalf("identity fields differ: %+v", got)
	}
	if !got.StartTime.Equal(rec.StartTime) || !got.EndTime.Equal(*rec.EndTime) {
		t.Fatal("timestamps lost precision")
	}
	if len(got.Steps) != 2 || got.Steps[0].StepID != "step_1" {
		t.Fatalf("embedded steps differ: %+v", got.Steps)
	}
	if got.GlobalMetrics["success_rate"] != 1.0 {
		t.Fatalf("global_metrics differ: %v", got.GlobalMetrics)
	}
}

func TestStepStatusTerminal(t *testing.T) {
	tests := []struct {
		status StepStatus
		want   bool
	}{
		{StepStatusRunning, false},
		{StepStatusCompleted, true},
		{StepStatusFailed, true},
		{StepStatusSkipped, true},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
