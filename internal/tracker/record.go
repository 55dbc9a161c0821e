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
	"time"

	"github.com/bytedance/sonic"
)

// StepStatus is the lifecycle state of a tracked step.
type StepStatus string

const (
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	// StepStatusSkipped is reserved for future use; no lifecycle
	// operation produces it.
	StepStatusSkipped StepStatus = "skipped"
)

// Terminal reports whether the status is a terminal state.
func (s StepStatus) Terminal() bool {
	return s == StepStatusCompleted || s == StepStatusFailed || s == StepStatusSkipped
}

// StepRecord is one execution of a named step. Pipeline identity fields are
// denormalized so a step line can be analyzed standalone.
type StepRecord struct {
	StepID             string         `json:"step_id"`
	StepName           string         `json:"step_name"`
	PipelineID         string         `json:"pipeline_id,omitempty"`
	UserID             string         `json:"user_id"`
	SessionID          string         `json:"session_id"`
	StartTime          time.Time      `json:"start_time"`
	EndTime            *time.Time     `json:"end_time,omitempty"`
	DurationMs         float64        `json:"duration_ms,omitempty"`
	Status             StepStatus     `json:"status"`
	InputSize          int64          `json:"input_size"`
	OutputSize         int64          `json:"output_size"`
	ErrorMessage       string         `json:"error_message,omitempty"`
	SampleData         map[string]any `json:"sample_data,omitempty"`
	PerformanceMetrics map[string]any `json:"performance_metrics,omitempty"`
	Dependencies       []string       `json:"dependencies,omitempty"`
	Tags               []string       `json:"tags,omitempty"`
}

// PipelineRecord is one execution of a named pipeline type, owning the
// ordered list of its step records. Step order reflects start order, not
// completion order.
type PipelineRecord struct {
	PipelineID      string         `json:"pipeline_id"`
	UserID          string         `json:"user_id"`
	SessionID       string         `json:"session_id"`
	PipelineType    string         `json:"pipeline_type"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         *time.Time     `json:"end_time,omitempty"`
	TotalDurationMs float64        `json:"total_duration_ms,omitempty"`
	Status          string         `json:"status"`
	GlobalMetrics   map[string]any `json:"global_metrics,omitempty"`
	Steps           []*StepRecord  `json:"steps"`
}

// EncodeStepRecord serializes a step record to a single JSON line payload.
func EncodeStepRecord(r *StepRecord) ([]byte, error) {
	return sonic.Marshal(r)
}

// DecodeStepRecord parses one JSON line into a step record.
func DecodeStepRecord(line []byte) (*StepRecord, error) {
	var r StepRecord
	if err := sonic.Unmarshal(line, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// EncodePipelineRecord serializes a pipeline record to a single JSON line payload.
func EncodePipelineRecord(r *PipelineRecord) ([]byte, error) {
	return sonic.Marshal(r)
}

// DecodePipelineRecord parses one JSON line into a pipeline record.
func DecodePipelineRecord(line []byte) (*PipelineRecord, error) {
	var r PipelineRecord
	if err := sonic.Unmarshal(line, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
