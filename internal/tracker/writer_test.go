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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendStepCreatesDailyFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	end := time.Now()
	rec := &StepRecord{
		StepID:    "step_1",
		StepName:  "work",
		UserID:    "user1",
		SessionID: "sess1",
		StartTime: end.Add(-50 * time.Millisecond),
		EndTime:   &end,
		Status:    StepStatusCompleted,
	}
	if err := w.AppendStep(rec); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendStep(rec); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, StepFileName(time.Now())))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	decoded, err := DecodeStepRecord([]byte(lines[0]))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.StepID != "step_1" || decoded.Status != StepStatusCompleted {
		t.Fatalf("decoded record = %+v", decoded)
	}
}

func TestParseLogFileDate(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"steps_2026-08-27.jsonl", true},
		{"pipelines_2026-01-02.jsonl", true},
		{"steps_2026-08-27.jsonl.bak", false},
		{"other_2026-08-27.jsonl", false},
		{"steps_20260827.jsonl", false},
		{"readme.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, ok := ParseLogFileDate(tt.name)
			if ok != tt.ok {
				t.Fatalf("ParseLogFileDate(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && day.IsZero() {
				t.Fatal("expected a parsed day")
			}
		})
	}
}

func TestFileNamesRoundTrip(t *testing.T) {
	day := time.Date(2026, 8, 27, 15, 4, 5, 0, time.UTC)
	for _, name := range []string{StepFileName(day), PipelineFileName(day)} {
		parsed, ok := ParseLogFileDate(name)
		if !ok {
			t.Fatalf("ParseLogFileDate rejected %q", name)
		}
		if parsed.Format(dayFormat) != "2026-08-27" {
			t.Fatalf("parsed day = %s, want 2026-08-27", parsed.Format(dayFormat))
		}
	}
}
