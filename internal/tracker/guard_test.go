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
	"errors"
	"strings"
	"testing"
)

func lastRecent(t *testing.T, r *Registry) *StepRecord {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recent.Newest()
	if !ok {
		t.Fatal("no finalized steps recorded")
	}
	return rec
}

func TestGuardCompletesOnSuccess(t *testing.T) {
	r := testRegistry(t, Config{})
	pipelineID := r.StartPipeline("user1", "ingest")

	err := func() (err error) {
		g := r.Track(pipelineID, "transform", WithInput([]int{1, 2, 3}))
		defer g.End(&err)
		g.SetOutput([]int{1, 2})
		g.AddMetric("rows", 2)
		return nil
	}()
	if err != nil {
		t.Fatalf("guarded function returned %v", err)
	}

	rec := lastRecent(t, r)
	if rec.Status != StepStatusCompleted {
		t.Fatalf("status = %s, want completed", rec.Status)
	}
	if rec.PerformanceMetrics["rows"] != 2 {
		t.Fatalf("metric rows = %v, want 2", rec.PerformanceMetrics["rows"])
	}
}

func TestGuardRecordsFailureAndPropagatesError(t *testing.T) {
	r := testRegistry(t, Config{})
	pipelineID := r.StartPipeline("user1", "ingest")

	boom := errors.New("boom")
	err := func() (err error) {
		g := r.Track(pipelineID, "fetch")
		defer g.End(&err)
		return boom
	}()
	if !errors.Is(err, boom) {
		t.Fatalf("guard must not mask the business error, got %v", err)
	}

	rec := lastRecent(t, r)
	if rec.Status != StepStatusFailed {
		t.Fatalf("status = %s, want failed", rec.Status)
	}
	if rec.ErrorMessage != "boom" {
		t.Fatalf("error_message = %q, want boom", rec.ErrorMessage)
	}

	// The pipeline remains active and can track further steps.
	if status := r.PipelineStatus(); status.ActivePipelines != 1 {
		t.Fatalf("active pipelines = %d, want 1", status.ActivePipelines)
	}
	if !r.CompleteStep(r.StartStep(pipelineID, "retry-later")) {
		t.Fatal("pipeline must keep accepting steps after a failure")
	}
}

func TestGuardRecordsPanicAndRethrows(t *testing.T) {
	r := testRegistry(t, Config{})
	pipelineID := r.StartPipeline("user1", "ingest")

	didPanic := false
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				didPanic = true
			}
		}()
		func() (err error) {
			g := r.Track(pipelineID, "explode")
			defer g.End(&err)
			panic("kaboom")
		}()
	}()
	if !didPanic {
		t.Fatal("guard must re-raise the panic after recording it")
	}

	rec := lastRecent(t, r)
	if rec.Status != StepStatusFailed {
		t.Fatalf("status = %s, want failed", rec.Status)
	}
	if !strings.Contains(rec.ErrorMessage, "kaboom") {
		t.Fatalf("error_message = %q, want to contain kaboom", rec.ErrorMessage)
	}
}

func TestGuardFinalizeIsIdempotent(t *testing.T) {
	r := testRegistry(t, Config{})
	pipelineID := r.StartPipeline("user1", "ingest")

	g := r.Track(pipelineID, "work")
	if !g.Complete() {
		t.Fatal("first Complete must succeed")
	}
	if g.Complete() {
		t.Fatal("second Complete must be a no-op")
	}
	if g.Fail(errors.New("late")) {
		t.Fatal("Fail after Complete must be a no-op")
	}

	rec := lastRecent(t, r)
	if rec.Status != StepStatusCompleted {
		t.Fatalf("status = %s, want completed", rec.Status)
	}
}

func TestGuardExplicitFail(t *testing.T) {
	r := testRegistry(t, Config{})
	pipelineID := r.StartPipeline("user1", "ingest")

	g := r.Track(pipelineID, "work")
	g.AddMetric("attempt", 1)
	if !g.Fail(errors.New("gave up")) {
		t.Fatal("Fail must succeed for an open guard")
	}

	rec := lastRecent(t, r)
	if rec.Status != StepStatusFailed || rec.ErrorMessage != "gave up" {
		t.Fatalf("record = %s/%q", rec.Status, rec.ErrorMessage)
	}
	details, ok := rec.SampleData["error_details"].(map[string]any)
	if !ok {
		t.Fatal("expected error_details in sample_data")
	}
	if details["metrics_at_failure"] == nil {
		t.Fatal("expected metrics_at_failure in error details")
	}
}
