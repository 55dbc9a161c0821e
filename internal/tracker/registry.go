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
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arcentrix/pipetrace/pkg/logger"
	"github.com/arcentrix/pipetrace/pkg/metrics"
	"github.com/arcentrix/pipetrace/pkg/ringbuffer"
)

const unknownScope = "unknown"

// perfSample is one entry in the per-step-name performance history.
type perfSample struct {
	DurationMs float64
	InputSize  int64
	OutputSize int64
	Timestamp  time.Time
}

// Registry is the single authority over active and recently-completed
// records. One coarse mutex guards the two active maps and the two bounded
// histories; persistence writes happen after the lock is released so disk
// I/O never stalls unrelated callers.
type Registry struct {
	cfg     Config
	sampler *Sampler
	writer  *Writer
	sweeper *Sweeper
	sink    *metrics.Sink
	nowFn   func() time.Time

	mu              sync.Mutex
	activePipelines map[string]*PipelineRecord
	activeSteps     map[string]*StepRecord
	recent          *ringbuffer.Ring[*StepRecord]
	history         map[string]*ringbuffer.Ring[perfSample]
	closed          bool
}

// New creates a registry with the given configuration. Multiple registries
// can coexist; each owns its own state, sampler, and log directory.
func New(cfg Config) (*Registry, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	writer, err := NewWriter(cfg.LogDir)
	if err != nil {
		return nil, err
	}
	sink := metrics.NewSink()
	r := &Registry{
		cfg:             cfg,
		sampler:         NewSampler(*cfg.SamplingRate, cfg.MaxSampleSize, sink),
		writer:          writer,
		sweeper:         NewSweeper(cfg.LogDir, cfg.RetentionDays),
		sink:            sink,
		nowFn:           time.Now,
		activePipelines: make(map[string]*PipelineRecord),
		activeSteps:     make(map[string]*StepRecord),
		recent:          ringbuffer.New[*StepRecord](cfg.RecentLimit),
		history:         make(map[string]*ringbuffer.Ring[perfSample]),
	}
	if cfg.SweepSchedule != "" {
		if err := r.sweeper.Start(cfg.SweepSchedule); err != nil {
			return nil, fmt.Errorf("start sweep schedule: %w", err)
		}
	}
	return r, nil
}

// Metrics returns the registry's instrumentation sink.
func (r *Registry) Metrics() *metrics.Sink {
	return r.sink
}

// Close stops the periodic sweeper. Records already finalized are on disk;
// active records are simply dropped.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.closed = true
	r.mu.Unlock()
	r.sweeper.Stop()
	return nil
}

// StartPipeline registers a pipeline in running state and returns its id.
// A session id is generated from the current time when omitted. Never fails.
func (r *Registry) StartPipeline(userID, pipelineType string, opts ...PipelineOption) string {
	o := applyPipelineOptions(opts)
	now := r.nowFn()
	sessionID := o.sessionID
	if sessionID == "" {
		sessionID = "session_" + now.Format("20060102_150405")
	}
	rec := &PipelineRecord{
		PipelineID:    "pipe_" + uuid.NewString(),
		UserID:        userID,
		SessionID:     sessionID,
		PipelineType:  pipelineType,
		StartTime:     now,
		Status:        string(StepStatusRunning),
		GlobalMetrics: map[string]any{},
	}

	r.mu.Lock()
	r.activePipelines[rec.PipelineID] = rec
	r.mu.Unlock()

	r.sink.PipelinesStarted.Inc()
	r.sink.ActivePipelines.Inc()
	logger.Debugw("pipeline started",
		"pipeline_id", rec.PipelineID, "pipeline_type", pipelineType, "user_id", userID)
	return rec.PipelineID
}

// StartStep registers a step in running state under its owning pipeline and
// returns its id. When the pipeline is unknown the step is still tracked,
// with user and session marked unknown. Never fails.
func (r *Registry) StartStep(pipelineID, stepName string, opts ...StepOption) string {
	o := applyStepOptions(opts)
	now := r.nowFn()

	inputSize := r.sampler.EstimateSize(o.input)
	var sampleData map[string]any
	if sample, ok := r.sampler.Sample(o.input); ok {
		sampleData = map[string]any{"input": sample}
	}

	rec := &StepRecord{
		StepID:             "step_" + uuid.NewString(),
		StepName:           stepName,
		PipelineID:         pipelineID,
		UserID:             unknownScope,
		SessionID:          unknownScope,
		StartTime:          now,
		Status:             StepStatusRunning,
		InputSize:          inputSize,
		SampleData:         sampleData,
		PerformanceMetrics: map[string]any{},
		Dependencies:       o.dependencies,
		Tags:               o.tags,
	}

	r.mu.Lock()
	if p, ok := r.activePipelines[pipelineID]; ok {
		rec.UserID = p.UserID
		rec.SessionID = p.SessionID
		p.Steps = append(p.Steps, rec)
	} else {
		logger.Warnw("step started without an active pipeline",
			"step_name", stepName, "pipeline_id", pipelineID)
	}
	r.activeSteps[rec.StepID] = rec
	r.mu.Unlock()

	r.sink.StepsStarted.Inc()
	r.sink.ActiveSteps.Inc()
	return rec.StepID
}

// CompleteStep finalizes a running step as completed (or a caller-supplied
// terminal status), records its performance history entry, and persists it.
// Returns false when the step id is unknown.
func (r *Registry) CompleteStep(stepID string, opts ...FinishOption) bool {
	o := applyFinishOptions(opts)
	return r.finalizeStep(stepID, o.status, "", nil, o.output, o.metrics)
}

// FailStep finalizes a running step as failed with the given error message
// and optional details, then persists it. Returns false when the step id is
// unknown. Failing a step never retries or re-runs anything.
func (r *Registry) FailStep(stepID, errorMessage string, details any) bool {
	return r.finalizeStep(stepID, StepStatusFailed, errorMessage, details, nil, nil)
}

func (r *Registry) finalizeStep(stepID string, status StepStatus, errorMessage string, details, output any, extraMetrics map[string]any) bool {
	now := r.nowFn()

	outputSize := r.sampler.EstimateSize(output)
	var outputSample map[string]any
	if output != nil {
		if sample, ok := r.sampler.Sample(output); ok {
			outputSample = sample
		}
	}

	r.mu.Lock()
	rec, ok := r.activeSteps[stepID]
	if !ok {
		r.mu.Unlock()
		logger.Warnw("finalize requested for unknown step", "step_id", stepID, "status", status)
		return false
	}
	delete(r.activeSteps, stepID)

	end := now
	rec.EndTime = &end
	rec.DurationMs = float64(end.Sub(rec.StartTime)) / float64(time.Millisecond)
	rec.Status = status
	rec.OutputSize = outputSize
	if errorMessage != "" {
		rec.ErrorMessage = errorMessage
	}
	if outputSample != nil || details != nil {
		if rec.SampleData == nil {
			rec.SampleData = map[string]any{}
		}
		if outputSample != nil {
			rec.SampleData["output"] = outputSample
		}
		if details != nil {
			rec.SampleData["error_details"] = details
		}
	}
	for k, v := range extraMetrics {
		rec.PerformanceMetrics[k] = v
	}

	h, ok := r.history[rec.StepName]
	if !ok {
		h = ringbuffer.New[perfSample](r.cfg.HistoryLimit)
		r.history[rec.StepName] = h
	}
	h.Append(perfSample{
		DurationMs: rec.DurationMs,
		InputSize:  rec.InputSize,
		OutputSize: rec.OutputSize,
		Timestamp:  end,
	})
	r.recent.Append(rec)
	r.mu.Unlock()

	switch status {
	case StepStatusFailed:
		r.sink.StepsFailed.Inc()
	default:
		r.sink.StepsCompleted.Inc()
	}
	r.sink.ActiveSteps.Dec()

	// Disk write happens outside the lock; a logging outage must never
	// stall or crash the instrumented pipeline.
	if err := r.writer.AppendStep(rec); err != nil {
		r.logPersistErr("step", rec.StepID, err)
	}
	return true
}

// CompletePipeline finalizes a pipeline with a caller-supplied terminal
// status, derives its global metrics, and persists the full record including
// all steps. Returns false when the pipeline id is unknown.
func (r *Registry) CompletePipeline(pipelineID, status string, globalMetrics map[string]any) bool {
	now := r.nowFn()

	r.mu.Lock()
	rec, ok := r.activePipelines[pipelineID]
	if !ok {
		r.mu.Unlock()
		logger.Warnw("finalize requested for unknown pipeline", "pipeline_id", pipelineID, "status", status)
		return false
	}
	delete(r.activePipelines, pipelineID)

	end := now
	rec.EndTime = &end
	rec.TotalDurationMs = float64(end.Sub(rec.StartTime)) / float64(time.Millisecond)
	rec.Status = status
	for k, v := range globalMetrics {
		rec.GlobalMetrics[k] = v
	}
	mergeDerivedMetrics(rec)
	totalDuration := rec.TotalDurationMs
	// Encode under the lock so the persisted snapshot cannot race with a
	// straggler step finalizing after its pipeline; the write itself stays
	// outside.
	data, encErr := EncodePipelineRecord(rec)
	r.mu.Unlock()

	r.sink.PipelinesCompleted.Inc()
	r.sink.ActivePipelines.Dec()
	logger.Debugw("pipeline finalized",
		"pipeline_id", pipelineID, "status", status, "duration_ms", totalDuration)

	if encErr != nil {
		r.logPersistErr("pipeline", pipelineID, encErr)
		return true
	}
	if err := r.writer.AppendPipelineLine(data); err != nil {
		r.logPersistErr("pipeline", pipelineID, err)
	}
	return true
}

// mergeDerivedMetrics fills the auto-derived global metrics at finalization.
// Caller-supplied keys with the same names are overwritten.
func mergeDerivedMetrics(rec *PipelineRecord) {
	total := len(rec.Steps)
	completed, failed := 0, 0
	var inputSize, outputSize int64
	var completedDuration float64
	for _, s := range rec.Steps {
		switch s.Status {
		case StepStatusCompleted:
			completed++
			completedDuration += s.DurationMs
		case StepStatusFailed:
			failed++
		}
		inputSize += s.InputSize
		outputSize += s.OutputSize
	}
	successRate := 0.0
	if total > 0 {
		successRate = float64(completed) / float64(total)
	}
	avgDuration := 0.0
	if completed > 0 {
		avgDuration = completedDuration / float64(completed)
	}
	rec.GlobalMetrics["total_steps"] = total
	rec.GlobalMetrics["completed_steps"] = completed
	rec.GlobalMetrics["failed_steps"] = failed
	rec.GlobalMetrics["success_rate"] = successRate
	rec.GlobalMetrics["total_input_size"] = inputSize
	rec.GlobalMetrics["total_output_size"] = outputSize
	rec.GlobalMetrics["avg_step_duration_ms"] = avgDuration
}

// logPersistErr is the single boundary where swallowed persistence failures
// become visible: logged, counted, and dropped.
func (r *Registry) logPersistErr(kind, id string, err error) {
	r.sink.PersistErrors.Inc()
	logger.Errorw("failed to persist record", "kind", kind, "id", id, "error", err)
}

// CleanupOldLogs removes persisted daily files older than the retention
// horizon and returns the number of files removed. Errors are logged and
// swallowed.
func (r *Registry) CleanupOldLogs() int {
	removed, err := r.sweeper.Sweep()
	if err != nil {
		logger.Warnw("log cleanup failed", "error", err)
	}
	return removed
}
