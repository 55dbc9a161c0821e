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
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

const (
	stepFileFmt     = "steps_%s.jsonl"
	pipelineFileFmt = "pipelines_%s.jsonl"
	dayFormat       = "2006-01-02"
)

var logFileRe = regexp.MustCompile(`^(steps|pipelines)_(\d{4}-\d{2}-\d{2})\.jsonl$`)

// Writer appends finalized records as one self-contained JSON line per
// record to a daily log file per record kind.
type Writer struct {
	dir string
	mu  sync.Mutex
}

// NewWriter creates a writer rooted at dir, creating it when missing.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the log directory.
func (w *Writer) Dir() string {
	return w.dir
}

// AppendStep appends a finalized step record to today's step log.
func (w *Writer) AppendStep(r *StepRecord) error {
	data, err := EncodeStepRecord(r)
	if err != nil {
		return fmt.Errorf("encode step record: %w", err)
	}
	return w.appendLine(StepFileName(time.Now()), data)
}

// AppendPipeline appends a finalized pipeline record, including its full
// step list, to today's pipeline log.
func (w *Writer) AppendPipeline(r *PipelineRecord) error {
	data, err := EncodePipelineRecord(r)
	if err != nil {
		return fmt.Errorf("encode pipeline record: %w", err)
	}
	return w.appendLine(PipelineFileName(time.Now()), data)
}

// AppendPipelineLine appends an already-encoded pipeline record line. The
// registry encodes under its lock so a pipeline snapshot cannot race with
// late step finalizations.
func (w *Writer) AppendPipelineLine(data []byte) error {
	return w.appendLine(PipelineFileName(time.Now()), data)
}

func (w *Writer) appendLine(name string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, err := os.OpenFile(filepath.Join(w.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// StepFileName returns the step log file name for a given day.
func StepFileName(t time.Time) string {
	return fmt.Sprintf(stepFileFmt, t.Format(dayFormat))
}

// PipelineFileName returns the pipeline log file name for a given day.
func PipelineFileName(t time.Time) string {
	return fmt.Sprintf(pipelineFileFmt, t.Format(dayFormat))
}

// ParseLogFileDate extracts the encoded day from a log file name. The second
// return is false for names that are not daily record logs.
func ParseLogFileDate(name string) (time.Time, bool) {
	m := logFileRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	day, err := time.Parse(dayFormat, m[2])
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
