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
	"bufio"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/arcentrix/pipetrace/internal/tracker"
	"github.com/arcentrix/pipetrace/pkg/logger"
)

// maxLineSize bounds a single persisted record line (pipeline records embed
// their full step lists).
const maxLineSize = 16 * 1024 * 1024

// Load parses every per-day file within the trailing window. The step and
// pipeline logs are read concurrently; a malformed line is skipped, never
// aborting the rest of its file.
func (a *Analyzer) Load(daysBack int) ([]*tracker.StepRecord, []*tracker.PipelineRecord, error) {
	now := a.nowFn()

	var steps []*tracker.StepRecord
	var pipelines []*tracker.PipelineRecord

	var eg errgroup.Group
	eg.Go(func() error {
		for offset := 0; offset < daysBack; offset++ {
			day := now.AddDate(0, 0, -offset)
			path := filepath.Join(a.dir, tracker.StepFileName(day))
			if err := readLines(path, func(line []byte) {
				rec, err := tracker.DecodeStepRecord(line)
				if err != nil {
					logger.Debugw("skipping malformed step record line", "file", path, "error", err)
					return
				}
				steps = append(steps, rec)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	eg.Go(func() error {
		for offset := 0; offset < daysBack; offset++ {
			day := now.AddDate(0, 0, -offset)
			path := filepath.Join(a.dir, tracker.PipelineFileName(day))
			if err := readLines(path, func(line []byte) {
				rec, err := tracker.DecodePipelineRecord(line)
				if err != nil {
					logger.Debugw("skipping malformed pipeline record line", "file", path, "error", err)
					return
				}
				pipelines = append(pipelines, rec)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return steps, pipelines, nil
}

// readLines streams each non-empty line of path into fn. A missing day file
// is not an error; the window simply has no records for that day.
func readLines(path string, fn func(line []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		fn(line)
	}
	return scanner.Err()
}
