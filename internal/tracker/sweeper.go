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
	"time"

	"github.com/robfig/cron"

	"github.com/arcentrix/pipetrace/pkg/logger"
	"github.com/arcentrix/pipetrace/pkg/safe"
)

// Sweeper deletes daily log files older than the retention horizon. Each
// file's day is inferred from its name; unrecognized files are left alone.
type Sweeper struct {
	dir           string
	retentionDays int
	cron          *cron.Cron
	nowFn         func() time.Time
}

// NewSweeper creates a sweeper for dir with the given horizon in days.
func NewSweeper(dir string, retentionDays int) *Sweeper {
	return &Sweeper{dir: dir, retentionDays: retentionDays, nowFn: time.Now}
}

// Sweep removes log files whose encoded date is strictly older than
// now − retentionDays. It returns the number of files removed.
func (s *Sweeper) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	cutoff := s.nowFn().AddDate(0, 0, -s.retentionDays)
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		day, ok := ParseLogFileDate(e.Name())
		if !ok {
			continue
		}
		if day.Before(cutoffDay) {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
				logger.Warnw("failed to remove expired log file", "file", e.Name(), "error", err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		logger.Infow("removed expired log files", "count", removed, "retention_days", s.retentionDays)
	}
	return removed, nil
}

// Start schedules periodic sweeps with a cron spec such as "@daily".
func (s *Sweeper) Start(schedule string) error {
	c := cron.New()
	if err := c.AddFunc(schedule, func() {
		safe.Go(func() {
			if _, err := s.Sweep(); err != nil {
				logger.Warnw("scheduled log sweep failed", "error", err)
			}
		})
	}); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop stops the periodic sweep schedule, if started.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}
