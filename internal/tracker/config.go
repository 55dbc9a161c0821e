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

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/arcentrix/pipetrace/pkg/env"
	"github.com/arcentrix/pipetrace/pkg/logger"
)

const (
	// DefaultSamplingRate is the probability that a payload sample is taken.
	DefaultSamplingRate = 0.1
	// DefaultMaxSampleSize is the max item count kept in one sample.
	DefaultMaxSampleSize = 100
	// DefaultRetentionDays is how long daily log files are kept.
	DefaultRetentionDays = 30
	// DefaultLogDir is the default directory for daily record logs.
	DefaultLogDir = "./logs/pipetrace"
	// DefaultRecentLimit is the capacity of the recent-completions buffer.
	DefaultRecentLimit = 100
	// DefaultHistoryLimit is the per-step-name performance history capacity.
	DefaultHistoryLimit = 50
)

// Config holds tracker configuration.
type Config struct {
	// SamplingRate is the per-call probability in [0,1] of taking a payload
	// sample. Nil means the default; an explicit 0 disables sampling.
	SamplingRate *float64 `mapstructure:"samplingRate"`
	// MaxSampleSize is the max item count kept per sample.
	MaxSampleSize int `mapstructure:"maxSampleSize"`
	// RetentionDays is the retention horizon for daily log files.
	RetentionDays int `mapstructure:"retentionDays"`
	// LogDir is the directory holding the daily record logs.
	LogDir string `mapstructure:"logDir"`
	// RecentLimit bounds the in-memory recent-completions buffer.
	RecentLimit int `mapstructure:"recentLimit"`
	// HistoryLimit bounds the per-step-name performance history.
	HistoryLimit int `mapstructure:"historyLimit"`
	// SweepSchedule is an optional cron spec for periodic retention sweeps
	// (e.g. "@daily"). Empty means sweeps run only on demand.
	SweepSchedule string `mapstructure:"sweepSchedule"`
	// Log configures the tracker's own diagnostic logging.
	Log logger.Conf `mapstructure:"log"`
}

// SetDefaults applies default values to unset fields.
func (c *Config) SetDefaults() {
	if c.SamplingRate == nil {
		rate := DefaultSamplingRate
		c.SamplingRate = &rate
	}
	if c.MaxSampleSize <= 0 {
		c.MaxSampleSize = DefaultMaxSampleSize
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = DefaultRetentionDays
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if c.RecentLimit <= 0 {
		c.RecentLimit = DefaultRecentLimit
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.Log == (logger.Conf{}) {
		c.Log = *logger.SetDefaults()
	}
}

// ApplyEnv overrides fields from PIPETRACE_* environment variables. Env
// values beat file values; unset or unparsable variables change nothing.
func (c *Config) ApplyEnv() {
	if rate, ok := env.LookupFloat64("PIPETRACE_SAMPLING_RATE"); ok {
		c.SamplingRate = &rate
	}
	c.MaxSampleSize = env.Int("PIPETRACE_MAX_SAMPLE_SIZE", c.MaxSampleSize)
	c.RetentionDays = env.Int("PIPETRACE_RETENTION_DAYS", c.RetentionDays)
	c.LogDir = env.String("PIPETRACE_LOG_DIR", c.LogDir)
}

// Validate checks config validity.
func (c *Config) Validate() error {
	if c.SamplingRate != nil && (*c.SamplingRate < 0 || *c.SamplingRate > 1) {
		return ErrInvalidSamplingRate
	}
	if c.MaxSampleSize < 0 {
		return fmt.Errorf("tracker: maxSampleSize must be non-negative, got %d", c.MaxSampleSize)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("tracker: retentionDays must be non-negative, got %d", c.RetentionDays)
	}
	return nil
}

// LoadConfigFile loads tracker configuration from a file and watches it for
// changes. Reload failures keep the previous values and are logged only.
func LoadConfigFile(confPath string) (*Config, error) {
	config := viper.New()
	config.SetConfigFile(confPath)
	if err := config.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var cfg Config
	if err := config.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	cfg.ApplyEnv()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(&cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		logger.Infow("tracker configuration changed on disk; restart to apply", "file", e.Name)
	})

	logger.Infow("tracker config file loaded", "path", confPath)
	return &cfg, nil
}
