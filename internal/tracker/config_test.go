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
	"os"
	"path/filepath"
	"testing"

	"github.com/arcentrix/pipetrace/pkg/logger"
)

func rate(v float64) *float64 {
	return &v
}

func TestConfigSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if *cfg.SamplingRate != DefaultSamplingRate {
		t.Fatalf("samplingRate = %v, want %v", *cfg.SamplingRate, DefaultSamplingRate)
	}
	if cfg.MaxSampleSize != DefaultMaxSampleSize {
		t.Fatalf("maxSampleSize = %d, want %d", cfg.MaxSampleSize, DefaultMaxSampleSize)
	}
	if cfg.RetentionDays != DefaultRetentionDays {
		t.Fatalf("retentionDays = %d, want %d", cfg.RetentionDays, DefaultRetentionDays)
	}
	if cfg.RecentLimit != DefaultRecentLimit || cfg.HistoryLimit != DefaultHistoryLimit {
		t.Fatalf("buffer limits = %d/%d", cfg.RecentLimit, cfg.HistoryLimit)
	}
	if cfg.Log.Output == "" {
		t.Fatal("expected logging defaults to be filled")
	}
}

func TestConfigZeroSamplingRatePreserved(t *testing.T) {
	cfg := Config{SamplingRate: rate(0)}
	cfg.SetDefaults()
	if *cfg.SamplingRate != 0 {
		t.Fatalf("explicit samplingRate 0 became %v", *cfg.SamplingRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("rate 0 must be valid, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{SamplingRate: rate(0.5)}, false},
		{"rate zero", Config{SamplingRate: rate(0)}, false},
		{"rate unset", Config{}, false},
		{"rate too high", Config{SamplingRate: rate(1.5)}, true},
		{"rate negative", Config{SamplingRate: rate(-0.1)}, true},
		{"negative retention", Config{RetentionDays: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateSamplingRateSentinel(t *testing.T) {
	cfg := Config{SamplingRate: rate(2)}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidSamplingRate) {
		t.Fatalf("Validate() = %v, want ErrInvalidSamplingRate", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.yaml")
	content := `samplingRate: 0.25
maxSampleSize: 10
retentionDays: 14
logDir: ` + filepath.Join(dir, "logs") + `
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}
	if *cfg.SamplingRate != 0.25 || cfg.MaxSampleSize != 10 || cfg.RetentionDays != 14 {
		t.Fatalf("loaded config = %+v", cfg)
	}
	// Unset fields still get defaults.
	if cfg.RecentLimit != DefaultRecentLimit {
		t.Fatalf("recentLimit = %d, want default %d", cfg.RecentLimit, DefaultRecentLimit)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PIPETRACE_SAMPLING_RATE", "0.75")
	t.Setenv("PIPETRACE_LOG_DIR", "/tmp/pipetrace-env")
	cfg := Config{SamplingRate: rate(0.1), LogDir: "./logs"}
	cfg.ApplyEnv()
	if *cfg.SamplingRate != 0.75 {
		t.Fatalf("samplingRate = %v, want env override 0.75", *cfg.SamplingRate)
	}
	if cfg.LogDir != "/tmp/pipetrace-env" {
		t.Fatalf("logDir = %q, want env override", cfg.LogDir)
	}
	// Unset variables leave the existing values alone.
	if cfg.MaxSampleSize != 0 {
		t.Fatalf("maxSampleSize = %d, want untouched 0", cfg.MaxSampleSize)
	}
}

func TestApplyEnvZeroSamplingRate(t *testing.T) {
	t.Setenv("PIPETRACE_SAMPLING_RATE", "0")
	var cfg Config
	cfg.ApplyEnv()
	if cfg.SamplingRate == nil || *cfg.SamplingRate != 0 {
		t.Fatalf("samplingRate = %v, want explicit 0 from env", cfg.SamplingRate)
	}
	cfg.SetDefaults()
	if *cfg.SamplingRate != 0 {
		t.Fatalf("env-set samplingRate 0 became %v", *cfg.SamplingRate)
	}
}

func TestLoadConfigFileInitsLogging(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "applog")
	confPath := filepath.Join(dir, "tracker.yaml")
	content := `logDir: ` + filepath.Join(dir, "records") + `
log:
  output: file
  path: ` + logPath + `
  filename: tracker.log
`
	if err := os.WriteFile(confPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfigFile(confPath); err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}
	logger.Infow("logging wired from config file")
	if _, err := os.Stat(filepath.Join(logPath, "tracker.log")); err != nil {
		t.Fatalf("expected the configured log file to exist: %v", err)
	}

	// Later tests keep their output on stdout.
	t.Cleanup(func() { logger.MustInit(logger.SetDefaults()) })
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadConfigFileInvalidRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	if err := os.WriteFile(path, []byte("samplingRate: 3.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); !errors.Is(err, ErrInvalidSamplingRate) {
		t.Fatalf("LoadConfigFile = %v, want ErrInvalidSamplingRate", err)
	}
}
