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

// Package env reads typed values from environment variables. An unset or
// unparsable variable yields the caller's default, never an error.
package env

import (
	"os"
	"strconv"
)

func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Int(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if value, err := strconv.Atoi(v); err == nil {
			return value
		}
	}
	return def
}

func Float64(key string, def float64) float64 {
	if v, ok := LookupFloat64(key); ok {
		return v
	}
	return def
}

// LookupFloat64 reports whether key is set to a parsable float, so callers
// can tell an explicit zero apart from an unset variable.
func LookupFloat64(key string) (float64, bool) {
	if v := os.Getenv(key); v != "" {
		if value, err := strconv.ParseFloat(v, 64); err == nil {
			return value, true
		}
	}
	return 0, false
}
