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

package env

import "testing"

func TestString(t *testing.T) {
	t.Setenv("PIPETRACE_TEST_STR", "hello")
	if got := String("PIPETRACE_TEST_STR", "def"); got != "hello" {
		t.Fatalf("String set = %q, want hello", got)
	}
	t.Setenv("PIPETRACE_TEST_STR", "")
	if got := String("PIPETRACE_TEST_STR", "def"); got != "def" {
		t.Fatalf("String empty = %q, want def", got)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("PIPETRACE_TEST_INT", "42")
	if got := Int("PIPETRACE_TEST_INT", 7); got != 42 {
		t.Fatalf("Int valid = %d, want 42", got)
	}
	t.Setenv("PIPETRACE_TEST_INT", "not-int")
	if got := Int("PIPETRACE_TEST_INT", 7); got != 7 {
		t.Fatalf("Int invalid = %d, want 7", got)
	}
}

func TestFloat64(t *testing.T) {
	t.Setenv("PIPETRACE_TEST_FLOAT", "0.25")
	if got := Float64("PIPETRACE_TEST_FLOAT", 0.5); got != 0.25 {
		t.Fatalf("Float64 valid = %v, want 0.25", got)
	}
	t.Setenv("PIPETRACE_TEST_FLOAT", "nope")
	if got := Float64("PIPETRACE_TEST_FLOAT", 0.5); got != 0.5 {
		t.Fatalf("Float64 invalid = %v, want 0.5", got)
	}
}

func TestLookupFloat64(t *testing.T) {
	t.Setenv("PIPETRACE_TEST_FLOAT", "0")
	v, ok := LookupFloat64("PIPETRACE_TEST_FLOAT")
	if !ok || v != 0 {
		t.Fatalf("LookupFloat64 explicit zero = %v/%v, want 0/true", v, ok)
	}
	t.Setenv("PIPETRACE_TEST_FLOAT", "")
	if _, ok := LookupFloat64("PIPETRACE_TEST_FLOAT"); ok {
		t.Fatal("LookupFloat64 must report unset for an empty variable")
	}
	t.Setenv("PIPETRACE_TEST_FLOAT", "nope")
	if _, ok := LookupFloat64("PIPETRACE_TEST_FLOAT"); ok {
		t.Fatal("LookupFloat64 must report unset for an unparsable value")
	}
}
