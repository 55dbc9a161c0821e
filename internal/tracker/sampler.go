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
	"math/rand"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/arcentrix/pipetrace/pkg/metrics"
)

// Sampling methods recorded alongside every sample.
const (
	SamplingMethodRandomIndices = "random_indices"
	SamplingMethodRandomKeys    = "random_keys"
	SamplingMethodTruncated     = "truncated"
	SamplingMethodComplete      = "complete"
	SamplingMethodFullText      = "full_text"
	SamplingMethodScalar        = "scalar"
	SamplingMethodError         = "error"
)

const (
	// textSampleThreshold is the rune count above which text is truncated.
	textSampleThreshold = 1000
	// textSampleEdge is the prefix/suffix length kept from long text.
	textSampleEdge = 500
)

// payloadKind classifies an opaque payload into one sampling strategy.
type payloadKind int

const (
	kindText payloadKind = iota
	kindSequence
	kindMapping
	kindScalar
)

// Sampler produces bounded, serializable payload snapshots. Sampling must
// never fail the tracked operation: render errors become markers inside the
// sample instead of error returns.
type Sampler struct {
	rate     float64
	maxItems int
	sink     *metrics.Sink

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rnd *rand.Rand
}

// NewSampler creates a sampler with the given gate rate and item budget.
func NewSampler(rate float64, maxItems int, sink *metrics.Sink) *Sampler {
	return newSamplerWithRand(rate, maxItems, sink, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// newSamplerWithRand injects the random source; tests use it for determinism.
func newSamplerWithRand(rate float64, maxItems int, sink *metrics.Sink, rnd *rand.Rand) *Sampler {
	if sink == nil {
		sink = metrics.NewSink()
	}
	return &Sampler{rate: rate, maxItems: maxItems, sink: sink, rnd: rnd}
}

// Sample returns a bounded snapshot of payload, or (nil, false) when the
// statistical gate decides against sampling this call.
func (s *Sampler) Sample(payload any) (map[string]any, bool) {
	if payload == nil {
		return nil, false
	}
	s.mu.Lock()
	draw := s.rnd.Float64()
	s.mu.Unlock()
	if draw >= s.rate {
		return nil, false
	}
	return s.render(payload), true
}

// EstimateSize returns a best-effort byte/length estimate for payload. It is
// computed on every call, independent of the sampling gate.
func (s *Sampler) EstimateSize(payload any) int64 {
	switch v := payload.(type) {
	case nil:
		return 0
	case string:
		return int64(len(v))
	case []byte:
		return int64(len(v))
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return 0
	}
	return int64(len(raw))
}

// render builds the sample for one payload. Any panic or marshal failure is
// converted into an explicit error marker; this is the single place where the
// never-propagate contract is enforced.
func (s *Sampler) render(payload any) (out map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			s.sink.SamplingErrors.Inc()
			out = errorSample(fmt.Sprintf("%v", r))
		}
	}()

	var sample map[string]any
	switch classifyPayload(payload) {
	case kindText:
		sample = s.sampleText(asText(payload))
	case kindSequence:
		sample = s.sampleSequence(reflect.ValueOf(payload))
	case kindMapping:
		sample = s.sampleMapping(reflect.ValueOf(payload))
	default:
		sample = map[string]any{
			"data":            fmt.Sprintf("%v", payload),
			"sampling_method": SamplingMethodScalar,
		}
	}

	// The sample must survive record serialization; replace it with a
	// marker when it cannot.
	if _, err := sonic.Marshal(sample); err != nil {
		s.sink.SamplingErrors.Inc()
		return errorSample(err.Error())
	}
	return sample
}

// classifyPayload maps a payload onto its sampling variant.
func classifyPayload(payload any) payloadKind {
	switch payload.(type) {
	case string:
		return kindText
	case []byte:
		return kindText
	}
	switch reflect.ValueOf(payload).Kind() {
	case reflect.Slice, reflect.Array:
		return kindSequence
	case reflect.Map:
		return kindMapping
	default:
		return kindScalar
	}
}

func (s *Sampler) sampleText(text string) map[string]any {
	runes := []rune(text)
	if len(runes) <= textSampleThreshold {
		return map[string]any{
			"data":            text,
			"sampling_method": SamplingMethodFullText,
			"sample_size":     len(runes),
		}
	}
	truncated := string(runes[:textSampleEdge]) + "..." + string(runes[len(runes)-textSampleEdge:])
	return map[string]any{
		"data":            truncated,
		"sampling_method": SamplingMethodTruncated,
		"sample_size":     len(runes),
	}
}

// sampleSequence keeps maxItems elements picked uniformly at random without
// replacement, preserving their original relative order.
func (s *Sampler) sampleSequence(v reflect.Value) map[string]any {
	length := v.Len()
	if length <= s.maxItems {
		items := make([]any, length)
		for i := 0; i < length; i++ {
			items[i] = v.Index(i).Interface()
		}
		return map[string]any{
			"data":            items,
			"sampling_method": SamplingMethodComplete,
			"sample_size":     length,
		}
	}

	indices := s.pickIndices(length, s.maxItems)
	items := make([]any, 0, s.maxItems)
	for _, idx := range indices {
		items = append(items, v.Index(idx).Interface())
	}
	return map[string]any{
		"data":            items,
		"sampling_method": SamplingMethodRandomIndices,
		"sample_size":     s.maxItems,
		"original_size":   length,
	}
}

// sampleMapping keeps maxItems entries under uniformly random keys.
func (s *Sampler) sampleMapping(v reflect.Value) map[string]any {
	keys := v.MapKeys()
	if len(keys) <= s.maxItems {
		entries := make(map[string]any, len(keys))
		for _, k := range keys {
			entries[fmt.Sprintf("%v", k.Interface())] = v.MapIndex(k).Interface()
		}
		return map[string]any{
			"data":            entries,
			"sampling_method": SamplingMethodComplete,
			"sample_size":     len(keys),
		}
	}

	s.mu.Lock()
	s.rnd.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	s.mu.Unlock()
	entries := make(map[string]any, s.maxItems)
	for _, k := range keys[:s.maxItems] {
		entries[fmt.Sprintf("%v", k.Interface())] = v.MapIndex(k).Interface()
	}
	return map[string]any{
		"data":            entries,
		"sampling_method": SamplingMethodRandomKeys,
		"sample_size":     s.maxItems,
		"original_size":   len(keys),
	}
}

// pickIndices selects n distinct indices from [0, length) uniformly at random
// and returns them in ascending order.
func (s *Sampler) pickIndices(length, n int) []int {
	s.mu.Lock()
	perm := s.rnd.Perm(length)
	s.mu.Unlock()
	indices := perm[:n]
	sort.Ints(indices)
	return indices
}

func asText(payload any) string {
	switch v := payload.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func errorSample(msg string) map[string]any {
	return map[string]any{
		"data":            fmt.Sprintf("<sampling error: %s>", msg),
		"sampling_method": SamplingMethodError,
	}
}
