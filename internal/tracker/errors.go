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

import "errors"

var (
	// ErrInvalidSamplingRate is returned when samplingRate is outside [0,1].
	ErrInvalidSamplingRate = errors.New("tracker: samplingRate must be in [0,1]")
	// ErrClosed is returned when operating on a closed registry.
	ErrClosed = errors.New("tracker: registry closed")
)
