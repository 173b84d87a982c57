// Copyright 2026 Quarterlane Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import "errors"

// Embedding failure taxonomy. Every error returned by an Embedder wraps
// exactly one of these sentinels, so callers can pick a retry policy
// with errors.Is instead of inspecting provider-specific errors.
var (
	// ErrRateLimited indicates the provider rejected the call due to
	// rate limiting. Retryable with backoff.
	ErrRateLimited = errors.New("embedding request rate limited")

	// ErrTransient indicates a temporary failure such as a network
	// reset or a 5xx response. Retryable with backoff.
	ErrTransient = errors.New("transient embedding failure")

	// ErrFatal indicates a non-retryable failure such as bad
	// credentials or a malformed request.
	ErrFatal = errors.New("fatal embedding failure")
)

// IsRetryable reports whether an embedding error is worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}
