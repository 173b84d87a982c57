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

package chunk

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter measures text in tokens. Every sizing decision in the
// chunking engine goes through this interface.
type TokenCounter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Tail returns the trailing span of text worth at most maxTokens tokens.
	// Used to compute the overlap carried into the next chunk.
	Tail(text string, maxTokens int) string
}

// TiktokenCounter counts tokens with tiktoken's cl100k_base encoding,
// matching the tokenizer used by OpenAI embedding models.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

var _ TokenCounter = (*TiktokenCounter)(nil)

// NewTiktokenCounter creates a counter backed by the cl100k_base encoding.
func NewTiktokenCounter() (*TiktokenCounter, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// Count returns the number of cl100k_base tokens in text.
func (t *TiktokenCounter) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// Tail decodes the last maxTokens tokens of text.
func (t *TiktokenCounter) Tail(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	ids := t.encoding.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return t.encoding.Decode(ids[len(ids)-maxTokens:])
}

// ApproxCounter is a cheap token estimator (~4 chars per token).
// It keeps tests fast and deterministic without the tiktoken vocabulary.
type ApproxCounter struct{}

var _ TokenCounter = ApproxCounter{}

// Count estimates the token count as ceil(runes / 4).
func (ApproxCounter) Count(text string) int {
	n := len([]rune(text))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}

// Tail returns roughly the last maxTokens tokens worth of runes.
func (ApproxCounter) Tail(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	runes := []rune(text)
	keep := maxTokens * 4
	if len(runes) <= keep {
		return text
	}
	return string(runes[len(runes)-keep:])
}
