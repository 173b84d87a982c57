// Package ai defines the embedding provider boundary.
//
// The pipeline only ever sees the Embedder interface and the typed
// failure taxonomy (rate-limited, transient, fatal). Concrete clients
// live in subpackages: ai/openai talks to OpenAI-compatible embedding
// APIs, ai/mock provides a deterministic test double.
package ai
