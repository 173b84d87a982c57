// Package openai implements the ai.Embedder interface against
// OpenAI-compatible embedding APIs using langchaingo.
//
// Provider errors are mapped onto the ai package's failure taxonomy so
// the pipeline's retry policy never inspects provider-specific errors.
package openai
