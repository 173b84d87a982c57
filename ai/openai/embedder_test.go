package openai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/quarterlane/docbase/ai"
)

func TestNewEmbedder_AppliesMaxBatchSize(t *testing.T) {
	embedder, err := NewEmbedder(ai.NewConfig(ai.WithMaxBatchSize(8)))
	require.NoError(t, err)

	impl, ok := embedder.(*Embedder).embedder.(*embeddings.EmbedderImpl)
	require.True(t, ok)
	assert.Equal(t, 8, impl.BatchSize, "requests must be capped at the configured batch size")
	assert.True(t, impl.StripNewLines)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "status 429",
			err:  errors.New("API returned unexpected status code: 429"),
			want: ai.ErrRateLimited,
		},
		{
			name: "rate limit phrase",
			err:  errors.New("rate limit exceeded, retry later"),
			want: ai.ErrRateLimited,
		},
		{
			name: "unauthorized",
			err:  errors.New("API returned unexpected status code: 401 Unauthorized"),
			want: ai.ErrFatal,
		},
		{
			name: "bad request",
			err:  errors.New("400 Bad Request: input too long"),
			want: ai.ErrFatal,
		},
		{
			name: "network reset",
			err:  errors.New("read tcp 127.0.0.1: connection reset by peer"),
			want: ai.ErrTransient,
		},
		{
			name: "server error",
			err:  errors.New("API returned unexpected status code: 503"),
			want: ai.ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyError_Retryability(t *testing.T) {
	assert.True(t, ai.IsRetryable(classifyError(errors.New("429"))))
	assert.True(t, ai.IsRetryable(classifyError(errors.New("connection refused"))))
	assert.False(t, ai.IsRetryable(classifyError(errors.New("invalid api key"))))
}
