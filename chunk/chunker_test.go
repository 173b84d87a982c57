package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarterlane/docbase/core"
)

// testChunker builds a chunker with small budgets so tests stay readable:
// target 50 tokens, overlap 10, minimum 5 (ApproxCounter, ~4 chars/token).
func testChunker(t *testing.T, opts ...Option) *Chunker {
	t.Helper()
	base := []Option{
		WithTargetTokens(50),
		WithOverlapTokens(10),
		WithMinChunkTokens(5),
	}
	c, err := NewChunker(ApproxCounter{}, append(base, opts...)...)
	require.NoError(t, err)
	return c
}

// para returns a prose paragraph of roughly n approximate tokens.
func para(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ipsum know ", n/4+1))[:n*4]
}

func TestNewChunker_Validation(t *testing.T) {
	_, err := NewChunker(nil)
	assert.ErrorIs(t, err, ErrTokenCounterRequired)

	_, err = NewChunker(ApproxCounter{}, WithTargetTokens(100), WithOverlapTokens(100))
	assert.ErrorIs(t, err, ErrInvalidChunkSizes)

	_, err = NewChunker(ApproxCounter{}, WithTargetTokens(0))
	assert.ErrorIs(t, err, ErrInvalidChunkSizes)
}

func TestChunkDocument_EmptyDocument(t *testing.T) {
	c := testChunker(t)

	for _, text := range []string{"", "   \n\t\n  "} {
		chunks, err := c.ChunkDocument(&core.Document{Path: "empty.md", Text: text})
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestChunkDocument_SmallSectionSingleChunk(t *testing.T) {
	c := testChunker(t)
	text := "# A\nshort body under the target size"

	chunks, err := c.ChunkDocument(&core.Document{Path: "a.md", Text: text})
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, []string{"A"}, chunks[0].HeadingPath)
	assert.Equal(t, "a.md", chunks[0].SourcePath)
}

func TestChunkDocument_OversizedSectionSplitsWithOverlap(t *testing.T) {
	c := testChunker(t)
	counter := ApproxCounter{}

	paragraphs := make([]string, 6)
	for i := range paragraphs {
		paragraphs[i] = para(30)
	}
	text := "# Big\n\n" + strings.Join(paragraphs, "\n\n")

	chunks, err := c.ChunkDocument(&core.Document{Path: "big.md", Text: text})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1, "oversized section should split")

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex, "chunk indexes must be contiguous")
		assert.LessOrEqual(t, chunk.TokenCount, 50, "prose chunks stay within the target")
		assert.Equal(t, []string{"Big"}, chunk.HeadingPath)
	}

	// Adjacent chunks share the overlap span: the tail of chunk i opens chunk i+1.
	for i := 0; i < len(chunks)-1; i++ {
		tail := strings.TrimSpace(counter.Tail(chunks[i].Text, 10))
		assert.True(t, strings.HasPrefix(chunks[i+1].Text, tail),
			"chunk %d should start with the tail of chunk %d", i+1, i)
	}
}

func TestChunkDocument_SentenceSplitting(t *testing.T) {
	c := testChunker(t)

	var sb strings.Builder
	sb.WriteString("# Prose\n\n")
	for i := 0; i < 40; i++ {
		sb.WriteString("This sentence pads out one long paragraph. ")
	}
	text := strings.TrimSpace(sb.String())

	chunks, err := c.ChunkDocument(&core.Document{Path: "prose.md", Text: text})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1, "a single huge paragraph should split at sentences")

	for _, chunk := range chunks {
		assert.LessOrEqual(t, chunk.TokenCount, 50)
	}
}

func TestChunkDocument_CodeFenceAtomicity(t *testing.T) {
	c := testChunker(t)

	var code []string
	code = append(code, "```dart")
	for i := 0; i < 30; i++ {
		code = append(code, "final component = SpriteComponent(size: Vector2.all(16));")
	}
	code = append(code, "```")
	text := strings.Join(code, "\n")
	require.Greater(t, ApproxCounter{}.Count(text), 50, "code block must exceed the target")

	chunks, err := c.ChunkDocument(&core.Document{Path: "code.md", Text: text})
	require.NoError(t, err)

	require.Len(t, chunks, 1, "an oversized code block is one atomic chunk")
	assert.Equal(t, text, chunks[0].Text)
	assert.Greater(t, chunks[0].TokenCount, 50, "oversized single chunk is permitted")
}

func TestChunkDocument_CodeKeepsPrecedingParagraph(t *testing.T) {
	c := testChunker(t)

	var code []string
	code = append(code, "```go")
	for i := 0; i < 20; i++ {
		code = append(code, "fmt.Println(\"line\")")
	}
	code = append(code, "```")

	text := strings.Join([]string{
		"# T",
		"",
		"Setup paragraph for the snippet below",
		"",
		strings.Join(code, "\n"),
		"",
		para(30),
	}, "\n")

	chunks, err := c.ChunkDocument(&core.Document{Path: "t.md", Text: text})
	require.NoError(t, err)

	var codeChunk *core.Chunk
	for _, chunk := range chunks {
		if strings.Contains(chunk.Text, "```go") {
			codeChunk = chunk
			break
		}
	}
	require.NotNil(t, codeChunk, "some chunk must contain the code block")
	assert.Contains(t, codeChunk.Text, "Setup paragraph for the snippet below",
		"the code block must keep its preceding context paragraph")
}

func TestChunkDocument_TrailingChunkMergesBackward(t *testing.T) {
	c := testChunker(t, WithMinChunkTokens(25))

	text := "# A\n\n" + para(44) + "\n\n# B\n\nshort tail."

	chunks, err := c.ChunkDocument(&core.Document{Path: "m.md", Text: text})
	require.NoError(t, err)

	require.Len(t, chunks, 1, "trailing undersized chunk merges backward")
	assert.True(t, strings.HasSuffix(chunks[0].Text, "short tail."))

	// Without a minimum the same document yields two chunks.
	loose := testChunker(t, WithMinChunkTokens(0))
	chunks, err = loose.ChunkDocument(&core.Document{Path: "m.md", Text: text})
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestChunkDocument_UndersizedChunkMergesForward(t *testing.T) {
	c := testChunker(t, WithMinChunkTokens(25))

	text := strings.Join([]string{
		"# Intro",
		"",
		"tiny bit",
		"",
		"# Body",
		"",
		para(44),
		"",
		"# Tail",
		"",
		para(44),
	}, "\n")

	chunks, err := c.ChunkDocument(&core.Document{Path: "f.md", Text: text})
	require.NoError(t, err)

	require.Len(t, chunks, 2, "undersized intro merges forward")
	assert.True(t, strings.HasPrefix(chunks[0].Text, "# Intro"))
	assert.Contains(t, chunks[0].Text, "# Body")
	assert.Equal(t, []string{"Intro"}, chunks[0].HeadingPath,
		"a forward-merged chunk keeps the heading path of its opening text")
	assert.Equal(t, []string{"Tail"}, chunks[1].HeadingPath)
}

func TestChunkDocument_SingleChunkExemptFromMinimum(t *testing.T) {
	c := testChunker(t, WithMinChunkTokens(25))

	chunks, err := c.ChunkDocument(&core.Document{Path: "tiny.md", Text: "tiny"})
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Less(t, chunks[0].TokenCount, 25)
}

func TestChunkDocument_UnterminatedFence(t *testing.T) {
	c := testChunker(t)

	_, err := c.ChunkDocument(&core.Document{Path: "bad.md", Text: "# H\n```go\nno close"})
	assert.ErrorIs(t, err, ErrUnterminatedFence)
}
