package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestDiscoverDocuments(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "zeta.md", "z")
	writeTestFile(t, root, "alpha.md", "a")
	writeTestFile(t, root, "sub/nested.md", "n")
	writeTestFile(t, root, "notes.txt", "ignored")
	writeTestFile(t, root, "sub/deep/leaf.md", "l")

	paths, err := DiscoverDocuments(root, ".md")
	require.NoError(t, err)

	// Lexicographic order, recursive, extension-filtered
	assert.Equal(t, []string{"alpha.md", "sub/deep/leaf.md", "sub/nested.md", "zeta.md"}, paths)
}

func TestDiscoverDocumentsEmptyTree(t *testing.T) {
	paths, err := DiscoverDocuments(t.TempDir(), ".md")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDiscoverDocumentsMissingRoot(t *testing.T) {
	_, err := DiscoverDocuments(filepath.Join(t.TempDir(), "absent"), ".md")
	assert.Error(t, err)
}

func TestReadDocument(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "sub/doc.md", "# Title\n\nBody.")

	doc, err := ReadDocument(root, "sub/doc.md")
	require.NoError(t, err)
	assert.Equal(t, "sub/doc.md", doc.Path)
	assert.Equal(t, "# Title\n\nBody.", doc.Text)
	assert.False(t, doc.DiscoveredAt.IsZero())
}
