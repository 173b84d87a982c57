package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "path-like content", content: "components/sprites.md#4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestChunkID_Deterministic(t *testing.T) {
	id1 := ChunkID("guide/install.md", 3)
	id2 := ChunkID("guide/install.md", 3)

	if id1 != id2 {
		t.Errorf("ChunkID() not deterministic: %d vs %d", id1, id2)
	}
}

func TestChunkID_DistinguishesPathAndIndex(t *testing.T) {
	base := ChunkID("guide/install.md", 3)

	if ChunkID("guide/install.md", 4) == base {
		t.Errorf("ChunkID() collided across chunk indexes")
	}
	if ChunkID("guide/update.md", 3) == base {
		t.Errorf("ChunkID() collided across source paths")
	}
}

func TestChunk_ID(t *testing.T) {
	chunk := &Chunk{
		Text:       "some text",
		SourcePath: "api/camera.md",
		ChunkIndex: 7,
	}

	if chunk.ID() != ChunkID("api/camera.md", 7) {
		t.Errorf("Chunk.ID() does not match ChunkID(SourcePath, ChunkIndex)")
	}
}
