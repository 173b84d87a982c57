package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/quarterlane/docbase/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "chkrec"
	chunkSourcePrefix = "chksrc"
	progressPrefix    = "progrec"
)

// makeChunkKey generates a key for a chunk record by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkSourceKey generates a composite key for the source-path index.
// Format: prefix:sourcePath:chunkIndex
func makeChunkSourceKey(sourcePath string, chunkIndex int) []byte {
	prefix := chunkSourcePrefix + ":" + sourcePath + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort follows chunk index
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makePartialChunkSourceKey generates a partial key for scanning all
// chunks of one source file.
func makePartialChunkSourceKey(sourcePath string) []byte {
	return []byte(chunkSourcePrefix + ":" + sourcePath + ":")
}

// makeProgressKey generates a key for a progress record by file path.
func makeProgressKey(path string) []byte {
	return []byte(progressPrefix + ":" + path)
}
