package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/quarterlane/docbase/core"
)

// DiscoverDocuments walks the source root recursively and returns the
// relative paths of all files with the given extension, in lexicographic
// order so reruns are reproducible.
func DiscoverDocuments(root, extension string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), extension) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadDocument loads one discovered file into a Document.
// The path is relative to the source root.
func ReadDocument(root, path string) (*core.Document, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	if err != nil {
		return nil, err
	}
	return &core.Document{
		Path:         path,
		Text:         string(data),
		DiscoveredAt: time.Now().UTC(),
	}, nil
}
