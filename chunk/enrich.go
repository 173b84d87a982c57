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
	"strings"

	"github.com/quarterlane/docbase/core"
)

// classificationRule maps a path or heading token to a content type.
// Rules are evaluated in order; the first match wins.
type classificationRule struct {
	tokens      []string
	contentType core.ContentType
}

// classificationRules is the fixed-priority rule list for content-type
// classification. Each rule matches when any of its tokens appears in a
// path segment or heading of the chunk.
var classificationRules = []classificationRule{
	{tokens: []string{"tutorial", "guide"}, contentType: core.ContentTypeTutorial},
	{tokens: []string{"api"}, contentType: core.ContentTypeAPI},
	{tokens: []string{"reference"}, contentType: core.ContentTypeReference},
	{tokens: []string{"example"}, contentType: core.ContentTypeExample},
}

// codeHeavyRatio is the share of chunk text inside fenced code blocks
// above which a chunk with surrounding prose classifies as an example.
const codeHeavyRatio = 0.5

// Enricher attaches classification and source metadata to chunks.
// Enrichment is a pure function of the chunk and its document context.
type Enricher struct {
	version string
}

// NewEnricher creates an enricher that stamps the given version tag
// into every chunk it touches.
func NewEnricher(version string) *Enricher {
	return &Enricher{version: version}
}

// Enrich fills in classification and source metadata for every chunk of
// one document. Chunks are modified in place and returned.
func (e *Enricher) Enrich(chunks []*core.Chunk, doc *core.Document) []*core.Chunk {
	title := documentTitle(chunks, doc.Path)
	docURL := DocURL(doc.Path)

	for _, chunk := range chunks {
		chunk.SourcePath = doc.Path
		chunk.SourceVersion = e.version
		chunk.Title = title
		chunk.DocURL = docURL
		chunk.HasCode = HasCodeBlock(chunk.Text)
		chunk.ContentType = Classify(doc.Path, chunk.HeadingPath, chunk.Text)
	}

	return chunks
}

// Classify determines the content type of a chunk from its document
// path, heading path and text, using the fixed-priority rule list. A
// code-heavy chunk with surrounding prose that matches no rule
// classifies as an example; everything else defaults to reference.
func Classify(path string, headingPath []string, text string) core.ContentType {
	haystack := strings.ToLower(path)
	for _, heading := range headingPath {
		haystack += "\n" + strings.ToLower(heading)
	}

	for _, rule := range classificationRules {
		for _, token := range rule.tokens {
			if strings.Contains(haystack, token) {
				return rule.contentType
			}
		}
	}

	if isCodeHeavy(text) {
		return core.ContentTypeExample
	}

	return core.ContentTypeReference
}

// HasCodeBlock reports whether text contains at least one fenced code block.
func HasCodeBlock(text string) bool {
	fences := 0
	for _, line := range strings.Split(text, "\n") {
		if isFenceLine(line) {
			fences++
		}
	}
	return fences >= 2
}

// DocURL derives the published URL path for a source file.
func DocURL(path string) string {
	return "/" + strings.TrimSuffix(path, ".md") + ".html"
}

// isCodeHeavy reports whether more than half of the text sits inside
// fenced code blocks while prose is still present.
func isCodeHeavy(text string) bool {
	if len(text) == 0 {
		return false
	}

	codeChars := 0
	proseChars := 0
	inFence := false
	for _, line := range strings.Split(text, "\n") {
		if isFenceLine(line) {
			inFence = !inFence
			codeChars += len(line)
			continue
		}
		if inFence {
			codeChars += len(line)
		} else {
			proseChars += len(strings.TrimSpace(line))
		}
	}

	return proseChars > 0 && float64(codeChars)/float64(len(text)) > codeHeavyRatio
}

// documentTitle picks the document title: the first heading in the
// document, else the filename stem with separators spaced out.
func documentTitle(chunks []*core.Chunk, path string) string {
	for _, chunk := range chunks {
		if len(chunk.HeadingPath) > 0 {
			return chunk.HeadingPath[0]
		}
	}

	stem := path
	if i := strings.LastIndex(stem, "/"); i >= 0 {
		stem = stem[i+1:]
	}
	stem = strings.TrimSuffix(stem, ".md")
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")

	words := strings.Fields(stem)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
