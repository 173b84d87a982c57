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
	"fmt"
	"slices"
	"strings"

	"github.com/quarterlane/docbase/core"
)

// fenceMarker is the delimiter for fenced code blocks.
const fenceMarker = "```"

// SplitSections splits markdown text into header-delimited sections.
//
// The scanner walks the text line by line tracking a heading stack: each
// header line truncates the stack to its level and pushes its title, and
// opens a new section that carries the resulting heading path. Lines inside
// a fenced code block are never interpreted as headers; fence state takes
// priority over header detection. Sections partition the text in document
// order, so joining their texts with newlines reproduces the input.
//
// A document with no headers yields a single section with an empty
// heading path. An unterminated fence is a structural error.
func SplitSections(text string) ([]core.Section, error) {
	lines := strings.Split(text, "\n")

	var (
		sections   []core.Section
		stack      []string // heading titles, root first
		cur        []string // lines of the section being built
		curPath    []string
		curBlocks  []core.CodeBlock
		inFence    bool
		fenceLang  string
		fenceLines []string
	)

	flush := func() {
		if len(cur) == 0 {
			return
		}
		sections = append(sections, core.Section{
			HeadingPath: slices.Clone(curPath),
			Text:        strings.Join(cur, "\n"),
			CodeBlocks:  curBlocks,
			Index:       len(sections),
		})
		cur = nil
		curBlocks = nil
	}

	for _, line := range lines {
		if isFenceLine(line) {
			if inFence {
				fenceLines = append(fenceLines, line)
				curBlocks = append(curBlocks, core.CodeBlock{
					Language: fenceLang,
					Text:     strings.Join(fenceLines, "\n"),
				})
				inFence = false
				fenceLines = nil
			} else {
				inFence = true
				fenceLang = fenceLanguage(line)
				fenceLines = []string{line}
			}
			cur = append(cur, line)
			continue
		}

		if inFence {
			fenceLines = append(fenceLines, line)
			cur = append(cur, line)
			continue
		}

		if level, title := headerLevel(line); level > 0 {
			flush()
			if level-1 < len(stack) {
				stack = stack[:level-1]
			}
			stack = append(stack, title)
			curPath = slices.Clone(stack)
			cur = append(cur, line)
			continue
		}

		cur = append(cur, line)
	}

	if inFence {
		return nil, fmt.Errorf("%w: language %q", ErrUnterminatedFence, fenceLang)
	}

	flush()

	return sections, nil
}

// headerLevel reports the markdown header level (1-6) of a line and its
// title, or 0 if the line is not a header.
func headerLevel(line string) (int, string) {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i == 0 || i > 6 {
		return 0, ""
	}
	rest := line[i:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, ""
	}
	return i, strings.TrimSpace(rest)
}

// isFenceLine reports whether a line opens or closes a fenced code block.
func isFenceLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), fenceMarker)
}

// fenceLanguage extracts the language tag from an opening fence line.
func fenceLanguage(line string) string {
	rest := strings.TrimPrefix(strings.TrimLeft(line, " \t"), fenceMarker)
	return strings.TrimSpace(rest)
}
