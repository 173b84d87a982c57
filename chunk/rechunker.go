package chunk

import (
	"strings"

	"github.com/quarterlane/docbase/core"
)

// unit is an indivisible span of section text used during rechunking.
// Atomic units (a code block with its preceding context paragraph) are
// never split, even when they alone exceed the target size.
type unit struct {
	text   string
	atomic bool
}

// splitSection splits one section into chunk texts close to the target
// size. A section at or below the target becomes one piece, unchanged.
//
// Split priorities, in order: never split inside a fenced code block (a
// block plus the paragraph immediately preceding it stays together);
// otherwise split at the last paragraph or sentence boundary at or
// before the token budget. Each split backtracks by the overlap size to
// seed the next piece.
func (c *Chunker) splitSection(section core.Section) []string {
	if c.counter.Count(section.Text) <= c.targetTokens {
		return []string{section.Text}
	}

	units := sectionUnits(section.Text)

	var pieces []string
	cur := ""

	emit := func() {
		pieces = append(pieces, cur)
		cur = c.counter.Tail(cur, c.overlapTokens)
	}

	for _, u := range units {
		candidate := joinBlocks(cur, u.text)
		if cur == "" || c.counter.Count(candidate) <= c.targetTokens {
			cur = candidate
		} else {
			emit()
			cur = joinBlocks(cur, u.text)
		}

		// A lone paragraph above the budget is split at sentence
		// boundaries; atomic units are kept whole.
		if !u.atomic && c.counter.Count(cur) > c.targetTokens {
			prosePieces := c.splitProse(cur)
			pieces = append(pieces, prosePieces[:len(prosePieces)-1]...)
			cur = prosePieces[len(prosePieces)-1]
		}
	}

	if strings.TrimSpace(cur) != "" {
		pieces = append(pieces, cur)
	}

	return pieces
}

// splitProse splits text at sentence boundaries into pieces at or below
// the target budget, carrying the overlap tail between pieces. A single
// sentence above the budget is kept whole.
func (c *Chunker) splitProse(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return []string{text}
	}

	var pieces []string
	cur := ""
	for _, sentence := range sentences {
		candidate := cur + sentence
		if cur == "" || c.counter.Count(candidate) <= c.targetTokens {
			cur = candidate
			continue
		}
		pieces = append(pieces, cur)
		cur = c.counter.Tail(cur, c.overlapTokens) + sentence
	}
	if cur != "" {
		pieces = append(pieces, cur)
	}

	return pieces
}

// sectionUnits breaks section text into paragraphs and atomic code
// units. A fenced code block is glued to the paragraph immediately
// preceding it so the block always keeps its minimum context.
func sectionUnits(text string) []unit {
	var units []unit

	push := func(t string, atomic bool) {
		if strings.TrimSpace(t) == "" {
			return
		}
		if atomic && len(units) > 0 && !units[len(units)-1].atomic {
			prev := units[len(units)-1]
			units[len(units)-1] = unit{text: joinBlocks(prev.text, t), atomic: true}
			return
		}
		units = append(units, unit{text: t, atomic: atomic})
	}

	lines := strings.Split(text, "\n")
	var para []string
	var fence []string
	inFence := false

	flushPara := func() {
		if len(para) > 0 {
			push(strings.Join(para, "\n"), false)
			para = nil
		}
	}

	for _, line := range lines {
		if isFenceLine(line) {
			if inFence {
				fence = append(fence, line)
				push(strings.Join(fence, "\n"), true)
				fence = nil
				inFence = false
			} else {
				flushPara()
				inFence = true
				fence = []string{line}
			}
			continue
		}

		if inFence {
			fence = append(fence, line)
			continue
		}

		if strings.TrimSpace(line) == "" {
			flushPara()
			continue
		}

		para = append(para, line)
	}

	// Section text always comes from a fence-validated document, but an
	// open fence at the end is still flushed rather than dropped.
	if len(fence) > 0 {
		push(strings.Join(fence, "\n"), true)
	}
	flushPara()

	return units
}

// splitSentences splits prose into sentences, each keeping its trailing
// delimiter and whitespace so concatenation reproduces the input.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			// Sentence ends at punctuation followed by whitespace.
			j := i + 1
			for j < len(runes) && (runes[j] == ' ' || runes[j] == '\n' || runes[j] == '\t') {
				j++
			}
			if j > i+1 || j == len(runes) {
				sentences = append(sentences, string(runes[start:j]))
				start = j
				i = j - 1
			}
		}
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	return sentences
}

// joinBlocks joins two block-level spans with a paragraph break.
func joinBlocks(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "\n\n" + b
}
