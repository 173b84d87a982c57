package chunk

import (
	"errors"
	"strings"
	"testing"
)

func joinSections(t *testing.T, text string) string {
	t.Helper()
	sections, err := SplitSections(text)
	if err != nil {
		t.Fatalf("SplitSections() error: %v", err)
	}
	texts := make([]string, len(sections))
	for i, s := range sections {
		texts[i] = s.Text
	}
	return strings.Join(texts, "\n")
}

func TestSplitSections_NoHeaders(t *testing.T) {
	text := "just some text\nwith no headers at all"

	sections, err := SplitSections(text)
	if err != nil {
		t.Fatalf("SplitSections() error: %v", err)
	}

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if len(sections[0].HeadingPath) != 0 {
		t.Errorf("expected empty heading path, got %v", sections[0].HeadingPath)
	}
	if sections[0].Text != text {
		t.Errorf("section text does not match input")
	}
}

func TestSplitSections_HeadingHierarchy(t *testing.T) {
	text := strings.Join([]string{
		"# Title",
		"intro text",
		"## Sub A",
		"a text",
		"### Deep",
		"deep text",
		"## Sub B",
		"b text",
	}, "\n")

	sections, err := SplitSections(text)
	if err != nil {
		t.Fatalf("SplitSections() error: %v", err)
	}

	wantPaths := [][]string{
		{"Title"},
		{"Title", "Sub A"},
		{"Title", "Sub A", "Deep"},
		{"Title", "Sub B"},
	}

	if len(sections) != len(wantPaths) {
		t.Fatalf("expected %d sections, got %d", len(wantPaths), len(sections))
	}

	for i, want := range wantPaths {
		got := sections[i].HeadingPath
		if len(got) != len(want) {
			t.Errorf("section %d heading path = %v, want %v", i, got, want)
			continue
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("section %d heading path = %v, want %v", i, got, want)
				break
			}
		}
		if sections[i].Index != i {
			t.Errorf("section %d has Index %d", i, sections[i].Index)
		}
	}
}

func TestSplitSections_LeadingContent(t *testing.T) {
	text := "preamble before any header\n# First\nbody"

	sections, err := SplitSections(text)
	if err != nil {
		t.Fatalf("SplitSections() error: %v", err)
	}

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if len(sections[0].HeadingPath) != 0 {
		t.Errorf("preamble section should have an empty heading path, got %v", sections[0].HeadingPath)
	}
	if sections[1].HeadingPath[0] != "First" {
		t.Errorf("second section heading path = %v", sections[1].HeadingPath)
	}
}

func TestSplitSections_FenceSuppressesHeaders(t *testing.T) {
	text := strings.Join([]string{
		"# Real Header",
		"some prose",
		"```sh",
		"# this is a comment, not a header",
		"echo hello",
		"```",
		"after the block",
	}, "\n")

	sections, err := SplitSections(text)
	if err != nil {
		t.Fatalf("SplitSections() error: %v", err)
	}

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}

	section := sections[0]
	if len(section.CodeBlocks) != 1 {
		t.Fatalf("expected 1 code block, got %d", len(section.CodeBlocks))
	}
	if section.CodeBlocks[0].Language != "sh" {
		t.Errorf("code block language = %q, want %q", section.CodeBlocks[0].Language, "sh")
	}
	if !strings.Contains(section.CodeBlocks[0].Text, "# this is a comment") {
		t.Errorf("code block text missing fenced content")
	}
}

func TestSplitSections_UnterminatedFence(t *testing.T) {
	text := "# Header\n```python\nprint('oops')"

	_, err := SplitSections(text)
	if !errors.Is(err, ErrUnterminatedFence) {
		t.Errorf("expected ErrUnterminatedFence, got %v", err)
	}
}

func TestSplitSections_PartitionInvariant(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no headers", text: "plain text only"},
		{name: "trailing newline", text: "# A\nbody\n"},
		{
			name: "mixed document",
			text: "intro\n\n# One\ntext one\n\n## Two\n```go\nfunc main() {}\n```\n# Three\nlast",
		},
		{name: "empty document", text: ""},
		{name: "consecutive headers", text: "# A\n## B\n### C\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinSections(t, tt.text); got != tt.text {
				t.Errorf("joined sections != input:\ngot:  %q\nwant: %q", got, tt.text)
			}
		})
	}
}

func TestHeaderLevel(t *testing.T) {
	tests := []struct {
		line      string
		wantLevel int
		wantTitle string
	}{
		{line: "# Title", wantLevel: 1, wantTitle: "Title"},
		{line: "###### Deep", wantLevel: 6, wantTitle: "Deep"},
		{line: "####### too deep", wantLevel: 0},
		{line: "#NoSpace", wantLevel: 0},
		{line: "plain line", wantLevel: 0},
		{line: "##   Spaced Out  ", wantLevel: 2, wantTitle: "Spaced Out"},
	}

	for _, tt := range tests {
		level, title := headerLevel(tt.line)
		if level != tt.wantLevel {
			t.Errorf("headerLevel(%q) level = %d, want %d", tt.line, level, tt.wantLevel)
		}
		if level > 0 && title != tt.wantTitle {
			t.Errorf("headerLevel(%q) title = %q, want %q", tt.line, title, tt.wantTitle)
		}
	}
}
