package chunk

import (
	"strings"
	"testing"
)

func TestApproxCounter_Count(t *testing.T) {
	counter := ApproxCounter{}

	tests := []struct {
		text string
		want int
	}{
		{text: "", want: 0},
		{text: "abcd", want: 1},
		{text: "abcde", want: 2},
		{text: strings.Repeat("x", 400), want: 100},
	}

	for _, tt := range tests {
		if got := counter.Count(tt.text); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestApproxCounter_Tail(t *testing.T) {
	counter := ApproxCounter{}

	short := "tiny"
	if got := counter.Tail(short, 10); got != short {
		t.Errorf("Tail() should return short text unchanged, got %q", got)
	}

	long := strings.Repeat("abcdefgh", 20) // 160 runes
	tail := counter.Tail(long, 10)
	if len(tail) != 40 {
		t.Errorf("Tail() length = %d, want 40", len(tail))
	}
	if !strings.HasSuffix(long, tail) {
		t.Errorf("Tail() must be a suffix of the input")
	}

	if got := counter.Tail(long, 0); got != "" {
		t.Errorf("Tail(_, 0) = %q, want empty", got)
	}
}
