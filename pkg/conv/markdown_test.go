package conv

import (
	"strings"
	"testing"
)

func TestMarkdownToText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{
			name:     "plain text",
			input:    "Hello world",
			contains: "Hello world",
		},
		{
			name:     "bold stripped",
			input:    "**bold**",
			contains: "bold",
		},
		{
			name:     "inline code stripped",
			input:    "run `go test` now",
			contains: "go test",
		},
		{
			name:     "list flattened",
			input:    "- one\n- two",
			contains: "two",
		},
		{
			name:     "script removed",
			input:    "<script>alert('x')</script>ok",
			contains: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToText([]byte(tt.input))
			if !strings.Contains(got, tt.contains) {
				t.Errorf("MarkdownToText(%q) = %q, want substring %q", tt.input, got, tt.contains)
			}
			if strings.Contains(got, "<") && strings.Contains(got, ">") && strings.Contains(got, "strong") {
				t.Errorf("MarkdownToText(%q) leaked markup: %q", tt.input, got)
			}
		})
	}
}

func TestMarkdownToText_ScriptContentDropped(t *testing.T) {
	got := MarkdownToText([]byte("<script>alert('xss')</script>"))
	if strings.Contains(got, "alert") {
		t.Errorf("script content leaked: %q", got)
	}
}
