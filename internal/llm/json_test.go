package llm

import "testing"

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "Bare object",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
			ok:       true,
		},
		{
			name:     "Object with surrounding prose",
			input:    "Here is the result:\n{\"a\": 1}\nHope that helps!",
			expected: `{"a": 1}`,
			ok:       true,
		},
		{
			name:     "Markdown fenced",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
			ok:       true,
		},
		{
			name:  "No object at all",
			input: "I could not find any jobs in the provided text.",
			ok:    false,
		},
		{
			name:     "Nested braces kept intact",
			input:    `{"outer": {"inner": 2}}`,
			expected: `{"outer": {"inner": 2}}`,
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractObject(tt.input)
			if ok != tt.ok {
				t.Fatalf("ExtractObject(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ExtractObject(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "Bare array",
			input:    `[{"title": "PM"}]`,
			expected: `[{"title": "PM"}]`,
			ok:       true,
		},
		{
			name:     "Fenced array with prose",
			input:    "Sure!\n```\n[1, 2, 3]\n```",
			expected: "[1, 2, 3]",
			ok:       true,
		},
		{
			name:  "Prose only",
			input: "no structured payload here",
			ok:    false,
		},
		{
			name:  "Mismatched delimiters",
			input: "] oops [",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractArray(tt.input)
			if ok != tt.ok {
				t.Fatalf("ExtractArray(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ExtractArray(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
