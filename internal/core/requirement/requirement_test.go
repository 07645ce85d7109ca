package requirement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		content string
		want    []Request
	}{
		{
			name:    "markdown is a single requirement",
			ext:     ".md",
			content: "# Login\nUsers log in with e-mail.",
			want:    []Request{{Requirement: "# Login\nUsers log in with e-mail."}},
		},
		{
			name:    "json object",
			ext:     ".json",
			content: `{"requirement":"Password reset","model":"llama3.2"}`,
			want:    []Request{{Requirement: "Password reset", Model: "llama3.2"}},
		},
		{
			name:    "json list",
			ext:     ".JSON",
			content: `[{"requirement":"A"},{"requirement":"B","model":"m"}]`,
			want:    []Request{{Requirement: "A"}, {Requirement: "B", Model: "m"}},
		},
		{
			name:    "yaml object",
			ext:     ".yaml",
			content: "requirement: Checkout with coupon\nmodel: gemma3:1b\n",
			want:    []Request{{Requirement: "Checkout with coupon", Model: "gemma3:1b"}},
		},
		{
			name:    "yaml list",
			ext:     ".yml",
			content: "- requirement: A\n- requirement: B\n",
			want:    []Request{{Requirement: "A"}, {Requirement: "B"}},
		},
		{
			name:    "jsonl skips blank lines",
			ext:     ".jsonl",
			content: "{\"requirement\":\"A\"}\n\n{\"requirement\":\"B\"}\n",
			want:    []Request{{Requirement: "A"}, {Requirement: "B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.content), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		content string
		errText string
	}{
		{"unsupported extension", ".pdf", "x", "unsupported file format"},
		{"blank text", ".txt", "   \n", "requirement 1 is empty"},
		{"empty json", ".json", "", "no requirements found"},
		{"invalid json", ".json", "{", "failed to parse"},
		{"bad jsonl line", ".jsonl", "{\"requirement\":\"A\"}\nnope\n", "line 2"},
		{"missing field", ".jsonl", "{\"model\":\"m\"}\n", "requirement 1 is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), tt.ext)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reqs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"requirement\":\"Sign up\"}\n"), 0o644))

	reqs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Request{{Requirement: "Sign up"}}, reqs)

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
