package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Octrafic/testgen-cli/internal/core/suite"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func withoutColor(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func TestPrintSuiteHuman(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer

	require.NoError(t, PrintSuite(&buf, sampleSuite("Registration"), FormatHuman))

	out := buf.String()
	assert.Contains(t, out, "Registration\n2 test cases generated\n")
	assert.Contains(t, out, "TC-001  Register with valid e-mail  [High]")
	assert.Contains(t, out, "  Preconditions: No account exists\n")
	assert.Contains(t, out, "    2. Fill form, submit\n")
	assert.Contains(t, out, "  Expected Result: Error \"already registered\" shown\n")
}

type failingWriter struct {
	writes int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, errors.New("broken pipe")
}

func TestPrintSuiteHumanReportsWriteError(t *testing.T) {
	withoutColor(t)
	w := &failingWriter{}

	err := PrintSuite(w, sampleSuite("Registration"), FormatHuman)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.Equal(t, 1, w.writes)
}

func TestPrintSuiteJSON(t *testing.T) {
	var buf bytes.Buffer
	want := sampleSuite("Registration")

	require.NoError(t, PrintSuite(&buf, want, "JSON"))

	var got suite.TestSuite
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *want, got)
}

func TestPrintSuiteYAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, PrintSuite(&buf, sampleSuite("Registration"), FormatYAML))

	var got suite.TestSuite
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Registration", got.SuiteName)
	assert.Len(t, got.Cases, 2)
}

func TestPrintSuiteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := PrintSuite(&buf, sampleSuite("x"), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
	assert.Empty(t, buf.String())
}

func TestPrintModels(t *testing.T) {
	withoutColor(t)

	t.Run("marks the preferred model", func(t *testing.T) {
		var buf bytes.Buffer
		PrintModels(&buf, []string{"gemma3:1b", "llama3.2"}, "llama3.2")
		assert.Equal(t, "  gemma3:1b\n▶ llama3.2 (default)\n", buf.String())
	})

	t.Run("reports an empty list", func(t *testing.T) {
		var buf bytes.Buffer
		PrintModels(&buf, nil, "")
		assert.Equal(t, "No models available\n", buf.String())
	})
}
