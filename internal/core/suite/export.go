package suite

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// StepDelimiter joins the steps of a case into a single CSV cell
const StepDelimiter = "; "

// CSVHeader lists the fixed export columns in order
var CSVHeader = []string{"ID", "Title", "Description", "Preconditions", "Steps", "Expected Result", "Priority"}

var (
	whitespaceRun = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}\x{2028}\x{2029}]+`)
	pathSeparator = regexp.MustCompile(`[/\\]`)
)

// Records builds the CSV table: the header row followed by one row per case
func (s *TestSuite) Records() [][]string {
	records := make([][]string, 0, s.Len()+1)
	records = append(records, append([]string(nil), CSVHeader...))
	if s == nil {
		return records
	}

	for _, c := range s.Cases {
		records = append(records, []string{
			c.ID,
			c.Title,
			c.Description,
			c.Preconditions,
			strings.Join(c.Steps, StepDelimiter),
			c.ExpectedResult,
			c.Priority,
		})
	}
	return records
}

// WriteCSV writes the suite as CSV. Fields containing commas, quotes or
// newlines are quoted.
func (s *TestSuite) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(s.Records()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CSV returns the CSV export as bytes
func (s *TestSuite) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVFilename returns test_suite_<name>.csv with every whitespace run,
// leading and trailing ones included, replaced by "_"
func (s *TestSuite) CSVFilename() string {
	name := ""
	if s != nil {
		name = s.SuiteName
	}
	if strings.TrimSpace(name) == "" {
		name = "untitled"
	}
	name = whitespaceRun.ReplaceAllString(name, "_")
	name = pathSeparator.ReplaceAllString(name, "_")
	return "test_suite_" + name + ".csv"
}

// JSON returns the suite pretty-printed with two-space indentation
// without HTML escaping, so text such as "a < b & c" is kept as written
func (s *TestSuite) JSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("failed to marshal suite: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// YAML returns the suite as a YAML document
func (s *TestSuite) YAML() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal suite: %w", err)
	}
	return string(data), nil
}
