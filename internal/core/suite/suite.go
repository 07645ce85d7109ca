package suite

import (
	"strings"
)

// TestSuite is a named collection of generated test cases for one requirement
type TestSuite struct {
	SuiteName string     `json:"suite_name" yaml:"suite_name" jsonschema:"title=Suite name"`
	Cases     []TestCase `json:"cases" yaml:"cases"`
}

// TestCase is one structured test scenario
type TestCase struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Preconditions  string   `json:"preconditions" yaml:"preconditions"`
	Steps          []string `json:"steps" yaml:"steps"`
	ExpectedResult string   `json:"expected_result" yaml:"expected_result"`
	Priority       string   `json:"priority" yaml:"priority" jsonschema:"example=High,example=Medium,example=Low"`
}

// PriorityLevel is the badge class of a free-form priority string
type PriorityLevel int

const (
	PriorityUnknown PriorityLevel = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

func (p PriorityLevel) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Level classifies the case priority by substring, so "P1 - High" still reads as high
func (c TestCase) Level() PriorityLevel {
	p := strings.ToLower(c.Priority)
	switch {
	case strings.Contains(p, "high"), strings.Contains(p, "critical"):
		return PriorityHigh
	case strings.Contains(p, "medium"):
		return PriorityMedium
	case strings.Contains(p, "low"):
		return PriorityLow
	default:
		return PriorityUnknown
	}
}

// Len returns the number of cases, treating a nil suite as empty
func (s *TestSuite) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Cases)
}
