package suite

import (
	"strings"
	"testing"
)

func TestPriorityLevel(t *testing.T) {
	tests := map[string]PriorityLevel{
		"High":         PriorityHigh,
		"P1 - HIGH":    PriorityHigh,
		"Critical":     PriorityHigh,
		"Medium":       PriorityMedium,
		"low":          PriorityLow,
		"":             PriorityUnknown,
		"Nice to have": PriorityUnknown,
	}

	for priority, expected := range tests {
		got := TestCase{Priority: priority}.Level()
		if got != expected {
			t.Errorf("priority %q: expected %s, got %s", priority, expected, got)
		}
	}
}

func TestLenNilSuite(t *testing.T) {
	var s *TestSuite
	if s.Len() != 0 {
		t.Errorf("expected 0, got %d", s.Len())
	}
}

func TestSchemaDescribesWireFields(t *testing.T) {
	out, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON failed: %v", err)
	}

	for _, field := range []string{"suite_name", "cases", "expected_result", "preconditions", "steps", "priority"} {
		if !strings.Contains(out, `"`+field+`"`) {
			t.Errorf("schema is missing field %q", field)
		}
	}

	schema := Schema()
	if schema.Title != "TestSuite" {
		t.Errorf("expected title TestSuite, got %q", schema.Title)
	}
	if _, ok := schema.Properties.Get("cases"); !ok {
		t.Error("expected cases property")
	}
}
