package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Octrafic/testgen-cli/internal/core/suite"
	"github.com/fatih/color"
)

// Output formats accepted by PrintSuite
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgBlue, color.Bold)
	idColor      = color.New(color.FgCyan)
	subtleColor  = color.New(color.FgHiBlack)
)

// PrintSuite writes s to w in the requested format
func PrintSuite(w io.Writer, s *suite.TestSuite, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		out, err := s.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	case FormatYAML:
		out, err := s.YAML()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, out)
		return err
	case FormatHuman, "":
		return printHuman(w, s)
	default:
		return fmt.Errorf("unknown format %q (want human, json or yaml)", format)
	}
}

// errWriter remembers the first write error and drops later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func printHuman(out io.Writer, s *suite.TestSuite) error {
	w := &errWriter{w: out}
	headingColor.Fprintln(w, s.SuiteName)
	subtleColor.Fprintf(w, "%d test cases generated\n", s.Len())

	for _, c := range s.Cases {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s  %s  %s\n", idColor.Sprint(c.ID), c.Title, priorityColor(c).Sprintf("[%s]", c.Priority))

		labelColor.Fprint(w, "  Description: ")
		fmt.Fprintln(w, c.Description)
		labelColor.Fprint(w, "  Preconditions: ")
		fmt.Fprintln(w, c.Preconditions)
		labelColor.Fprintln(w, "  Steps:")
		for i, step := range c.Steps {
			fmt.Fprintf(w, "    %d. %s\n", i+1, step)
		}
		labelColor.Fprint(w, "  Expected Result: ")
		fmt.Fprintln(w, c.ExpectedResult)
	}
	return w.err
}

func priorityColor(c suite.TestCase) *color.Color {
	switch c.Level() {
	case suite.PriorityHigh:
		return color.New(color.FgRed, color.Bold)
	case suite.PriorityMedium:
		return color.New(color.FgYellow)
	case suite.PriorityLow:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

// PrintModels lists the available models and marks the one preferred by default
func PrintModels(w io.Writer, models []string, preferred string) {
	if len(models) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No models available")
		return
	}
	for _, m := range models {
		if m == preferred {
			color.New(color.FgGreen, color.Bold).Fprintf(w, "▶ %s (default)\n", m)
			continue
		}
		fmt.Fprintf(w, "  %s\n", m)
	}
}
