package cli

import (
	"fmt"
	"strings"

	"github.com/Octrafic/testgen-cli/internal/core/suite"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

func (m *AppModel) resize() {
	w := m.mainWidth()
	m.viewport.Width = w
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
	// border, padding and the prompt icon
	m.requirement.Width = w - 6
}

// refreshResults re-renders the results panel into the viewport and keeps the
// selected card on screen
func (m *AppModel) refreshResults() {
	content, offsets := m.renderResults()
	m.viewport.SetContent(content)

	if m.testSuite == nil || m.activeTab != TabVisual || m.caseCursor >= len(offsets) {
		return
	}
	top := offsets[m.caseCursor]
	if top < m.viewport.YOffset {
		m.viewport.SetYOffset(top)
	} else if bottom := m.viewport.YOffset + m.viewport.Height - 3; top > bottom {
		m.viewport.SetYOffset(top - m.viewport.Height + 3)
	}
}

// renderResults builds the results panel and returns the line each case card starts on
func (m *AppModel) renderResults() (string, []int) {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder

	if m.errorMsg != "" {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Theme.Error).
			Foreground(Theme.Error).
			Padding(0, 1).
			Width(width - 2).
			Render("✗ " + wordwrap.String(m.errorMsg, width-8))
		b.WriteString(box + "\n\n")
	}

	switch {
	case m.loading:
		b.WriteString("\n" + generateGradientText("Analyzing Requirements...", m.animationFrame) + "\n")
		model := m.selectedModel
		if model == "" {
			model = "The model"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(Theme.TextSubtle).Render(model+" is thinking...") + "\n")
		return b.String(), nil

	case m.testSuite != nil:
		return m.renderSuite(&b, width)

	case m.errorMsg == "":
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(Theme.Primary).Bold(true).Render("Ready to Generate") + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(Theme.TextSubtle).Render(
			wordwrap.String("Describe a feature above and press enter. The generated test cases will appear here.", width)) + "\n")
	}

	return b.String(), nil
}

func (m *AppModel) renderSuite(b *strings.Builder, width int) (string, []int) {
	s := m.testSuite

	b.WriteString(lipgloss.NewStyle().Foreground(Theme.Text).Bold(true).Render(s.SuiteName) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(Theme.TextSubtle).Render(
		fmt.Sprintf("%d test cases generated", s.Len())) + "\n")
	b.WriteString(m.renderTabs() + "\n\n")

	if m.activeTab == TabJSON {
		out, err := s.JSON()
		if err != nil {
			out = err.Error()
		}
		b.WriteString(lipgloss.NewStyle().Foreground(Theme.TextMuted).Render(out))
		return b.String(), nil
	}

	offsets := make([]int, 0, len(s.Cases))
	for i, c := range s.Cases {
		offsets = append(offsets, strings.Count(b.String(), "\n"))
		b.WriteString(m.renderCard(c, i == m.caseCursor, width) + "\n")
	}
	return b.String(), offsets
}

func (m *AppModel) renderTabs() string {
	active := lipgloss.NewStyle().Foreground(Theme.BgDark).Background(Theme.Primary).Bold(true).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(Theme.TextSubtle).Padding(0, 1)

	visual, raw := inactive.Render("Visual"), inactive.Render("JSON")
	if m.activeTab == TabVisual {
		visual = active.Render("Visual")
	} else {
		raw = active.Render("JSON")
	}
	return visual + " " + raw
}

func (m *AppModel) renderCard(c suite.TestCase, selected bool, width int) string {
	arrow := "▸"
	expanded := m.expandedCases[c.ID]
	if expanded {
		arrow = "▾"
	}

	id := lipgloss.NewStyle().Foreground(Theme.Cyan).Bold(true).Render(c.ID)
	titleWidth := width - lipgloss.Width(c.ID) - lipgloss.Width(c.Priority) - 12
	title := lipgloss.NewStyle().Foreground(Theme.Text).Render(truncate(c.Title, titleWidth))
	header := fmt.Sprintf("%s %s  %s %s", arrow, id, title, priorityBadge(c))

	var body strings.Builder
	body.WriteString(header)

	if expanded {
		inner := width - 6
		label := lipgloss.NewStyle().Foreground(Theme.Primary).Bold(true)
		text := lipgloss.NewStyle().Foreground(Theme.TextMuted)

		section := func(name, value string) {
			body.WriteString("\n\n" + label.Render(name) + "\n")
			body.WriteString(text.Render(wordwrap.String(value, inner)))
		}

		section("Description", c.Description)
		section("Preconditions", c.Preconditions)

		body.WriteString("\n\n" + label.Render("Steps"))
		for i, step := range c.Steps {
			body.WriteString("\n" + text.Render(wordwrap.String(fmt.Sprintf("%d. %s", i+1, step), inner)))
		}

		section("Expected Result", c.ExpectedResult)
	}

	border := Theme.BorderSubtle
	if selected && m.focus == FocusResults {
		border = Theme.BorderBright
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width - 2).
		Render(body.String())
}
