package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// generateGradientText creates a fill animation where colors fill the text letter by letter
func generateGradientText(text string, frame int) string {
	colors := []lipgloss.Color{
		Theme.PrimaryDark,
		Theme.Primary,
		Theme.Indigo,
	}

	textLength := len([]rune(text))
	if textLength == 0 {
		return text
	}

	currentColorIndex := (frame / textLength) % len(colors)
	fillProgress := frame % textLength
	previousColorIndex := (currentColorIndex - 1 + len(colors)) % len(colors)

	current := lipgloss.NewStyle().Foreground(colors[currentColorIndex]).Bold(true)
	previous := lipgloss.NewStyle().Foreground(colors[previousColorIndex]).Bold(true)

	result := ""
	i := 0
	for _, char := range text {
		if i <= fillProgress {
			result += current.Render(string(char))
		} else {
			result += previous.Render(string(char))
		}
		i++
	}

	return result
}

// animationTick sends a tick message for animation
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}
