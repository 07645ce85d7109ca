package cli

import (
	"github.com/Octrafic/testgen-cli/internal/core/suite"
	"github.com/charmbracelet/lipgloss"
)

// Logo contains the ASCII art for the application
const Logo = `░▀█▀░█▀▀░█▀▀░▀█▀░█▀▀░█▀▀░█▀█
░░█░░█▀▀░▀▀█░░█░░█░█░█▀▀░█░█
░░▀░░▀▀▀░▀▀▀░░▀░░▀▀▀░▀▀▀░▀░▀`

// Theme defines the Sky Blue color palette for the entire application
var Theme = struct {
	Primary       lipgloss.Color // Sky Blue 400 #38BDF8
	PrimaryDark   lipgloss.Color // Sky Blue 500 #0EA5E9
	PrimaryStrong lipgloss.Color // Sky Blue 500 #0EA5E9
	Cyan          lipgloss.Color // Cyan 400 #22D3EE

	Success lipgloss.Color // Emerald 400 #34D399
	Error   lipgloss.Color // Rose 400 #FB7185
	Warning lipgloss.Color // Amber 400 #FBBF24

	Text       lipgloss.Color // Slate 50 #F8FAFC
	TextMuted  lipgloss.Color // Slate 300 #CBD5E1
	TextSubtle lipgloss.Color // Slate 400 #94A3B8
	Gray       lipgloss.Color // Slate 500 #64748B

	BgDark     lipgloss.Color // Slate 950 #020617
	BgElevated lipgloss.Color // Slate 800 #1E293B
	BgCode     lipgloss.Color // Slate 800 #1E293B

	BorderSubtle  lipgloss.Color // Slate 700 #334155
	BorderDefault lipgloss.Color // Slate 600 #475569
	BorderBright  lipgloss.Color // Sky Blue 500 #0EA5E9

	Blue   lipgloss.Color // Blue 400 #60A5FA
	Indigo lipgloss.Color // Indigo 400 #818CF8
	Violet lipgloss.Color // Violet 400 #A78BFA

	LogoGradient []string
}{
	Primary:       lipgloss.Color("#38BDF8"),
	PrimaryDark:   lipgloss.Color("#0EA5E9"),
	PrimaryStrong: lipgloss.Color("#0EA5E9"),
	Cyan:          lipgloss.Color("#22D3EE"),

	Success: lipgloss.Color("#34D399"),
	Error:   lipgloss.Color("#FB7185"),
	Warning: lipgloss.Color("#FBBF24"),

	Text:       lipgloss.Color("#F8FAFC"),
	TextMuted:  lipgloss.Color("#CBD5E1"),
	TextSubtle: lipgloss.Color("#94A3B8"),
	Gray:       lipgloss.Color("#64748B"),

	BgDark:     lipgloss.Color("#020617"),
	BgElevated: lipgloss.Color("#1E293B"),
	BgCode:     lipgloss.Color("#1E293B"),

	BorderSubtle:  lipgloss.Color("#334155"),
	BorderDefault: lipgloss.Color("#475569"),
	BorderBright:  lipgloss.Color("#0EA5E9"),

	Blue:   lipgloss.Color("#60A5FA"),
	Indigo: lipgloss.Color("#818CF8"),
	Violet: lipgloss.Color("#A78BFA"),

	LogoGradient: []string{
		"#0EA5E9", // Sky Blue 500
		"#38BDF8", // Sky Blue 400
		"#7DD3FC", // Sky Blue 300
	},
}

// priorityBadge renders the priority text on a background matching its level
func priorityBadge(c suite.TestCase) string {
	label := c.Priority
	if label == "" {
		label = "n/a"
	}

	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch c.Level() {
	case suite.PriorityHigh:
		style = style.Background(Theme.Error).Foreground(Theme.BgDark)
	case suite.PriorityMedium:
		style = style.Background(Theme.Warning).Foreground(Theme.BgDark)
	case suite.PriorityLow:
		style = style.Background(Theme.Success).Foreground(Theme.BgDark)
	default:
		style = style.Background(Theme.BgElevated).Foreground(Theme.TextMuted)
	}
	return style.Render(label)
}

// renderLogo styles the logo with gradient colors; empty blocks (░) get a dark color
func renderLogo() []string {
	var lines []string
	for i, line := range splitLines(Logo) {
		var styled string
		for _, char := range line {
			if char == '░' {
				styled += lipgloss.NewStyle().Foreground(Theme.BorderSubtle).Render(string(char))
			} else {
				color := Theme.LogoGradient[i%len(Theme.LogoGradient)]
				styled += lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(string(char))
			}
		}
		lines = append(lines, styled)
	}
	return lines
}
