package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Octrafic/testgen-cli/internal/core/backend"
	"github.com/Octrafic/testgen-cli/internal/core/suite"
	"github.com/Octrafic/testgen-cli/internal/infra/logger"
	"github.com/Octrafic/testgen-cli/internal/infra/storage"
	"github.com/atotto/clipboard"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// Focus is the pane receiving key presses
type Focus int

const (
	FocusInput Focus = iota
	FocusSidebar
	FocusResults
)

// ResultTab selects how the suite is shown
type ResultTab int

const (
	TabVisual ResultTab = iota
	TabJSON
)

const (
	connectivityError = "Could not connect to backend server. Make sure it's running."
	generationError   = "An error occurred during generation."

	sidebarWidth = 34
)

// Backend is the part of the generation service the UI depends on
type Backend interface {
	ListModels(ctx context.Context) (*backend.ModelList, error)
	Generate(ctx context.Context, req backend.GenerateRequest) (*suite.TestSuite, error)
}

// Options configures the UI
type Options struct {
	ServerURL     string
	PreferMarker  string
	ExportDir     string
	Version       string
	LatestVersion string
	// Clipboard receives copied text; nil uses the system clipboard
	Clipboard func(string) error
}

type modelsLoadedMsg struct {
	list *backend.ModelList
	err  error
}

type generateResultMsg struct {
	suite *suite.TestSuite
	err   error
}

type exportResultMsg struct {
	path string
	err  error
}

type copyResultMsg struct {
	err error
}

type animationTickMsg time.Time

// AppModel holds all UI state of the generator screen
type AppModel struct {
	backend Backend
	opts    Options

	// Sidebar
	models        []string
	selectedModel string
	modelChosen   bool
	modelsLoading bool
	modelWarning  string

	// Input
	requirement textinput.Model

	// Generation
	loading        bool
	cancelGenerate context.CancelFunc
	testSuite      *suite.TestSuite
	errorMsg       string

	// Results
	activeTab     ResultTab
	expandedCases map[string]bool
	caseCursor    int
	viewport      viewport.Model

	focus         Focus
	statusMsg     string
	statusIsError bool

	spinner        spinner.Model
	animationFrame int

	width  int
	height int
}

func NewAppModel(b Backend, opts Options) AppModel {
	if opts.PreferMarker == "" {
		opts.PreferMarker = backend.DefaultPreferMarker
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Placeholder = "What feature are we testing today? (e.g., 'User Registration with E-mail verification')"
	ti.Prompt = ""
	ti.CharLimit = 2000
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(Theme.Warning)

	m := AppModel{
		backend:       b,
		opts:          opts,
		models:        []string{},
		selectedModel: backend.DefaultModel,
		modelsLoading: true,
		requirement:   ti,
		expandedCases: map[string]bool{},
		viewport:      vp,
		focus:         FocusInput,
		spinner:       s,
	}
	m.refreshResults()
	return m
}

// Init starts model discovery
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, tea.SetWindowTitle("TestGen"), m.fetchModels())
}

func (m AppModel) fetchModels() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		list, err := b.ListModels(context.Background())
		return modelsLoadedMsg{list: list, err: err}
	}
}

func generateCmd(ctx context.Context, b Backend, req backend.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		logger.Debug("Submitting requirement", logger.String("model", req.Model), logger.Int("length", len(req.Requirement)))
		s, err := b.Generate(ctx, req)
		return generateResultMsg{suite: s, err: err}
	}
}

func exportCmd(s *suite.TestSuite, dir string) tea.Cmd {
	return func() tea.Msg {
		data, err := s.CSV()
		if err != nil {
			return exportResultMsg{err: err}
		}
		path, err := storage.WriteExport(dir, s.CSVFilename(), data)
		return exportResultMsg{path: path, err: err}
	}
}

func copyCmd(s *suite.TestSuite, write func(string) error) tea.Cmd {
	return func() tea.Msg {
		out, err := s.JSON()
		if err != nil {
			return copyResultMsg{err: err}
		}
		return copyResultMsg{err: write(out)}
	}
}

// Loading reports whether a generation request is in flight
func (m AppModel) Loading() bool { return m.loading }

// Suite returns the displayed suite, nil when none
func (m AppModel) Suite() *suite.TestSuite { return m.testSuite }

// Error returns the error shown above the results
func (m AppModel) Error() string { return m.errorMsg }

// Models returns the selectable model identifiers
func (m AppModel) Models() []string { return m.models }

// SelectedModel returns the model sent with the next generation
func (m AppModel) SelectedModel() string { return m.selectedModel }

// Online reports whether the backend answered with at least one model
func (m AppModel) Online() bool { return len(m.models) > 0 }

// Expanded reports whether the case card with the given id is open
func (m AppModel) Expanded(id string) bool { return m.expandedCases[id] }

// ActiveTab returns the selected result view
func (m AppModel) ActiveTab() ResultTab { return m.activeTab }

// View renders the sidebar next to the main panel
func (m AppModel) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderMain())
}

func (m AppModel) renderSidebar() string {
	var s strings.Builder
	inner := sidebarWidth - 3

	for _, line := range renderLogo() {
		s.WriteString(line + "\n")
	}
	tagline := "AI test case generator"
	if m.opts.Version != "" {
		tagline += " · " + m.opts.Version
	}
	s.WriteString(lipgloss.NewStyle().Foreground(Theme.TextSubtle).Render(tagline) + "\n\n")

	label := lipgloss.NewStyle().Foreground(Theme.Primary).Bold(true)
	if m.focus == FocusSidebar {
		label = label.Underline(true)
	}
	s.WriteString(label.Render("⚙ Configuration") + "\n")

	switch {
	case m.modelsLoading && len(m.models) == 0:
		s.WriteString(m.spinner.View() + " Loading models...\n")
	case len(m.models) == 0:
		s.WriteString(lipgloss.NewStyle().Foreground(Theme.TextSubtle).Render("  (no models)") + "\n")
	default:
		for _, model := range m.models {
			name := truncate(model, inner-2)
			if model == m.selectedModel {
				style := lipgloss.NewStyle().Foreground(Theme.PrimaryStrong).Bold(true)
				if m.focus == FocusSidebar {
					style = style.Background(Theme.BgElevated)
				}
				s.WriteString(style.Render("▶ "+name) + "\n")
			} else {
				s.WriteString(lipgloss.NewStyle().Foreground(Theme.TextMuted).Render("  "+name) + "\n")
			}
		}
	}
	s.WriteString("\n")

	s.WriteString(lipgloss.NewStyle().Foreground(Theme.Primary).Bold(true).Render("ⓘ Instructions") + "\n")
	subtle := lipgloss.NewStyle().Foreground(Theme.TextSubtle)
	for _, step := range []string{
		"Enter feature requirements",
		"Select your model (tab, ↑/↓)",
		"Generate the test suite",
		"Export to CSV or copy JSON",
	} {
		s.WriteString(subtle.Render("• "+step) + "\n")
	}
	s.WriteString("\n")

	if m.Online() {
		s.WriteString(lipgloss.NewStyle().Foreground(Theme.Success).Render("●") + " System Online\n")
	} else {
		s.WriteString(lipgloss.NewStyle().Foreground(Theme.Error).Render("●") + " System Offline\n")
	}
	if m.opts.ServerURL != "" {
		s.WriteString(subtle.Render(truncate(m.opts.ServerURL, inner)) + "\n")
	}
	if m.modelWarning != "" {
		warn := wordwrap.String("⚠ "+m.modelWarning, inner)
		s.WriteString(lipgloss.NewStyle().Foreground(Theme.Warning).Render(warn) + "\n")
	}

	style := lipgloss.NewStyle().
		Width(sidebarWidth-1).
		PaddingLeft(1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Theme.BorderSubtle)
	if m.height > 0 {
		style = style.Height(m.height)
	}
	return style.Render(s.String())
}

func (m AppModel) renderMain() string {
	var s strings.Builder

	s.WriteString(lipgloss.NewStyle().Foreground(Theme.Text).Bold(true).Render("Test Case Generator") + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(Theme.TextSubtle).Render("Convert requirements into structured QA test suites.") + "\n")

	border := Theme.BorderDefault
	if m.focus == FocusInput {
		border = Theme.BorderBright
	}
	icon := lipgloss.NewStyle().Foreground(Theme.Primary).Render("›")
	if m.loading {
		icon = m.spinner.View()
	}
	inputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(m.mainWidth() - 2).
		Render(icon + " " + m.requirement.View())
	s.WriteString(inputBox + "\n")

	s.WriteString(m.viewport.View() + "\n")

	if m.statusMsg != "" {
		color := Theme.Success
		if m.statusIsError {
			color = Theme.Error
		}
		s.WriteString(lipgloss.NewStyle().Foreground(color).Render(truncate(m.statusMsg, m.mainWidth())) + "\n")
	} else {
		s.WriteString("\n")
	}

	help := m.helpText()
	if m.opts.LatestVersion != "" {
		help += fmt.Sprintf(" • v%s available", m.opts.LatestVersion)
	}
	s.WriteString(lipgloss.NewStyle().Foreground(Theme.TextSubtle).Render(truncate(help, m.mainWidth())))

	return lipgloss.NewStyle().PaddingLeft(1).Render(s.String())
}

func (m AppModel) helpText() string {
	switch m.focus {
	case FocusSidebar:
		return "↑/↓ select model • r refresh • tab next • ctrl+c quit"
	case FocusResults:
		if m.activeTab == TabJSON {
			return "t visual • ↑/↓ scroll • e export CSV • y copy JSON • tab next • ctrl+c quit"
		}
		return "↑/↓ move • enter expand • t JSON • e export CSV • y copy JSON • tab next • ctrl+c quit"
	default:
		if m.loading {
			return "Generating... • ctrl+c quit"
		}
		return "enter generate • tab next • ctrl+c quit"
	}
}

func (m AppModel) mainWidth() int {
	if m.width == 0 {
		return 80
	}
	w := m.width - sidebarWidth - 2
	if w < 20 {
		w = 20
	}
	return w
}

// Start runs the generator screen until the user quits
func Start(b Backend, opts Options) error {
	p := tea.NewProgram(NewAppModel(b, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(AppModel); ok && m.cancelGenerate != nil {
		m.cancelGenerate()
	}
	return nil
}
