package cli

import (
	"context"
	"strings"

	"github.com/Octrafic/testgen-cli/internal/core/backend"
	"github.com/Octrafic/testgen-cli/internal/infra/logger"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshResults()
		return m, nil

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case modelsLoadedMsg:
		m.handleModelsLoaded(msg)
		return m, nil

	case generateResultMsg:
		m.handleGenerateResult(msg)
		return m, nil

	case exportResultMsg:
		if msg.err != nil {
			logger.Error("CSV export failed", logger.Err(msg.err))
			m.setStatus("Export failed: "+msg.err.Error(), true)
		} else {
			logger.Info("CSV exported", logger.String("path", msg.path))
			m.setStatus("Exported to "+msg.path, false)
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			logger.Warn("Clipboard copy failed", logger.Err(msg.err))
			m.setStatus("Copy failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("Suite JSON copied to clipboard", false)
		}
		return m, nil

	case animationTickMsg:
		if m.loading {
			m.animationFrame = (m.animationFrame + 1) % 1000
			m.refreshResults()
			return m, animationTick()
		}
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *AppModel) handleModelsLoaded(msg modelsLoadedMsg) {
	m.modelsLoading = false

	if msg.err != nil {
		logger.Error("Failed to fetch models", logger.Err(msg.err))
		// The last selection (or the backend default) stays so submits still work
		m.models = []string{}
		m.modelWarning = ""
		m.errorMsg = connectivityError
		m.refreshResults()
		return
	}

	m.models = msg.list.Models
	m.modelWarning = msg.list.Warning
	switch {
	case m.modelChosen && backend.ContainsModel(m.models, m.selectedModel):
		// keep the user's pick
	case len(m.models) == 0:
		m.selectedModel = backend.DefaultModel
	default:
		m.selectedModel = backend.PreferredModel(m.models, m.opts.PreferMarker)
	}
	if m.errorMsg == connectivityError {
		m.errorMsg = ""
	}
	logger.Info("Models loaded", logger.Int("count", len(m.models)), logger.String("selected", m.selectedModel))
	m.refreshResults()
}

func (m *AppModel) handleGenerateResult(msg generateResultMsg) {
	m.loading = false
	if m.cancelGenerate != nil {
		m.cancelGenerate()
		m.cancelGenerate = nil
	}

	if msg.err != nil {
		m.testSuite = nil
		if detail, ok := backend.ErrorDetail(msg.err); ok {
			m.errorMsg = detail
		} else {
			m.errorMsg = generationError
		}
		logger.Warn("Generation failed", logger.Err(msg.err))
	} else {
		m.testSuite = msg.suite
		m.errorMsg = ""
		m.expandedCases = map[string]bool{}
		m.caseCursor = 0
		m.viewport.GotoTop()
	}
	m.refreshResults()
}

// submit sends the requirement unless it is blank or a request is already running
func (m AppModel) submit() (AppModel, tea.Cmd) {
	if m.loading || strings.TrimSpace(m.requirement.Value()) == "" {
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.loading = true
	m.cancelGenerate = cancel
	m.testSuite = nil
	m.errorMsg = ""
	m.statusMsg = ""
	m.animationFrame = 0
	m.refreshResults()

	req := backend.GenerateRequest{
		Requirement: m.requirement.Value(),
		Model:       m.selectedModel,
	}
	return m, tea.Batch(animationTick(), generateCmd(ctx, m.backend, req))
}

// toggleExpand flips the expansion of one case, copying the map so earlier
// model values keep their own state
func (m *AppModel) toggleExpand(id string) {
	next := make(map[string]bool, len(m.expandedCases)+1)
	for k, v := range m.expandedCases {
		next[k] = v
	}
	next[id] = !next[id]
	m.expandedCases = next
	m.refreshResults()
}

func (m *AppModel) setTab(tab ResultTab) {
	if m.activeTab == tab {
		return
	}
	m.activeTab = tab
	m.viewport.GotoTop()
	m.refreshResults()
}

func (m *AppModel) setStatus(text string, isError bool) {
	m.statusMsg = text
	m.statusIsError = isError
}

func (m *AppModel) setFocus(f Focus) {
	m.focus = f
	if f == FocusInput {
		m.requirement.Focus()
	} else {
		m.requirement.Blur()
	}
	m.refreshResults()
}

func (m *AppModel) cycleFocus(step int) {
	order := []Focus{FocusInput, FocusSidebar}
	if m.testSuite != nil {
		order = append(order, FocusResults)
	}

	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + step + len(order)) % len(order)
	m.setFocus(order[idx])
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.cancelGenerate != nil {
			m.cancelGenerate()
		}
		return m, tea.Quit
	case "tab":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil
	}

	switch m.focus {
	case FocusSidebar:
		return m.handleSidebarKey(msg)
	case FocusResults:
		return m.handleResultsKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m AppModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The form is disabled while a request is in flight
	if m.loading {
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		return m.submit()
	}

	var cmd tea.Cmd
	m.requirement, cmd = m.requirement.Update(msg)
	return m, cmd
}

func (m AppModel) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveModelSelection(-1)
	case "down", "j":
		m.moveModelSelection(1)
	case "r":
		if !m.modelsLoading {
			m.modelsLoading = true
			return m, m.fetchModels()
		}
	}
	return m, nil
}

func (m *AppModel) moveModelSelection(step int) {
	if len(m.models) == 0 {
		return
	}
	idx := 0
	for i, model := range m.models {
		if model == m.selectedModel {
			idx = i
			break
		}
	}
	idx += step
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.models) {
		idx = len(m.models) - 1
	}
	m.selectedModel = m.models[idx]
	m.modelChosen = true
}

func (m AppModel) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.testSuite == nil {
		return m, nil
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "t", "left", "right":
		if m.activeTab == TabVisual {
			m.setTab(TabJSON)
		} else {
			m.setTab(TabVisual)
		}
	case "v":
		m.setTab(TabVisual)
	case "o":
		m.setTab(TabJSON)
	case "e":
		return m, exportCmd(m.testSuite, m.opts.ExportDir)
	case "y":
		return m, copyCmd(m.testSuite, m.opts.Clipboard)
	case "up", "k":
		if m.activeTab == TabJSON {
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.caseCursor > 0 {
			m.caseCursor--
			m.refreshResults()
		}
	case "down", "j":
		if m.activeTab == TabJSON {
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.caseCursor < len(m.testSuite.Cases)-1 {
			m.caseCursor++
			m.refreshResults()
		}
	case "enter", " ", "space":
		if m.activeTab == TabVisual && m.caseCursor < len(m.testSuite.Cases) {
			m.toggleExpand(m.testSuite.Cases[m.caseCursor].ID)
		}
	case "pgup", "pgdown", "ctrl+u", "ctrl+d", "home", "end":
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}
