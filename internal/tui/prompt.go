// Package tui renders discovery output and hosts the interactive
// phase gate prompt shown between the local and registry scans.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/optrhq/optr/internal/core"
)

// promptModel is the three-way gate shown after the local scan: search the
// registry too, skip it, or abort discovery entirely.
//
// Navigation: left/right/tab/shift+tab move focus between the buttons,
// enter activates the focused one. p/s/a are shortcut accelerators and
// esc/ctrl+c abort.
type promptModel struct {
	message string
	focus   int // index into promptLabels
	choice  core.Decision
	done    bool
}

var promptLabels = [3]string{"Proceed", "Skip registry", "Abort"}

var promptDecisions = [3]core.Decision{
	core.DecisionProceed,
	core.DecisionSkip,
	core.DecisionAbort,
}

func (m promptModel) Init() tea.Cmd { return nil }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, promptProceedKey):
		return m.choose(0)
	case key.Matches(keyMsg, promptSkipKey):
		return m.choose(1)
	case key.Matches(keyMsg, promptAbortKey), key.Matches(keyMsg, promptQuitKey):
		return m.choose(2)
	case key.Matches(keyMsg, promptEnterKey):
		return m.choose(m.focus)
	case key.Matches(keyMsg, promptLeftKey):
		m.focus = (m.focus + len(promptLabels) - 1) % len(promptLabels)
	case key.Matches(keyMsg, promptRightKey):
		m.focus = (m.focus + 1) % len(promptLabels)
	}
	return m, nil
}

func (m promptModel) choose(i int) (tea.Model, tea.Cmd) {
	m.choice = promptDecisions[i]
	m.done = true
	return m, tea.Quit
}

func (m promptModel) View() string {
	if m.done {
		return ""
	}

	question := lipgloss.NewStyle().
		Width(44).
		Align(lipgloss.Center).
		Render(m.message)

	buttons := make([]string, len(promptLabels))
	for i, label := range promptLabels {
		if i == m.focus {
			buttons[i] = promptActiveButtonStyle.Render(label)
		} else {
			buttons[i] = promptButtonStyle.Render(label)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, buttons[0], "  ", buttons[1], "  ", buttons[2])
	help := promptHelpStyle.Render("p proceed · s skip · a abort · ←/→ move · enter select")

	ui := lipgloss.JoinVertical(lipgloss.Center, question, "", row, "", help)
	return promptBoxStyle.Render(ui) + "\n"
}

// AskDecision runs the interactive phase gate and returns the user's
// choice. Any terminal failure maps to abort; discovery must not proceed
// to the network on a broken prompt.
func AskDecision(message string) (core.Decision, error) {
	model := promptModel{message: message}

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return core.DecisionAbort, fmt.Errorf("running prompt: %w", err)
	}

	result, ok := final.(promptModel)
	if !ok || !result.done {
		return core.DecisionAbort, nil
	}
	return result.choice, nil
}

// Key bindings for the phase gate prompt.
var (
	promptProceedKey = key.NewBinding(
		key.WithKeys("p", "P", "y", "Y"),
		key.WithHelp("p", "proceed"),
	)
	promptSkipKey = key.NewBinding(
		key.WithKeys("s", "S", "n", "N"),
		key.WithHelp("s", "skip registry"),
	)
	promptAbortKey = key.NewBinding(
		key.WithKeys("a", "A", "q", "esc"),
		key.WithHelp("a", "abort"),
	)
	promptQuitKey = key.NewBinding(
		key.WithKeys("ctrl+c"),
	)
	promptEnterKey = key.NewBinding(
		key.WithKeys("enter"),
	)
	promptLeftKey = key.NewBinding(
		key.WithKeys("left", "h", "shift+tab"),
	)
	promptRightKey = key.NewBinding(
		key.WithKeys("right", "l", "tab"),
	)
)
