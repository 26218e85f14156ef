// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/snelldock/snelldock/internal/deploy"
	"github.com/snelldock/snelldock/internal/i18n"
)

type actionState int

const (
	actionStateConfirming actionState = iota
	actionStateRunning
	actionStateDone
)

// actionSpec describes one lifecycle action: the text it shows and the work
// it performs once confirmed. run returns the localized success message.
type actionSpec struct {
	icon         string
	titleKey     string
	confirmTitle string
	question     string
	yesLabel     string
	runningKey   string
	run          func(ctx context.Context) (string, error)
}

// actionDoneMsg is sent when the action's run function finishes.
type actionDoneMsg struct {
	result string
	err    error
}

// actionModel drives a single lifecycle action through a confirmation modal,
// a running state and a result screen.
type actionModel struct {
	spec          actionSpec
	state         actionState
	confirmCursor int // 0 = No, 1 = Yes
	spinner       spinner.Model
	result        string
	err           error
	width, height int
}

func newActionModel(spec actionSpec) *actionModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)
	return &actionModel{spec: spec, state: actionStateConfirming, confirmCursor: 0, spinner: s}
}

func (m *actionModel) Init() tea.Cmd {
	return nil
}

func (m *actionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	// Handle the confirmation modal.
	if m.state == actionStateConfirming {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "q", "esc":
				return m, func() tea.Msg { return backToMenuMsg{} }
			case "right", "tab", "l":
				m.confirmCursor = 1 // Yes
				return m, nil
			case "left", "shift+tab", "h":
				m.confirmCursor = 0 // No
				return m, nil
			case "enter":
				if m.confirmCursor == 0 { // "No" is selected
					return m, func() tea.Msg { return backToMenuMsg{} }
				}
				m.state = actionStateRunning
				return m, tea.Batch(runActionCmd(m.spec.run), m.spinner.Tick)
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			// Allow leaving from the result screen, never mid-action.
			if m.state != actionStateRunning {
				return m, func() tea.Msg { return backToMenuMsg{} }
			}
		}
	case spinner.TickMsg:
		if m.state == actionStateRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case actionDoneMsg:
		m.state = actionStateDone
		m.result = msg.result
		m.err = msg.err
	}
	return m, nil
}

func (m *actionModel) viewConfirmation() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.spec.confirmTitle))
	b.WriteString("\n\n")
	b.WriteString(specialStyle.Render(m.spec.question))
	b.WriteString("\n\n")

	var yesButton, noButton string
	if m.confirmCursor == 1 { // Yes
		yesButton = activeButtonStyle.Render(m.spec.yesLabel)
		noButton = buttonStyle.Render(i18n.T("install.no_cancel"))
	} else { // No
		yesButton = buttonStyle.Render(m.spec.yesLabel)
		noButton = activeButtonStyle.Render(i18n.T("install.no_cancel"))
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, noButton, "  ", yesButton)
	b.WriteString(buttons)

	b.WriteString("\n" + helpStyle.Render(i18n.T("action.help_modal")))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Left, lipgloss.Center,
		dialogBoxStyle.Render(b.String()),
	)
}

func (m *actionModel) View() string {
	if m.state == actionStateConfirming {
		return m.viewConfirmation()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.spec.icon + " " + i18n.T(m.spec.titleKey)))
	b.WriteString("\n\n")

	switch m.state {
	case actionStateRunning:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(specialStyle.Render(i18n.T(m.spec.runningKey)))
	case actionStateDone:
		if m.err != nil {
			if errors.Is(m.err, deploy.ErrNotInstalled) {
				b.WriteString(specialStyle.Render(i18n.T("common.not_installed")))
			} else {
				b.WriteString(errorStyle.Render(m.err.Error()))
			}
		} else {
			b.WriteString(successStyle.Render(m.result))
		}
		b.WriteString("\n\n" + helpStyle.Render(i18n.T("action.help_done")))
	}

	return b.String()
}

// runActionCmd is a tea.Cmd that performs the lifecycle action.
func runActionCmd(run func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		result, err := run(context.Background())
		return actionDoneMsg{result: result, err: err}
	}
}

// installSpec builds the action view for a fresh install. When a deployment
// already exists the modal warns that its credentials will be replaced.
func installSpec(mgr *deploy.Manager) actionSpec {
	question := i18n.T("install.confirm_question")
	yes := i18n.T("install.yes")
	if installed, err := mgr.Installed(); err == nil && installed {
		question = i18n.T("install.reinstall_question")
		yes = i18n.T("install.reinstall_yes")
	}
	return actionSpec{
		icon:         "📦",
		titleKey:     "install.title",
		confirmTitle: i18n.T("install.confirm_title"),
		question:     question,
		yesLabel:     yes,
		runningKey:   "install.running",
		run: func(ctx context.Context) (string, error) {
			d, err := mgr.Install(ctx)
			if err != nil {
				return "", err
			}
			return i18n.T("install.done", d.Port), nil
		},
	}
}

func updateSpec(mgr *deploy.Manager) actionSpec {
	return actionSpec{
		icon:         "⬆️",
		titleKey:     "update.title",
		confirmTitle: i18n.T("update.confirm_title"),
		question:     i18n.T("update.confirm_question"),
		yesLabel:     i18n.T("update.yes"),
		runningKey:   "update.running",
		run: func(ctx context.Context) (string, error) {
			d, err := mgr.Update(ctx)
			if err != nil {
				return "", err
			}
			return i18n.T("update.done", d.Version), nil
		},
	}
}

func restartSpec(mgr *deploy.Manager) actionSpec {
	return actionSpec{
		icon:         "🔄",
		titleKey:     "restart.title",
		confirmTitle: i18n.T("restart.confirm_title"),
		question:     i18n.T("restart.confirm_question"),
		yesLabel:     i18n.T("restart.yes"),
		runningKey:   "restart.running",
		run: func(ctx context.Context) (string, error) {
			if err := mgr.Restart(ctx); err != nil {
				return "", err
			}
			return i18n.T("restart.done"), nil
		},
	}
}

func removeSpec(mgr *deploy.Manager) actionSpec {
	return actionSpec{
		icon:         "🗑",
		titleKey:     "remove.title",
		confirmTitle: i18n.T("remove.confirm_title"),
		question:     i18n.T("remove.confirm_question"),
		yesLabel:     i18n.T("remove.yes"),
		runningKey:   "remove.running",
		run: func(ctx context.Context) (string, error) {
			if err := mgr.Remove(ctx); err != nil {
				return "", err
			}
			return i18n.T("remove.done"), nil
		},
	}
}
