// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Snelldock.
// This file, tui.go, is the main entry point for the TUI, containing the
// top-level model that acts as a router to all other sub-views.
package tui // import "github.com/snelldock/snelldock/internal/tui"

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/snelldock/snelldock/internal/config"
	"github.com/snelldock/snelldock/internal/db"
	"github.com/snelldock/snelldock/internal/deploy"
	"github.com/snelldock/snelldock/internal/i18n"
	"github.com/snelldock/snelldock/internal/logging"
	"github.com/snelldock/snelldock/internal/model"
	"github.com/spf13/viper"
)

// viewState represents which part of the UI is currently active.
type viewState int

const (
	// menuView is the main dashboard and navigation menu.
	menuView viewState = iota
	installView
	updateView
	restartView
	removeView
	infoView
	auditLogView
	languageView
)

// backToMenuMsg signals that the active sub-view wants to return to the menu.
type backToMenuMsg struct{}

// dashboardDataMsg is a message containing the data for the main menu dashboard.
type dashboardDataMsg struct {
	data dashboardData
}

// languageChangedMsg is a message to signal that the language has changed and the UI should be re-initialized.
type languageChangedMsg struct{}

// dashboardData holds the summary information for the main menu view.
type dashboardData struct {
	state      model.ContainerState
	deployment *model.Deployment
	recentLogs []model.AuditLogEntry
	err        error
}

// mainModel is the top-level model for the TUI. It acts as a state machine
// and router, delegating updates and view rendering to the currently active sub-model.
type mainModel struct {
	state     viewState
	menu      menuModel
	action    *actionModel
	info      *infoModel
	auditLog  *auditLogModel
	language  languageModel
	dashboard dashboardData
	width     int
	height    int
	err       error
	mgr       *deploy.Manager
}

// menuModel holds the state for the main menu.
type menuModel struct {
	choices []string // The menu items to show.
	cursor  int      // Which menu item our cursor is pointing at.
}

// languageModel holds the state for the language selection menu.
type languageModel struct {
	choices     map[string]string // map of lang code to display name
	orderedKeys []string          // for stable iteration
	cursor      int
}

// initialModel creates the starting state of the TUI, beginning at the main menu.
func initialModel(mgr *deploy.Manager) mainModel {
	return mainModel{
		state: menuView,
		menu: menuModel{
			choices: []string{
				i18n.T("menu.install"),
				i18n.T("menu.update"),
				i18n.T("menu.restart"),
				i18n.T("menu.remove"),
				i18n.T("menu.show_info"),
				i18n.T("menu.view_audit_log"),
				i18n.T("menu.language"),
				i18n.T("menu.exit"),
			},
		},
		mgr: mgr,
	}
}

// Init is the first function that will be called by the Bubble Tea runtime.
// It kicks off the initial command to load data for the dashboard.
func (m mainModel) Init() tea.Cmd {
	return refreshDashboardCmd(m.mgr)
}

// Update is the main message loop. It handles all events (like key presses and
// window size changes) and delegates them to the active sub-model.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings that work everywhere.
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case dashboardDataMsg:
		m.dashboard = msg.data
		if msg.data.err != nil {
			m.err = msg.data.err
		}
		return m, nil

	case languageChangedMsg:
		// The language has changed. Re-initialize the entire model to apply new translations everywhere.
		newModel := initialModel(m.mgr)
		// Preserve the current window dimensions so the layout remains correct.
		newModel.width = m.width
		newModel.height = m.height
		return newModel, newModel.Init()
	}

	// Delegate updates to the currently active view.
	switch m.state {
	case installView, updateView, restartView, removeView:
		// If we received a "back" message, switch the state.
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd(m.mgr)
		}
		var newActionModel tea.Model
		newActionModel, cmd = m.action.Update(msg)
		m.action = newActionModel.(*actionModel)

	case infoView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd(m.mgr)
		}
		var newInfoModel tea.Model
		newInfoModel, cmd = m.info.Update(msg)
		m.info = newInfoModel.(*infoModel)

	case auditLogView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd(m.mgr)
		}
		var newAuditLogModel tea.Model
		newAuditLogModel, cmd = m.auditLog.Update(msg)
		m.auditLog = newAuditLogModel.(*auditLogModel)

	case languageView:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q", "esc":
				m.state = menuView
				return m, refreshDashboardCmd(m.mgr)
			case "up", "k":
				if m.language.cursor > 0 {
					m.language.cursor--
				}
			case "down", "j":
				if m.language.cursor < len(m.language.orderedKeys)-1 {
					m.language.cursor++
				}
			case "enter":
				langCode := m.language.orderedKeys[m.language.cursor]
				i18n.SetLang(langCode)
				viper.Set("language", langCode)
				if err := configSaver.Save(); err != nil {
					m.err = fmt.Errorf("failed to save config: %w", err)
				}

				// Signal that the language has changed so the entire UI can be re-initialized.
				return m, func() tea.Msg { return languageChangedMsg{} }
			}
		}
		var newLangModel tea.Model
		newLangModel, cmd = m.language.Update(msg)
		m.language = newLangModel.(languageModel)

	default: // menuView
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q":
				return m, tea.Quit
			case "up", "k":
				if m.menu.cursor > 0 {
					m.menu.cursor--
				}
			case "down", "j":
				if m.menu.cursor < len(m.menu.choices)-1 {
					m.menu.cursor++
				}
			case "enter":
				switch m.menu.cursor {
				case 0: // Install
					m.state = installView
					m.action = newActionModel(installSpec(m.mgr))
					m.action.width = m.width
					m.action.height = m.height
					return m, nil
				case 1: // Update
					m.state = updateView
					m.action = newActionModel(updateSpec(m.mgr))
					m.action.width = m.width
					m.action.height = m.height
					return m, nil
				case 2: // Restart
					m.state = restartView
					m.action = newActionModel(restartSpec(m.mgr))
					m.action.width = m.width
					m.action.height = m.height
					return m, nil
				case 3: // Remove
					m.state = removeView
					m.action = newActionModel(removeSpec(m.mgr))
					m.action.width = m.width
					m.action.height = m.height
					return m, nil
				case 4: // Show connection info
					m.state = infoView
					m.info = newInfoModel(m.mgr)
					return m, m.info.Init()
				case 5: // View audit log
					m.state = auditLogView
					m.auditLog = newAuditLogModel()
					// Manually update the new sub-model with the current window size
					// to ensure the table is sized correctly.
					var newAuditLogModel tea.Model
					newAuditLogModel, cmd = m.auditLog.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
					m.auditLog = newAuditLogModel.(*auditLogModel)
					return m, cmd
				case 6: // Language
					m.state = languageView
					m.language = newLanguageModel()
					return m, nil
				case 7: // Exit
					return m, tea.Quit
				}
			case "L":
				// "L" opens the language menu from anywhere on the dashboard
				m.state = languageView
				m.language = newLanguageModel()
				return m, nil
			}
		}
	}

	return m, cmd
}

// View renders the TUI. It's called after every Update and delegates rendering
// to the currently active sub-model.
func (m mainModel) View() string {
	if m.err != nil {
		errorViewStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1, 2)
		return errorViewStyle.Render(fmt.Sprintf("An error occurred: %v", m.err))
	}

	switch m.state {
	case installView, updateView, restartView, removeView:
		return m.action.View()
	case infoView:
		return m.info.View()
	case auditLogView:
		return m.auditLog.View()
	case languageView:
		return m.language.View()
	default: // menuView
		return m.menu.View(m.dashboard, m.width, m.height)
	}
}

// formatLabelPadding formats a label/value pair with the label padded to a fixed width.
func formatLabelPadding(label, value string, labelWidth int) string {
	if labelWidth <= 0 || len(label) >= labelWidth {
		return label + " " + value
	}
	return label + strings.Repeat(" ", labelWidth-len(label)) + " " + value
}

// stateLine renders the container state with its status color.
func stateLine(state model.ContainerState) string {
	label := i18n.T("dashboard.state." + string(state))
	switch state {
	case model.StateRunning:
		return successStyle.Render(label)
	case model.StateStopped:
		return specialStyle.Render(label)
	case model.StateAbsent:
		return helpStyle.Render(label)
	default:
		return errorStyle.Render(label)
	}
}

// View renders the main menu and dashboard.
func (m menuModel) View(data dashboardData, width, height int) string {
	// Title (i18n)
	title := mainTitleStyle.Render("🚀 " + i18n.T("dashboard.title"))
	subTitle := helpStyle.Render(i18n.T("dashboard.subtitle"))
	header := lipgloss.JoinVertical(lipgloss.Left, title, subTitle)

	// --- Panes ---
	paneTitleStyle := lipgloss.NewStyle().Bold(true)

	// Menu List (Left Pane)
	var menuItems []string
	menuItems = append(menuItems, paneTitleStyle.Render(i18n.T("menu.navigation")), "")
	for i, choice := range m.choices {
		if m.cursor == i {
			menuItems = append(menuItems, selectedItemStyle.Render("▸ "+choice))
		} else {
			menuItems = append(menuItems, itemStyle.Render("  "+choice))
		}
	}
	menuContent := lipgloss.JoinVertical(lipgloss.Left, menuItems...)

	// Dashboard (Right Pane)
	var dashboardItems []string
	dashboardItems = append(dashboardItems, paneTitleStyle.Render(i18n.T("dashboard.system_status")), "")

	deploymentValue := helpStyle.Render(i18n.T("dashboard.not_installed"))
	portValue := "-"
	versionValue := "-"
	if data.deployment != nil {
		deploymentValue = successStyle.Render(data.deployment.PublicID)
		portValue = fmt.Sprintf("%d", data.deployment.Port)
		versionValue = data.deployment.Version
	}

	statusItems := []struct {
		label string
		value string
	}{
		{i18n.T("dashboard.container"), stateLine(data.state)},
		{i18n.T("dashboard.deployment"), deploymentValue},
		{i18n.T("dashboard.port"), portValue},
		{i18n.T("dashboard.version"), versionValue},
	}

	maxLabelLen := 0
	for _, item := range statusItems {
		if len(item.label) > maxLabelLen {
			maxLabelLen = len(item.label)
		}
	}
	for _, item := range statusItems {
		dashboardItems = append(dashboardItems, formatLabelPadding(item.label, item.value, maxLabelLen))
	}

	// Recent Activity
	dashboardItems = append(dashboardItems, "", "", paneTitleStyle.Render(i18n.T("dashboard.recent_activity")), "")

	// --- Layout ---
	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	headerHeight := lipgloss.Height(header)
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	footerHeight := lipgloss.Height(footerStyle.Render(""))
	paneHeight := height - headerHeight - footerHeight - 2

	menuWidth := 32
	dashboardWidth := width - 4 - menuWidth - 2

	if len(data.recentLogs) == 0 {
		dashboardItems = append(dashboardItems, helpStyle.Render(i18n.T("dashboard.no_recent_activity")))
	} else {
		for _, log := range data.recentLogs {
			ts := log.Timestamp
			if len(ts) >= 16 {
				ts = ts[5:16] // MM-DD HH:MM
			}

			innerDashboardWidth := dashboardWidth - 4 - 2
			availableWidth := innerDashboardWidth - len(ts) - 1

			styledAction := auditActionStyle(log.Action).Render(log.Action)
			detailsWidth := availableWidth - len(log.Action) - 1
			if detailsWidth < 10 {
				detailsWidth = 10
			}
			details := log.Details
			if len(details) > detailsWidth {
				details = details[:detailsWidth-3] + "..."
			}

			logLine := lipgloss.JoinHorizontal(lipgloss.Left,
				helpStyle.Render(ts), " ", styledAction, " ", helpStyle.Render(details))
			dashboardItems = append(dashboardItems, logLine)
		}
	}
	dashboardContent := lipgloss.JoinVertical(lipgloss.Left, dashboardItems...)

	leftPane := paneStyle.Width(menuWidth).Height(paneHeight).Render(menuContent)
	rightPane := paneStyle.Width(dashboardWidth).Height(paneHeight).MarginLeft(2).Render(dashboardContent)

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	footer := footerStyle.Render(AlignFooter(i18n.T("dashboard.footer"), "", width))

	return lipgloss.JoinVertical(lipgloss.Top, header, mainArea, footer)
}

// newLanguageModel creates a new model for the language selection view.
func newLanguageModel() languageModel {
	// Get the dynamically discovered locales from the i18n package.
	choices := i18n.GetAvailableLocales()

	// Create a sorted list of keys for stable iteration and display order.
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return languageModel{
		choices:     choices,
		orderedKeys: keys,
		cursor:      0,
	}
}

// Init for languageModel.
func (m languageModel) Init() tea.Cmd { return nil }

// Update for languageModel.
func (m languageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

// View for languageModel.
func (m languageModel) View() string {
	title := mainTitleStyle.Render("🌐 " + i18n.T("menu.language"))

	var listItems []string
	listItems = append(listItems, titleStyle.Render(i18n.T("language.select")), "")

	for i, langCode := range m.orderedKeys {
		displayName := m.choices[langCode]
		if m.cursor == i {
			listItems = append(listItems, selectedItemStyle.Render("▸ "+displayName))
		} else {
			listItems = append(listItems, itemStyle.Render("  "+displayName))
		}
	}

	paneStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2)
	listPane := paneStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, listItems...))

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	helpLine := footerStyle.Render(AlignFooter(i18n.T("language.help"), "", 60))

	return lipgloss.JoinVertical(lipgloss.Left, title, "", listPane, "", helpLine)
}

// configSaver persists configuration changes made from the TUI. It is a
// package variable so tests can avoid touching the user's config file.
var configSaver interface{ Save() error } = configSaverFunc(config.Save)

type configSaverFunc func() error

func (f configSaverFunc) Save() error { return f() }

// Run is the main entrypoint for the TUI. It initializes and runs the Bubble Tea program.
func Run(mgr *deploy.Manager) {
	if _, err := tea.NewProgram(initialModel(mgr)).Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		os.Exit(1)
	}
}

// refreshDashboardCmd is a tea.Cmd that fetches summary data for the main menu.
func refreshDashboardCmd(mgr *deploy.Manager) tea.Cmd {
	return func() tea.Msg {
		data := dashboardData{state: model.StateUnknown}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if state, err := mgr.Status(ctx); err == nil {
			data.state = state
		}

		deployment, err := db.GetActiveDeployment()
		if err != nil {
			return dashboardDataMsg{data: dashboardData{err: err}}
		}
		data.deployment = deployment

		recent, err := db.RecentAuditLogEntries(8)
		if err != nil {
			return dashboardDataMsg{data: dashboardData{err: err}}
		}
		data.recentLogs = recent

		return dashboardDataMsg{data: data}
	}
}
