// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/snelldock/snelldock/internal/deploy"
	"github.com/snelldock/snelldock/internal/i18n"
	"github.com/snelldock/snelldock/internal/model"
	"github.com/snelldock/snelldock/internal/snell"
	"github.com/snelldock/snelldock/internal/sysinfo"
)

// clipboardWriteAll is swappable in tests to avoid touching the system clipboard.
var clipboardWriteAll = clipboard.WriteAll

// infoDataMsg carries the loaded connection info.
type infoDataMsg struct {
	deployment *model.Deployment
	cfg        snell.ServerConfig
	clientLine string
	err        error
}

// infoModel shows the connection details of the active deployment and offers
// a clipboard copy of the client config line.
type infoModel struct {
	mgr    *deploy.Manager
	data   infoDataMsg
	loaded bool
	status string
}

func newInfoModel(mgr *deploy.Manager) *infoModel {
	return &infoModel{mgr: mgr}
}

func (m *infoModel) Init() tea.Cmd {
	return loadInfoCmd(m.mgr)
}

// loadInfoCmd reads the deployment record and on-disk config, and resolves
// the host's public IP for the client line. IP discovery is best effort.
func loadInfoCmd(mgr *deploy.Manager) tea.Cmd {
	return func() tea.Msg {
		d, cfg, err := mgr.Info()
		if err != nil {
			return infoDataMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		host, err := sysinfo.PublicIP(ctx)
		if err != nil || host == "" {
			host = "<server-ip>"
		}

		return infoDataMsg{
			deployment: d,
			cfg:        cfg,
			clientLine: snell.ClientLine("snelldock", host, cfg, d.Version),
		}
	}
}

func (m *infoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case infoDataMsg:
		m.data = msg
		m.loaded = true
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		case "c":
			if m.loaded && m.data.err == nil {
				if err := clipboardWriteAll(m.data.clientLine); err != nil {
					m.status = errorStyle.Render(i18n.T("info.copy_failed", err))
				} else {
					m.status = successStyle.Render(i18n.T("info.copied"))
				}
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *infoModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🔌 " + i18n.T("info.title")))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(helpStyle.Render("..."))
		return b.String()
	}
	if m.data.err != nil {
		if errors.Is(m.data.err, deploy.ErrNotInstalled) {
			b.WriteString(specialStyle.Render(i18n.T("common.not_installed")))
		} else {
			b.WriteString(errorStyle.Render(m.data.err.Error()))
		}
		b.WriteString("\n\n" + helpStyle.Render(i18n.T("action.help_done")))
		return b.String()
	}

	items := []struct {
		label string
		value string
	}{
		{i18n.T("info.listen"), m.data.cfg.Listen()},
		{i18n.T("info.psk"), m.data.cfg.PSK},
		{i18n.T("info.version"), m.data.deployment.Version},
		{i18n.T("info.ipv6"), fmt.Sprintf("%t", m.data.cfg.IPv6)},
	}
	maxLabelLen := 0
	for _, item := range items {
		if len(item.label) > maxLabelLen {
			maxLabelLen = len(item.label)
		}
	}
	for _, item := range items {
		b.WriteString(formatLabelPadding(item.label, item.value, maxLabelLen))
		b.WriteString("\n")
	}

	var box strings.Builder
	box.WriteString(lipgloss.NewStyle().Foreground(colorSpecial).Bold(true).Render(i18n.T("info.client_line")))
	box.WriteString("\n\n")
	box.WriteString(lipgloss.NewStyle().Background(lipgloss.Color("235")).Padding(0, 1).Render(m.data.clientLine))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSpecial).Padding(1).Render(box.String()))

	if m.status != "" {
		b.WriteString("\n\n" + m.status)
	}
	b.WriteString("\n\n" + helpStyle.Render(i18n.T("info.help")))
	return b.String()
}
