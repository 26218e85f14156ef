// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/snelldock/snelldock/internal/db"
	"github.com/snelldock/snelldock/internal/deploy"
	"github.com/snelldock/snelldock/internal/engine"
	"github.com/snelldock/snelldock/internal/i18n"
	"github.com/snelldock/snelldock/internal/model"
)

func newTestMainModel(t *testing.T) (mainModel, *db.FakeStore) {
	t.Helper()
	i18n.Init("en")
	store := db.NewFakeStore()
	db.SetStore(store)
	mgr := deploy.NewManager(deploy.Settings{WorkDir: t.TempDir(), Version: "5.0.0"}, engine.NewFake(), store)
	return initialModel(mgr), store
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuNavigation(t *testing.T) {
	m, _ := newTestMainModel(t)

	if len(m.menu.choices) != 8 {
		t.Fatalf("expected 8 menu entries, got %d", len(m.menu.choices))
	}

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(mainModel)
	if m.menu.cursor != 1 {
		t.Errorf("cursor = %d after j, want 1", m.menu.cursor)
	}

	updated, _ = m.Update(keyMsg("k"))
	m = updated.(mainModel)
	if m.menu.cursor != 0 {
		t.Errorf("cursor = %d after k, want 0", m.menu.cursor)
	}

	// Cursor does not move past the ends.
	updated, _ = m.Update(keyMsg("k"))
	m = updated.(mainModel)
	if m.menu.cursor != 0 {
		t.Errorf("cursor = %d at top, want 0", m.menu.cursor)
	}
}

func TestMenuEnterOpensActionViews(t *testing.T) {
	cases := []struct {
		cursor int
		want   viewState
	}{
		{0, installView},
		{1, updateView},
		{2, restartView},
		{3, removeView},
		{5, auditLogView},
		{6, languageView},
	}
	for _, tc := range cases {
		m, _ := newTestMainModel(t)
		m.menu.cursor = tc.cursor
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(mainModel)
		if m.state != tc.want {
			t.Errorf("cursor %d: state = %v, want %v", tc.cursor, m.state, tc.want)
		}
		if v := m.View(); v == "" {
			t.Errorf("cursor %d: empty view", tc.cursor)
		}
	}
}

func TestMenuExitQuits(t *testing.T) {
	m, _ := newTestMainModel(t)
	m.menu.cursor = len(m.menu.choices) - 1
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("expected a quit message")
	}
}

func TestBackToMenuRefreshesDashboard(t *testing.T) {
	m, _ := newTestMainModel(t)
	m.menu.cursor = 2
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(mainModel)
	if m.state != restartView {
		t.Fatalf("state = %v, want restartView", m.state)
	}

	updated, cmd := m.Update(backToMenuMsg{})
	m = updated.(mainModel)
	if m.state != menuView {
		t.Errorf("state = %v after back, want menuView", m.state)
	}
	if cmd == nil {
		t.Error("expected a dashboard refresh command")
	}
}

func TestDashboardView(t *testing.T) {
	m, store := newTestMainModel(t)
	m.width = 120
	m.height = 40

	// Not installed yet.
	data := refreshDashboardCmd(m.mgr)().(dashboardDataMsg)
	updated, _ := m.Update(data)
	m = updated.(mainModel)
	view := m.View()
	if !strings.Contains(view, i18n.T("dashboard.not_installed")) {
		t.Error("dashboard should report no deployment")
	}

	// With a deployment and audit entries.
	if _, err := store.CreateDeployment(model.Deployment{PublicID: "abc123def456", Port: 34567, PSK: "k", Version: "5.0.0"}); err != nil {
		t.Fatal(err)
	}
	data = refreshDashboardCmd(m.mgr)().(dashboardDataMsg)
	if data.data.deployment == nil {
		t.Fatal("expected an active deployment in dashboard data")
	}
	if len(data.data.recentLogs) == 0 {
		t.Fatal("expected recent audit entries in dashboard data")
	}
	updated, _ = m.Update(data)
	m = updated.(mainModel)
	view = m.View()
	if !strings.Contains(view, "abc123def456") {
		t.Error("dashboard should show the deployment id")
	}
	if !strings.Contains(view, "34567") {
		t.Error("dashboard should show the port")
	}
}

func TestLanguageView(t *testing.T) {
	m, _ := newTestMainModel(t)
	m.state = languageView
	m.language = newLanguageModel()

	if len(m.language.orderedKeys) < 2 {
		t.Fatalf("expected at least two locales, got %v", m.language.orderedKeys)
	}
	if v := m.language.View(); v == "" {
		t.Fatal("empty language view")
	}

	// esc goes back to the menu.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(mainModel)
	if m.state != menuView {
		t.Errorf("state = %v after esc, want menuView", m.state)
	}
}

func TestLanguageSelectionSavesConfig(t *testing.T) {
	m, _ := newTestMainModel(t)
	m.state = languageView
	m.language = newLanguageModel()

	saved := false
	orig := configSaver
	configSaver = configSaverFunc(func() error { saved = true; return nil })
	defer func() { configSaver = orig }()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !saved {
		t.Error("expected the config to be saved")
	}
	if cmd == nil {
		t.Fatal("expected a language changed command")
	}
	if _, ok := cmd().(languageChangedMsg); !ok {
		t.Error("expected a languageChangedMsg")
	}

	i18n.SetLang("en")
}

func TestStateLine(t *testing.T) {
	i18n.Init("en")
	for _, state := range []model.ContainerState{model.StateRunning, model.StateStopped, model.StateAbsent, model.StateUnknown} {
		if stateLine(state) == "" {
			t.Errorf("empty state line for %v", state)
		}
	}
}

func TestAlignFooter(t *testing.T) {
	out := AlignFooter("left", "right", 20)
	if len(out) != 20 {
		t.Errorf("aligned footer length = %d, want 20", len(out))
	}
	if !strings.HasPrefix(out, "left") || !strings.HasSuffix(out, "right") {
		t.Errorf("unexpected footer layout: %q", out)
	}
}
