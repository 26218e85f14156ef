// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/snelldock/snelldock/internal/deploy"
	"github.com/snelldock/snelldock/internal/i18n"
)

func testSpec(run func(ctx context.Context) (string, error)) actionSpec {
	return actionSpec{
		icon:         "📦",
		titleKey:     "install.title",
		confirmTitle: i18n.T("install.confirm_title"),
		question:     i18n.T("install.confirm_question"),
		yesLabel:     i18n.T("install.yes"),
		runningKey:   "install.running",
		run:          run,
	}
}

func TestActionConfirmDefaultsToNo(t *testing.T) {
	i18n.Init("en")
	m := newActionModel(testSpec(nil))
	if m.confirmCursor != 0 {
		t.Fatalf("confirm cursor = %d, want 0 (No)", m.confirmCursor)
	}

	// Enter on "No" goes back to the menu without running anything.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*actionModel)
	if cmd == nil {
		t.Fatal("expected a back command")
	}
	if _, ok := cmd().(backToMenuMsg); !ok {
		t.Error("expected backToMenuMsg when declining")
	}
	if m.state != actionStateConfirming {
		t.Errorf("state = %v, want confirming", m.state)
	}
}

func TestActionConfirmCursorMovement(t *testing.T) {
	i18n.Init("en")
	m := newActionModel(testSpec(nil))

	updated, _ := m.Update(keyMsg("l"))
	m = updated.(*actionModel)
	if m.confirmCursor != 1 {
		t.Errorf("cursor = %d after l, want 1 (Yes)", m.confirmCursor)
	}

	updated, _ = m.Update(keyMsg("h"))
	m = updated.(*actionModel)
	if m.confirmCursor != 0 {
		t.Errorf("cursor = %d after h, want 0 (No)", m.confirmCursor)
	}
}

func TestActionRunsOnConfirm(t *testing.T) {
	i18n.Init("en")
	ran := false
	m := newActionModel(testSpec(func(context.Context) (string, error) {
		ran = true
		return "done", nil
	}))

	updated, _ := m.Update(keyMsg("l"))
	m = updated.(*actionModel)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*actionModel)
	if m.state != actionStateRunning {
		t.Fatalf("state = %v, want running", m.state)
	}
	if cmd == nil {
		t.Fatal("expected a run command")
	}

	// The batch contains the run command and the spinner tick; execute it.
	msg := cmd()
	var done *actionDoneMsg
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if d, ok := c().(actionDoneMsg); ok {
				done = &d
			}
		}
	} else if d, ok := msg.(actionDoneMsg); ok {
		done = &d
	}
	if done == nil {
		t.Fatal("expected an actionDoneMsg")
	}
	if !ran {
		t.Error("run function was not invoked")
	}

	updated, _ = m.Update(*done)
	m = updated.(*actionModel)
	if m.state != actionStateDone {
		t.Errorf("state = %v, want done", m.state)
	}
	if !strings.Contains(m.View(), "done") {
		t.Errorf("result view missing success message: %q", m.View())
	}
}

func TestActionErrorView(t *testing.T) {
	i18n.Init("en")
	m := newActionModel(testSpec(nil))
	m.state = actionStateRunning

	updated, _ := m.Update(actionDoneMsg{err: errors.New("build broke")})
	m = updated.(*actionModel)
	if m.state != actionStateDone {
		t.Fatalf("state = %v, want done", m.state)
	}
	if !strings.Contains(m.View(), "build broke") {
		t.Errorf("error view missing error text: %q", m.View())
	}
}

func TestActionNotInstalledView(t *testing.T) {
	i18n.Init("en")
	m := newActionModel(testSpec(nil))
	m.state = actionStateRunning

	updated, _ := m.Update(actionDoneMsg{err: deploy.ErrNotInstalled})
	m = updated.(*actionModel)
	if !strings.Contains(m.View(), i18n.T("common.not_installed")) {
		t.Errorf("expected a friendly not-installed message, got: %q", m.View())
	}
}

func TestActionCannotLeaveWhileRunning(t *testing.T) {
	i18n.Init("en")
	m := newActionModel(testSpec(nil))
	m.state = actionStateRunning

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		if _, ok := cmd().(backToMenuMsg); ok {
			t.Error("esc must not leave the view mid-action")
		}
	}
}

func TestActionDoneEscReturns(t *testing.T) {
	i18n.Init("en")
	m := newActionModel(testSpec(nil))
	m.state = actionStateDone

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a back command")
	}
	if _, ok := cmd().(backToMenuMsg); !ok {
		t.Error("expected backToMenuMsg from the result screen")
	}
}
