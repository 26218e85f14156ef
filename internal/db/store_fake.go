// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"fmt"
	"os/user"
	"time"

	"github.com/snelldock/snelldock/internal/model"
)

// FakeStore is an in-memory Store for tests. It mirrors the transactional
// semantics of the real stores closely enough for the manager and UI layers.
type FakeStore struct {
	Deployments []model.Deployment
	Entries     []model.AuditLogEntry
	FailWith    error // when set, every method returns this error

	nextID int
}

// NewFakeStore returns an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{nextID: 1}
}

func (f *FakeStore) GetActiveDeployment() (*model.Deployment, error) {
	if f.FailWith != nil {
		return nil, f.FailWith
	}
	for i := range f.Deployments {
		if f.Deployments[i].IsActive {
			d := f.Deployments[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (f *FakeStore) CreateDeployment(d model.Deployment) (int, error) {
	if f.FailWith != nil {
		return 0, f.FailWith
	}
	for i := range f.Deployments {
		f.Deployments[i].IsActive = false
	}
	d.ID = f.nextID
	f.nextID++
	d.IsActive = true
	now := time.Now().UTC().Format(time.RFC3339)
	d.CreatedAt = now
	d.UpdatedAt = now
	f.Deployments = append(f.Deployments, d)
	_ = f.LogAction("INSTALL", fmt.Sprintf("deployment %s on port %d (snell v%s)", d.PublicID, d.Port, d.Version))
	return d.ID, nil
}

func (f *FakeStore) UpdateDeployment(d model.Deployment) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	for i := range f.Deployments {
		if f.Deployments[i].ID == d.ID {
			upd := d
			upd.CreatedAt = f.Deployments[i].CreatedAt
			upd.IsActive = f.Deployments[i].IsActive
			upd.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			f.Deployments[i] = upd
			_ = f.LogAction("UPDATE", fmt.Sprintf("deployment %s now snell v%s", d.PublicID, d.Version))
			return nil
		}
	}
	return fmt.Errorf("no deployment with id %d", d.ID)
}

func (f *FakeStore) DeactivateDeployment(id int) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	for i := range f.Deployments {
		if f.Deployments[i].ID == id {
			f.Deployments[i].IsActive = false
			_ = f.LogAction("REMOVE", fmt.Sprintf("deployment id %d", id))
			return nil
		}
	}
	return fmt.Errorf("no deployment with id %d", id)
}

func (f *FakeStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	if f.FailWith != nil {
		return nil, f.FailWith
	}
	out := make([]model.AuditLogEntry, len(f.Entries))
	for i := range f.Entries {
		out[i] = f.Entries[len(f.Entries)-1-i]
	}
	return out, nil
}

func (f *FakeStore) RecentAuditLogEntries(limit int) ([]model.AuditLogEntry, error) {
	all, err := f.GetAllAuditLogEntries()
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *FakeStore) LogAction(action, details string) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	username := "unknown"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	f.Entries = append(f.Entries, model.AuditLogEntry{
		ID:        len(f.Entries) + 1,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Username:  username,
		Action:    action,
		Details:   details,
	})
	return nil
}
